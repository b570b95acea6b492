package router_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/bizdesk/erp/internal/application/catalog"
	financeapp "github.com/bizdesk/erp/internal/application/finance"
	hrapp "github.com/bizdesk/erp/internal/application/hr"
	identityapp "github.com/bizdesk/erp/internal/application/identity"
	integrationapp "github.com/bizdesk/erp/internal/application/integration"
	notificationapp "github.com/bizdesk/erp/internal/application/notification"
	partnerapp "github.com/bizdesk/erp/internal/application/partner"
	reportapp "github.com/bizdesk/erp/internal/application/report"
	servicedeskapp "github.com/bizdesk/erp/internal/application/servicedesk"
	taskapp "github.com/bizdesk/erp/internal/application/task"
	tenancyapp "github.com/bizdesk/erp/internal/application/tenancy"
	tradeapp "github.com/bizdesk/erp/internal/application/trade"
	"github.com/bizdesk/erp/internal/application/upload"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/internal/infrastructure/storage"
	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/bizdesk/erp/internal/interfaces/http/handler"
	"github.com/bizdesk/erp/internal/interfaces/http/router"
	"github.com/bizdesk/erp/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	engine  http.Handler
	tenants *tenancyapp.TenantService
	users   *identityapp.UserService
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	identity.BcryptCost = 4
	log := zap.NewNop()

	db := testutil.NewSQLiteDB(t)
	objects, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	txScope := persistence.NewGormTransactionScope(db)
	userRepo := persistence.NewGormUserRepository(db)
	tenantRepo := persistence.NewGormTenantRepository(db)
	packageRepo := persistence.NewGormPackageRepository(db)
	employeeRepo := persistence.NewGormEmployeeRepository(db)
	transactionRepo := persistence.NewGormTransactionRepository(db)

	webhooks := integrationapp.NewWebhookService(persistence.NewGormWebhookRepository(db), persistence.NewGormDeliveryRepository(db), log)
	notifications := notificationapp.NewNotificationService(persistence.NewGormNotificationRepository(db), log)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "routes-test-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "erp-test",
		MaxRefreshCount:        5,
	})

	tenants := tenancyapp.NewTenantService(tenantRepo, packageRepo, userRepo, txScope, log)
	users := identityapp.NewUserService(userRepo, tenantRepo, packageRepo, blacklist, log)

	engine, stop := router.NewEngine(router.EngineConfig{
		ServiceName:    "erp-test",
		HTTP:           config.HTTPConfig{MaxBodySize: 1 << 20},
		MaxUploadSize:  1 << 20,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	}, router.Handlers{
		System: handler.NewSystemHandler(db, "erp", "test"),
		Auth:   handler.NewAuthHandler(identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, log)),
		User:   handler.NewUserHandler(users),
		Account: handler.NewAccountHandler(partnerapp.NewAccountService(
			persistence.NewGormAccountRepository(db), webhooks, log)),
		Product: handler.NewProductHandler(catalogapp.NewProductService(
			persistence.NewGormProductRepository(db), persistence.NewGormStockMovementRepository(db), txScope, webhooks, notifications, log)),
		Invoice: handler.NewInvoiceHandler(tradeapp.NewInvoiceService(
			persistence.NewGormInvoiceRepository(db), txScope, webhooks, notifications, log)),
		Offer: handler.NewOfferHandler(tradeapp.NewOfferService(
			persistence.NewGormOfferRepository(db), txScope, webhooks, log)),
		SalesReturn: handler.NewSalesReturnHandler(tradeapp.NewSalesReturnService(
			persistence.NewGormSalesReturnRepository(db), txScope, webhooks, log)),
		Finance: handler.NewFinanceHandler(
			financeapp.NewCashRegisterService(persistence.NewGormCashRegisterRepository(db), transactionRepo, log),
			financeapp.NewTransactionService(transactionRepo, txScope, webhooks, log)),
		HR: handler.NewHRHandler(
			hrapp.NewEmployeeService(employeeRepo, log),
			hrapp.NewPayrollService(persistence.NewGormPayrollRepository(db), employeeRepo, txScope, webhooks, notifications, log)),
		Task: handler.NewTaskHandler(taskapp.NewTaskService(
			persistence.NewGormTaskRepository(db), userRepo, webhooks, log)),
		ServiceTicket: handler.NewServiceTicketHandler(servicedeskapp.NewTicketService(
			persistence.NewGormServiceTicketRepository(db), txScope, webhooks, notifications, log)),
		Notification: handler.NewNotificationHandler(notifications),
		Webhook:      handler.NewWebhookHandler(webhooks),
		Report: handler.NewReportHandler(reportapp.NewDashboardService(
			persistence.NewGormDashboardRepository(db), log)),
		Upload: handler.NewUploadHandler(upload.NewService(objects, 1<<20, log)),
		Tenancy: handler.NewTenancyHandler(
			tenancyapp.NewPackageService(packageRepo, log),
			tenants,
			tenancyapp.NewSupportTicketService(persistence.NewGormSupportTicketRepository(db), log),
			tenancyapp.NewPaymentService(persistence.NewGormPaymentRepository(db), packageRepo, txScope, log)),
	})
	t.Cleanup(stop)

	return &apiFixture{engine: engine, tenants: tenants, users: users}
}

// seedTenant creates a tenant with its admin and a staff user restricted to
// products and invoices. Both passwords are "password123".
func (f *apiFixture) seedTenant(t *testing.T, slug string) (adminEmail, staffEmail string) {
	t.Helper()
	ctx := context.Background()

	adminEmail = "admin@" + slug + ".test"
	staffEmail = "staff@" + slug + ".test"
	res, err := f.tenants.Create(ctx, tenancyapp.CreateTenantRequest{
		Name:          "Tenant " + slug,
		Slug:          slug,
		AdminName:     "Admin",
		AdminEmail:    adminEmail,
		AdminPassword: "password123",
	})
	require.NoError(t, err)

	_, err = f.users.Create(ctx, res.Tenant.ID, identityapp.CreateUserRequest{
		Email:    staffEmail,
		Name:     "Staff",
		Password: "password123",
		Role:     string(identity.RoleStaff),
		Modules:  []string{identity.ModuleProducts, identity.ModuleInvoices},
	})
	require.NoError(t, err)
	return adminEmail, staffEmail
}

func (f *apiFixture) login(t *testing.T, email string) map[string]string {
	t.Helper()
	w := testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/auth/login",
		identityapp.LoginRequest{Email: email, Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := testutil.DecodeData[identityapp.LoginResult](t, w)
	require.NotEmpty(t, res.AccessToken)
	return map[string]string{"Authorization": "Bearer " + res.AccessToken}
}

func (f *apiFixture) createProduct(t *testing.T, headers map[string]string, code string, stock int64) string {
	t.Helper()
	qty := decimal.NewFromInt(stock)
	price := decimal.NewFromInt(25)
	w := testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/products", catalogapp.CreateProductRequest{
		Code:      code,
		Name:      "Product " + code,
		SalePrice: &price,
		Stock:     &qty,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product := testutil.DecodeData[struct {
		ID string `json:"id"`
	}](t, w)
	return product.ID
}

func TestEngine_Health(t *testing.T) {
	api := newAPI(t)

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEngine_AuthFlow(t *testing.T) {
	api := newAPI(t)
	_, staff := api.seedTenant(t, "acme")

	t.Run("wrong password", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/auth/login",
			identityapp.LoginRequest{Email: staff, Password: "nope"}, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("missing token", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/auth/me", nil, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("me then logout", func(t *testing.T) {
		headers := api.login(t, staff)

		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/auth/me", nil, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		me := testutil.DecodeData[struct {
			Email string `json:"email"`
		}](t, w)
		assert.Equal(t, staff, me.Email)

		w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/auth/logout", nil, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/auth/me", nil, headers)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
	})
}

func TestEngine_ModuleAndRoleGuards(t *testing.T) {
	api := newAPI(t)
	admin, staff := api.seedTenant(t, "acme")
	staffHeaders := api.login(t, staff)
	adminHeaders := api.login(t, admin)

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		status  int
	}{
		{"staff without accounts module", http.MethodGet, "/api/v1/accounts", staffHeaders, http.StatusForbidden},
		{"staff with products module", http.MethodGet, "/api/v1/products", staffHeaders, http.StatusOK},
		{"admin bypasses module list", http.MethodGet, "/api/v1/accounts", adminHeaders, http.StatusOK},
		{"staff cannot manage users", http.MethodGet, "/api/v1/users", staffHeaders, http.StatusForbidden},
		{"admin manages users", http.MethodGet, "/api/v1/users", adminHeaders, http.StatusOK},
		{"tenant admin is not super-admin", http.MethodGet, "/api/v1/tenants", adminHeaders, http.StatusForbidden},
		{"notifications need no module", http.MethodGet, "/api/v1/notifications", staffHeaders, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(t, api.engine, tt.method, tt.path, nil, tt.headers)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestEngine_TenantIsolation(t *testing.T) {
	api := newAPI(t)
	_, acmeStaff := api.seedTenant(t, "acme")
	_, globexStaff := api.seedTenant(t, "globex")
	acme := api.login(t, acmeStaff)
	globex := api.login(t, globexStaff)

	productID := api.createProduct(t, acme, "P-1", 5)

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID, nil, acme)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID, nil, globex)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = testutil.DoJSON(t, api.engine, http.MethodDelete, "/api/v1/products/"+productID, nil, globex)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	// The X-Tenant-ID header is ignored for tenant users
	headers := map[string]string{"Authorization": globex["Authorization"], "X-Tenant-ID": "00000000-0000-0000-0000-000000000001"}
	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID, nil, headers)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestEngine_InvoiceMovesStock(t *testing.T) {
	api := newAPI(t)
	_, staff := api.seedTenant(t, "acme")
	headers := api.login(t, staff)

	productID := api.createProduct(t, headers, "P-1", 10)

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "sales",
		"items": []map[string]any{
			{"product_id": productID, "description": "Widget", "quantity": "3", "unit_price": "25", "tax_rate": "0", "discount_rate": "0"},
		},
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID, nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	product := testutil.DecodeData[struct {
		Stock decimal.Decimal `json:"stock"`
	}](t, w)
	assert.True(t, product.Stock.Equal(decimal.NewFromInt(7)), "stock = %s", product.Stock)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID+"/stock-movements", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngine_Uploads(t *testing.T) {
	api := newAPI(t)
	acmeAdmin, acmeStaff := api.seedTenant(t, "acme")
	globexAdmin, _ := api.seedTenant(t, "globex")
	admin := api.login(t, acmeAdmin)
	staff := api.login(t, acmeStaff)
	other := api.login(t, globexAdmin)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/logos", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", staff["Authorization"])
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := testutil.DecodeData[upload.Result](t, w)
	assert.Contains(t, res.URL, "/uploads/")
	assert.Contains(t, res.Key, "/logos/")

	t.Run("owner tenant reads the file", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, res.URL, nil, staff)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fake image bytes", w.Body.String())
	})

	t.Run("other tenant gets not found", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, res.URL, nil, other)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("listing requires admin", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/uploads", nil, staff)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/uploads", nil, admin)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("parent traversal is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/uploads?path=../x", nil, admin)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})

	t.Run("missing file field", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/uploads/logos", nil, staff)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEngine_PackagesConsole(t *testing.T) {
	api := newAPI(t)
	admin, _ := api.seedTenant(t, "acme")
	headers := api.login(t, admin)

	newPackage := map[string]any{"name": "Starter", "price": "19.90", "modules": []string{"invoices"}}

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/packages", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/packages", newPackage, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/packages", newPackage, headers)
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
}
