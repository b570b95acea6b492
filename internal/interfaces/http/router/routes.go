package router

import (
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/logger"
	"github.com/bizdesk/erp/internal/infrastructure/telemetry"
	"github.com/bizdesk/erp/internal/interfaces/http/handler"
	"github.com/bizdesk/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers mounted by NewEngine
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Account       *handler.AccountHandler
	Product       *handler.ProductHandler
	Invoice       *handler.InvoiceHandler
	Offer         *handler.OfferHandler
	SalesReturn   *handler.SalesReturnHandler
	Finance       *handler.FinanceHandler
	HR            *handler.HRHandler
	Task          *handler.TaskHandler
	ServiceTicket *handler.ServiceTicketHandler
	Notification  *handler.NotificationHandler
	Webhook       *handler.WebhookHandler
	Report        *handler.ReportHandler
	Upload        *handler.UploadHandler
	Tenancy       *handler.TenancyHandler
}

// EngineConfig holds what NewEngine needs besides the handlers
type EngineConfig struct {
	ServiceName    string
	HTTP           config.HTTPConfig
	MaxUploadSize  int64
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Metrics        *telemetry.HTTPMetrics
	Tracing        bool
	Logger         *zap.Logger
}

// NewEngine builds the gin engine with the middleware stack and every API
// route. The returned stop function releases the rate limiter.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, func()) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.GET("/health", h.System.Health)

	stop := func() {}
	var limit []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limit = append(limit, middleware.RateLimit(limiter))
		stop = limiter.Stop
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jsonLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)
	uploadLimit := middleware.UploadBodyLimit(cfg.MaxUploadSize)

	authn := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     cfg.JWTService,
			TokenBlacklist: cfg.TokenBlacklist,
			Logger:         log,
		}),
		middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{Logger: log}),
		middleware.TracingAttributes(),
	}
	authn = append(authn, limit...)

	perm := middleware.PermissionConfig{Logger: log}
	public := func(name, prefix string) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(jsonLimit).Use(limit...)
	}
	secured := func(name, prefix string, guards ...gin.HandlerFunc) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(jsonLimit).Use(authn...).Use(guards...)
	}
	module := func(name, prefix, mod string) *DomainGroup {
		return secured(name, prefix, middleware.RequireModuleWithConfig(perm, mod))
	}
	admin := middleware.RequireRolesWithConfig(perm, identity.RoleAdmin, identity.RoleSuperAdmin)
	superAdmin := middleware.RequireRolesWithConfig(perm, identity.RoleSuperAdmin)

	r := NewRouter(engine, WithAPIVersion("v1"))

	// Auth
	authPublic := public("auth", "/auth")
	authPublic.POST("/login", h.Auth.Login)
	authPublic.POST("/refresh", h.Auth.Refresh)

	authSession := secured("auth-session", "/auth")
	authSession.POST("/logout", h.Auth.Logout)
	authSession.GET("/me", h.Auth.Me)

	system := secured("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	// Users
	users := secured("users", "/users", admin).CRUD(Resource{
		List: h.User.List, Create: h.User.Create, Get: h.User.Get, Update: h.User.Update, Delete: h.User.Delete,
	})

	// Accounts
	accounts := module("accounts", "/accounts", identity.ModuleAccounts).CRUD(Resource{
		List: h.Account.List, Create: h.Account.Create, Get: h.Account.Get, Update: h.Account.Update, Delete: h.Account.Delete,
	})

	// Products and stock
	products := module("products", "/products", identity.ModuleProducts).CRUD(Resource{
		List: h.Product.List, Create: h.Product.Create, Get: h.Product.Get, Update: h.Product.Update, Delete: h.Product.Delete,
	})
	products.GET("/:id/stock-movements", h.Product.ListMovements)
	products.POST("/:id/stock-movements", h.Product.AdjustStock)

	// Invoices
	invoices := module("invoices", "/invoices", identity.ModuleInvoices).CRUD(Resource{
		List: h.Invoice.List, Create: h.Invoice.Create, Get: h.Invoice.Get, Update: h.Invoice.Update, Delete: h.Invoice.Delete,
	})

	// Offers
	offers := module("offers", "/offers", identity.ModuleOffers).CRUD(Resource{
		List: h.Offer.List, Create: h.Offer.Create, Get: h.Offer.Get, Update: h.Offer.Update, Delete: h.Offer.Delete,
	})
	offers.POST("/:id/convert", h.Offer.Convert)

	// Sales returns
	sales := module("sales", "/sales", identity.ModuleSales)
	sales.Group("returns", "/returns").CRUD(Resource{
		List: h.SalesReturn.List, Create: h.SalesReturn.Create, Get: h.SalesReturn.Get,
	})

	// Finance
	registers := module("cash-registers", "/cash-registers", identity.ModuleFinance).CRUD(Resource{
		List:   h.Finance.ListCashRegisters,
		Create: h.Finance.CreateCashRegister,
		Get:    h.Finance.GetCashRegister,
		Update: h.Finance.UpdateCashRegister,
		Delete: h.Finance.DeleteCashRegister,
	})

	// Transactions are immutable; deletion reverses their balance effects
	transactions := module("transactions", "/transactions", identity.ModuleFinance).CRUD(Resource{
		List:   h.Finance.ListTransactions,
		Create: h.Finance.CreateTransaction,
		Get:    h.Finance.GetTransaction,
		Delete: h.Finance.DeleteTransaction,
	})

	// HR
	employees := module("employees", "/employees", identity.ModuleHR).CRUD(Resource{
		List:   h.HR.ListEmployees,
		Create: h.HR.CreateEmployee,
		Get:    h.HR.GetEmployee,
		Update: h.HR.UpdateEmployee,
		Delete: h.HR.DeleteEmployee,
	})

	payrolls := module("payrolls", "/payrolls", identity.ModuleHR).CRUD(Resource{
		List:   h.HR.ListPayrolls,
		Get:    h.HR.GetPayroll,
		Update: h.HR.UpdatePayroll,
		Delete: h.HR.DeletePayroll,
	})
	payrolls.POST("/generate", h.HR.GeneratePayroll)

	// Tasks
	tasks := module("tasks", "/tasks", identity.ModuleTasks).CRUD(Resource{
		List: h.Task.List, Create: h.Task.Create, Get: h.Task.Get, Update: h.Task.Update, Delete: h.Task.Delete,
	})

	// Service tickets
	tickets := module("service-tickets", "/service-tickets", identity.ModuleServices).CRUD(Resource{
		List:   h.ServiceTicket.List,
		Create: h.ServiceTicket.Create,
		Get:    h.ServiceTicket.Get,
		Update: h.ServiceTicket.Update,
		Delete: h.ServiceTicket.Delete,
	})
	tickets.PATCH("/:id/status", h.ServiceTicket.ChangeStatus)
	tickets.POST("/:id/notes", h.ServiceTicket.AddNote)

	// Notifications
	notifications := secured("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)
	notifications.DELETE("/:id", h.Notification.Delete)

	// Webhooks
	webhooks := module("webhooks", "/webhooks", identity.ModuleWebhooks)
	webhooks.GET("/deliveries", h.Webhook.ListDeliveries)
	webhooks.POST("/deliveries/:id/retry", h.Webhook.RetryDelivery)
	webhooks.CRUD(Resource{
		List: h.Webhook.List, Create: h.Webhook.Create, Get: h.Webhook.Get, Update: h.Webhook.Update, Delete: h.Webhook.Delete,
	})

	// Reports
	reports := module("reports", "/reports", identity.ModuleReports)
	reports.GET("/dashboard", h.Report.Dashboard)

	// Uploads carry their own body limit
	uploads := NewDomainGroup("uploads", "/uploads").Use(uploadLimit).Use(authn...)
	uploads.GET("", admin, h.Upload.List)
	uploads.POST("/:folder", h.Upload.Upload)

	// Stored files are served outside the versioned API under the URL
	// returned by the upload endpoint
	files := NewDomainGroup("files", "/uploads").Use(authn...)
	files.GET("/*key", h.Upload.Serve)
	files.RegisterRoutes(&engine.RouterGroup)

	// SaaS console
	packagesPublic := public("packages", "/packages")
	packagesPublic.GET("", h.Tenancy.ListPackages)
	packagesPublic.GET("/:id", h.Tenancy.GetPackage)

	packagesAdmin := secured("packages-admin", "/packages", superAdmin).CRUD(Resource{
		Create: h.Tenancy.CreatePackage,
		Update: h.Tenancy.UpdatePackage,
		Delete: h.Tenancy.DeletePackage,
	})

	tenants := secured("tenants", "/tenants", superAdmin).CRUD(Resource{
		List:   h.Tenancy.ListTenants,
		Create: h.Tenancy.CreateTenant,
		Get:    h.Tenancy.GetTenant,
		Update: h.Tenancy.UpdateTenant,
		Delete: h.Tenancy.DeleteTenant,
	})

	support := secured("support-tickets", "/support-tickets")
	support.GET("", h.Tenancy.ListSupportTickets)
	support.POST("", h.Tenancy.CreateSupportTicket)
	support.PATCH("/:id", superAdmin, h.Tenancy.AnswerSupportTicket)

	payments := secured("payments", "/payments", superAdmin)
	payments.GET("", h.Tenancy.ListPayments)
	payments.POST("", h.Tenancy.CreatePayment)

	groups := []*DomainGroup{
		authPublic, authSession, system, users, accounts, products, invoices, offers, sales,
		registers, transactions, employees, payrolls, tasks, tickets, notifications, webhooks,
		reports, uploads, packagesPublic, packagesAdmin, tenants, support, payments,
	}
	routes := 0
	for _, g := range groups {
		r.Register(g)
		routes += len(g.Routes())
	}
	r.Setup()
	log.Debug("API routes mounted", zap.Int("groups", len(groups)), zap.Int("routes", routes))

	return engine, stop
}
