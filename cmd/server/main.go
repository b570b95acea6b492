package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/logger"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/internal/infrastructure/storage"
	"github.com/bizdesk/erp/internal/infrastructure/telemetry"
	"github.com/bizdesk/erp/internal/infrastructure/webhook"
	"github.com/bizdesk/erp/internal/interfaces/http/handler"
	"github.com/bizdesk/erp/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog := logger.New(logCfg)

	ctx := context.Background()

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log := bootLog
	if core := tel.ZapCore(); core != nil {
		log = logger.New(logCfg, core)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ERP server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: cfg.Log.Level,
		Tracing:  tel.Enabled() && cfg.Telemetry.DBTraceEnabled,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		client, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Token blacklist backed by redis")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocation is kept in memory only")
	}

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(tel.Meter("erp"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	httpMetrics := telemetry.NewHTTPMetrics("erp")

	// Repositories
	gdb := db.DB
	txScope := persistence.NewGormTransactionScope(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	tenantRepo := persistence.NewGormTenantRepository(gdb)
	packageRepo := persistence.NewGormPackageRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	supportRepo := persistence.NewGormSupportTicketRepository(gdb)
	accountRepo := persistence.NewGormAccountRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	movementRepo := persistence.NewGormStockMovementRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	offerRepo := persistence.NewGormOfferRepository(gdb)
	returnRepo := persistence.NewGormSalesReturnRepository(gdb)
	registerRepo := persistence.NewGormCashRegisterRepository(gdb)
	transactionRepo := persistence.NewGormTransactionRepository(gdb)
	employeeRepo := persistence.NewGormEmployeeRepository(gdb)
	payrollRepo := persistence.NewGormPayrollRepository(gdb)
	taskRepo := persistence.NewGormTaskRepository(gdb)
	ticketRepo := persistence.NewGormServiceTicketRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)
	webhookRepo := persistence.NewGormWebhookRepository(gdb)
	deliveryRepo := persistence.NewGormDeliveryRepository(gdb)
	dashboardRepo := persistence.NewGormDashboardRepository(gdb)

	// Cross-cutting side effects run after commit
	webhookService := integrationapp.NewWebhookService(webhookRepo, deliveryRepo, log,
		integrationapp.WithMaxAttempts(cfg.Webhook.MaxAttempts),
		integrationapp.WithBusinessMetrics(businessMetrics),
	)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, tenantRepo, packageRepo, blacklist, log)
	accountService := partnerapp.NewAccountService(accountRepo, webhookService, log)
	productService := catalogapp.NewProductService(productRepo, movementRepo, txScope, webhookService, notificationService, log)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, txScope, webhookService, notificationService, log)
	offerService := tradeapp.NewOfferService(offerRepo, txScope, webhookService, log)
	returnService := tradeapp.NewSalesReturnService(returnRepo, txScope, webhookService, log)
	registerService := financeapp.NewCashRegisterService(registerRepo, transactionRepo, log)
	transactionService := financeapp.NewTransactionService(transactionRepo, txScope, webhookService, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo, log)
	payrollService := hrapp.NewPayrollService(payrollRepo, employeeRepo, txScope, webhookService, notificationService, log)
	taskService := taskapp.NewTaskService(taskRepo, userRepo, webhookService, log)
	ticketService := servicedeskapp.NewTicketService(ticketRepo, txScope, webhookService, notificationService, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, log)
	uploadService := upload.NewService(objects, cfg.Storage.MaxUploadSize, log)
	packageService := tenancyapp.NewPackageService(packageRepo, log)
	tenantService := tenancyapp.NewTenantService(tenantRepo, packageRepo, userRepo, txScope, log)
	supportService := tenancyapp.NewSupportTicketService(supportRepo, log)
	paymentService := tenancyapp.NewPaymentService(paymentRepo, packageRepo, txScope, log)

	// Webhook delivery worker
	var processor *webhook.DeliveryProcessor
	if cfg.Webhook.Enabled {
		processor = webhook.NewDeliveryProcessor(
			deliveryRepo,
			webhookRepo,
			webhook.NewHTTPSender(cfg.Webhook.Timeout),
			webhook.ProcessorConfigFrom(cfg.Webhook),
			log.Named("webhook"),
			webhook.WithMetrics(webhook.NewMetrics(httpMetrics.Registry(), "erp")),
			webhook.WithBusinessMetrics(businessMetrics),
		)
		processor.Start(ctx)
		log.Info("Webhook processor started",
			zap.Int("batch_size", cfg.Webhook.BatchSize),
			zap.Duration("poll_interval", cfg.Webhook.PollInterval),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, stopLimiter := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		MaxUploadSize:  cfg.Storage.MaxUploadSize,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Metrics:        httpMetrics,
		Tracing:        tel.Enabled(),
		Logger:         log,
	}, router.Handlers{
		System:        handler.NewSystemHandler(gdb, cfg.App.Name, version),
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Account:       handler.NewAccountHandler(accountService),
		Product:       handler.NewProductHandler(productService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Offer:         handler.NewOfferHandler(offerService),
		SalesReturn:   handler.NewSalesReturnHandler(returnService),
		Finance:       handler.NewFinanceHandler(registerService, transactionService),
		HR:            handler.NewHRHandler(employeeService, payrollService),
		Task:          handler.NewTaskHandler(taskService),
		ServiceTicket: handler.NewServiceTicketHandler(ticketService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Webhook:       handler.NewWebhookHandler(webhookService),
		Report:        handler.NewReportHandler(dashboardService),
		Upload:        handler.NewUploadHandler(uploadService),
		Tenancy:       handler.NewTenancyHandler(packageService, tenantService, supportService, paymentService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopLimiter()

	// The worker writes delivery results, so it stops before the pool closes
	if processor != nil {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping webhook processor", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
