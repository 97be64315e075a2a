package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/billfold/backend/internal/application/catalog"
	partnerapp "github.com/billfold/backend/internal/application/partner"
	reportapp "github.com/billfold/backend/internal/application/report"
	settlementapp "github.com/billfold/backend/internal/application/settlement"
	stockapp "github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/infrastructure/config"
	"github.com/billfold/backend/internal/infrastructure/event"
	"github.com/billfold/backend/internal/infrastructure/logger"
	"github.com/billfold/backend/internal/infrastructure/persistence"
	"github.com/billfold/backend/internal/interfaces/http/handler"
	"github.com/billfold/backend/internal/interfaces/http/middleware"
	"github.com/billfold/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Billfold Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	discountRuleRepo := persistence.NewGormDiscountRuleRepository(db.DB)
	taxRuleRepo := persistence.NewGormTaxRuleRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)

	// Transaction scopes
	stockTxScope := persistence.NewGormStockTransactionScope(db.DB)
	settlementTxScope := persistence.NewGormSettlementTransactionScope(db.DB)

	// Application services
	stockService := stockapp.NewStockService(stockTxScope, productRepo, ledgerRepo)
	stockService.SetConflictRetryLimit(cfg.Settlement.MaxConflictRetries)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, stockService)
	settlementService := settlementapp.NewSettlementService(
		settlementTxScope, invoiceRepo, discountRuleRepo, taxRuleRepo, stockService,
	)
	ruleService := settlementapp.NewRuleService(discountRuleRepo, taxRuleRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	reportService := reportapp.NewReportService(invoiceRepo, ledgerRepo, productRepo)
	reportService.SetRecentActivityLimit(cfg.Settlement.RecentActivityLimit)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	lowStockHandler := stockapp.NewLowStockHandler(log)
	eventBus.Subscribe(lowStockHandler)
	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	stockService.SetEventPublisher(eventBus)
	settlementService.SetEventPublisher(eventBus)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	invoiceHandler := handler.NewInvoiceHandler(settlementService)
	ruleHandler := handler.NewRuleHandler(ruleService)
	customerHandler := handler.NewCustomerHandler(customerService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, "v1")

	productRoutes := router.NewGroup("/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.GET("/:id/ledger", stockHandler.ProductHistory)
	productRoutes.GET("/:id/reconciliation", stockHandler.VerifyReconciliation)

	categoryRoutes := router.NewGroup("/categories")
	categoryRoutes.POST("", productHandler.CreateCategory)
	categoryRoutes.GET("", productHandler.ListCategories)

	stockRoutes := router.NewGroup("/stock")
	stockRoutes.POST("/adjustments", stockHandler.Adjust)
	stockRoutes.GET("/entries", stockHandler.ListEntries)

	invoiceRoutes := router.NewGroup("/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/number/:number", invoiceHandler.GetByNumber)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.POST("/:id/pay", invoiceHandler.Pay)
	invoiceRoutes.POST("/:id/cancel", invoiceHandler.Cancel)

	discountRuleRoutes := router.NewGroup("/discount-rules")
	discountRuleRoutes.POST("", ruleHandler.CreateDiscountRule)
	discountRuleRoutes.GET("", ruleHandler.ListDiscountRules)
	discountRuleRoutes.PATCH("/:id/active", ruleHandler.SetDiscountRuleActive)
	discountRuleRoutes.DELETE("/:id", ruleHandler.DeleteDiscountRule)

	taxRuleRoutes := router.NewGroup("/tax-rules")
	taxRuleRoutes.POST("", ruleHandler.CreateTaxRule)
	taxRuleRoutes.GET("", ruleHandler.ListTaxRules)
	taxRuleRoutes.PATCH("/:id/active", ruleHandler.SetTaxRuleActive)
	taxRuleRoutes.DELETE("/:id", ruleHandler.DeleteTaxRule)

	customerRoutes := router.NewGroup("/customers")
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.Get)
	customerRoutes.PUT("/:id", customerHandler.Update)

	reportRoutes := router.NewGroup("/reports")
	reportRoutes.GET("/sales", reportHandler.SalesRows)
	reportRoutes.GET("/sales/total", reportHandler.SalesTotal)
	reportRoutes.GET("/ledger", reportHandler.LedgerRows)
	reportRoutes.GET("/purchases/total", reportHandler.PurchaseTotal)
	reportRoutes.GET("/activity/recent", reportHandler.RecentActivity)
	reportRoutes.GET("/low-stock", reportHandler.LowStock)

	systemRoutes := router.NewGroup("/system")
	systemRoutes.GET("/info", systemHandler.Info)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(productRoutes).
		Register(categoryRoutes).
		Register(stockRoutes).
		Register(invoiceRoutes).
		Register(discountRuleRoutes).
		Register(taxRuleRoutes).
		Register(customerRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
