package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/Yousefaborizk/moonstar/internal/application/billing"
	catalogapp "github.com/Yousefaborizk/moonstar/internal/application/catalog"
	identityapp "github.com/Yousefaborizk/moonstar/internal/application/identity"
	inventoryapp "github.com/Yousefaborizk/moonstar/internal/application/inventory"
	partnerapp "github.com/Yousefaborizk/moonstar/internal/application/partner"
	salesapp "github.com/Yousefaborizk/moonstar/internal/application/sales"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/auth"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/cache"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/config"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/event"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/logger"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/persistence"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/storage"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/handler"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/middleware"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting moonstar",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Product cache: redis when reachable, in-memory fallback
	var productCache cache.ProductCache
	redisCache, err := cache.NewRedisProductCache(cfg.Redis, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, using in-memory product cache", zap.Error(err))
		productCache = cache.NewInMemoryProductCache()
	} else {
		productCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis cache", zap.Error(err))
			}
		}()
		log.Info("Redis product cache connected")
	}

	// Object storage for product media
	var mediaStorage catalogapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		mediaStorage = s3Storage
		log.Info("Object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		mediaStorage = storage.NewStubObjectStorage()
		log.Warn("No storage bucket configured, using stub object storage")
	}

	// Event bus with the invoice activity subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(billingapp.NewInvoiceActivityHandler(log))

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	invoicePolicy := auth.NewAllowListPolicy(cfg.Billing.InvoiceCreators)

	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, productRepo, clientRepo, invoicePolicy, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, invoiceRepo, warehouseRepo, mediaStorage, productCache, log)
	stockService := inventoryapp.NewStockService(warehouseRepo, productRepo, log)
	clientService := partnerapp.NewClientService(clientRepo, invoiceRepo, log)
	salesService := salesapp.NewCatalogService(productRepo, productCache, mediaStorage, cfg.Billing.CacheTTL, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	clientHandler := handler.NewClientHandler(clientService)
	warehouseHandler := handler.NewWarehouseHandler(stockService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, authService)
	salesHandler := handler.NewSalesHandler(salesService)
	systemHandler := handler.NewSystemHandler()

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

	engine.Use(middleware.RequestID())
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

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.GET("/profile", authHandler.Profile)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.POST("/:id/media", productHandler.InitiateMediaUpload)
	productRoutes.POST("/:id/media/confirm", productHandler.ConfirmMediaUpload)

	warehouseRoutes := router.NewDomainGroup("inventory", "/warehouses")
	warehouseRoutes.POST("", warehouseHandler.Create)
	warehouseRoutes.GET("", warehouseHandler.List)
	warehouseRoutes.GET("/:id", warehouseHandler.Get)
	warehouseRoutes.PUT("/:id", warehouseHandler.Update)
	warehouseRoutes.DELETE("/:id", warehouseHandler.Delete)
	warehouseRoutes.POST("/:id/stock", warehouseHandler.AddStock)
	warehouseRoutes.PUT("/:id/stock/:productId", warehouseHandler.SetStock)
	warehouseRoutes.DELETE("/:id/stock/:productId", warehouseHandler.RemoveStock)

	clientRoutes := router.NewDomainGroup("partner", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/export", clientHandler.Export)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)

	invoiceRoutes := router.NewDomainGroup("billing", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/summary", invoiceHandler.Summary)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)
	invoiceRoutes.GET("/:id/totals", invoiceHandler.Totals)
	invoiceRoutes.POST("/:id/mark-paid", invoiceHandler.MarkPaid)
	invoiceRoutes.POST("/:id/status", invoiceHandler.ChangeStatus)
	invoiceRoutes.POST("/:id/installments", invoiceHandler.AddInstallment)

	installmentRoutes := router.NewDomainGroup("billing", "/installments")
	installmentRoutes.POST("/:id/mark-paid", invoiceHandler.MarkInstallmentPaid)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.GET("/products", salesHandler.ListProducts)
	salesRoutes.GET("/products/:id", salesHandler.GetProduct)
	salesRoutes.GET("/categories", salesHandler.ListCategories)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(warehouseRoutes).
		Register(clientRoutes).
		Register(invoiceRoutes).
		Register(installmentRoutes).
		Register(salesRoutes).
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

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
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
