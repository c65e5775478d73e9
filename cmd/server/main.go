package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	partnerapp "github.com/stockflow/backend/internal/application/partner"
	purchasingapp "github.com/stockflow/backend/internal/application/purchasing"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/cache"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/event"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
	"github.com/stockflow/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting server",
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
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	levelRepo := persistence.NewGormStockLevelRepository(db.DB)

	stockScope := persistence.NewGormStockTransactionScope(db.DB)
	purchaseScope := persistence.NewGormPurchaseTransactionScope(db.DB)

	// Application services
	poster := inventoryapp.NewPoster(log)
	productService := catalogapp.NewProductService(productRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	stockService := inventoryapp.NewStockService(stockScope, poster, movementRepo, levelRepo, log)
	orderService := purchasingapp.NewPurchaseOrderService(purchaseScope, orderRepo, movementRepo, poster, log)

	eventBus := event.NewInMemoryEventBus(log)
	orderService.SetEventPublisher(eventBus)

	idempotencyStore := buildIdempotencyStore(cfg, log)
	if idempotencyStore != nil {
		defer idempotencyStore.Close()
		orderService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Idempotency.TTL,
		})
	}

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	systemHandler := handler.NewSystemHandler(db)

	engine := buildEngine(cfg, log)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(catalogRoutes(productHandler, stockHandler)).
		Register(partnerRoutes(supplierHandler)).
		Register(inventoryRoutes(stockHandler)).
		Register(purchasingRoutes(orderHandler)).
		Register(systemRoutes(systemHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// buildEngine assembles the gin engine with the shared middleware chain.
// Order matters: request IDs must exist before logging, and recovery must
// wrap everything that can panic.
func buildEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	return engine
}

func buildIdempotencyStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Idempotency.Enabled {
		log.Info("Idempotency disabled")
		return nil
	}

	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
			return cache.NewInMemoryIdempotencyStore()
		}
		log.Info("Using Redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
		return store
	}

	log.Info("Using in-memory idempotency store")
	return cache.NewInMemoryIdempotencyStore()
}

func catalogRoutes(products *handler.ProductHandler, stock *handler.StockHandler) *router.DomainGroup {
	g := router.NewDomainGroup("catalog", "/catalog")
	g.POST("/products", products.Create)
	g.GET("/products", products.List)
	g.GET("/products/low-stock", products.ListLowStock)
	g.GET("/products/:id", products.GetByID)
	g.PUT("/products/:id", products.Update)
	g.DELETE("/products/:id", products.Delete)
	g.GET("/products/:id/movements", stock.GetProductMovements)
	g.GET("/products/:id/levels", stock.GetProductLevels)
	return g
}

func partnerRoutes(suppliers *handler.SupplierHandler) *router.DomainGroup {
	g := router.NewDomainGroup("partner", "/partner")
	g.POST("/suppliers", suppliers.Create)
	g.GET("/suppliers", suppliers.List)
	g.GET("/suppliers/:id", suppliers.GetByID)
	g.PUT("/suppliers/:id", suppliers.Update)
	g.DELETE("/suppliers/:id", suppliers.Delete)
	return g
}

func inventoryRoutes(stock *handler.StockHandler) *router.DomainGroup {
	g := router.NewDomainGroup("inventory", "/inventory")
	g.POST("/stock-in", stock.StockIn)
	g.POST("/stock-out", stock.StockOut)
	g.POST("/adjust", stock.Adjust)
	g.POST("/transfer", stock.Transfer)
	g.GET("/movements", stock.ListMovements)
	return g
}

func purchasingRoutes(orders *handler.PurchaseOrderHandler) *router.DomainGroup {
	g := router.NewDomainGroup("purchasing", "/purchases")
	g.POST("", orders.Create)
	g.GET("", orders.List)
	g.GET("/stats/summary", orders.GetStatusSummary)
	g.GET("/pending-receipt", orders.ListPendingReceipt)
	g.GET("/number/:order_number", orders.GetByOrderNumber)
	g.GET("/:id", orders.GetByID)
	g.PUT("/:id", orders.Update)
	g.DELETE("/:id", orders.Delete)
	g.PATCH("/:id/status", orders.ChangeStatus)
	g.PATCH("/:id/payment", orders.UpdatePayment)
	g.PATCH("/:id/receive", orders.Receive)
	g.GET("/:id/movements", orders.GetMovements)
	return g
}

func systemRoutes(system *handler.SystemHandler) *router.DomainGroup {
	g := router.NewDomainGroup("system", "/system")
	g.GET("/ping", system.Ping)
	g.GET("/info", system.GetSystemInfo)
	return g
}
