package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoTitans/titangate/internal/config"
	"github.com/GoTitans/titangate/internal/handler"
	"github.com/GoTitans/titangate/internal/middleware"
	"github.com/GoTitans/titangate/internal/pkg/logger"
	"github.com/GoTitans/titangate/internal/repository"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/GoTitans/titangate/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.Init(cfg.Log.Level)

	// 3. Initialize Persistence
	// Counters (Redis > Memory)
	var counters service.CounterStore
	var redisClient *repository.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis")
			counters = redisClient
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
		}
	}
	if counters == nil {
		counters = service.NewMemoryCounterStore()
	}

	// Tenant directory and audit sink (Postgres > Memory)
	var directory service.TenantDirectory
	var auditRepo service.AuditRepo
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(cfg)
		if err == nil {
			logger.Info("✅ Connected to PostgreSQL")
			directory = repository.NewPostgresTenantRepo(db)
			auditRepo = repository.NewPostgresAuditRepo(db)
		} else {
			logger.Error("⚠️ Failed to connect to DB, tenants will be in-memory only", "error", err)
		}
	}
	if directory == nil {
		directory = repository.NewMemoryTenantRepo()
	}

	// Idempotency (Redis > Memory)
	var idempotencyStore middleware.IdempotencyStore
	if redisClient != nil {
		ttl := time.Duration(cfg.Redis.IdempotencyTTLSeconds) * time.Second
		idempotencyStore = middleware.NewRedisIdempotencyStore(redisClient.Client, ttl)
	} else {
		idempotencyStore = middleware.NewInMemIdempotencyStore()
	}

	// 4. Initialize Core Services
	tokenSvc := token.NewService(cfg.Auth.SessionSecret)
	gate := service.NewAuthGate(directory, tokenSvc)
	ledger := service.NewLedger(counters, cfg.RateLimit.RequestsPerMinute)
	limiterPool := service.NewLimiterPool(cfg.RateLimit.BurstQPS, cfg.RateLimit.BurstSize)
	reconciler := service.NewSubscriptionReconciler(directory)
	tenantSvc := service.NewTenantService(directory)
	auditSvc := service.NewAuditService(auditRepo)
	engine := service.NewPaperEngine()

	// 5. Initialize Handlers
	sessionTTL := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
	signalHandler := handler.NewSignalHandler(engine, ledger)
	usageHandler := handler.NewUsageHandler(ledger, cfg.Billing.HighConfWinPrice)
	sessionHandler := handler.NewSessionHandler(tokenSvc, sessionTTL)
	tenantHandler := handler.NewTenantHandler(tenantSvc)
	billingHandler := handler.NewBillingHandler(cfg, reconciler)
	streamHandler := handler.NewStreamHandler(engine, ledger)
	auditHandler := handler.NewAuditHandler(auditSvc)

	// 6. Setup Router
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware(auditSvc))
	r.Use(middleware.ReadOnlyMiddleware(cfg.Server.ReadOnly))

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "titangate"})
	})

	// Metrics Endpoint
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Billing webhook authenticates with its own shared secret, outside
	// the tenant credential path.
	r.POST("/billing/webhook/stripe", billingHandler.Webhook)

	// API V1 Routes
	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(gate))
	v1.Use(middleware.RateLimitMiddleware(ledger, limiterPool))
	v1.Use(middleware.IdempotencyMiddleware(idempotencyStore))
	{
		v1.POST("/signal", signalHandler.GetSignal)
		v1.GET("/usage", usageHandler.GetUsage)
		v1.POST("/auth/session", sessionHandler.CreateSession)
		v1.GET("/stream", streamHandler.Stream)
	}

	// Admin Routes (operator key, not tenant credentials)
	admin := r.Group("/v1/tenants")
	admin.Use(middleware.AdminMiddleware(cfg))
	{
		admin.POST("", tenantHandler.Create)
		admin.GET("", tenantHandler.List)
		admin.GET("/:id", tenantHandler.Get)
		admin.DELETE("/:id", tenantHandler.Deactivate)
		admin.GET("/:id/audit", auditHandler.ListForTenant)
	}

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 TitanGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	auditSvc.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("Server exiting")
}
