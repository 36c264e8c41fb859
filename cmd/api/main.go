package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/cache"
	"github.com/GTDGit/spayd_api/internal/config"
	"github.com/GTDGit/spayd_api/internal/database"
	"github.com/GTDGit/spayd_api/internal/handler"
	"github.com/GTDGit/spayd_api/internal/metrics"
	"github.com/GTDGit/spayd_api/internal/middleware"
	"github.com/GTDGit/spayd_api/internal/repository"
	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/sse"
	"github.com/GTDGit/spayd_api/internal/symbol"
	"github.com/GTDGit/spayd_api/internal/utils"
	"github.com/GTDGit/spayd_api/internal/worker"
)

// main is the application entrypoint for the SPAYD payment API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting spayd api")

	// Root context, cancelled on shutdown to stop workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect database
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis (optional, used for the cross-replica sync lock)
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
	} else {
		log.Warn().Msg("REDIS_HOST not set - sync queue guarded in-process only")
	}

	// 4. Initialize repositories
	adminRepo := repository.NewAdminUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	eventRepo := repository.NewEventRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	syncQueueRepo := repository.NewSyncQueueRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// 5. Observability
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	observer := metrics.NewPrometheusObserver()
	composer := symbol.NewComposer(service.NewSymbolReporter(observer))
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, utils.DefaultTokenTTL)

	// 6. Initialize services
	syncSvc := service.NewSyncService(syncQueueRepo, service.SyncServiceConfig{
		MaxAttempts:   cfg.Sync.MaxAttempts,
		Timeout:       cfg.Webhook.Timeout,
		SigningSecret: cfg.Webhook.SigningSecret,
	})
	syncSvc.SetNotifier(notifier)
	syncSvc.SetObserver(observer)
	if redisClient != nil {
		syncSvc.SetLocker(cache.NewSyncLock(redisClient, cfg.Sync.LockTTL))
	}

	settingSvc := service.NewSettingService(settingRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, eventRepo, accountRepo, settingSvc, syncSvc, composer)
	paymentSvc.SetNotifier(notifier)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, jwtManager)

	if cfg.Admin.Email != "" {
		if err := adminAuthSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			log.Error().Err(err).Msg("failed to create bootstrap operator")
			fmt.Fprintf(os.Stderr, "failed to create bootstrap operator: %v\n", err)
			os.Exit(1)
		}
	}

	// 7. Initialize handlers
	var redisPinger handler.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db, redisPinger),
		Auth:    handler.NewAuthHandler(adminAuthSvc),
		Symbol:  handler.NewSymbolHandler(service.NewSymbolService(composer)),
		Payment: handler.NewPaymentHandler(paymentSvc, syncSvc),
		Batch:   handler.NewBatchHandler(service.NewBatchService(eventRepo, accountRepo, composer)),
		Account: handler.NewAccountHandler(service.NewAccountService(accountRepo)),
		Event:   handler.NewEventHandler(service.NewEventService(eventRepo, accountRepo)),
		Setting: handler.NewSettingHandler(settingSvc),
		Sync:    handler.NewSyncHandler(syncSvc),
		SSE:     handler.NewSSEHandler(hub, jwtManager),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(jwtManager)
	loginLimiter := middleware.NewLoginRateLimiter(5, time.Minute)
	go loginLimiter.Cleanup(ctx, 5*time.Minute)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, jwtMw, loginLimiter)

	// 10. Start workers
	stopSync := func() {}
	if cfg.Sync.Enabled {
		stopSync = worker.NewSyncWorker(syncSvc, cfg.Sync.Interval).StartBackgroundSync(ctx)
	} else {
		log.Warn().Msg("SYNC_ENABLED=false - queue is processed only on demand")
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Shutdown HTTP server with timeout; SSE streams end with their requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// 14. Stop workers; an in-flight delivery finishes first
	cancel()
	stopSync()
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Symbol  *handler.SymbolHandler
	Payment *handler.PaymentHandler
	Batch   *handler.BatchHandler
	Account *handler.AccountHandler
	Event   *handler.EventHandler
	Setting *handler.SettingHandler
	Sync    *handler.SyncHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, loginLimiter *middleware.LoginRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Stateless composition, no data is read or stored
	router.POST("/v1/symbols/preview", handlers.Symbol.Preview)

	// Operator routes (JWT)
	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		v1.POST("/payments", handlers.Payment.CreatePayment)
		v1.GET("/payments", handlers.Payment.ListPayments)
		v1.GET("/payments/:id", handlers.Payment.GetPayment)
		v1.GET("/payments/:id/qr", handlers.Payment.GetQRCode)
		v1.GET("/payments/:id/sync", handlers.Payment.GetSyncStatus)

		v1.POST("/batch/preview", handlers.Batch.Preview)
	}

	// Admin routes
	router.POST("/v1/admin/auth/login", loginLimiter.Handle(), handlers.Auth.Login)
	// EventSource cannot send headers; the token is checked by the handler
	router.GET("/v1/admin/sse", handlers.SSE.Stream)

	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		// Accounts
		admin.GET("/accounts", handlers.Account.ListAccounts)
		admin.POST("/accounts", handlers.Account.CreateAccount)
		admin.GET("/accounts/:id", handlers.Account.GetAccount)
		admin.PUT("/accounts/:id", handlers.Account.UpdateAccount)
		admin.DELETE("/accounts/:id", handlers.Account.DeleteAccount)

		// Events
		admin.GET("/events", handlers.Event.ListEvents)
		admin.POST("/events", handlers.Event.CreateEvent)
		admin.GET("/events/:id", handlers.Event.GetEvent)
		admin.PUT("/events/:id", handlers.Event.UpdateEvent)
		admin.DELETE("/events/:id", handlers.Event.DeleteEvent)

		// Settings
		admin.GET("/settings", handlers.Setting.GetSettings)
		admin.PUT("/settings", handlers.Setting.UpdateSettings)

		// Sync queue
		admin.GET("/sync-queue", handlers.Sync.ListQueue)
		admin.POST("/sync-queue/process", handlers.Sync.Process)
		admin.POST("/sync-queue/retry", handlers.Sync.Retry)
		admin.POST("/sync-queue/reset", handlers.Sync.Reset)
		admin.GET("/sync-queue/:id", handlers.Sync.GetItem)
		admin.POST("/sync-queue/:id/ack", handlers.Sync.Acknowledge)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
