package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/alerts"
	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	"github.com/rogerio-castellano/inventory-analytics/internal/config"
	"github.com/rogerio-castellano/inventory-analytics/internal/db"
	"github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-analytics/internal/http/router"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	"github.com/rogerio-castellano/inventory-analytics/internal/purchasing"
	"github.com/rogerio-castellano/inventory-analytics/internal/redissvc"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

type repositories struct {
	products  repo.ProductRepository
	stores    repo.StoreRepository
	inventory repo.InventoryRepository
	movements repo.MovementRepository
	sales     repo.SalesRepository
	orders    repo.PurchaseOrderRepository
}

type dbPinger struct{ db *sql.DB }

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// @title Inventory Analytics API
// @version 1.0
// @description Inventory analytics, stock classification and reorder recommendations across stores.
// @host localhost:8080
// @BasePath /
func main() {
	migrateOnly := pflag.String("migrate", "", "run migrations (up or down) and exit")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.NewForEnvironment(os.Getenv("IAPS_APP_ENV")).Fatal("could not load configuration", zap.Error(err))
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	defer func() { _ = log.Sync() }()

	repo.SetQueryTimeout(cfg.Database.QueryTimeout)

	var repos repositories
	if cfg.Database.URL != "" {
		database, err := db.Connect(cfg.Database)
		if err != nil {
			log.Fatal("could not connect to database", zap.Error(err))
		}
		defer database.Close()

		if *migrateOnly != "" || cfg.Database.MigrateOnStart {
			runMigrations(log, database, *migrateOnly)
		}
		handlers.SetHealthCheck("database", dbPinger{db: database})

		repos = repositories{
			products:  repo.NewPostgresProductRepository(database),
			stores:    repo.NewPostgresStoreRepository(database),
			inventory: repo.NewPostgresInventoryRepository(database),
			movements: repo.NewPostgresMovementRepository(database),
			sales:     repo.NewPostgresSalesRepository(database),
			orders:    repo.NewPostgresPurchaseOrderRepository(database),
		}
	} else {
		if *migrateOnly != "" {
			log.Fatal("migrations need a database url")
		}
		log.Warn("no database url configured, using in-memory repositories")
		mem := repo.NewInMemoryRepositories()
		repos = repositories{
			products:  mem.Products,
			stores:    mem.Stores,
			inventory: mem.Inventory,
			movements: mem.Movements,
			sales:     mem.Sales,
			orders:    mem.Orders,
		}
	}

	policy := analytics.PolicyFromConfig(cfg.Analytics)

	var publisher alerts.Publisher = alerts.NewMemoryPublisher(int(cfg.Redis.AlertMaxLen))
	if cfg.Redis.Enabled {
		redisService, err := redissvc.NewRedisService(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal("could not connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer redisService.Close()

		publisher = alerts.NewRedisPublisher(redisService.Rdb(), cfg.Redis.AlertKey, cfg.Redis.AlertChannel, cfg.Redis.AlertMaxLen, log.Named("alerts"))
		handlers.SetHealthCheck("redis", redisService)
	}
	notifier := alerts.NewNotifier(policy, publisher, log.Named("alerts"))
	inventory := alerts.NewNotifyingInventory(repos.inventory, notifier)

	analyticsService := analytics.NewService(analytics.Repositories{
		Products:  repos.products,
		Stores:    repos.stores,
		Inventory: inventory,
		Movements: repos.movements,
		Sales:     repos.sales,
	}, policy, log.Named("analytics"))

	handlers.SetProductRepo(repos.products)
	handlers.SetStoreRepo(repos.stores)
	handlers.SetInventoryRepo(inventory)
	handlers.SetMovementRepo(repos.movements)
	handlers.SetAnalyticsService(analyticsService)
	handlers.SetPurchasingService(purchasing.NewService(repos.orders, inventory, log.Named("purchasing")))
	handlers.SetAlertNotifier(notifier)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var limiter *rl.Limiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = rl.New(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTP.Port,
		Handler: router.NewRouter(router.Options{
			Logger:         log,
			Limiter:        limiter,
			AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
			Swagger:        cfg.HTTP.SwaggerEnabled,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server running", zap.String("port", cfg.HTTP.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// runMigrations applies the schema. With direction set it exits afterwards.
func runMigrations(log *zap.Logger, database *sql.DB, direction string) {
	m, err := db.NewMigrator(database, log.Named("migrate"))
	if err != nil {
		log.Fatal("could not prepare migrations", zap.Error(err))
	}

	switch direction {
	case "", "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatal("unknown migration direction", zap.String("direction", direction))
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if direction != "" {
		database.Close()
		os.Exit(0)
	}
}
