package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	analyticsapp "github.com/storeledger/backend/internal/application/analytics"
	customerapp "github.com/storeledger/backend/internal/application/customer"
	ledgerapp "github.com/storeledger/backend/internal/application/ledger"
	loyaltyapp "github.com/storeledger/backend/internal/application/loyalty"
	salesapp "github.com/storeledger/backend/internal/application/sales"
	"github.com/storeledger/backend/internal/infrastructure/cache"
	"github.com/storeledger/backend/internal/infrastructure/config"
	"github.com/storeledger/backend/internal/infrastructure/event"
	"github.com/storeledger/backend/internal/infrastructure/logger"
	"github.com/storeledger/backend/internal/infrastructure/notify"
	"github.com/storeledger/backend/internal/infrastructure/persistence"
	"github.com/storeledger/backend/internal/interfaces/http/handler"
	"github.com/storeledger/backend/internal/interfaces/http/router"
)

const appVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting StoreLedger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", appVersion),
	)

	// Initialize database connection with zap-backed query logging
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	redemptionRepo := persistence.NewGormRedemptionRepository(db.DB)
	pointsRepo := persistence.NewGormPointsEntryRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Change notification bus: domain events published on the event bus
	// are translated into table changes, which subscribers turn into
	// cache invalidation keys
	notifyBus := notify.NewBus(log, notify.WithBufferSize(cfg.Notify.BufferSize))
	defer notifyBus.Close()

	bridge := notify.NewEventBridge(notifyBus, log)
	eventBus.Subscribe(bridge, bridge.EventTypes()...)

	// Analytics summaries are cached and dropped when a source table
	// change invalidates them
	queryCache := cache.NewQueryCache(cache.WithLogger(log))
	defer queryCache.Close()

	invalidator := cache.NewBusInvalidator(queryCache, log)
	invalidator.Start(notifyBus,
		notify.TableCustomers,
		notify.TableInvoices,
		notify.TablePayments,
		notify.TableReturns,
		notify.TableRedemptions,
		notify.TablePointsHistory,
	)
	defer invalidator.Stop()

	// Optional Redis fan-out of invalidation keys to other processes
	if cfg.Notify.BroadcastEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()

		broadcaster := notify.NewRedisBroadcaster(redisClient, notifyBus, log,
			notify.WithBroadcastChannel(cfg.Notify.RedisChannel),
		)
		broadcaster.Start(context.Background())
		defer broadcaster.Stop()
		log.Info("Invalidation broadcast enabled",
			zap.String("channel", cfg.Notify.RedisChannel),
			zap.String("redis", cfg.Redis.Addr()),
		)
	}

	// Reconciliation engine: every mutation service triggers a full
	// recompute of the affected customer's derived ledger
	ledgerService := ledgerapp.NewService(
		customerRepo,
		invoiceRepo,
		paymentRepo,
		redemptionRepo,
		pointsRepo,
		eventBus,
		log,
		ledgerapp.WithRetryConfig(ledgerapp.RetryConfig{
			Attempts:  cfg.Reconcile.RetryAttempts,
			BaseDelay: cfg.Reconcile.RetryBaseDelay,
		}),
	)

	var reconciler ledgerapp.Reconciler = ledgerService
	if cfg.Reconcile.Async {
		asyncReconciler := ledgerapp.NewAsyncReconciler(ledgerService, log)
		defer asyncReconciler.Wait()
		reconciler = asyncReconciler
		log.Info("Asynchronous reconciliation enabled")
	}

	// Initialize application services
	customerService := customerapp.NewService(customerRepo, reconciler, eventBus, log)
	invoiceService := salesapp.NewInvoiceService(invoiceRepo, customerRepo, reconciler, eventBus, log)
	paymentService := salesapp.NewPaymentService(paymentRepo, invoiceRepo, customerRepo, reconciler, eventBus, log)
	returnService := salesapp.NewReturnService(returnRepo, invoiceRepo, reconciler, eventBus, log)
	redemptionService := loyaltyapp.NewRedemptionService(redemptionRepo, customerRepo, reconciler, eventBus, log)
	pointsService := loyaltyapp.NewPointsService(pointsRepo, customerRepo, reconciler, eventBus, log)
	analyticsService := analyticsapp.NewService(invoiceRepo, paymentRepo, log)

	// Initialize router and register handlers
	r := router.New(cfg, log)
	r.Register(handler.NewSystemHandler(db, cfg.App.Name, appVersion)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewReturnHandler(returnService)).
		Register(handler.NewLoyaltyHandler(redemptionService, pointsService)).
		Register(handler.NewAnalyticsHandler(analyticsService, handler.WithSummaryCache(queryCache)))
	engine := r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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
