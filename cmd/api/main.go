package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"quotation_backend/internal/adapters/storage"
	"quotation_backend/internal/catalog"
	"quotation_backend/internal/events"
	"quotation_backend/internal/exports"
	apphttp "quotation_backend/internal/http"
	"quotation_backend/internal/http/router"
	"quotation_backend/internal/quotation"
	quotservice "quotation_backend/internal/quotation/service"
	"quotation_backend/internal/search"
	"quotation_backend/platform/config"
	"quotation_backend/platform/db"
	"quotation_backend/platform/logger"
	"quotation_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Redis-backed catalog list cache; nil client disables caching
	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Storage service for exported workbooks (MinIO)
	storageSvc := initStorage(ctx, cfg, log)

	// Pricing policy: defaults unless a YAML file overrides them
	policy, err := quotservice.LoadPolicy(cfg.GetPricingPolicyPath())
	if err != nil {
		log.Error("failed to load pricing policy", "error", err, "path", cfg.GetPricingPolicyPath())
		panic("failed to load pricing policy: " + err.Error())
	}
	log.Info("pricing policy loaded", "tiers", len(policy.CloudTiers), "path", cfg.GetPricingPolicyPath())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(pool, redisClient, eventBus, val, log)
	catalogModule.RegisterHandlers(eventBus)

	// The quotation module reads the catalog through the repository interface.
	quotationModule := quotation.NewModule(pool, catalogModule.Repository(), policy, eventBus, val, log)

	exportsModule := exports.NewModule(quotationModule.Service(), storageSvc, cfg, eventBus, log)

	searchModule := search.NewModule(pool, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			quotationModule,
			exportsModule,
			searchModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initRedis builds the catalog cache client, or nil when Redis is not
// configured or unreachable. Caching is an optimization, never a dependency.
func initRedis(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_ADDR not configured; catalog list caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable; catalog list caching disabled", "error", err)
		_ = client.Close()
		return nil
	}

	log.Info("redis connection established", "addr", cfg.GetRedisAddr())
	return client
}

// initStorage builds the MinIO-backed storage service, or nil when object
// storage is not configured. Exports then fail with a configuration error.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; quotation exports disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketQuotationExports())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketQuotationExports())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure catalog assets bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketCatalogAssets())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketCatalogAssets())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	log.Info(
		"storage service initialized",
		"exportsBucket", cfg.GetMinioBucketQuotationExports(),
		"catalogAssetsBucket", cfg.GetMinioBucketCatalogAssets(),
	)
	return storageSvc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
