// Package main is the entry point for the blogpress API server.
// It loads configuration, loads the blog dataset, wires the query caches,
// sets up routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"blogpress/internal/cache"
	"blogpress/internal/config"
	"blogpress/internal/database"
	"blogpress/internal/handlers"
	"blogpress/internal/middleware"
	"blogpress/internal/models"
	"blogpress/internal/router"
	"blogpress/internal/seed"
	"blogpress/internal/service"
	"blogpress/internal/storage"
	"blogpress/internal/store"
)

// cacheLogRetention is how long invalidation log entries are kept.
const cacheLogRetention = 30 * 24 * time.Hour

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"content_source", cfg.ContentSource,
	)

	ctx := context.Background()

	// PostgreSQL is only opened for the postgres content source; it also
	// backs the cache invalidation log.
	var db *sql.DB
	if cfg.ContentSource == config.SourcePostgres {
		db, err = openDatabase(ctx, cfg)
		if err != nil {
			slog.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	data, err := loadDataset(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to load dataset", "source", cfg.ContentSource, "error", err)
		os.Exit(1)
	}

	repo, err := store.NewMemoryRepository(data)
	if err != nil {
		slog.Error("invalid dataset", "error", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded",
		"posts", len(data.Posts),
		"categories", len(data.Categories),
		"authors", len(data.Authors),
	)

	// Metrics registry shared by the query cache and the HTTP layer.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// L1: in-process query result cache in front of the query service.
	svc := service.New(repo,
		service.WithMaxLimit(cfg.MaxLimit),
		service.WithFreshness(cfg.CacheTTL),
	)
	cacheMetrics := cache.NewMetrics(reg)
	queryCache := cache.NewTTLCache(cfg.CacheTTL, cache.WithMetrics(cacheMetrics))
	cached := service.NewCached(svc, queryCache)

	// L2: encoded responses in Valkey (optional).
	var pageCache *cache.PageCache
	if cfg.PageCacheEnabled() {
		var valkeyClient *redis.Client
		valkeyClient, err = cache.ConnectValkey(ctx, cache.ValkeyOptions{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL, cache.WithPageMetrics(cacheMetrics))
	} else {
		slog.Warn("valkey not configured, page cache disabled")
	}

	var cacheLog *store.CacheLogStore
	if db != nil {
		cacheLog = store.NewCacheLogStore(db)
		if n, err := cacheLog.Prune(ctx, cacheLogRetention); err != nil {
			slog.Warn("cache log prune failed", "error", err)
		} else if n > 0 {
			slog.Info("cache log pruned", "removed", n)
		}
	}

	api := handlers.NewAPI(cached, cached, pageCache, cacheLog, cfg.DefaultLimit)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer rateLimiter.Stop()

	r := router.New(api, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: rateLimiter,
		Metrics:     middleware.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openDatabase connects, migrates and, in development, seeds the
// database with the bundled sample content.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN(), database.Pool{
		MaxOpen:     cfg.DBMaxConns,
		MaxIdle:     5,
		MaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.IsDev() {
		sample, err := seed.Sample()
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := database.Seed(ctx, db, sample); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// loadDataset reads the content set from the configured source.
func loadDataset(ctx context.Context, cfg *config.Config, db *sql.DB) (models.Dataset, error) {
	switch cfg.ContentSource {
	case config.SourceEmbedded:
		return seed.Sample()
	case config.SourceFile:
		return seed.LoadFile(cfg.ContentFile)
	case config.SourcePostgres:
		return database.Load(ctx, db)
	case config.SourceS3:
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return models.Dataset{}, err
		}
		slog.Info("fetching dataset from object storage", "url", client.ObjectURL(cfg.S3Key))
		return client.FetchDataset(ctx, cfg.S3Key)
	}
	return models.Dataset{}, fmt.Errorf("unknown content source %q", cfg.ContentSource)
}
