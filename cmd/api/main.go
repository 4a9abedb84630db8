// Package main is the entrypoint for the lost-and-found API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/0xHy0kR1/LF-backend/internal/auth"
	"github.com/0xHy0kR1/LF-backend/internal/blob"
	"github.com/0xHy0kR1/LF-backend/internal/config"
	"github.com/0xHy0kR1/LF-backend/internal/handler"
	"github.com/0xHy0kR1/LF-backend/internal/imaging"
	"github.com/0xHy0kR1/LF-backend/internal/kv"
	"github.com/0xHy0kR1/LF-backend/internal/metrics"
	"github.com/0xHy0kR1/LF-backend/internal/middleware"
	"github.com/0xHy0kR1/LF-backend/internal/repository"
	"github.com/0xHy0kR1/LF-backend/internal/server"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := initLogger(cfg)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.GetTrustedProxies())
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("connect database")
	}
	logger.Info("connected to database")

	if err := repo.Migrate(ctx, logger); err != nil {
		repo.Close()
		return fmt.Errorf("migrate: %s", sanitizeError(err, cfg.DatabaseURL))
	}

	store, err := kv.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("connect redis")
	}
	logger.Info("connected to Redis")

	blobs, blobHandler, err := newBlobStore(ctx, cfg)
	if err != nil {
		repo.Close()
		_ = store.Close()
		return err
	}
	logger.Info("blob store ready", "backend", cfg.BlobBackend)

	recorder := metrics.NewPrometheus()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	resizer := imaging.NewResizer(cfg.ImageMaxWidth, cfg.ImageMaxHeight)
	resizer.MaxPixels = cfg.ImageMaxPixels

	users := service.NewUserService(repo, tokens, logger)
	items := service.NewItemService(service.ItemDeps{
		Items:         repo,
		Notifications: repo,
		Blobs:         blobs,
		Resizer:       resizer,
		Orphans:       store,
		Logger:        logger,
		Metrics:       recorder,
	}, service.ItemConfig{
		SignedURLTTL:       cfg.SignedURLTTL,
		SignConcurrency:    cfg.SignConcurrency,
		LegacyFoundListing: cfg.LegacyFoundListing,
	})
	disclosure := service.NewDisclosureService(repo, repo, repo, items, logger, recorder)

	router := newRouter(routerDeps{
		cfg:            cfg,
		logger:         logger,
		users:          users,
		items:          items,
		disclosure:     disclosure,
		health:         handler.NewHealthHandler(repo, store),
		limiter:        store,
		recorder:       recorder,
		trustedProxies: trustedProxies,
		metricsHandler: recorder.Handler(),
		blobHandler:    blobHandler,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so it closes last.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return store.Close()
	})

	if cfg.OrphanSweepInterval > 0 {
		sweeper := service.NewOrphanSweeper(store, blobs, cfg.OrphanSweepInterval, logger, recorder)
		srv.Go("orphan_sweeper", sweeper.Run)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"legacy_found_listing", cfg.LegacyFoundListing,
	)

	return srv.Run(ctx)
}

// newBlobStore builds the configured blob backend. The memory backend also
// returns the handler that serves its signed URLs.
func newBlobStore(ctx context.Context, cfg *config.Config) (service.BlobStore, http.Handler, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMemory:
		mem := blob.NewMemoryStore(cfg.BaseURL, cfg.JWTSecret)
		return mem, mem.Handler(), nil
	default:
		s3, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:          cfg.BucketName,
			Region:          cfg.BucketRegion,
			AccessKey:       cfg.AccessKey,
			SecretAccessKey: cfg.SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init s3 blob store: %w", err)
		}
		return s3, nil, nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
