package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/config"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/dataset"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/jobs"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/labor"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/seed"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/server"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/store"
)

// catalogStore is a catalog backend the server can seed at startup.
type catalogStore interface {
	jobs.CatalogStore
	SeedCatalog(ctx context.Context, c models.Catalog) error
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires the backends and serves until ctx is cancelled. Every backend
// opened here is closed before it returns, including on a startup error.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	for _, key := range cfg.Insecure() {
		log.Warn("running with a demo fallback", "setting", key)
	}

	memStore := store.NewMemoryStore()
	var (
		users   auth.UserStore = memStore
		catalog catalogStore   = memStore
	)

	// ── PostgreSQL ────────────────────────────────────────────
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
		users = pgStore
		log.Info("users stored in postgres")
	}

	// ── MongoDB ──────────────────────────────────────────────
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer mongoClient.Disconnect(context.Background())
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		catalog = mongoStore
		if cfg.PostgresDSN == "" {
			users = mongoStore
		}
		log.Info("catalog stored in mongo", "db", cfg.MongoDB)
	}

	// ── Redis ────────────────────────────────────────────────
	var (
		sessions   auth.SessionStore = auth.NewMemorySessionStore(cfg.SessionTTL)
		laborCache labor.Cache       = labor.NewMemoryCache()
	)
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb, cfg.SessionTTL)
		laborCache = labor.NewRedisCache(rdb)
		log.Info("sessions and labor cache stored in redis")
	}

	// ── MinIO ────────────────────────────────────────────────
	loader := &dataset.Loader{Path: cfg.DatasetPath, Object: cfg.DatasetObject, Log: log}
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio connect: %w", err)
		}
		loader.Objects = minioStore
	}

	// ── Dataset and catalog ──────────────────────────────────
	data, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := catalog.SeedCatalog(ctx, analytics.BuildCatalog(data.Listings)); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	engine := analytics.NewEngine(data.Listings)

	if cfg.SeedUsersPath != "" {
		seeds, err := seed.Load(cfg.SeedUsersPath)
		if err != nil {
			return fmt.Errorf("read seed users: %w", err)
		}
		if _, err := seed.Apply(ctx, users, seeds, log); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	// ── Labor data ───────────────────────────────────────────
	laborSvc := labor.NewService(
		labor.NewBLSClient(cfg.BLSBaseURL, cfg.BLSAPIKey),
		labor.NewONetClient(cfg.ONetBaseURL, cfg.ONetAPIKey),
		laborCache, log,
	)

	// ── Router ───────────────────────────────────────────────
	handler := server.NewRouter(server.Deps{
		Users:       users,
		Catalog:     catalog,
		Sessions:    sessions,
		Cookies:     auth.NewCookieSigner(cfg.SessionSecret, cfg.SessionTTL),
		Tokens:      auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Engine:      engine,
		Labor:       laborSvc,
		Dataset:     data.Raw,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("backend listening", "addr", srv.Addr, "listings", len(data.Listings), "dataset", data.Source)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
