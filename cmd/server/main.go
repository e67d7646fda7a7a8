// Command accountd starts the user-account HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/avkram/accountd/internal/config"
	"github.com/avkram/accountd/internal/crypto"
	"github.com/avkram/accountd/internal/migrate"
	"github.com/avkram/accountd/internal/repository"
	"github.com/avkram/accountd/internal/repository/memory"
	"github.com/avkram/accountd/internal/repository/postgres"
	httpserver "github.com/avkram/accountd/internal/server/http"
	"github.com/avkram/accountd/internal/service"
	"github.com/avkram/accountd/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
// Backend connectivity failures at startup degrade to the in-memory store and
// stateless tokens instead of crashing.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr()),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// User store: Postgres when reachable, in-memory otherwise.
	var users repository.UserRepository
	var dbPing func(context.Context) error
	if cfg.DatabaseURL != "" {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = db.Ping(ctx)
		}
		if err != nil {
			logger.Warn("postgres unavailable, falling back to in-memory store", zap.Error(err))
		} else {
			if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
				logger.Fatal("migrate up", zap.Error(err))
			}
			defer db.Close()
			users = postgres.NewUserRepo(db)
			dbPing = db.Ping
		}
	}
	if users == nil {
		logger.Warn("using in-memory user store; data is lost on restart")
		users = memory.NewUserRepo()
	}

	// Revocation store: Redis when reachable, stateless tokens otherwise.
	var revocations token.RevocationStore
	var redisPing func(context.Context) error
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis url", zap.Error(err))
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, tokens run in stateless mode", zap.Error(err))
			_ = client.Close()
		} else {
			defer func() { _ = client.Close() }()
			revocations = token.NewRedisStore(client)
			redisPing = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	if revocations == nil {
		logger.Warn("no revocation store; logout will not invalidate tokens (development mode)")
	}

	hasher := crypto.NewBcryptHasher(cfg.HashWorkers)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.JWTExpiry, revocations)
	accounts := service.NewAccountService(users, tokens, hasher)
	batch := service.NewBatchRegistrar(accounts, cfg.BatchLimit, logger)

	srv := httpserver.New(httpserver.Config{
		Accounts:    accounts,
		Batch:       batch,
		Logger:      logger,
		MaxPageSize: cfg.MaxPageSize,
		DBPing:      dbPing,
		RedisPing:   redisPing,
	})
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr()))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
		logger.Info("stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}
}
