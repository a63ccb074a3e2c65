package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/dcastano/walletcore/internal/adapter/http"
	"github.com/dcastano/walletcore/internal/adapter/http/handler"
	"github.com/dcastano/walletcore/internal/adapter/http/middleware"
	memoryRepo "github.com/dcastano/walletcore/internal/adapter/repository/memory"
	postgresRepo "github.com/dcastano/walletcore/internal/adapter/repository/postgres"
	redisRepo "github.com/dcastano/walletcore/internal/adapter/repository/redis"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/infrastructure/config"
	"github.com/dcastano/walletcore/internal/infrastructure/logger"
	"github.com/dcastano/walletcore/internal/infrastructure/metrics"
	"github.com/dcastano/walletcore/internal/infrastructure/postgres"
	"github.com/dcastano/walletcore/internal/infrastructure/redis"
	"github.com/dcastano/walletcore/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	var (
		txManager usecase.TransactionManager
		accounts  usecase.AccountStore
		entries   usecase.LedgerStore
		users     usecase.UserDirectory
		retrier   usecase.Retrier
		pool      *pgxpool.Pool
	)

	if cfg.UsesPostgres() {
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		txManager = postgresRepo.NewTxManager(pool)
		accounts = postgresRepo.NewAccountStore(pool)
		entries = postgresRepo.NewLedgerStore(pool)
		users = postgresRepo.NewUserDirectory(pool)
		retrier = postgresRepo.NewRetrier(log)
	} else {
		log.Info().Msg("using in-memory store")

		db := memoryRepo.NewDB()
		txManager = memoryRepo.NewTxManager(db)
		accounts = memoryRepo.NewAccountStore(db)
		entries = memoryRepo.NewLedgerStore(db)

		directory := memoryRepo.NewUserDirectory(db)
		seedDemoUser(directory, log)
		users = directory
	}

	var (
		redisClient      *goredis.Client
		accountCache     usecase.AccountCache
		idempotencyStore middleware.IdempotencyStore
	)

	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		accountCache = redisRepo.NewAccountCache(redisClient, cfg.AccountCacheTTL, log)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	locks := usecase.NewLockManager(cfg.LockTimeout)
	idGen := postgresRepo.NewULIDGenerator()
	m := metrics.New()

	accountUC := usecase.NewAccountUseCase(accounts, users, locks, idGen, accountCache).WithMetrics(m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accounts, entries, locks, idGen, retrier, accountCache).WithMetrics(m)
	entryUC := usecase.NewEntryUseCase(entries)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// seedDemoUser gives the in-memory backend an owner to open accounts
// against. The wallet core does not manage user lifecycle, so without
// a directory entry every open request would fail.
func seedDemoUser(directory *memoryRepo.UserDirectory, log zerolog.Logger) {
	user, err := domain.NewUser("demo-user", "Demo User", "demo@example.com", "00000000000", time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed demo user")
	}
	directory.Put(user)
	log.Info().Str("user_id", user.ID).Msg("seeded demo user")
}
