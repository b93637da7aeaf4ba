// File: internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/interfaces"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository/postgres"
	redisrepo "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository/redis"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/events/kafka"
	httphandler "github.com/TaK0JR/ABK-Review-Dashboard/internal/handler/http"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/service"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/utils/logger"
)

// Run boots the service and blocks until shutdown completes.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Environment)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting auth service", zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	cipher, err := security.NewTokenCipher(cfg.Crypto.Key, cfg.Crypto.IV)
	if err != nil {
		return fmt.Errorf("failed to init token cipher: %w", err)
	}
	// Refuse to start with a cipher that cannot read its own output.
	if err := cipher.SelfTest(); err != nil {
		return fmt.Errorf("token cipher self-test failed: %w", err)
	}

	jwtService := security.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := postgres.NewUserRepositoryPostgres(pool)
	connRepo := postgres.NewConnectionRepositoryPostgres(pool)
	activityRepo := postgres.NewActivityLogRepositoryPostgres(pool)
	stateStore := redisrepo.NewStateStore(redisClient)

	providers := buildProviders(cfg, log)

	var producer *kafka.Producer
	if cfg.Kafka.Enabled() {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer producer.Close() //nolint:errcheck
	}

	authService := service.NewAuthService(cfg, log, userRepo, jwtService)
	connectionService := service.NewConnectionService(log, connRepo, activityRepo, cipher, providers, producer)
	oauthService := service.NewOAuthService(cfg, log, providers, stateStore, connectionService)

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Config:      cfg,
		Logger:      log,
		JWT:         jwtService,
		Auth:        httphandler.NewAuthHandler(cfg, log, authService),
		Connections: httphandler.NewConnectionHandler(log, connectionService),
		OAuth:       httphandler.NewOAuthHandler(cfg, log, oauthService),
		Health:      httphandler.NewHealthHandler(pool, redisClient),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("http server listening", zap.String("addr", server.Addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// buildProviders constructs an adapter per configured platform. Platforms
// missing from the configuration simply do not appear in the map, so every
// lookup miss surfaces as an unsupported-platform error downstream.
func buildProviders(cfg *config.Config, log *zap.Logger) map[models.Provider]interfaces.OAuthProvider {
	providers := make(map[models.Provider]interfaces.OAuthProvider)
	for name, pc := range cfg.OAuthProviders {
		if pc.ClientID == "" || pc.ClientSecret == "" {
			log.Warn("skipping oauth provider with incomplete credentials", zap.String("provider", name))
			continue
		}
		switch models.Provider(name) {
		case models.ProviderFacebook:
			providers[models.ProviderFacebook] = service.NewFacebookProvider(pc)
		case models.ProviderGoogleBusiness:
			providers[models.ProviderGoogleBusiness] = service.NewGoogleBusinessProvider(pc)
		case models.ProviderInstagram:
			providers[models.ProviderInstagram] = service.NewInstagramProvider(pc)
		default:
			log.Warn("unknown oauth provider in config", zap.String("provider", name))
		}
	}
	return providers
}

func runMigrations(cfg *config.Config, log *zap.Logger) error {
	m, err := migrate.New(cfg.Database.MigrationsPath, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck

	start := time.Now()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("migrations up to date")
			return nil
		}
		return err
	}
	log.Info("migrations applied", zap.Duration("elapsed", time.Since(start)))
	return nil
}
