// Package app собирает зависимости сервиса и HTTP сервер поверх них.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/untibullet/ideaflow/internal/config"
	"github.com/untibullet/ideaflow/internal/handlers"
	"github.com/untibullet/ideaflow/internal/metrics"
	"github.com/untibullet/ideaflow/internal/migrations"
	"github.com/untibullet/ideaflow/internal/repository"
	"github.com/untibullet/ideaflow/internal/services/profile"
	"github.com/untibullet/ideaflow/internal/services/reviews"
	"github.com/untibullet/ideaflow/internal/services/users"
	"github.com/untibullet/ideaflow/internal/services/workflow"
	"github.com/untibullet/ideaflow/internal/storage/files"
	"go.uber.org/zap"
)

type App struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	echo   *echo.Echo
	logger *zap.Logger
}

// New подключается к базе, применяет миграции и регистрирует маршруты
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := migrations.Run(pool, cfg.Migrations.Path); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("migrations applied", zap.String("path", cfg.Migrations.Path))

	uploads, err := files.New(cfg.Storage.UploadDir)
	if err != nil {
		pool.Close()
		return nil, err
	}

	repo := repository.New(pool)
	m := metrics.New(prometheus.DefaultRegisterer)
	reviewService := reviews.New(repo, m, logger)

	handler := handlers.New(handlers.Services{
		Accounts: users.New(repo, logger),
		Workflow: workflow.New(repo, m, logger),
		Reviews:  reviewService,
		Profiles: profile.New(repo, reviewService, logger),
		Uploads:  uploads,
	}, logger)

	e := newEcho(cfg.Storage, logger)
	handler.RegisterRoutes(e)
	e.Static(files.URLPrefix, uploads.Root())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		if err := repo.Ping(c.Request().Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &App{cfg: cfg, pool: pool, echo: e, logger: logger}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и закрывает пул
func (a *App) Run(ctx context.Context) error {
	defer a.pool.Close()

	errCh := make(chan error, 1)
	go func() {
		addr := a.cfg.Server.GetAddress()
		a.logger.Info("server listening", zap.String("address", addr))
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// newEcho создает сервер с логированием запросов через zap
func newEcho(storage config.StorageConfig, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request error", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", storage.MaxUploadBytes())))
	return e
}

// connect инициализирует пул подключений к PostgreSQL
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
