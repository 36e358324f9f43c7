package app

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "solarmon/backend/libs/redis"
	"solarmon/backend/services/meter-service/internal/auth"
	"solarmon/backend/services/meter-service/internal/cache"
	"solarmon/backend/services/meter-service/internal/config"
	"solarmon/backend/services/meter-service/internal/db"
	httpserver "solarmon/backend/services/meter-service/internal/http"
	"solarmon/backend/services/meter-service/internal/http/handlers"
	"solarmon/backend/services/meter-service/internal/http/middleware"
	"solarmon/backend/services/meter-service/internal/observability"
	"solarmon/backend/services/meter-service/internal/repository"
	"solarmon/backend/services/meter-service/internal/service"
	"solarmon/backend/services/meter-service/internal/telegram"
	"solarmon/backend/services/meter-service/internal/ws"
)

// Options tunes startup.
type Options struct {
	Migrate bool
}

// App wires all dependencies for the meter service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// OpenDatabase connects to the configured Postgres database.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return db.NewPostgres(ctx, cfg.Database.DSN)
}

// New builds the application graph. ctx bounds the lifetime of websocket subscribers.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	sqlDB, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{db: sqlDB, logger: logger}

	if opts.Migrate {
		if err := db.Migrate(ctx, sqlDB); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database schema applied")
	}

	readingRepo := repository.NewReadingRepository(sqlDB)
	baselineRepo := repository.NewBaselineRepository(sqlDB)
	metrics := observability.NewMetrics()

	var statsCache service.StatsCache
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		statsCache = cache.NewStatsCache(client, cfg.CacheTTL())
	} else {
		logger.Info("redis not configured, stats cache disabled")
	}

	hub := ws.NewHub(logger)
	wsServer := ws.NewServer(ctx, hub, cfg.WriteTimeout(), logger)

	readingsService := service.NewReadingsService(readingRepo, baselineRepo, statsCache, hub, metrics, logger)
	statsService := service.NewStatsService(readingRepo, baselineRepo, statsCache, metrics, logger)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authenticator := auth.NewAuthenticator(auth.NewBcryptHasher(0), cfg.Auth.PasswordHash, tokens)
	if !authenticator.Enabled() {
		logger.Warn("auth not configured, manual reading entry is unavailable")
	}

	bot := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.TelegramTimeout(), logger)
	if !bot.Enabled() {
		logger.Warn("telegram bot token not configured, replies disabled")
	}
	chatID, chatConfigured := cfg.TelegramChatID()

	router := httpserver.NewRouter(httpserver.RouterDeps{
		TelegramHandler: handlers.NewTelegramHandler(readingsService, bot, handlers.TelegramSettings{
			ChatID:         chatID,
			ChatConfigured: chatConfigured,
			SecretToken:    cfg.Telegram.SecretToken,
			Location:       cfg.Location(),
		}, metrics, logger),
		StatsHandlers:    handlers.NewStatsHandlers(statsService, cfg.Location()),
		ReadingsHandlers: handlers.NewReadingsHandlers(readingsService, cfg.Location(), logger),
		AuthHandlers:     handlers.NewAuthHandlers(authenticator, logger),
		HealthHandler:    handlers.NewHealthHandler(sqlDB),
		WebSocketHandler: wsServer.HandleWS,
		MetricsHandler:   metrics.Handler(),
	}, middleware.AuthMiddleware(tokens))

	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)
	return a, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
