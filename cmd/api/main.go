package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shopify-pixel-relay/internal/application"
	"shopify-pixel-relay/internal/application/event_handlers"
	"shopify-pixel-relay/internal/config"
	"shopify-pixel-relay/internal/infrastructure/api"
	"shopify-pixel-relay/internal/infrastructure/cache"
	"shopify-pixel-relay/internal/infrastructure/metrics"
	"shopify-pixel-relay/internal/infrastructure/pubsub"
	"shopify-pixel-relay/internal/infrastructure/repository"
	shopifyinfra "shopify-pixel-relay/internal/infrastructure/shopify"
	"shopify-pixel-relay/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = newLogger(cfg)

	if !cfg.HasClientSecret() {
		logger.Warn().Msg("⚠️  SHOPIFY_CLIENT_SECRET is not set: OAuth callbacks will fail at token exchange")
	}
	if cfg.ClientID == config.DefaultClientID {
		logger.Warn().Msg("Using the built-in development client id, set SHOPIFY_CLIENT_ID for production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure
	var closers []io.Closer

	installationRepo, disconnect := newInstallationRepository(ctx, cfg, logger)
	defer disconnect()

	var stateStore ports.StateStore
	if cfg.EnforceState {
		store, err := newStateStore(ctx, cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize OAuth state store")
		}
		stateStore = store
		closers = append(closers, store)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	shopifyClient := shopifyinfra.NewClient(
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Scopes,
		cfg.RedirectURI,
		shopifyinfra.WithTimeout(cfg.HTTPTimeout),
		shopifyinfra.WithLogger(logger),
	)

	eventPubSub := pubsub.NewEventPubSub(logger)
	appMetrics := metrics.New()
	appMetrics.WatchEventStream(func() metrics.StreamStats {
		stats := eventPubSub.GetStats()
		return metrics.StreamStats{
			Subscribers: stats.Subscribers,
			Published:   stats.Published,
			Dropped:     stats.Dropped,
		}
	})
	if counted, ok := stateStore.(interface{ Len() int }); ok {
		appMetrics.WatchPendingStates(counted.Len)
	}

	// Initialize application services
	oauthService := application.NewOAuthService(
		shopifyClient,
		stateStore,
		installationRepo,
		application.OAuthOptions{
			DefaultShop:  cfg.DefaultShop,
			EnforceState: cfg.EnforceState,
			StateTTL:     cfg.StateTTL,
		},
		logger,
	)
	relay := application.NewEventRelay(event_handlers.Default(logger), eventPubSub, logger)

	router := api.NewRouter(api.Dependencies{
		Config:        cfg,
		Scripts:       application.NewScriptGenerator(),
		Relay:         relay,
		OAuth:         oauthService,
		Installations: application.NewInstallationService(installationRepo, logger),
		PubSub:        eventPubSub,
		Metrics:       appMetrics,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("🚀 Shopify Pixel Server starting")
		logger.Info().Msg("📝 Pixel Script URL: http://localhost:" + cfg.Port + "/pixel-script?shop=YOUR_SHOP_ID")
		logger.Info().Msg("🔗 Webhook URL: http://localhost:" + cfg.Port + "/webhook/shopify-events")
		logger.Info().Msg("🛍️  Install URL: http://localhost:" + cfg.Port + "/shopify/install/direct?shop=" + cfg.DefaultShop)
		logger.Info().Msg("📋 Instructions: http://localhost:" + cfg.Port + "/instructions")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
		if cfg.PublicHost != "" {
			logger.Info().Str("publicHost", cfg.PublicHost).Msg("Public URLs use PUBLIC_HOST")
		}

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newLogger applies LOG_LEVEL and LOG_FORMAT
func newLogger(cfg config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.LogFormat, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newInstallationRepository connects to MongoDB when MONGODB_URI is set and falls back to memory
func newInstallationRepository(ctx context.Context, cfg config.Config, logger zerolog.Logger) (ports.InstallationRepository, func()) {
	if cfg.MongoURI == "" {
		logger.Info().Msg("MONGODB_URI not set, installations are kept in memory")
		return repository.NewMemoryInstallationRepository(), func() {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}

	repo := repository.NewMongoInstallationRepository(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		logger.Warn().Err(err).Msg("Could not ensure installation indexes")
	}

	logger.Info().Str("database", cfg.MongoDatabase).Msg("Installations are stored in MongoDB")
	return repo, func() {
		_ = client.Disconnect(context.Background())
	}
}

type closableStateStore interface {
	ports.StateStore
	io.Closer
}

// newStateStore uses Redis when REDIS_URL is set and an in-memory store otherwise
func newStateStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (closableStateStore, error) {
	if cfg.RedisURL == "" {
		logger.Info().Dur("ttl", cfg.StateTTL).Msg("OAuth state enforcement on, using in-memory state store")
		return cache.NewMemoryStateStore(time.Minute), nil
	}

	store, err := cache.NewRedisStateStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Dur("ttl", cfg.StateTTL).Msg("OAuth state enforcement on, using Redis state store")
	return store, nil
}
