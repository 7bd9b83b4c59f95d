package api

import (
	"net/http"

	"shopify-pixel-relay/docs"
	"shopify-pixel-relay/internal/application"
	"shopify-pixel-relay/internal/config"
	"shopify-pixel-relay/internal/infrastructure/metrics"
	appmiddleware "shopify-pixel-relay/internal/infrastructure/middleware"
	"shopify-pixel-relay/internal/infrastructure/pubsub"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Dependencies are the services the HTTP surface is composed from
type Dependencies struct {
	Config        config.Config
	Scripts       *application.ScriptGenerator
	Relay         *application.EventRelay
	OAuth         *application.OAuthService
	Installations *application.InstallationService
	PubSub        *pubsub.EventPubSub
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
}

// NewRouter builds the chi router with every route and middleware
func NewRouter(deps Dependencies) http.Handler {
	pixel := NewPixelHandler(deps.Scripts, deps.Relay, deps.PubSub, deps.Metrics, deps.Config.PublicHost, deps.Logger)
	oauth := NewOAuthHandler(deps.OAuth, deps.Metrics, deps.Logger)
	status := NewStatusHandler(deps.Config, deps.Installations, deps.Logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(deps.Logger))
	r.Use(appmiddleware.Metrics(deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
	}))

	r.Get("/", status.Root)
	r.Get("/health", status.Health)
	r.Get(instructionsPath, status.Instructions)

	r.Get(pixelScriptPath, pixel.Script)
	r.Post(webhookPath, pixel.Receive)
	r.Get(webhookStreamPath, pixel.Stream)

	r.Get(installPath, oauth.Install)
	r.Get(callbackPath, oauth.Callback)

	r.Get("/installations", status.ListInstallations)
	r.Get("/installations/{shop}", status.GetInstallation)

	r.Handle("/metrics", deps.Metrics.Handler())

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
