package api

import (
	"errors"
	"fmt"
	"net/http"

	"shopify-pixel-relay/internal/application"
	"shopify-pixel-relay/internal/config"
	"shopify-pixel-relay/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Endpoints EndpointMap   `json:"endpoints"`
	Config    ConfigSummary `json:"config"`
}

// EndpointMap lists the public routes
type EndpointMap struct {
	PixelScript  string `json:"pixelScript"`
	Webhook      string `json:"webhook"`
	Install      string `json:"install"`
	Callback     string `json:"callback"`
	Instructions string `json:"instructions"`
}

// ConfigSummary is the non-secret part of the app configuration
type ConfigSummary struct {
	ClientID               string   `json:"clientId"`
	Scopes                 []string `json:"scopes"`
	RedirectURI            string   `json:"redirectUri"`
	ClientSecretConfigured bool     `json:"clientSecretConfigured"`
}

// InstructionsResponse is the body of GET /instructions
type InstructionsResponse struct {
	Title           string   `json:"title"`
	Steps           []string `json:"steps"`
	WebhookEndpoint string   `json:"webhookEndpoint"`
}

// StatusHandler serves the descriptive endpoints and installation lookups
type StatusHandler struct {
	cfg           config.Config
	installations *application.InstallationService
	logger        zerolog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(cfg config.Config, installations *application.InstallationService, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		cfg:           cfg,
		installations: installations,
		logger:        logger,
	}
}

// Root handles GET /
func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "healthy",
		Message: "Shopify Pixel Server POC",
		Endpoints: EndpointMap{
			PixelScript:  pixelScriptPath + "?shop=YOUR_SHOP_ID",
			Webhook:      webhookPath,
			Install:      installPath + "?shop=YOUR_SHOP.myshopify.com",
			Callback:     callbackPath,
			Instructions: instructionsPath,
		},
		Config: ConfigSummary{
			ClientID:               h.cfg.ClientID,
			Scopes:                 h.cfg.ScopeList(),
			RedirectURI:            h.cfg.RedirectURI,
			ClientSecretConfigured: h.cfg.HasClientSecret(),
		},
	}, h.logger)
}

// Instructions handles GET /instructions
func (h *StatusHandler) Instructions(w http.ResponseWriter, r *http.Request) {
	base := serverURL(r, h.cfg.PublicHost)

	writeJSON(w, http.StatusOK, InstructionsResponse{
		Title: "How to use this Shopify Pixel Server",
		Steps: []string{
			"1. In your Shopify admin, go to Settings > Customer events > Web pixels",
			"2. Click 'Add custom pixel'",
			"3. Use this code in your pixel:",
			fmt.Sprintf(`async function loadAndInit() {
  try {
    const { init } = await import("%s%s?shop=YOUR_SHOP_ID");
    init(analytics);
  } catch (error) {
    console.error("Error loading custom pixel:", error);
  }
}
loadAndInit();`, base, pixelScriptPath),
			"4. Replace YOUR_SHOP_ID with your actual shop identifier",
			"5. Save and activate the pixel",
			"6. Events will be logged to this server's console and sent to the webhook",
		},
		WebhookEndpoint: base + webhookPath,
	}, h.logger)
}

// Health handles GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// ListInstallations handles GET /installations
func (h *StatusHandler) ListInstallations(w http.ResponseWriter, r *http.Request) {
	installations, err := h.installations.ListInstallations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list installations", err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"installations": installations}, h.logger)
}

// GetInstallation handles GET /installations/{shop}
func (h *StatusHandler) GetInstallation(w http.ResponseWriter, r *http.Request) {
	installation, err := h.installations.GetInstallation(r.Context(), chi.URLParam(r, "shop"))
	switch {
	case errors.Is(err, domain.ErrInstallationNotFound):
		writeError(w, http.StatusNotFound, "Installation not found", err, h.logger)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to get installation", err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, installation, h.logger)
}
