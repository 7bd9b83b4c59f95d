package api

import (
	"errors"
	"net/http"

	"shopify-pixel-relay/internal/application"
	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// OAuthHandler serves the install redirect and the OAuth callback
type OAuthHandler struct {
	oauth   *application.OAuthService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauth *application.OAuthService, m *metrics.Metrics, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauth:   oauth,
		metrics: m,
		logger:  logger,
	}
}

// Install handles GET /shopify/install/direct
func (h *OAuthHandler) Install(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.oauth.InitiateInstall(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to initiate install")
		writeError(w, http.StatusInternalServerError, "Failed to initiate install", err, h.logger)
		return
	}

	h.metrics.InstallInitiated()
	http.Redirect(w, r, redirect.AuthURL, http.StatusFound)
}

// Callback handles GET /shopify/auth/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// only the query is signed, so r.URL is enough for hmac verification
	result, err := h.oauth.CompleteInstall(r.Context(), application.CallbackParams{
		Code:  query.Get("code"),
		Shop:  query.Get("shop"),
		State: query.Get("state"),
		URL:   r.URL,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrMissingParameter):
			h.metrics.Callback(metrics.ResultMissingParam)
		case errors.Is(err, domain.ErrInvalidState):
			h.metrics.Callback(metrics.ResultInvalidState)
			status = http.StatusForbidden
		default:
			h.metrics.Callback(metrics.ResultExchangeFail)
		}
		h.logger.Error().Err(err).Int("status", status).Msg("OAuth callback failed")
		writeError(w, status, "OAuth callback failed", err, h.logger)
		return
	}

	h.metrics.Callback(metrics.ResultSuccess)
	w.Header().Set("X-Shopify-Install-Success", "true")
	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}
