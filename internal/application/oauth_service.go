package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	"github.com/rs/zerolog"
)

// OAuthOptions configures the install flow
type OAuthOptions struct {
	DefaultShop  string
	EnforceState bool
	StateTTL     time.Duration
}

// OAuthService implements install initiation and the authorization code callback
type OAuthService struct {
	client        ports.ShopifyClient
	states        ports.StateStore
	installations ports.InstallationRepository
	opts          OAuthOptions
	logger        zerolog.Logger
	now           func() time.Time
}

// NewOAuthService creates a new OAuth service.
// states is only used when opts.EnforceState is set; installations may be nil.
func NewOAuthService(
	client ports.ShopifyClient,
	states ports.StateStore,
	installations ports.InstallationRepository,
	opts OAuthOptions,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		client:        client,
		states:        states,
		installations: installations,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// InstallRedirect is the result of initiating an install
type InstallRedirect struct {
	Shop    string
	State   string
	AuthURL string
}

// InitiateInstall generates anti-forgery state and builds the authorization URL for shop
func (s *OAuthService) InitiateInstall(ctx context.Context, shop string) (*InstallRedirect, error) {
	if shop == "" {
		shop = s.opts.DefaultShop
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	authURL, err := s.client.AuthorizeURL(shop, state)
	if err != nil {
		return nil, err
	}

	if s.opts.EnforceState {
		session := &domain.OAuthSession{
			State:     state,
			Shop:      shop,
			CreatedAt: s.now(),
		}
		if err := s.states.Save(ctx, session, s.opts.StateTTL); err != nil {
			return nil, fmt.Errorf("failed to save OAuth state: %w", err)
		}
	}

	s.logger.Info().
		Str("shop", shop).
		Str("state", state).
		Str("authUrl", authURL).
		Bool("stateStored", s.opts.EnforceState).
		Msg("Redirecting to Shopify OAuth")

	return &InstallRedirect{
		Shop:    shop,
		State:   state,
		AuthURL: authURL,
	}, nil
}

// CallbackParams carries the query of an OAuth callback request
type CallbackParams struct {
	Code  string
	Shop  string
	State string
	// URL is the full callback URL, used for hmac verification when present
	URL *url.URL
}

// InstallResult describes a completed install
type InstallResult struct {
	Shop        string
	Scope       string
	Success     bool
	HMACValid   bool
	RedirectURL string
}

// CompleteInstall exchanges the authorization code for an access token.
// The token is logged masked and never stored.
func (s *OAuthService) CompleteInstall(ctx context.Context, params CallbackParams) (*InstallResult, error) {
	var missing []string
	if params.Code == "" {
		missing = append(missing, "code")
	}
	if params.Shop == "" {
		missing = append(missing, "shop")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingParameter, strings.Join(missing, ", "))
	}

	s.logger.Info().
		Str("shop", params.Shop).
		Str("state", params.State).
		Msg("OAuth callback received")

	if s.opts.EnforceState {
		if err := s.checkState(ctx, params.Shop, params.State); err != nil {
			return nil, err
		}
	}

	hmacValid := false
	if params.URL != nil {
		valid, err := s.client.VerifyCallback(params.URL)
		if err != nil {
			s.logger.Warn().Err(err).Str("shop", params.Shop).Msg("Could not verify callback hmac")
		}
		hmacValid = valid
	}

	token, err := s.client.ExchangeToken(ctx, params.Shop, params.Code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", params.Shop).Msg("Token exchange failed")
		return nil, err
	}

	logEvent := s.logger.Info().
		Str("shop", params.Shop).
		Str("accessToken", token.MaskedToken()).
		Str("scope", token.Scope).
		Bool("hmacValid", hmacValid)
	if token.AssociatedUser != nil {
		logEvent = logEvent.
			Str("associatedUser", token.AssociatedUser.FullName()).
			Str("associatedUserEmail", token.AssociatedUser.Email)
	}
	logEvent.Msg("Shopify app installed")

	s.recordInstallation(ctx, params, token)

	return &InstallResult{
		Shop:        params.Shop,
		Scope:       token.Scope,
		Success:     true,
		HMACValid:   hmacValid,
		RedirectURL: fmt.Sprintf("https://%s/admin/apps", params.Shop),
	}, nil
}

func (s *OAuthService) checkState(ctx context.Context, shop, state string) error {
	if state == "" {
		return fmt.Errorf("%w: state not supplied", domain.ErrInvalidState)
	}

	session, err := s.states.Consume(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to load OAuth state: %w", err)
	}
	if session == nil {
		s.logger.Warn().Str("shop", shop).Str("state", state).Msg("Unknown or expired OAuth state")
		return domain.ErrInvalidState
	}
	if session.Shop != shop {
		s.logger.Warn().
			Str("shop", shop).
			Str("expectedShop", session.Shop).
			Msg("OAuth state issued for a different shop")
		return fmt.Errorf("%w: shop mismatch", domain.ErrInvalidState)
	}
	return nil
}

func (s *OAuthService) recordInstallation(ctx context.Context, params CallbackParams, token *domain.AccessTokenResult) {
	if s.installations == nil {
		return
	}

	installation := &domain.Installation{
		Shop:        params.Shop,
		Scope:       token.Scope,
		State:       params.State,
		InstalledAt: s.now().UTC(),
	}
	if token.AssociatedUser != nil {
		installation.AssociatedUserEmail = token.AssociatedUser.Email
	}

	if err := s.installations.Save(ctx, installation); err != nil {
		s.logger.Error().Err(err).Str("shop", params.Shop).Msg("Failed to record installation")
	}
}
