package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an upstream error body is carried into error messages
const maxErrorBody = 4 << 10

type client struct {
	apiKey      string
	apiSecret   string
	scopes      string
	redirectURI string
	app         goshopify.App
	httpClient  *http.Client
	logger      zerolog.Logger
}

// Option configures the client
type Option func(*client)

// WithHTTPClient replaces the HTTP client used for the token exchange
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the token exchange timeout on the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *client) {
		c.logger = logger
	}
}

// NewClient creates a new Shopify OAuth client adapter
func NewClient(apiKey, apiSecret, scopes, redirectURI string, opts ...Option) ports.ShopifyClient {
	c := &client{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		scopes:      scopes,
		redirectURI: redirectURI,
		app: goshopify.App{
			ApiKey:      apiKey,
			ApiSecret:   apiSecret,
			RedirectUrl: redirectURI,
			Scope:       scopes,
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) AuthorizeURL(shop string, state string) (string, error) {
	if shop == "" {
		return "", fmt.Errorf("%w: shop", domain.ErrMissingParameter)
	}

	// Shopify expects scopes to be comma-separated (no spaces)
	authURL := fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		url.QueryEscape(c.apiKey),
		url.QueryEscape(c.scopes),
		url.QueryEscape(c.redirectURI),
		url.QueryEscape(state),
	)

	if _, err := url.Parse(authURL); err != nil {
		return "", fmt.Errorf("invalid shop domain %q: %w", shop, err)
	}

	c.logger.Debug().
		Str("shop", shop).
		Str("scopes", c.scopes).
		Str("auth_url_masked", fmt.Sprintf("https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=...&state=...", shop, c.apiKey, c.scopes)).
		Msg("Generated OAuth authorization URL")

	return authURL, nil
}

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (*domain.AccessTokenResult, error) {
	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)

	body, err := json.Marshal(map[string]string{
		"client_id":     c.apiKey,
		"client_secret": c.apiSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrTokenExchange, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result domain.AccessTokenResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &result, nil
}

func (c *client) VerifyCallback(u *url.URL) (bool, error) {
	if u.Query().Get("hmac") == "" {
		return false, nil
	}
	return c.app.VerifyAuthorizationURL(u)
}
