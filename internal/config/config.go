package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultClientID is the public client id of the development app.
	// It is not a secret, but production deployments should set SHOPIFY_CLIENT_ID.
	DefaultClientID = "6c1f4e0a9b7d42c38e5f1a2b3c4d5e6f"

	DefaultPort        = "3000"
	DefaultScopes      = "write_pixels,read_customer_events"
	DefaultShop        = "pixel-sandbox.myshopify.com"
	DefaultDatabase    = "pixel_relay"
	DefaultStateTTL    = 10 * time.Minute
	DefaultHTTPTimeout = 15 * time.Second
	callbackPath       = "/shopify/auth/callback"
)

// Config is the process-wide application configuration, immutable after Load
type Config struct {
	Port string

	ClientID     string
	ClientSecret string
	Scopes       string
	RedirectURI  string
	DefaultShop  string

	// PublicHost overrides the request host when building externally visible URLs
	PublicHost string

	EnforceState bool
	StateTTL     time.Duration
	HTTPTimeout  time.Duration

	RedisURL      string
	MongoURI      string
	MongoDatabase string

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads a .env file if one exists. The returned error only signals absence.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", DefaultPort),
		ClientID:      getenv("SHOPIFY_CLIENT_ID", DefaultClientID),
		ClientSecret:  strings.TrimSpace(os.Getenv("SHOPIFY_CLIENT_SECRET")),
		Scopes:        getenv("SHOPIFY_SCOPES", DefaultScopes),
		DefaultShop:   getenv("SHOPIFY_DEFAULT_SHOP", DefaultShop),
		PublicHost:    strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_HOST")), "/"),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDatabase: getenv("MONGODB_DATABASE", DefaultDatabase),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
	}

	// PUBLIC_HOST may be given with or without a scheme
	cfg.PublicHost = strings.TrimPrefix(strings.TrimPrefix(cfg.PublicHost, "https://"), "http://")

	cfg.RedirectURI = strings.TrimSpace(os.Getenv("SHOPIFY_REDIRECT_URI"))
	if cfg.RedirectURI == "" {
		if cfg.PublicHost != "" {
			cfg.RedirectURI = "https://" + cfg.PublicHost + callbackPath
		} else {
			cfg.RedirectURI = "http://localhost:" + cfg.Port + callbackPath
		}
	}

	var err error
	if cfg.EnforceState, err = getbool("OAUTH_ENFORCE_STATE", false); err != nil {
		return Config{}, err
	}
	if cfg.StateTTL, err = getduration("OAUTH_STATE_TTL", DefaultStateTTL); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getduration("SHOPIFY_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return Config{}, err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	return cfg, nil
}

// HasClientSecret reports whether the OAuth exchange can succeed at all
func (c Config) HasClientSecret() bool {
	return c.ClientSecret != ""
}

// ScopeList returns the configured scopes split on commas
func (c Config) ScopeList() []string {
	var scopes []string
	for _, s := range strings.Split(c.Scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
