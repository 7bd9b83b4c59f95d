package ports

import (
	"context"
	"net/url"

	"shopify-pixel-relay/internal/domain"
)

// ShopifyClient defines the OAuth operations performed against a shop
type ShopifyClient interface {
	// AuthorizeURL builds the URL the merchant is redirected to for consent
	AuthorizeURL(shop string, state string) (string, error)

	// ExchangeToken trades an authorization code for an access token (one outbound call)
	ExchangeToken(ctx context.Context, shop string, code string) (*domain.AccessTokenResult, error)

	// VerifyCallback checks the hmac parameter Shopify appends to the callback URL
	VerifyCallback(u *url.URL) (bool, error)
}
