package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
	"unicode/utf8"

	"shopify-pixel-relay/internal/domain"
)

// DefaultScriptShop is used when the pixel script is requested without a shop
const DefaultScriptShop = "default"

var pixelScriptTemplate = template.Must(template.New("pixel").Parse(`// Shopify Pixel Script
const SHOP = {{.Shop}};
const WEBHOOK_URL = {{.WebhookURL}};
let initialized = false;

console.log('Custom pixel script loaded for shop: ' + SHOP);

export function init(analytics) {
  if (initialized) {
    return;
  }
  initialized = true;

  console.log('Initializing custom pixel analytics');

  // Subscribe to all Shopify events
  analytics.subscribe('all_events', (event) => {
    console.log('Shopify event captured:', event.name, event);

    const payload = {
      timestamp: new Date().toISOString(),
      shop: SHOP,
      eventName: event.name,
      eventData: event,
      customerId: event.customerId || null,
      clientId: event.clientId || null,
      url: event.context?.document?.url || null,
      userAgent: event.context?.navigator?.userAgent || null
    };

    fetch(WEBHOOK_URL, {
      method: 'POST',
      headers: {
        'Content-Type': 'application/json',
      },
      body: JSON.stringify(payload),
      keepalive: true,
    }).catch(error => {
      console.error('Failed to send event to webhook:', error);
    });
  });

  console.log('Custom pixel initialized successfully');
}

if (typeof analytics !== 'undefined') {
  init(analytics);
}
`))

// ScriptGenerator renders the client-side pixel script
type ScriptGenerator struct{}

// NewScriptGenerator creates a new script generator
func NewScriptGenerator() *ScriptGenerator {
	return &ScriptGenerator{}
}

// Generate renders the script for shop, posting events to webhookURL.
// Both values are embedded as JSON string literals. A shop that is not valid
// UTF-8 yields ErrInvalidShop.
func (g *ScriptGenerator) Generate(shop, webhookURL string) (string, error) {
	if shop == "" {
		shop = DefaultScriptShop
	}
	if !utf8.ValidString(shop) {
		return "", domain.ErrInvalidShop
	}

	shopLiteral, err := jsLiteral(shop)
	if err != nil {
		return "", err
	}
	urlLiteral, err := jsLiteral(webhookURL)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = pixelScriptTemplate.Execute(&buf, struct {
		Shop       string
		WebhookURL string
	}{
		Shop:       shopLiteral,
		WebhookURL: urlLiteral,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render pixel script: %w", err)
	}

	return buf.String(), nil
}

// jsLiteral encodes s as a JSON string, which is also a valid JavaScript string literal.
// json.Marshal escapes <, > and & as well as U+2028 and U+2029.
func jsLiteral(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode script literal: %w", err)
	}
	return string(b), nil
}
