package domain

import "errors"

var (
	// ErrMissingParameter is returned when a required query parameter is absent
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrTokenExchange is returned when the shop's token endpoint rejects the exchange
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrInvalidState is returned when state enforcement is on and the callback state is unknown
	ErrInvalidState = errors.New("invalid or expired state")

	// ErrInstallationNotFound is returned when no installation is recorded for a shop
	ErrInstallationNotFound = errors.New("installation not found")

	// ErrMalformedJSON is returned when a request body is not JSON at all
	ErrMalformedJSON = errors.New("malformed JSON body")

	// ErrInvalidShop is returned when a shop identifier cannot be embedded verbatim in the pixel script
	ErrInvalidShop = errors.New("shop identifier is not valid UTF-8")

	// ErrInvalidEnvelope is returned when a JSON body cannot be read as an event envelope
	ErrInvalidEnvelope = errors.New("invalid event envelope")
)
