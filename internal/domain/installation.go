package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccessTokenResult is the token endpoint response for an authorization code exchange
type AccessTokenResult struct {
	AccessToken    string          `json:"access_token"`
	Scope          string          `json:"scope"`
	AssociatedUser *AssociatedUser `json:"associated_user,omitempty"`
}

// MaskedToken returns the access token with all but a short prefix hidden
func (r *AccessTokenResult) MaskedToken() string {
	if len(r.AccessToken) <= 8 {
		return strings.Repeat("*", len(r.AccessToken))
	}
	return fmt.Sprintf("%s...(%d chars)", r.AccessToken[:6], len(r.AccessToken))
}

// AssociatedUser is present for online-access tokens
type AssociatedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName joins first and last name
func (u *AssociatedUser) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Installation records a completed OAuth handshake for a shop.
// Access tokens are never stored on it.
type Installation struct {
	Shop                string    `json:"shop"`
	Scope               string    `json:"scope"`
	AssociatedUserEmail string    `json:"-"`
	State               string    `json:"-"`
	InstalledAt         time.Time `json:"installed_at"`
}
