package domain

import "time"

// OAuthSession is the server-side record of an install initiation.
// It is only written when anti-forgery state enforcement is enabled.
type OAuthSession struct {
	State     string    `json:"state"`
	Shop      string    `json:"shop"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *OAuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
