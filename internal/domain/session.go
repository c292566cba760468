package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record backing an issued token. A token is
// only accepted while its session row exists and has not expired, so
// logout can revoke tokens immediately.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at t.
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
