package entity

import "time"

// Session binds a browser to an authenticated user until it expires or the
// user logs out.
type Session struct {
	ID        string    // Random opaque identifier (UUIDv4)
	UserID    uint      // Associated user ID
	UserAgent string    // Client's User-Agent header
	IPAddress string    // Client's IP address
	CreatedAt time.Time // Session creation time
	ExpiresAt time.Time // Session expiration time
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
