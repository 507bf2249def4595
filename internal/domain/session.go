package domain

import "time"

// Session is a server-side login reference handed to the transport as an opaque token.
type Session struct {
	ID        string
	UserID    int64
	Token     string
	ExpiresAt time.Time
}
