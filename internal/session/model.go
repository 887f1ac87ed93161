package session

import (
	"time"

	"github.com/gordonnow/session-issuer/internal/token"
)

// Cookie is a named opaque cookie value and the instant it stops being
// accepted.
type Cookie struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// IssuedSession carries everything handed out on a successful login. All
// artifacts share the same expiry.
type IssuedSession struct {
	AuthCookie     Cookie
	LoggedInCookie Cookie
	Token          token.AssertionToken
	ExpiresAt      time.Time
}

// ValidationResult reports the validity of each session cookie separately.
type ValidationResult struct {
	Auth     bool
	LoggedIn bool
}

// Valid reports whether both cookies are valid.
func (r ValidationResult) Valid() bool {
	return r.Auth && r.LoggedIn
}
