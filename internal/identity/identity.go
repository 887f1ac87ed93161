// Package identity verifies user credentials against an external identity
// provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/serviceerr"
)

// Identity is the verified user. It lives for a single request.
type Identity struct {
	UserID string
	Email  string
}

// Credentials are the username and password sent with a login request.
type Credentials struct {
	Username string
	Password string
}

// LogValue keeps the password out of the logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", "[REDACTED]"),
	)
}

// Provider is the system of record that verifies credentials.
//
// VerifyCredentials returns serviceerr.ErrUnauthenticated when the credentials
// are rejected. Any other error means the provider could not be asked.
type Provider interface {
	VerifyCredentials(ctx context.Context, username, password string) (Identity, error)
}

type Authenticator struct {
	provider Provider
}

func NewAuthenticator(provider Provider) *Authenticator {
	return &Authenticator{provider: provider}
}

// Authenticate verifies creds with exactly one provider call.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	if creds.Username == "" || creds.Password == "" {
		return Identity{}, &serviceerr.Error{
			Err:         serviceerr.CodeInvalidRequest,
			Description: "username and password are required",
		}
	}

	ctx = slogctx.With(ctx, "username", creds.Username)

	id, err := a.provider.VerifyCredentials(ctx, creds.Username, creds.Password)
	switch {
	case err == nil:
	case errors.Is(err, serviceerr.ErrUnauthenticated):
		slogctx.Info(ctx, "Credentials rejected by identity provider")
		return Identity{}, serviceerr.ErrUnauthenticated
	default:
		slogctx.Error(ctx, "Identity provider call failed", "error", err)
		return Identity{}, fmt.Errorf("%w: %w", serviceerr.ErrIdentityProviderUnavailable, err)
	}

	if id.UserID == "" || id.Email == "" {
		slogctx.Error(ctx, "Identity provider returned an incomplete identity")
		return Identity{}, fmt.Errorf("%w: incomplete identity", serviceerr.ErrIdentityProviderUnavailable)
	}

	return id, nil
}
