package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/openkcm/common-sdk/pkg/commoncfg"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
	"github.com/gordonnow/session-issuer/internal/token"
	"github.com/gordonnow/session-issuer/pkg/authcookie"
)

type Manager struct {
	authenticator *identity.Authenticator
	cookies       *authcookie.Signer
	names         authcookie.Names

	// issuer is nil when the key material could not be loaded; issuerErr
	// then tells why.
	issuer    *token.Issuer
	issuerErr error

	sessionWindow time.Duration

	authCookieTemplate     config.CookieTemplate
	loggedInCookieTemplate config.CookieTemplate

	now func() time.Time
}

type Option func(*Manager)

// WithClock replaces the time source of the manager and its cookie signer.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds the session manager. Missing key material is not an
// error here: authentication and validation keep working and Issue fails
// with serviceerr.ErrMisconfigured.
func NewManager(ctx context.Context, cfg *config.Config, authenticator *identity.Authenticator, opts ...Option) (*Manager, error) {
	if authenticator == nil {
		return nil, errors.New("authenticator must not be nil")
	}
	if w := cfg.Issuer.SessionWindow; w < time.Second || w%time.Second != 0 {
		return nil, fmt.Errorf("session window must be a positive whole number of seconds, got %s", w)
	}

	m := &Manager{
		authenticator:          authenticator,
		names:                  authcookie.NamesFor(cfg.Cookies.Prefix, cfg.Cookies.CookieHash(cfg.Issuer.SiteURL)),
		sessionWindow:          cfg.Issuer.SessionWindow,
		authCookieTemplate:     cfg.Cookies.AuthTemplate,
		loggedInCookieTemplate: cfg.Cookies.LoggedInTemplate,
		now:                    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	secret, err := commoncfg.LoadValueFromSourceRef(cfg.Cookies.Secret)
	if err != nil {
		return nil, fmt.Errorf("loading cookie secret from source ref: %w", err)
	}

	m.cookies, err = authcookie.NewSigner(secret, authcookie.WithClock(m.now))
	if err != nil {
		return nil, fmt.Errorf("creating cookie signer: %w", err)
	}

	km, err := token.LoadKeyMaterial(cfg.Issuer)
	if err == nil {
		m.issuer, err = token.NewIssuer(km, cfg.Issuer.SiteURL)
	}
	if err != nil {
		m.issuerErr = err
		if errors.Is(err, token.ErrMissingKeyMaterial) {
			slogctx.Warn(ctx, "Issuer key material or audience is not configured; token issuance is disabled")
		} else {
			slogctx.Error(ctx, "Issuer key material is unusable; token issuance will fail", "error", err)
		}
	}

	return m, nil
}

// CookieNames returns the names of the session cookies.
func (m *Manager) CookieNames() authcookie.Names {
	return m.names
}

// Authenticate verifies the credentials with the identity provider.
func (m *Manager) Authenticate(ctx context.Context, creds identity.Credentials) (identity.Identity, error) {
	return m.authenticator.Authenticate(ctx, creds)
}

// Issue produces the session cookies and the assertion token for id. Either
// all artifacts are returned or none.
func (m *Manager) Issue(ctx context.Context, id identity.Identity) (IssuedSession, error) {
	if m.issuer == nil {
		if errors.Is(m.issuerErr, token.ErrMissingKeyMaterial) {
			return IssuedSession{}, serviceerr.ErrMisconfigured
		}

		return IssuedSession{}, fmt.Errorf("%w: %w", serviceerr.ErrSigningFailed, m.issuerErr)
	}

	issuedAt := m.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.sessionWindow)

	authValue, err := m.cookies.Sign(id.UserID, authcookie.SchemeAuth, expiresAt)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("%w: signing auth cookie: %w", serviceerr.ErrSigningFailed, err)
	}

	loggedInValue, err := m.cookies.Sign(id.UserID, authcookie.SchemeLoggedIn, expiresAt)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("%w: signing logged in cookie: %w", serviceerr.ErrSigningFailed, err)
	}

	tok, err := m.issuer.Mint(id.Email, issuedAt, expiresAt)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("%w: %w", serviceerr.ErrSigningFailed, err)
	}

	slogctx.Debug(ctx, "Issued session", "user_id", id.UserID, "expires_at", expiresAt)

	return IssuedSession{
		AuthCookie:     Cookie{Name: m.names.Auth, Value: authValue, ExpiresAt: expiresAt},
		LoggedInCookie: Cookie{Name: m.names.LoggedIn, Value: loggedInValue, ExpiresAt: expiresAt},
		Token:          tok,
		ExpiresAt:      expiresAt,
	}, nil
}

// Login authenticates creds and issues a session for the identity.
func (m *Manager) Login(ctx context.Context, creds identity.Credentials) (IssuedSession, error) {
	id, err := m.Authenticate(ctx, creds)
	if err != nil {
		return IssuedSession{}, err
	}

	return m.Issue(ctx, id)
}

// Validate checks both cookie values. It never calls the identity provider.
func (m *Manager) Validate(ctx context.Context, authValue, loggedInValue string) ValidationResult {
	res := ValidationResult{
		Auth:     m.cookies.Verify(authValue, authcookie.SchemeAuth),
		LoggedIn: m.cookies.Verify(loggedInValue, authcookie.SchemeLoggedIn),
	}

	slogctx.Debug(ctx, "Validated session cookies", "auth", res.Auth, "logged_in", res.LoggedIn)

	return res
}

// KeySet returns the public keys tokens are verified with.
func (m *Manager) KeySet() (jose.JSONWebKeySet, error) {
	if m.issuer == nil {
		return jose.JSONWebKeySet{}, serviceerr.ErrMisconfigured
	}

	return m.issuer.KeySet(), nil
}

// MakeCookies renders the session cookies of s for a Set-Cookie header.
func (m *Manager) MakeCookies(ctx context.Context, s IssuedSession) ([]*http.Cookie, error) {
	now := m.now()

	authCookie := m.authCookieTemplate.ToCookie(s.AuthCookie.Name, s.AuthCookie.Value, s.AuthCookie.ExpiresAt, now)
	if err := authCookie.Valid(); err != nil {
		return nil, fmt.Errorf("invalid auth cookie: %w", err)
	}

	loggedInCookie := m.loggedInCookieTemplate.ToCookie(s.LoggedInCookie.Name, s.LoggedInCookie.Value, s.LoggedInCookie.ExpiresAt, now)
	if err := loggedInCookie.Valid(); err != nil {
		return nil, fmt.Errorf("invalid logged in cookie: %w", err)
	}

	if !authCookie.Secure {
		slogctx.Warn(ctx, "Auth cookie is not marked as Secure; this is not recommended in production environments")
	}
	if !authCookie.HttpOnly {
		slogctx.Warn(ctx, "Auth cookie is not marked as HttpOnly; this is not recommended in production environments")
	}
	if !loggedInCookie.Secure {
		slogctx.Warn(ctx, "Logged in cookie is not marked as Secure; this is not recommended in production environments")
	}
	if authCookie.SameSite == http.SameSiteNoneMode && !authCookie.Secure {
		slogctx.Warn(ctx, "Auth cookie uses SameSite=None without Secure; browsers will reject it")
	}

	return []*http.Cookie{authCookie, loggedInCookie}, nil
}
