package identitysql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/identity/password"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
)

const (
	selectByUsername = `SELECT id, email, password_hash FROM users WHERE username = $1;`
	selectByLogin    = `SELECT id, email, password_hash FROM users WHERE username = $1 OR email = $1 ORDER BY (username = $1) DESC LIMIT 1;`
)

// Querier is the subset of pgxpool.Pool the provider needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Option func(*Provider)

// WithEmailLogin also accepts the email address as login name.
func WithEmailLogin(enabled bool) Option {
	return func(p *Provider) { p.lookupByEmail = enabled }
}

// Provider verifies credentials against the users table.
type Provider struct {
	db            Querier
	lookupByEmail bool
}

var _ = identity.Provider(&Provider{})

func NewProvider(db Querier, opts ...Option) *Provider {
	p := &Provider{
		db:            db,
		lookupByEmail: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *Provider) VerifyCredentials(ctx context.Context, username, pass string) (identity.Identity, error) {
	query := selectByUsername
	if p.lookupByEmail {
		query = selectByLogin
	}

	var (
		id     int64
		email  string
		hash   string
		exists = true
	)

	err := p.db.QueryRow(ctx, query, username).Scan(&id, &email, &hash)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return identity.Identity{}, fmt.Errorf("querying user: %w", err)
		}

		exists = false
		hash = password.DummyHash
	}

	ok, err := password.Verify(pass, hash)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("verifying password of user %d: %w", id, err)
	}
	if !ok || !exists {
		return identity.Identity{}, serviceerr.ErrUnauthenticated
	}

	return identity.Identity{
		UserID: strconv.FormatInt(id, 10),
		Email:  email,
	}, nil
}
