package identitymock

import (
	"context"
	"sync"

	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
)

type ProviderOption func(*Provider)

type user struct {
	password string
	identity identity.Identity
}

// Provider is an in-memory identity provider for tests.
type Provider struct {
	mu    sync.Mutex
	users map[string]user
	calls int

	verifyErr error
}

func WithUser(username, password string, id identity.Identity) ProviderOption {
	return func(p *Provider) { p.users[username] = user{password: password, identity: id} }
}

func WithVerifyError(err error) ProviderOption {
	return func(p *Provider) { p.verifyErr = err }
}

var _ = identity.Provider(&Provider{})

func NewInMemProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		users: make(map[string]user),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Calls returns how often VerifyCredentials was invoked.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls
}

func (p *Provider) VerifyCredentials(_ context.Context, username, password string) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++

	if p.verifyErr != nil {
		return identity.Identity{}, p.verifyErr
	}

	u, ok := p.users[username]
	if !ok || u.password != password {
		return identity.Identity{}, serviceerr.ErrUnauthenticated
	}

	return u.identity, nil
}
