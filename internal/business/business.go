package business

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/business/server"
	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/session"
)

// Main starts the REST API server and blocks until ctx is cancelled.
func Main(ctx context.Context, cfg *config.Config) error {
	sessionManager, closeFn, err := initSessionManager(ctx, cfg)
	if err != nil {
		return oops.In("main").
			WithContext(ctx).
			Wrapf(err, "initialising the session manager")
	}
	defer closeFn()

	mux := http.NewServeMux()

	registry, err := newHookRegistry(cfg, mux, sessionManager)
	if err != nil {
		return oops.In("main").
			WithContext(ctx).
			Wrapf(err, "registering hooks")
	}

	slogctx.Info(ctx, "Registered hooks", "hooks", registry.Names())

	for _, name := range []string{HookActivate, HookPluginsLoaded, HookRESTAPIInit} {
		if err := registry.Do(ctx, name); err != nil {
			return oops.In("main").
				WithContext(ctx).
				Wrapf(err, "running %s hooks", name)
		}
	}

	defer func() {
		if err := registry.Do(context.WithoutCancel(ctx), HookDeactivate); err != nil {
			slogctx.Error(ctx, "Failed to run deactivate hooks", "error", err)
		}
	}()

	return server.StartHTTPServer(ctx, cfg, mux)
}

func initSessionManager(ctx context.Context, cfg *config.Config) (_ *session.Manager, closeFn func(), _ error) {
	provider, closeFn, err := initIdentityProvider(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising the identity provider: %w", err)
	}

	sessManager, err := session.NewManager(ctx, cfg, identity.NewAuthenticator(provider))
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("creating session manager: %w", err)
	}

	return sessManager, closeFn, nil
}
