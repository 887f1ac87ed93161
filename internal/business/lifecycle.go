package business

import (
	"context"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/business/server"
	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/hooks"
	"github.com/gordonnow/session-issuer/internal/openapi"
	"github.com/gordonnow/session-issuer/internal/session"
)

// Lifecycle hook names, run in this order.
const (
	HookActivate      = "activate"
	HookPluginsLoaded = "plugins_loaded"
	HookRESTAPIInit   = "rest_api_init"
	HookDeactivate    = "deactivate"
)

// HookAuthenticateUserResponse filters successful AuthenticateUser bodies.
const HookAuthenticateUserResponse = server.AuthenticateUserResponseFilter

// TextDomain is the translation domain of the user facing messages.
const TextDomain = "gordon-now-app"

// newHookRegistry registers the lifecycle handlers, route registration and
// response filters and freezes the registry.
func newHookRegistry(cfg *config.Config, mux *http.ServeMux, sManager *session.Manager) (*hooks.Registry, error) {
	r := hooks.NewRegistry()

	registrations := []struct {
		name string
		fn   hooks.Action
	}{
		{HookActivate, activate},
		{HookPluginsLoaded, loadTextDomain},
		{HookRESTAPIInit, func(ctx context.Context) error {
			server.RegisterRoutes(mux, cfg, sManager, r)
			slogctx.Info(ctx, "Registered REST routes", "namespace", server.Namespace)
			return nil
		}},
		{HookDeactivate, deactivate},
	}

	for _, reg := range registrations {
		if err := r.AddAction(reg.name, reg.fn); err != nil {
			return nil, err
		}
	}

	if err := r.AddFilter(HookAuthenticateUserResponse, logIssuedSession); err != nil {
		return nil, err
	}

	r.Freeze()

	return r, nil
}

func activate(ctx context.Context) error {
	slogctx.Debug(ctx, "Activated")
	return nil
}

// loadTextDomain is a no-op: all messages ship in English.
func loadTextDomain(ctx context.Context) error {
	slogctx.Debug(ctx, "Loaded text domain", "domain", TextDomain)
	return nil
}

// logIssuedSession records the issued cookie names and expiry. Cookie values
// and the token are never logged.
func logIssuedSession(ctx context.Context, value any) (any, error) {
	if resp, ok := value.(openapi.AuthenticateUserResponse); ok {
		slogctx.Info(ctx, "Issued session",
			"auth_cookie", resp.Cookies.Auth.Name,
			"logged_in_cookie", resp.Cookies.LoggedIn.Name,
			"expiration", resp.Expiration,
		)
	}

	return value, nil
}

func deactivate(ctx context.Context) error {
	slogctx.Debug(ctx, "Deactivated")
	return nil
}
