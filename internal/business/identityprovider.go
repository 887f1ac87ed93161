package business

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/identity/httpidp"
	identitysql "github.com/gordonnow/session-issuer/internal/identity/sql"
)

// initIdentityProvider builds the configured identity provider. The returned
// close function releases its resources.
func initIdentityProvider(ctx context.Context, cfg *config.Config) (_ identity.Provider, closeFn func(), _ error) {
	switch cfg.IdentityProvider.Type {
	case config.IdentityProviderSQL, "":
		db, err := newDBPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}

		provider := identitysql.NewProvider(db, identitysql.WithEmailLogin(cfg.IdentityProvider.SQL.LookupByEmail))

		return provider, db.Close, nil
	case config.IdentityProviderHTTP:
		httpClient, err := loadHTTPClient(cfg.IdentityProvider.HTTP)
		if err != nil {
			return nil, nil, fmt.Errorf("loading http client: %w", err)
		}

		provider, err := httpidp.NewProvider(cfg.IdentityProvider.HTTP.URL, httpClient)
		if err != nil {
			return nil, nil, fmt.Errorf("creating http identity provider: %w", err)
		}

		return provider, httpClient.CloseIdleConnections, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity provider type %q", cfg.IdentityProvider.Type)
	}
}

func newDBPool(ctx context.Context, dbCfg config.Database) (*pgxpool.Pool, error) {
	connStr, err := config.MakeConnStr(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing pgxpool config: %w", err)
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	return db, nil
}

func loadHTTPClient(cfg config.HTTPIdentityProvider) (*http.Client, error) {
	clientAuth := cfg.ClientAuth

	switch clientAuth.Type {
	case config.ClientAuthMTLS:
		tlsConfig, err := commoncfg.LoadMTLSConfig(clientAuth.MTLS)
		if err != nil {
			return nil, fmt.Errorf("loading mTLS config: %w", err)
		}

		return &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		}, nil
	case config.ClientAuthClientSecret:
		secret, err := commoncfg.LoadValueFromSourceRef(clientAuth.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("loading client secret: %w", err)
		}

		return &http.Client{
			Timeout: cfg.Timeout,
			Transport: &clientAuthRoundTripper{
				clientID:     clientAuth.ClientID,
				clientSecret: string(secret),
				next:         http.DefaultTransport,
			},
		}, nil
	case config.ClientAuthInsecure, "":
		return &http.Client{Timeout: cfg.Timeout}, nil
	default:
		return nil, errors.New("unknown Client Auth type")
	}
}

// clientAuthRoundTripper authenticates every request with HTTP basic auth.
type clientAuthRoundTripper struct {
	clientID     string
	clientSecret string
	next         http.RoundTripper
}

func (t *clientAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.clientID, t.clientSecret)

	return t.next.RoundTrip(req)
}
