// Package httpidp verifies credentials against a remote identity provider
// speaking JSON over HTTP.
package httpidp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
)

// maxResponseSize bounds how much of a provider response is read.
const maxResponseSize = 64 << 10

type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyResponse struct {
	ID    userID `json:"id"`
	Email string `json:"email"`
}

// userID accepts both numeric and string identifiers.
type userID string

func (u *userID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = userID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = userID(n.String())

	return nil
}

type Provider struct {
	url    string
	client *http.Client
}

var _ = identity.Provider(&Provider{})

// NewProvider returns a provider posting credentials to url. The client's
// transport is instrumented with OpenTelemetry.
func NewProvider(url string, client *http.Client) (*Provider, error) {
	if url == "" {
		return nil, errors.New("identity provider url must not be empty")
	}
	if client == nil {
		client = &http.Client{}
	}

	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	instrumented := *client
	instrumented.Transport = otelhttp.NewTransport(base)

	return &Provider{
		url:    url,
		client: &instrumented,
	}, nil
}

func (p *Provider) VerifyCredentials(ctx context.Context, username, password string) (identity.Identity, error) {
	body, err := json.Marshal(verifyRequest{Username: username, Password: password})
	if err != nil {
		return identity.Identity{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return identity.Identity{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		// The provider's diagnostics stay here.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		slogctx.Debug(ctx, "Identity provider rejected credentials", "status", resp.StatusCode)

		return identity.Identity{}, serviceerr.ErrUnauthenticated
	default:
		return identity.Identity{}, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&vr); err != nil {
		return identity.Identity{}, fmt.Errorf("decoding response: %w", err)
	}
	if vr.ID == "" || vr.Email == "" {
		return identity.Identity{}, errors.New("response is missing id or email")
	}

	return identity.Identity{
		UserID: string(vr.ID),
		Email:  vr.Email,
	}, nil
}
