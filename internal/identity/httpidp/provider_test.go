package httpidp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/identity/httpidp"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
)

func TestNewProvider(t *testing.T) {
	_, err := httpidp.NewProvider("", nil)
	assert.Error(t, err)

	p, err := httpidp.NewProvider("http://localhost", nil)
	assert.NoError(t, err)
	assert.NotNil(t, p)
}

func TestProvider_VerifyCredentials(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		want        identity.Identity
		wantErr     error
		unavailable bool
	}{
		{
			name:   "numeric id",
			status: http.StatusOK,
			body:   `{"id": 42, "email": "alice@example.com"}`,
			want:   identity.Identity{UserID: "42", Email: "alice@example.com"},
		},
		{
			name:   "string id",
			status: http.StatusOK,
			body:   `{"id": "u-42", "email": "alice@example.com", "display_name": "Alice"}`,
			want:   identity.Identity{UserID: "u-42", Email: "alice@example.com"},
		},
		{name: "bad request", status: http.StatusBadRequest, body: `{"code":"incorrect_password"}`, wantErr: serviceerr.ErrUnauthenticated},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"code":"invalid_username"}`, wantErr: serviceerr.ErrUnauthenticated},
		{name: "forbidden", status: http.StatusForbidden, wantErr: serviceerr.ErrUnauthenticated},
		{name: "not found", status: http.StatusNotFound, wantErr: serviceerr.ErrUnauthenticated},
		{name: "server error", status: http.StatusInternalServerError, unavailable: true},
		{name: "bad gateway", status: http.StatusBadGateway, unavailable: true},
		{name: "malformed body", status: http.StatusOK, body: `{"id":`, unavailable: true},
		{name: "missing email", status: http.StatusOK, body: `{"id": 42}`, unavailable: true},
		{name: "null id", status: http.StatusOK, body: `{"id": null, "email": "alice@example.com"}`, unavailable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)

				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "alice", req["username"])
				assert.Equal(t, "s3cret", req["password"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := httpidp.NewProvider(srv.URL, srv.Client())
			require.NoError(t, err)

			got, err := p.VerifyCredentials(t.Context(), "alice", "s3cret")
			assert.Equal(t, int32(1), calls.Load())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotContains(t, err.Error(), "incorrect_password")
				assert.NotContains(t, err.Error(), "invalid_username")
				assert.Empty(t, got)
			case tt.unavailable:
				require.Error(t, err)
				assert.NotErrorIs(t, err, serviceerr.ErrUnauthenticated)
				assert.Empty(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProvider_VerifyCredentials_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := httpidp.NewProvider(url, nil)
	require.NoError(t, err)

	_, err = p.VerifyCredentials(t.Context(), "alice", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, serviceerr.ErrUnauthenticated)
}
