//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonnow/session-issuer/internal/dbtest/postgrestest"
)

func TestAPIServer(t *testing.T) {
	const cmdName = "api-server"

	ctx := t.Context()

	istat := initInfra(t, cmdName)
	defer istat.Close(ctx)

	istat.PreparePostgres(t)
	istat.PrepareKeys(t)
	istat.PrepareConfig(t)

	currdir, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")

	t.Chdir(istat.Procdir)

	cmd := exec.CommandContext(ctx, filepath.Join(currdir, binaryName), cmdName, "--graceful-shutdown", "0s")

	cmdOutPath := filepath.Join(currdir, cmdName+".log")
	cmdOut, err := os.Create(cmdOutPath)
	require.NoError(t, err, "failed to create an log file")
	defer cmdOut.Close()

	cmd.Stdout = cmdOut
	cmd.Stderr = cmdOut
	t.Logf("starting an app process. Logs will be saved into %s", cmdOutPath)

	require.NoError(t, cmd.Start(), "could not start command")
	// defer the graceful stop of the service so that coverprofiles are written
	defer func() {
		_ = syscall.Kill(cmd.Process.Pid, syscall.SIGTERM)
		_ = cmd.Wait()
	}()

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return new(net.Dialer).DialContext(ctx, "unix", istat.SocketPath)
			},
		},
	}

	const baseURL = "http://session-issuer/gordon-now-app/v1"

	// give the server some time to start before running the test
	require.Eventually(t, func() bool {
		resp, err := client.Get(baseURL + "/jwks.json")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond, "server did not come up")

	postJSON := func(t *testing.T, path string, body any) *http.Response {
		t.Helper()

		payload, err := json.Marshal(body)
		require.NoError(t, err)

		resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
		require.NoError(t, err)

		return resp
	}

	var loggedIn struct {
		JWT        string `json:"jwt"`
		Expiration int64  `json:"expiration"`
		Cookies    struct {
			Auth     struct{ Name, Value string } `json:"auth"`
			LoggedIn struct{ Name, Value string } `json:"logged_in"`
		} `json:"cookies"`
	}

	t.Run("authenticate user", func(t *testing.T) {
		resp := postJSON(t, "/authenticate-user", map[string]string{
			"username": postgrestest.AliceUsername,
			"password": postgrestest.AlicePassword,
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&loggedIn))

		assert.NotEmpty(t, loggedIn.Cookies.Auth.Value)
		assert.NotEmpty(t, loggedIn.Cookies.LoggedIn.Value)
		assert.Greater(t, loggedIn.Expiration, time.Now().Unix())
	})

	t.Run("jwt verifies against the published key set", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/jwks.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		var keys jose.JSONWebKeySet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&keys))
		require.Len(t, keys.Keys, 1)

		tok, err := jwt.ParseSigned(loggedIn.JWT, []jose.SignatureAlgorithm{jose.RS256})
		require.NoError(t, err)

		var claims jwt.Claims
		require.NoError(t, tok.Claims(keys.Keys[0].Key, &claims))
		assert.Equal(t, postgrestest.AliceEmail, claims.Subject)
		assert.Equal(t, loggedIn.Expiration, claims.Expiry.Time().Unix())
	})

	t.Run("validate issued cookies", func(t *testing.T) {
		resp := postJSON(t, "/validate-cookies", map[string]string{
			"auth_cookie":      loggedIn.Cookies.Auth.Value,
			"logged_in_cookie": loggedIn.Cookies.LoggedIn.Value,
		})
		defer resp.Body.Close()

		var got struct {
			Auth     bool `json:"auth"`
			LoggedIn bool `json:"logged_in"`
			Valid    bool `json:"valid"`
		}
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Auth)
		assert.True(t, got.LoggedIn)
		assert.True(t, got.Valid)
	})

	t.Run("login by email", func(t *testing.T) {
		resp := postJSON(t, "/authenticate-user", map[string]string{
			"username": postgrestest.BobEmail,
			"password": postgrestest.BobPassword,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	for _, creds := range []map[string]string{
		{"username": postgrestest.AliceUsername, "password": "wrong"},
		{"username": "mallory", "password": postgrestest.AlicePassword},
	} {
		t.Run("reject "+creds["username"]+" with generic error", func(t *testing.T) {
			resp := postJSON(t, "/authenticate-user", creds)
			defer resp.Body.Close()

			var got struct {
				Error            string `json:"error"`
				ErrorDescription string `json:"error_description"`
			}
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, "unauthenticated", got.Error)
			assert.Equal(t, "invalid username or password", got.ErrorDescription)
		})
	}
}
