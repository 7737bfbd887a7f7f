package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
)

const keysBody = `{"keys":[
	{"id":"k1","name":"CI","keyPrefix":"cv_api_live_ab","environment":"LIVE","type":"api","lastUsedAt":null,"createdAt":"2026-02-28T12:00:00Z"},
	{"id":"k2","name":"Agent","keyPrefix":"cv_agent_test_cd","environment":"TEST","type":"agent","lastUsedAt":"2026-03-01T11:30:00Z","createdAt":"2026-01-01T00:00:00Z"}
]}`

func TestKeysListRequiresLogin(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, keysBody))

	require.Equal(t, exitAuth, h.run("keys", "list"))
	require.Contains(t, h.errOut.String(), "Failed to fetch keys")
	require.Contains(t, h.errOut.String(), "Not logged in")
	require.Zero(t, h.requestCount())
}

func TestKeysListJSON(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, keysBody))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "list", "--json"))

	var keys []api.APIKey
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &keys))
	require.Len(t, keys, 2)
	require.Equal(t, "k1", keys[0].ID)

	req, _ := h.lastRequest()
	require.Equal(t, "Bearer t1", req.Header.Get("Authorization"))
}

func TestKeysListTable(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, keysBody))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "list"))

	out := h.out.String()
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "cv_agent_test_cd")
	require.Contains(t, out, "30 min ago")
	require.Contains(t, out, "Never")
}

func TestKeysListEmpty(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"keys":[]}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "list"))
	require.Contains(t, h.out.String(), "No API keys found")
}

func TestKeysCreate(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusCreated,
		`{"id":"k3","key":"cv_api_live_fullsecret","keyPrefix":"cv_api_live_fu","name":"CI","environment":"LIVE"}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "create", "--name", "CI", "--env", "live"))
	require.Contains(t, h.out.String(), "cv_api_live_fullsecret")
	require.Contains(t, h.errOut.String(), "Save this key now")

	req, body := h.lastRequest()
	require.Equal(t, http.MethodPost, req.Method)
	require.JSONEq(t, `{"name":"CI","type":"api","environment":"LIVE"}`, string(body))
}

func TestKeysCreateRequiresName(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, exitUsage, h.run("keys", "create"))
	require.Zero(t, h.requestCount())
}

func TestKeysRevoke(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"success":true}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "revoke", "k1"))
	require.Contains(t, h.out.String(), "API key revoked")

	req, _ := h.lastRequest()
	require.Equal(t, http.MethodDelete, req.Method)
	require.Equal(t, "/api/v1/keys/k1", req.URL.Path)
}

func TestKeysRevokeRejectsUnsafeID(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, exitError, h.run("keys", "revoke", "../orgs"))
	require.Contains(t, h.errOut.String(), "invalid key ID")
	require.Zero(t, h.requestCount())
}

func TestKeysRevokeRejectsFragmentAndQuery(t *testing.T) {
	for _, id := range []string{"k1#junk", "k1?force=true", "k1%23junk"} {
		t.Run(id, func(t *testing.T) {
			h := newHarness(t, jsonHandler(http.StatusOK, `{}`))
			h.login("default", acme, auth.Credentials{AccessToken: "t1"})

			require.Equal(t, exitError, h.run("keys", "revoke", id))
			require.Contains(t, h.errOut.String(), "invalid key ID")
			require.Zero(t, h.requestCount())
		})
	}
}

func TestKeysRevokeNotFound(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusNotFound, `{"error":"Key not found"}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, exitNotFound, h.run("keys", "revoke", "k404"))
	require.Contains(t, h.errOut.String(), "Key not found")
}

func TestKeysListInterrupted(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"keys":[]}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	orig := commandContext
	t.Cleanup(func() { commandContext = orig })

	commandContext = func() (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		return ctx, cancel
	}

	require.Equal(t, exitError, h.run("keys", "list"))
	require.Contains(t, h.errOut.String(), "Failed to fetch keys")
	require.Zero(t, h.requestCount())
}
