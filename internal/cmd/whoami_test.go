package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/auth"
)

func TestWhoamiNotLoggedIn(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, exitAuth, h.run("whoami"))
	require.Contains(t, h.errOut.String(), "Not logged in")
	require.Contains(t, h.errOut.String(), "chainvue login")
}

func TestWhoamiJSON(t *testing.T) {
	h := newHarness(t, nil)
	h.login("default", acme, auth.Credentials{APIKey: "cv_api_live_x", AccessToken: "t1"})

	require.Equal(t, 0, h.run("whoami", "--json"))

	var got whoamiResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	require.Equal(t, whoamiResult{
		Email:        "a@b.com",
		Organization: orgRecord{ID: "o1", Name: "Acme"},
		Environment:  "live",
		AuthMethod:   auth.MethodAPIKey,
		APIEndpoint:  "http://127.0.0.1:1",
		Profile:      "default",
	}, got)
}

func TestWhoamiText(t *testing.T) {
	h := newHarness(t, nil)
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("whoami"))

	out := h.out.String()
	require.Contains(t, out, "Email         a@b.com")
	require.Contains(t, out, "Auth Method   Session")
	require.Zero(t, h.requestCount())
}

func TestWhoamiWithoutCredentials(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.sessions.SetCurrentProfile("default", acme))

	require.Equal(t, 0, h.run("whoami"))
	require.Contains(t, h.out.String(), "Auth Method   none (run chainvue login)")
	require.NotContains(t, h.out.String(), auth.MethodSession)

	h.out.Reset()
	require.Equal(t, 0, h.run("whoami", "--json"))

	var got whoamiResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	require.Equal(t, "none", got.AuthMethod)
}

func TestWhoamiKeyringUnavailable(t *testing.T) {
	h := newHarness(t, nil)
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	openCredentials = func() (auth.Store, error) { return nil, errors.New("keyring locked") }

	require.Equal(t, 0, h.run("whoami"))
	require.Contains(t, h.out.String(), "Auth Method   none (run chainvue login)")
}
