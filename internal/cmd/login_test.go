package cmd

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/auth"
)

const deviceCodeBody = `{"deviceCode":"d1","userCode":"ABCD-1234","verificationUri":"https://chainvue.io/device","expiresIn":600,"interval":5}`

func deviceHandler(polls ...string) http.HandlerFunc {
	var n atomic.Int32

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/auth/device":
			_, _ = w.Write([]byte(deviceCodeBody))
		case "/api/v1/auth/device/token":
			i := int(n.Add(1)) - 1
			if i >= len(polls) {
				i = len(polls) - 1
			}

			_, _ = w.Write([]byte(polls[i]))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

// fakeWait advances the command clock instead of sleeping.
func fakeWait(t *testing.T) {
	t.Helper()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	loginSleep = func(ctx context.Context, d time.Duration) error {
		clock = clock.Add(d)

		return ctx.Err()
	}
}

func TestLoginDeviceFlowPersistsSession(t *testing.T) {
	h := newHarness(t, deviceHandler(
		`{"error":"authorization_pending"}`,
		`{"accessToken":"t1","refreshToken":"r1","user":{"id":"u1","email":"a@b.com"},"organizations":[{"id":"o1","name":"Acme"},{"id":"o2","name":"Beta"}]}`,
	))
	fakeWait(t)

	require.Equal(t, 0, h.run("login"))

	out := h.out.String()
	require.Contains(t, out, "https://chainvue.io/device")
	require.Contains(t, out, "ABCD-1234")
	require.Contains(t, out, "Logged in as a@b.com")
	require.Contains(t, out, "Organization: Acme")
	require.Contains(t, out, "chainvue org switch")

	creds, err := h.creds.GetCredentials("default")
	require.NoError(t, err)
	require.Equal(t, auth.Credentials{AccessToken: "t1", RefreshToken: "r1"}, creds)

	_, profile, err := h.sessions.CurrentProfile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "o1", profile.OrgID)
	require.Equal(t, "a@b.com", profile.Email)

	req, _ := h.lastRequest()
	require.Empty(t, req.Header.Get("Authorization"))
}

func TestLoginDeviceFlowDenied(t *testing.T) {
	h := newHarness(t, deviceHandler(`{"error":"access_denied","errorDescription":"user said no"}`))
	fakeWait(t)

	require.Equal(t, exitAuth, h.run("login"))
	require.Contains(t, h.errOut.String(), "Authorization denied: user said no")

	_, profile, err := h.sessions.CurrentProfile()
	require.NoError(t, err)
	require.Nil(t, profile)

	_, err = h.creds.GetCredentials("default")
	require.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestLoginDeviceFlowTimesOut(t *testing.T) {
	h := newHarness(t, deviceHandler(`{"error":"authorization_pending"}`))
	fakeWait(t)

	require.Equal(t, exitError, h.run("login"))
	require.Contains(t, h.errOut.String(), "Authorization timed out")
}

func TestLoginWithAPIKey(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK,
		`{"user":{"id":"u9","email":"ci@acme.io"},"organization":{"id":"o9","name":"Acme CI"},"environment":"live"}`))

	require.Equal(t, 0, h.run("login", "--api-key", "cv_api_live_abc123"))
	require.Contains(t, h.out.String(), "Logged in with API key")
	require.Contains(t, h.out.String(), "Acme CI")

	req, _ := h.lastRequest()
	require.Equal(t, "/api/v1/auth/me", req.URL.Path)
	require.Equal(t, "Bearer cv_api_live_abc123", req.Header.Get("Authorization"))

	creds, err := h.creds.GetCredentials("default")
	require.NoError(t, err)
	require.Equal(t, "cv_api_live_abc123", creds.APIKey)

	_, profile, err := h.sessions.CurrentProfile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "o9", profile.OrgID)
	require.Equal(t, "live", profile.Environment)
}

func TestLoginWithMalformedAPIKey(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{}`))

	require.Equal(t, exitUsage, h.run("login", "--api-key", "sk_live_nope"))
	require.Contains(t, h.errOut.String(), "Invalid API key format")
	require.Zero(t, h.requestCount())

	exists, err := h.sessions.Exists()
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLoginWithRejectedAPIKey(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusUnauthorized, `{"error":"invalid key"}`))

	require.Equal(t, exitAuth, h.run("login", "--api-key", "cv_api_test_abc"))

	_, err := h.creds.GetCredentials("default")
	require.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestLoginWhenAlreadyLoggedIn(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("login"))
	require.Contains(t, h.errOut.String(), "Already logged in as a@b.com")
	require.Contains(t, h.out.String(), "chainvue logout")
	require.Zero(t, h.requestCount())
}

func TestLogout(t *testing.T) {
	h := newHarness(t, nil)
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("logout"))
	require.Contains(t, h.out.String(), "Logged out from a@b.com")

	_, err := h.creds.GetCredentials("default")
	require.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	_, profile, err := h.sessions.CurrentProfile()
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestLogoutWhenNotLoggedIn(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, 0, h.run("logout"))
	require.Contains(t, h.errOut.String(), "Not currently logged in")
}
