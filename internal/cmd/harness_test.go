package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
)

// harness runs commands against a temp config dir, an in-memory keyring and
// an optional fake server.
type harness struct {
	t        *testing.T
	out      bytes.Buffer
	errOut   bytes.Buffer
	creds    auth.Store
	sessions *config.Store

	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("CHAINVUE_CONFIG_DIR", dir)
	t.Setenv("CHAINVUE_PROFILE", "")
	t.Setenv("CHAINVUE_JSON", "")
	t.Setenv("CHAINVUE_PLAIN", "")
	t.Setenv("CHAINVUE_COLOR", "never")
	t.Setenv("CHAINVUE_NO_BROWSER", "1")
	t.Setenv("NO_COLOR", "1")

	h := &harness{
		t:        t,
		creds:    auth.NewKeyringStore(keyring.NewArrayKeyring(nil)),
		sessions: config.NewStore(filepath.Join(dir, "config.yaml")),
	}

	if handler != nil {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := new(bytes.Buffer)
			_, _ = body.ReadFrom(r.Body)

			h.mu.Lock()
			h.requests = append(h.requests, r.Clone(context.Background()))
			h.bodies = append(h.bodies, body.Bytes())
			h.mu.Unlock()

			handler(w, r)
		}))
		t.Cleanup(srv.Close)

		t.Setenv("CHAINVUE_API_ENDPOINT", srv.URL)
		t.Setenv("CHAINVUE_GRAPHQL_ENDPOINT", srv.URL+"/graphql")
	} else {
		t.Setenv("CHAINVUE_API_ENDPOINT", "http://127.0.0.1:1")
		t.Setenv("CHAINVUE_GRAPHQL_ENDPOINT", "http://127.0.0.1:1/graphql")
	}

	origOut, origErr := stdout, stderr
	origCreds, origNow, origSleep, origBrowser := openCredentials, now, loginSleep, openBrowser

	stdout, stderr = &h.out, &h.errOut
	openCredentials = func() (auth.Store, error) { return h.creds, nil }
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	openBrowser = func(string) error {
		t.Error("browser must not be opened in tests")

		return nil
	}

	t.Cleanup(func() {
		stdout, stderr = origOut, origErr
		openCredentials, now, loginSleep, openBrowser = origCreds, origNow, origSleep, origBrowser
	})

	return h
}

func (h *harness) run(args ...string) int {
	h.t.Helper()

	return ExitCode(Execute(args))
}

// login stores a profile and credentials as a completed login would.
func (h *harness) login(name string, p config.Profile, c auth.Credentials) {
	h.t.Helper()

	require.NoError(h.t, h.creds.SetCredentials(name, c))
	require.NoError(h.t, h.sessions.SetCurrentProfile(name, p))
}

func (h *harness) requestCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.requests)
}

func (h *harness) lastRequest() (*http.Request, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	require.NotEmpty(h.t, h.requests)

	i := len(h.requests) - 1

	return h.requests[i], h.bodies[i]
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

var acme = config.Profile{OrgID: "o1", OrgName: "Acme", Email: "a@b.com", UserID: "u1", Environment: config.EnvLive}
