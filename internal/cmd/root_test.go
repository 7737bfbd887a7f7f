package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/login"
)

func TestUnknownCommandIsUsageError(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, exitUsage, h.run("frobnicate"))
	require.NotEmpty(t, h.errOut.String())
}

func TestHelpExitsCleanly(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, 0, h.run("--help"))

	out := h.out.String()
	require.Contains(t, out, "Usage: chainvue")
	require.Contains(t, out, "Build: "+VersionString())
	require.Contains(t, out, "webhooks")
}

func TestConflictingOutputFlags(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, exitUsage, h.run("whoami", "--json", "--plain"))
}

func TestVersion(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, 0, h.run("version"))
	require.Equal(t, VersionString()+"\n", h.out.String())
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { version, commit, date = origVersion, origCommit, origDate })

	version, commit, date = "1.2.0", "", ""
	require.Equal(t, "1.2.0", VersionString())

	commit = "abc1234"
	require.Equal(t, "1.2.0 (abc1234)", VersionString())

	date = "2026-03-01"
	require.Equal(t, "1.2.0 (abc1234 2026-03-01)", VersionString())

	version, commit = " ", ""
	require.Equal(t, "dev (2026-03-01)", VersionString())
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			h := newHarness(t, nil)

			require.Equal(t, 0, h.run("completion", shell))

			out := h.out.String()
			require.Contains(t, out, "chainvue")
			require.Contains(t, out, "webhooks")
			require.True(t, strings.Contains(out, "set-endpoint"), "subcommands missing:\n%s", out)
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), exitError},
		{"unauthorized", &api.APIError{StatusCode: 401}, exitAuth},
		{"not found", &api.APIError{StatusCode: 404}, exitNotFound},
		{"rate limited", &api.APIError{StatusCode: 429}, api.ExitRateLimit},
		{"bad key", fmt.Errorf("%w: x", auth.ErrInvalidAPIKey), exitUsage},
		{"rejected key", fmt.Errorf("%w: x", login.ErrKeyRejected), exitAuth},
		{"missing profile", fmt.Errorf("%w: x", config.ErrProfileNotFound), exitNotFound},
		{"denied", &login.FlowError{State: login.StateDenied}, exitAuth},
		{"explicit", &ExitError{Code: 7, Err: errors.New("x")}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestHelpColorMode(t *testing.T) {
	t.Setenv("CHAINVUE_COLOR", "always")

	require.Equal(t, "never", helpColorMode([]string{"keys", "--json"}))
	require.Equal(t, "never", helpColorMode([]string{"--color=never"}))
	require.Equal(t, "auto", helpColorMode([]string{"--color", "auto"}))
	require.Equal(t, "always", helpColorMode(nil))
}

func TestVerboseLogsToStderr(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"keys":[]}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "list", "--json", "-v"))
	require.Contains(t, h.errOut.String(), "request completed")
	require.NotContains(t, h.out.String(), "request completed")
}

func TestQuietByDefault(t *testing.T) {
	h := newHarness(t, jsonHandler(http.StatusOK, `{"keys":[]}`))
	h.login("default", acme, auth.Credentials{AccessToken: "t1"})

	require.Equal(t, 0, h.run("keys", "list", "--json"))
	require.NotContains(t, h.errOut.String(), "request completed")
}
