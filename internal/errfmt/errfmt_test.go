package errfmt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/login"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
		wantHint string
	}{
		{
			name:     "not logged in keeps its own hint",
			err:      &api.APIError{StatusCode: 401, Message: "Not logged in. Run: chainvue login"},
			wantText: "Not logged in. Run: chainvue login",
		},
		{
			name:     "server 401",
			err:      &api.APIError{StatusCode: 401, Message: "Unauthorized"},
			wantText: "Unauthorized",
			wantHint: "Run: chainvue login",
		},
		{
			name:     "server error",
			err:      &api.APIError{StatusCode: 500, Message: "db down"},
			wantText: "db down (500)",
		},
		{
			name:     "html error page",
			err:      &api.APIError{StatusCode: 502, Message: "HTTP 502", Details: "502 Bad Gateway"},
			wantText: "HTTP 502",
			wantHint: "502 Bad Gateway",
		},
		{
			name:     "rate limited with retry hint",
			err:      &api.APIError{StatusCode: 429, Message: "Too many requests", RetryAfter: 30},
			wantText: "Too many requests",
			wantHint: "Rate limit exceeded, retry after 30 seconds",
		},
		{
			name:     "expired",
			err:      fmt.Errorf("login: %w", login.ErrExpired),
			wantText: "Authorization timed out",
			wantHint: "Please try again",
		},
		{
			name:     "bad key",
			err:      fmt.Errorf("%w: nope", auth.ErrInvalidAPIKey),
			wantText: "Invalid API key format",
			wantHint: "API keys should start with cv_api_ or cv_agent_",
		},
		{
			name:     "plain",
			err:      errors.New("boom"),
			wantText: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if got.Text != tt.wantText {
				t.Fatalf("text = %q, want %q", got.Text, tt.wantText)
			}

			if got.Hint != tt.wantHint {
				t.Fatalf("hint = %q, want %q", got.Hint, tt.wantHint)
			}
		})
	}
}

func TestDescribeDenied(t *testing.T) {
	got := Describe(&login.FlowError{State: login.StateDenied, Message: "access_denied"})

	if !strings.Contains(got.Text, "denied") {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestFormatIndentsHint(t *testing.T) {
	got := Format(&api.APIError{StatusCode: 404, Message: "Not found"})
	want := "Error: Not found\n\n  The resource doesn't exist or you don't have access\n"

	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
