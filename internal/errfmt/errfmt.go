// Package errfmt turns command errors into a short message plus an
// actionable hint.
package errfmt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/login"
)

const loginHint = "Run: chainvue login"

// Message is what a command prints: Text after the error glyph, Hint dimmed
// on the following line.
type Message struct {
	Text string
	Hint string
}

// Describe classifies err into a user-facing message.
func Describe(err error) Message {
	if err == nil {
		return Message{}
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return describeAPIError(apiErr)
	}

	var flowErr *login.FlowError
	if errors.As(err, &flowErr) {
		if flowErr.State == login.StateDenied {
			return Message{Text: "Authorization denied: " + flowErr.Message, Hint: "Run chainvue login again to retry"}
		}

		return Message{Text: flowErr.Message}
	}

	var partial *login.PartialRemovalError
	if errors.As(err, &partial) {
		return Message{Text: partial.Error(), Hint: "Run chainvue logout again to retry"}
	}

	switch {
	case errors.Is(err, login.ErrExpired):
		return Message{Text: "Authorization timed out", Hint: "Please try again"}
	case errors.Is(err, login.ErrKeyRejected):
		return Message{Text: err.Error(), Hint: "Check the key, or create a new one with: chainvue keys create"}
	case errors.Is(err, auth.ErrInvalidAPIKey):
		return Message{Text: "Invalid API key format", Hint: "API keys should start with cv_api_ or cv_agent_"}
	case errors.Is(err, auth.ErrNotAuthenticated), errors.Is(err, auth.ErrCredentialsNotFound):
		return Message{Text: "Not logged in", Hint: loginHint}
	}

	return Message{Text: err.Error()}
}

func describeAPIError(err *api.APIError) Message {
	msg := Message{Text: err.Message}

	switch {
	case err.IsTransport():
		msg.Hint = "Check your network connection and the API endpoint (chainvue config show)"
	case err.StatusCode == http.StatusUnauthorized:
		if !strings.Contains(err.Message, "chainvue login") {
			msg.Hint = loginHint
		}
	case err.StatusCode == http.StatusForbidden:
		msg.Hint = "Your role in this organization does not allow this action"
	case err.StatusCode == http.StatusNotFound:
		msg.Hint = "The resource doesn't exist or you don't have access"
	case err.StatusCode == http.StatusTooManyRequests:
		msg.Hint = "Rate limit exceeded, wait a moment and try again"
		if err.RetryAfter > 0 {
			msg.Hint = fmt.Sprintf("Rate limit exceeded, retry after %d seconds", err.RetryAfter)
		}
	case err.StatusCode >= http.StatusInternalServerError && !strings.HasPrefix(err.Message, "HTTP "):
		msg.Text = fmt.Sprintf("%s (%d)", err.Message, err.StatusCode)
	}

	if err.Details != "" {
		msg.Hint = strings.TrimSpace(strings.Join([]string{err.Details, msg.Hint}, "\n"))
	}

	return msg
}

// Format renders err for errors no command reported itself.
func Format(err error) string {
	if err == nil {
		return ""
	}

	m := Describe(err)

	var sb strings.Builder

	sb.WriteString("Error: " + m.Text + "\n")

	if m.Hint != "" {
		sb.WriteString("\n")

		for _, line := range strings.Split(m.Hint, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}
