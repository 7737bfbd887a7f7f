package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/markdown"
)

// Result is the uniform envelope every outbound call resolves to.
type Result[T any] struct {
	OK     bool            `json:"ok"`
	Status int             `json:"status"`
	Data   *T              `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Raw    json.RawMessage `json:"-"`
	Detail string          `json:"-"`

	// RetryAfter is the server's suggested wait in seconds on a 429.
	RetryAfter int `json:"-"`
}

// Err returns nil for successful results and an *APIError otherwise.
func (r Result[T]) Err() error {
	if r.OK {
		return nil
	}

	return &APIError{
		StatusCode: r.Status,
		Message:    r.Error,
		Details:    r.Detail,
		RetryAfter: r.RetryAfter,
	}
}

func failure[T any](status int, msg string) Result[T] {
	return Result[T]{Status: status, Error: msg}
}

func unauthenticated[T any](msg string) Result[T] {
	return failure[T](http.StatusUnauthorized, msg)
}

const maxDetailLength = 300

// decodeResult turns a status code and body into a Result. Data is set
// whenever the body decodes into T, for failures as well.
func decodeResult[T any](status int, contentType string, body []byte) Result[T] {
	res := Result[T]{Status: status}

	if len(body) > 0 && json.Valid(body) {
		res.Raw = json.RawMessage(body)

		var v T
		if err := json.Unmarshal(body, &v); err == nil {
			res.Data = &v
		}
	}

	if status < http.StatusBadRequest {
		res.OK = true

		return res
	}

	res.Error = serverMessage(res.Raw)
	if res.Error == "" {
		res.Error = fmt.Sprintf("HTTP %d", status)
	}

	if res.Raw == nil && len(body) > 0 {
		res.Detail = bodyDetail(contentType, body)
	}

	return res
}

// serverMessage extracts the server-supplied error text from a JSON body.
func serverMessage(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}

	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	if s, ok := payload.Error.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}

	return strings.TrimSpace(payload.Message)
}

func bodyDetail(contentType string, body []byte) string {
	if markdown.LooksLikeHTML(contentType, body) {
		return markdown.Summarize(string(body), maxDetailLength)
	}

	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) > maxDetailLength {
		text = text[:maxDetailLength-3] + "..."
	}

	return text
}
