package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	jsonEnv  = "CHAINVUE_JSON"
	plainEnv = "CHAINVUE_PLAIN"
)

type Mode struct {
	JSON  bool
	Plain bool
}

func FromEnv() Mode {
	return Mode{
		JSON:  envBool(jsonEnv),
		Plain: envBool(plainEnv),
	}
}

// WriteJSON writes v indented, without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// WriteRawJSON re-encodes a raw document, compact or indented.
func WriteRawJSON(w io.Writer, raw json.RawMessage, pretty bool) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	if pretty {
		return WriteJSON(w, v)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func envBool(key string) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
