package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestPrinterPlainGlyphs(t *testing.T) {
	var out, errOut bytes.Buffer

	p := NewPrinter(&out, &errOut, termenv.Ascii)
	p.Success("Logged in as %s", "a@b.com")
	p.Info("No API keys found")
	p.Error("Not logged in")
	p.Warn("Already logged in")

	if got := out.String(); got != "✓ Logged in as a@b.com\n→ No API keys found\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}

	if got := errOut.String(); got != "✗ Not logged in\n! Already logged in\n" {
		t.Fatalf("unexpected stderr: %q", got)
	}
}

func TestPrinterKeyValueAligns(t *testing.T) {
	var out bytes.Buffer

	p := NewPrinter(&out, &out, termenv.Ascii)
	p.KeyValue(
		Field{"Email", "a@b.com"},
		Field{"Organization", "Acme"},
		Field{"Org ID", ""},
	)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	want := []string{
		"Email         a@b.com",
		"Organization  Acme",
		"Org ID        -",
	}

	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestColorProfileNever(t *testing.T) {
	if got := ColorProfile(&bytes.Buffer{}, ColorNever); got != termenv.Ascii {
		t.Fatalf("expected ascii profile, got %v", got)
	}
}

func TestHighlightJSONPlain(t *testing.T) {
	var buf bytes.Buffer

	if err := HighlightJSON(&buf, `{"a":1}`, termenv.Ascii); err != nil {
		t.Fatalf("highlight: %v", err)
	}

	if buf.String() != `{"a":1}` {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestHighlightJSONColored(t *testing.T) {
	var buf bytes.Buffer

	if err := HighlightJSON(&buf, `{"a":1}`, termenv.ANSI256); err != nil {
		t.Fatalf("highlight: %v", err)
	}

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}
