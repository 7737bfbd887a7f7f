package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorProfile resolves --color / CHAINVUE_COLOR against the terminal
// behind w. NO_COLOR always wins.
func ColorProfile(w io.Writer, mode string) termenv.Profile {
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.TrueColor
	default:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.EnvColorProfile())).Profile
	}
}

// Field is one line of key/value output.
type Field struct {
	Key   string
	Value string
}

// Printer writes status lines. Results and hints go to Out, problems to Err.
type Printer struct {
	Out     io.Writer
	Err     io.Writer
	profile termenv.Profile
}

func NewPrinter(out, errOut io.Writer, profile termenv.Profile) *Printer {
	return &Printer{Out: out, Err: errOut, profile: profile}
}

func (p *Printer) Profile() termenv.Profile {
	return p.profile
}

func (p *Printer) paint(s, color string) termenv.Style {
	st := termenv.String(s)
	if p.profile == termenv.Ascii {
		return st
	}

	return st.Foreground(p.profile.Color(color))
}

func (p *Printer) Bold(s string) string {
	if p.profile == termenv.Ascii {
		return s
	}

	return termenv.String(s).Bold().String()
}

func (p *Printer) Cyan(s string) string {
	return p.paint(s, "#22d3ee").String()
}

func (p *Printer) Highlight(s string) string {
	if p.profile == termenv.Ascii {
		return s
	}

	return p.paint(s, "#facc15").Bold().String()
}

func (p *Printer) Faint(s string) string {
	return p.paint(s, "#9ca3af").String()
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", p.paint("✓", "#22c55e"), fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.paint("✗", "#ef4444"), fmt.Sprintf(format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", p.paint("!", "#eab308"), fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", p.paint("→", "#3b82f6"), fmt.Sprintf(format, args...))
}

func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Faint(fmt.Sprintf(format, args...)))
}

// DimErr writes a faint hint to Err, for hints that follow an error.
func (p *Printer) DimErr(format string, args ...any) {
	fmt.Fprintln(p.Err, p.Faint(fmt.Sprintf(format, args...)))
}

// KeyValue prints fields with aligned keys. Empty values render as "-".
func (p *Printer) KeyValue(fields ...Field) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Key))
	}

	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = p.Faint("-")
		}

		key := f.Key + strings.Repeat(" ", width-len(f.Key))
		fmt.Fprintf(p.Out, "%s  %s\n", p.Bold(key), value)
	}
}
