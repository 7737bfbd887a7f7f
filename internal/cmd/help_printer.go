package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/chainvue/chainvue-cli/internal/output"
)

const colorEnv = "CHAINVUE_COLOR"

func helpOptions() kong.HelpOptions {
	return kong.HelpOptions{
		NoExpandSubcommands: true,
		Compact:             true,
	}
}

// helpPrinter renders kong's default help at the terminal width, adds the
// build line under Usage and colors headings and command names.
func helpPrinter(options kong.HelpOptions, ctx *kong.Context) error {
	target := ctx.Stdout
	buf := &bytes.Buffer{}
	ctx.Stdout = buf

	defer func() { ctx.Stdout = target }()

	restore := setColumns(terminalWidth(target))
	defer restore()

	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	text := withBuildLine(buf.String(), VersionString())
	text = newHelpPalette(output.ColorProfile(target, helpColorMode(ctx.Args))).apply(text)

	_, err := io.WriteString(target, text)

	return err
}

// setColumns points COLUMNS at width for kong's wrapping and returns a func
// restoring the previous value.
func setColumns(width int) func() {
	prev, had := os.LookupEnv("COLUMNS")
	_ = os.Setenv("COLUMNS", strconv.Itoa(width))

	return func() {
		if had {
			_ = os.Setenv("COLUMNS", prev)

			return
		}

		_ = os.Unsetenv("COLUMNS")
	}
}

func withBuildLine(text, build string) string {
	line := fmt.Sprintf("Build: %s", build)
	lines := strings.Split(text, "\n")

	for i, l := range lines {
		if !strings.HasPrefix(l, "Usage:") {
			continue
		}

		if i+1 < len(lines) && lines[i+1] == line {
			return text
		}

		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:i+1]...)
		out = append(out, line)
		out = append(out, lines[i+1:]...)

		return strings.Join(out, "\n")
	}

	return text
}

// helpColorMode is read from the raw arguments because help is printed
// before flag values are bound.
func helpColorMode(args []string) string {
	for i, a := range args {
		switch {
		case a == "--plain" || a == "--json":
			return output.ColorNever
		case strings.HasPrefix(a, "--color="):
			return strings.TrimPrefix(a, "--color=")
		case a == "--color" && i+1 < len(args):
			return args[i+1]
		}
	}

	if v := strings.TrimSpace(os.Getenv(colorEnv)); v != "" {
		return strings.ToLower(v)
	}

	return output.ColorAuto
}

type helpPalette struct {
	profile termenv.Profile
}

func newHelpPalette(profile termenv.Profile) helpPalette {
	return helpPalette{profile: profile}
}

func (p helpPalette) style(s, color string, bold bool) string {
	st := termenv.String(s).Foreground(p.profile.Color(color))
	if bold {
		st = st.Bold()
	}

	return st.String()
}

func (p helpPalette) apply(text string) string {
	if p.profile == termenv.Ascii {
		return text
	}

	inCommands := false
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if line == "Commands:" {
			inCommands = true
		}

		switch {
		case strings.HasPrefix(line, "Usage:"):
			lines[i] = p.style("Usage:", "#34d399", true) + strings.TrimPrefix(line, "Usage:")
		case strings.HasPrefix(line, "Build:"):
			lines[i] = p.style(line, "#9ca3af", false)
		case line == "Flags:" || line == "Commands:" || line == "Arguments:":
			lines[i] = p.style(line, "#a78bfa", true)
		case inCommands && strings.HasPrefix(line, "  ") && len(line) > 2 && line[2] != ' ':
			lines[i] = p.command(line)
		case inCommands && strings.HasPrefix(line, "    "):
			lines[i] = "    " + p.style(strings.TrimPrefix(line, "    "), "#9ca3af", false)
		}
	}

	return strings.Join(lines, "\n")
}

func (p helpPalette) command(line string) string {
	name, tail, _ := strings.Cut(strings.TrimPrefix(line, "  "), " ")
	if name == "" {
		return line
	}

	styled := "  " + p.style(name, "#22d3ee", true)
	if tail == "" {
		return styled
	}

	for _, tok := range []string{"<", ">", "[flags]"} {
		tail = strings.ReplaceAll(tail, tok, p.style(tok, "#9ca3af", false))
	}

	return styled + " " + tail
}

func terminalWidth(w io.Writer) int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}

	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}

	return 80
}
