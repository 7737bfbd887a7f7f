package output

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"
)

const highlightStyle = "monokai"

func chromaFormatter(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	default:
		return "terminal"
	}
}

// HighlightJSON writes src with syntax colors when the profile allows it and
// falls back to the plain text otherwise.
func HighlightJSON(w io.Writer, src string, profile termenv.Profile) error {
	if profile == termenv.Ascii {
		_, err := io.WriteString(w, src)

		return err
	}

	if err := quick.Highlight(w, src, "json", chromaFormatter(profile), highlightStyle); err != nil {
		return fmt.Errorf("highlight json: %w", err)
	}

	return nil
}
