// Package markdown turns HTML error pages returned by proxies and load
// balancers into short readable text for error output.
package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const DefaultSummaryLength = 300

func ToMarkdown(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	md, err := htmltomarkdown.ConvertString(input)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}

	return md, nil
}

// Summarize converts an HTML body and folds it into a single line of at most
// limit runes. Conversion failures fall back to the raw input.
func Summarize(input string, limit int) string {
	md, err := ToMarkdown(input)
	if err != nil {
		md = input
	}

	text := strings.Join(strings.Fields(md), " ")
	if limit <= 0 {
		limit = DefaultSummaryLength
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	if limit <= 3 {
		return string(runes[:limit])
	}

	return string(runes[:limit-3]) + "..."
}

// LooksLikeHTML reports whether a response should be summarized as HTML.
func LooksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}

	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 64)])))

	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
