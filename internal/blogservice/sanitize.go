package blogservice

import (
	"regexp"
	"strings"
)

var (
	scriptTagPattern  = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func sanitizeHTML(content string) string {
	return scriptTagPattern.ReplaceAllString(content, "")
}

// stripHTML removes markup and collapses whitespace, leaving plain text.
func stripHTML(content string) string {
	text := htmlTagPattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Describe derives a share description for a post: the excerpt when present,
// otherwise the stripped content truncated to maxLen runes with an ellipsis,
// otherwise the fallback.
func (p *Post) Describe(maxLen int, fallback string) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}

	text := stripHTML(p.Content)
	if text == "" {
		return fallback
	}

	runes := []rune(text)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}

	return text
}
