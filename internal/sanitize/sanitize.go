// Package sanitize screens chat text before persistence. Text is normalized
// to a single round of HTML entity escaping and then matched against a fixed
// blocklist of dangerous markup patterns.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

// Patterns are matched against the escaped text, so the script-tag pattern
// accepts both raw and entity-escaped angle brackets.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:<|&lt;)script[^>]*(?:>|&gt;)`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)data:`),
	regexp.MustCompile(`(?i)onclick`),
	regexp.MustCompile(`(?i)onerror`),
	regexp.MustCompile(`(?i)onload`),
}

var identifierStrip = regexp.MustCompile(`[<>"'&]`)

// Text entity-escapes & < > " ' exactly once. Already-escaped input is
// decoded first so the function is idempotent.
func Text(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}

// Blocked reports whether escaped text matches any dangerous pattern.
func Blocked(escaped string) bool {
	for _, p := range dangerousPatterns {
		if p.MatchString(escaped) {
			return true
		}
	}
	return false
}

// Identifier cleans an externally supplied stream id: markup characters are
// stripped, whitespace trimmed, and the result capped at 64 characters.
func Identifier(s string) string {
	s = identifierStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}
