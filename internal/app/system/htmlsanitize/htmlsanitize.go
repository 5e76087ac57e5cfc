// Package htmlsanitize strips markup from free-text fields before storage.
//
// Organization descriptions and transaction descriptions are rendered by
// clients as plain text; any HTML in them is removed.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes all tags and returns trimmed, unescaped text.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
