// Package htmlsanitize strips markup from free-text fields (story
// descriptions, bios) before they are stored. The client renders these as
// plain text, so no tags are kept.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes all HTML from s and trims surrounding whitespace.
// Entities produced by the policy are unescaped so "Tom & Jerry" round-trips.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
