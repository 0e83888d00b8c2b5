// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from free-text fields at the request
// boundary. Descriptions, notes, and titles arrive from an untrusted
// client and are stored verbatim otherwise.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from a free-text value and trims whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
