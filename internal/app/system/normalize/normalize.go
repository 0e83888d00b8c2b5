// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address for storage and lookup.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Enum lowercases and trims an enumeration value (role, status, type).
func Enum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// State trims a Nigerian state name and title-cases nothing: state names
// are stored as entered and compared case-folded where it matters.
func State(s string) string {
	return strings.TrimSpace(s)
}

// Currency uppercases an ISO currency code.
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Period trims a YYYY-MM report period.
func Period(s string) string {
	return strings.TrimSpace(s)
}
