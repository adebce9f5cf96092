// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are compared and
// stored in this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of
// whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MediaType trims a declared media type. Media types are case sensitive.
func MediaType(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims a phone number. Formatting is left as entered.
func Phone(s string) string {
	return strings.TrimSpace(s)
}
