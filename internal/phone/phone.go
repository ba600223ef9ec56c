// Package phone canonicalizes phone numbers. The portal stores numbers in
// the "+"-prefixed international form, but historical rows exist without
// the prefix, so readers must be prepared to try both.
package phone

import "strings"

// Normalize returns the canonical "+"-prefixed form of a phone number,
// stripping spaces, dashes and parentheses. Normalize is idempotent.
// An empty or digit-free input normalizes to "".
func Normalize(raw string) string {
	digits := digitsOf(raw)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// Variants returns the lookup candidates for a number: canonical form
// first, bare-digit form second. Read-side compatibility shim for rows
// written before normalization was enforced; new writes always use
// Variants(p)[0].
func Variants(raw string) []string {
	digits := digitsOf(raw)
	if digits == "" {
		return nil
	}
	return []string{"+" + digits, digits}
}

func digitsOf(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
