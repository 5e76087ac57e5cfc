// Package normalize canonicalizes user-supplied strings before they are
// stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an address. Invite matching and user lookups
// compare normalized values only.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs to one space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameCI is the case- and diacritic-folded key used for name sorting.
func NameCI(s string) string {
	return text.Fold(Name(s))
}

// Tags trims surrounding whitespace from each tag. Every entry is kept in
// order, duplicates and empties included, with inner spacing untouched.
func Tags(in []string) []string {
	out := make([]string, len(in))
	for i, t := range in {
		out[i] = strings.TrimSpace(t)
	}
	return out
}

// Role lowercases and trims a role name before validation.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
