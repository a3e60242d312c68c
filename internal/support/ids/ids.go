// Package ids hands out the opaque identifiers used by both cores.
package ids

import "github.com/google/uuid"

// ID is a 128-bit opaque identifier, stable across process lifetimes.
type ID = uuid.UUID

// New returns a fresh random identifier.
func New() ID {
	return uuid.New()
}

// Parse parses a string-form identifier.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}
