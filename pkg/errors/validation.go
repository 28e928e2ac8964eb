package errors

import (
	"slices"
	"unicode"
)

// ValidateReactionName validates the display name of a reaction definition.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateReactionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "reaction name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "reaction name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "reaction name contains invalid control characters")
		}
	}

	return nil
}

// ValidateAtomID checks that an atom identifier is positive.
func ValidateAtomID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "atom id must be positive, got %d", id)
	}
	return nil
}

// ValidateMapping checks a template-to-host atom correspondence.
//
// Validation rules:
//   - Keys and values must be positive atom identifiers
//   - No two template atoms may map to the same host atom
func ValidateMapping(m map[int]int) error {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	owner := make(map[int]int, len(m))
	for _, k := range keys {
		v := m[k]
		if k <= 0 || v <= 0 {
			return New(ErrCodeInvalidMapping, "mapping %d->%d uses a non-positive atom id", k, v)
		}
		if prev, ok := owner[v]; ok {
			return New(ErrCodeInvalidMapping, "template atoms %d and %d both map to host atom %d", prev, k, v)
		}
		owner[v] = k
	}
	return nil
}
