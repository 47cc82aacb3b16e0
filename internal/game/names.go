package game

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	MinNameLength = 2
	MaxNameLength = 16
)

// NormalizeName trims and NFC-normalizes a requested display name and checks
// it is usable. The returned error wraps ErrInvalidName.
func NormalizeName(raw string) (string, error) {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("%w: a name is required", ErrInvalidName)
	}

	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return "", fmt.Errorf("%w: names must be %d to %d characters long", ErrInvalidName, MinNameLength, MaxNameLength)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return "", fmt.Errorf("%w: names may only use letters, digits and hyphens", ErrInvalidName)
		}
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		return "", fmt.Errorf("%w: names must start with a letter", ErrInvalidName)
	}

	return name, nil
}

// nameKey is the form names are compared in, so "ASH", "ash" and "Ash" collide.
func nameKey(name string) string {
	return cases.Fold().String(name)
}
