// Package util provides common utility functions.
package util

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// ErrEmptySlug is returned when the input has no characters a slug can keep.
var ErrEmptySlug = errors.New("slug would be empty")

// maxSlugSuffix bounds UniqueSlug's probing.
const maxSlugSuffix = 1000

// Slugify converts a name or title to a URL slug. Accents are transliterated,
// so "Café Society" becomes "cafe-society"; punctuation and emoji are dropped.
func Slugify(input string) string {
	return slug.Make(strings.TrimSpace(input))
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return slug.IsSlug(s)
}

// UniqueSlug slugifies source and, while taken reports a collision, appends
// -2, -3 and so on until a free candidate is found.
func UniqueSlug(ctx context.Context, source string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	base := Slugify(source)
	if base == "" {
		return "", ErrEmptySlug
	}

	candidate := base
	for n := 2; n <= maxSlugSuffix; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugSuffix)
}
