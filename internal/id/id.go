// Package id generates the string identifiers used for records that are not
// keyed by an integer, such as GitHub sync runs.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet is lowercase alphanumerics so IDs can be typed from CLI output.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Size is the length of the random part.
const Size = 16

// Generate creates a prefixed ID such as "sync-4f9k2m0q8x1b7c3d".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, Size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
