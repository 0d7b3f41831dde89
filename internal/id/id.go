// Package id generates prefixed identifiers for persisted records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PrefixRelease marks release IDs.
const PrefixRelease = "rel"

// Generate returns "prefix-<nanoid>", e.g. "rel-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// NewRelease returns an identifier for a prepared release.
func NewRelease() (string, error) {
	return Generate(PrefixRelease)
}
