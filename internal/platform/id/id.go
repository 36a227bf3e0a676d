// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are generated using UUIDv4 bytes encoded as base32 (RFC 4648)
// with no padding. The resulting strings are 26 characters long, lowercase,
// and safe for use in URLs and file paths.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID generates a fresh 26-character identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// Token generates a fresh identifier truncated to length characters.
// Truncated tokens trade collision resistance for readability; callers are
// expected to resolve collisions against their own namespace.
func Token(length int) (string, error) {
	full, err := NewID()
	if err != nil {
		return "", err
	}
	if length <= 0 || length >= len(full) {
		return full, nil
	}
	return full[:length], nil
}
