// Package id generates identifiers for outbound upstream requests.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// RequestPrefix prefixes every outbound request id.
	RequestPrefix = "psd"

	requestAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	requestLength   = 16
)

// Generate creates a prefixed id: prefix-<nanoid>.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Request returns a short lowercase id for the X-Request-ID header.
// It falls back to a default nanoid if the custom alphabet fails.
func Request() string {
	id, err := gonanoid.Generate(requestAlphabet, requestLength)
	if err != nil {
		return MustGenerate(RequestPrefix)
	}
	return RequestPrefix + "-" + id
}

// MustGenerate is like Generate but panics if generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
