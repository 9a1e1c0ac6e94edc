package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	// DocumentIDSize is the length of generated donor and request IDs.
	DocumentIDSize = 20

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID returns a random URL-safe document ID.
func NanoID() string {
	return gonanoid.MustGenerate(idAlphabet, DocumentIDSize)
}
