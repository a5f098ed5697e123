// Package internal provides the cryptographic primitives of the key-recovery
// demonstration. This package wraps golang.org/x/crypto and crypto/* packages.
package internal

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Blake2b256 computes a 256-bit Blake2b hash (32 bytes).
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Fingerprint returns a short hex identifier for key material, safe to print
// in place of the key itself.
func Fingerprint(key []byte) string {
	h := Blake2b256(key)
	return hex.EncodeToString(h[:8])
}
