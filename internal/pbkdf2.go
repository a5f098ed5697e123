package internal

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2Iterations is the iteration count of the PBKDF2 option.
const PBKDF2Iterations = 4096

// PBKDF2 stretches material into keyLen bytes with PBKDF2-HMAC-SHA256.
func PBKDF2(material, salt []byte, keyLen int) []byte {
	return pbkdf2.Key(material, salt, PBKDF2Iterations, keyLen, sha256.New)
}
