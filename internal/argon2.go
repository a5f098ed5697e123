package internal

import (
	"golang.org/x/crypto/argon2"
)

// Argon2Config specifies Argon2id parameters for stretching key material.
type Argon2Config struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory in KB
	Threads uint8  // Parallelism factor
	Salt    []byte // Salt value
}

// DefaultArgon2Config returns the parameters used by the demonstration KDF.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Time:    1,
		Memory:  64 * 1024, // 64 MB
		Threads: 4,
		Salt:    []byte("weakprng kdf"),
	}
}

// Argon2id stretches material into keyLen bytes. Stretching is deterministic,
// so material predicted by an attacker yields the same keys.
func Argon2id(material []byte, config Argon2Config, keyLen uint32) []byte {
	return argon2.IDKey(
		material,
		config.Salt,
		config.Time,
		config.Memory,
		config.Threads,
		keyLen,
	)
}
