// Package scenario plays both sides of the weak key generation attack: a
// victim that derives AES and MAC keys from a V8-style generator and encrypts
// two messages, and an attacker that recovers the keys from the two public IVs.
package scenario

import (
	"context"
	"fmt"

	weakprng "github.com/opd-ai/go-weakprng"
	"github.com/opd-ai/go-weakprng/internal"
)

// DefaultMessages are the plaintexts the victim encrypts.
var DefaultMessages = [2]string{
	"Your password is:Se@ld-i5-great",
	"This PRNG works! Amazing, no need to make a fuss around CSPRNG",
}

const (
	// PrefillBytes is how much the victim's byte source buffers at startup.
	PrefillBytes = 128

	// keyMaterial is drawn first: the encryption key, then the MAC key.
	keyMaterial = 2 * internal.KeySize

	// keyOutputs is the number of whole outputs behind the key material.
	keyOutputs = (keyMaterial*8 + weakprng.MantissaBits - 1) / weakprng.MantissaBits
)

var (
	// ivSkip is the number of leading IV bytes that still belong to the last
	// key output; the first whole output of the IVs starts right after.
	ivSkip = weakprng.EncodedLen(keyOutputs) - keyMaterial

	// observations is the number of whole outputs inside both IVs.
	observations = weakprng.DecodedLen(2*internal.IVSize - ivSkip)
)

// KDF selects how key material is turned into keys.
type KDF int

const (
	// RawKDF uses the generator bytes as keys directly.
	RawKDF KDF = iota

	// Argon2KDF stretches the generator bytes with Argon2id first.
	Argon2KDF

	// PBKDF2KDF stretches the generator bytes with PBKDF2-HMAC-SHA256,
	// salted like Argon2KDF.
	PBKDF2KDF
)

// String returns the string representation of the KDF.
func (k KDF) String() string {
	switch k {
	case RawKDF:
		return "raw"
	case Argon2KDF:
		return "argon2id"
	case PBKDF2KDF:
		return "pbkdf2"
	default:
		return fmt.Sprintf("KDF(%d)", k)
	}
}

// ParseKDF parses the names produced by KDF.String.
func ParseKDF(s string) (KDF, error) {
	switch s {
	case "raw", "":
		return RawKDF, nil
	case "argon2id", "argon2":
		return Argon2KDF, nil
	case "pbkdf2":
		return PBKDF2KDF, nil
	default:
		return 0, fmt.Errorf("scenario: unknown kdf %q", s)
	}
}

// Keys is an encryption and MAC key pair.
type Keys struct {
	Enc []byte
	MAC []byte
}

// Equal reports whether both keys match.
func (k Keys) Equal(o Keys) bool {
	return string(k.Enc) == string(o.Enc) && string(k.MAC) == string(o.MAC)
}

// Fingerprints returns printable identifiers for both keys.
func (k Keys) Fingerprints() (enc, mac string) {
	return internal.Fingerprint(k.Enc), internal.Fingerprint(k.MAC)
}

// deriveKeys splits 64 bytes of material into keys under kdf.
func deriveKeys(material []byte, kdf KDF, argon internal.Argon2Config) Keys {
	switch kdf {
	case Argon2KDF:
		material = internal.Argon2id(material, argon, keyMaterial)
	case PBKDF2KDF:
		material = internal.PBKDF2(material, argon.Salt, keyMaterial)
	}
	return Keys{
		Enc: append([]byte(nil), material[:internal.KeySize]...),
		MAC: append([]byte(nil), material[internal.KeySize:keyMaterial]...),
	}
}

// Victim generates its keys and IVs from a weak byte source.
type Victim struct {
	bytes *weakprng.ByteSource
	keys  Keys
}

// NewVictim seeds a V8-style source, prefills the byte source and draws the
// keys from it.
func NewVictim(seed weakprng.State, kdf KDF, argon internal.Argon2Config) *Victim {
	src := weakprng.NewSource(seed)
	bs := weakprng.NewByteSource(src.Float64)
	bs.Fill(PrefillBytes)
	return &Victim{
		bytes: bs,
		keys:  deriveKeys(bs.Bytes(keyMaterial), kdf, argon),
	}
}

// Keys returns the victim's keys.
func (v *Victim) Keys() Keys {
	return v.keys
}

// Encrypt encrypts message with a fresh IV from the weak byte source.
func (v *Victim) Encrypt(message []byte) ([]byte, error) {
	return internal.EncryptThenMAC(message, v.keys.Enc, v.keys.MAC, v.bytes.Bytes)
}

// Result is what the attacker learns.
type Result struct {
	// State is the generator state recovered from the IVs.
	State weakprng.State

	// Keys are the predicted victim keys.
	Keys Keys

	// Plaintexts are the decrypted messages, in input order.
	Plaintexts [][]byte
}

// Attacker recovers victim keys from ciphertexts.
type Attacker struct {
	Recoverer *weakprng.Recoverer
	KDF       KDF
	Argon2    internal.Argon2Config
}

// Break recovers the generator state from the IVs of the victim's first two
// ciphertexts, rolls it forward over the key outputs, rebuilds the keys and
// decrypts both messages.
func (a *Attacker) Break(ctx context.Context, first, second []byte) (*Result, error) {
	iv1, err := internal.IV(first)
	if err != nil {
		return nil, fmt.Errorf("scenario: first ciphertext: %w", err)
	}
	iv2, err := internal.IV(second)
	if err != nil {
		return nil, fmt.Errorf("scenario: second ciphertext: %w", err)
	}

	ivs := append(append([]byte(nil), iv1...), iv2...)
	served := weakprng.BytesToFloats(ivs[ivSkip:])
	if len(served) != observations {
		return nil, fmt.Errorf("scenario: decoded %d outputs from the IVs, want %d", len(served), observations)
	}

	state, err := a.Recoverer.Recover(ctx, served)
	if err != nil {
		return nil, err
	}

	// The key outputs were served right before the IV outputs, from the same
	// batch, so they were generated right after them.
	previous := weakprng.ServedOrder(state, observations+keyOutputs)
	material := weakprng.FloatsToBytes(previous)[:keyMaterial]
	keys := deriveKeys(material, a.KDF, a.Argon2)

	res := &Result{State: state, Keys: keys}
	for i, data := range [][]byte{first, second} {
		pt, err := internal.CheckMACThenDecrypt(data, keys.Enc, keys.MAC)
		if err != nil {
			return nil, fmt.Errorf("scenario: message %d: %w", i+1, err)
		}
		res.Plaintexts = append(res.Plaintexts, pt)
	}
	return res, nil
}
