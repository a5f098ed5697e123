package internal

import (
	"crypto/aes"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
)

const (
	// KeySize is the size of both the encryption and the MAC key.
	KeySize = 32

	// IVSize is the CBC initialization vector size.
	IVSize = aes.BlockSize

	// MACSize is the HMAC-SHA256 tag size.
	MACSize = sha256.Size
)

var (
	// ErrInvalidMAC is returned when the tag does not authenticate the data.
	ErrInvalidMAC = errors.New("internal: invalid MAC")

	// ErrTruncated is returned for data too short to hold an IV, a block and a tag.
	ErrTruncated = errors.New("internal: encrypted data too short")
)

// IVFunc returns size fresh bytes for an initialization vector.
type IVFunc func(size int) []byte

// EncryptThenMAC encrypts message with AES-256-CBC under an IV drawn from iv,
// then authenticates IV||ciphertext with HMAC-SHA256.
// The result is IV||ciphertext||MAC.
func EncryptThenMAC(message, keyEnc, keyMAC []byte, iv IVFunc) ([]byte, error) {
	if len(keyEnc) != KeySize || len(keyMAC) != KeySize {
		return nil, fmt.Errorf("internal: keys must be %d bytes", KeySize)
	}
	enc, err := NewCBCEncryptor(keyEnc)
	if err != nil {
		return nil, err
	}

	nonce := iv(IVSize)
	ct, err := enc.Encrypt(nonce, message)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(nonce)+len(ct)+MACSize)
	out = append(out, nonce...)
	out = append(out, ct...)
	return append(out, MAC(keyMAC, out)...), nil
}

// CheckMACThenDecrypt verifies the tag of data produced by EncryptThenMAC and
// returns the plaintext.
func CheckMACThenDecrypt(data, keyEnc, keyMAC []byte) ([]byte, error) {
	if len(data) < IVSize+aes.BlockSize+MACSize {
		return nil, ErrTruncated
	}
	body, tag := data[:len(data)-MACSize], data[len(data)-MACSize:]
	if !hmac.Equal(tag, MAC(keyMAC, body)) {
		return nil, ErrInvalidMAC
	}

	enc, err := NewCBCEncryptor(keyEnc)
	if err != nil {
		return nil, err
	}
	return enc.Decrypt(body[:IVSize], body[IVSize:])
}

// IV returns the initialization vector of data produced by EncryptThenMAC.
func IV(data []byte) ([]byte, error) {
	if len(data) < IVSize {
		return nil, ErrTruncated
	}
	return data[:IVSize], nil
}

// MAC computes HMAC-SHA256 of data.
func MAC(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
