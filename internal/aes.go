package internal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned when decrypted data is not PKCS#7 padded.
var ErrInvalidPadding = errors.New("internal: invalid padding")

// CBCEncryptor provides AES-CBC encryption with PKCS#7 padding.
type CBCEncryptor struct {
	block cipher.Block
}

// NewCBCEncryptor creates a new encryptor with the given key.
// Key must be 16, 24, or 32 bytes (AES-128, AES-192, or AES-256).
func NewCBCEncryptor(key []byte) (*CBCEncryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &CBCEncryptor{block: block}, nil
}

// Encrypt pads plaintext and encrypts it under iv.
// iv must be exactly 16 bytes.
func (c *CBCEncryptor) Encrypt(iv, plaintext []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("internal: iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	padded := PKCS7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt decrypts ciphertext under iv and removes the padding.
func (c *CBCEncryptor) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("internal: iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("internal: ciphertext is not a whole number of blocks")
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, ciphertext)
	return PKCS7Unpad(out, aes.BlockSize)
}

// PKCS7Pad returns a copy of buf padded to a multiple of blockSize.
func PKCS7Pad(buf []byte, blockSize int) []byte {
	n := blockSize - len(buf)%blockSize
	return append(append([]byte(nil), buf...), bytes.Repeat([]byte{byte(n)}, n)...)
}

// PKCS7Unpad returns buf with PKCS#7 padding removed.
func PKCS7Unpad(buf []byte, blockSize int) ([]byte, error) {
	if len(buf) < blockSize || len(buf)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	b := buf[len(buf)-1]
	if int(b) == 0 || int(b) > blockSize ||
		!bytes.Equal(bytes.Repeat([]byte{b}, int(b)), buf[len(buf)-int(b):]) {
		return nil, ErrInvalidPadding
	}
	return buf[:len(buf)-int(b)], nil
}
