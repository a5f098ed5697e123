package internal

import (
	"bytes"
	"errors"
	"testing"
)

func fixedIV(b byte) IVFunc {
	return func(size int) []byte { return bytes.Repeat([]byte{b}, size) }
}

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 33; n++ {
		buf := bytes.Repeat([]byte{0xaa}, n)
		padded := PKCS7Pad(buf, 16)
		if len(padded)%16 != 0 || len(padded) <= n {
			t.Fatalf("PKCS7Pad(%d bytes) returned %d bytes", n, len(padded))
		}
		got, err := PKCS7Unpad(padded, 16)
		if err != nil {
			t.Fatalf("PKCS7Unpad() error = %v", err)
		}
		if !bytes.Equal(got, buf) {
			t.Errorf("PKCS7Unpad(PKCS7Pad(%d bytes)) = %x", n, got)
		}
	}

	invalid := [][]byte{
		nil,
		make([]byte, 15),
		make([]byte, 16),
		append(bytes.Repeat([]byte{1}, 15), 17),
		append(bytes.Repeat([]byte{1}, 14), 2, 3),
	}
	for _, buf := range invalid {
		if _, err := PKCS7Unpad(buf, 16); !errors.Is(err, ErrInvalidPadding) {
			t.Errorf("PKCS7Unpad(%x) error = %v, want ErrInvalidPadding", buf, err)
		}
	}
}

func TestCBCRoundTrip(t *testing.T) {
	enc, err := NewCBCEncryptor(bytes.Repeat([]byte{7}, KeySize))
	if err != nil {
		t.Fatalf("NewCBCEncryptor() error = %v", err)
	}
	iv := fixedIV(3)(IVSize)
	msg := []byte("attack at dawn")

	ct, err := enc.Encrypt(iv, msg)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if len(ct) != 16 {
		t.Errorf("len(ciphertext) = %d, want 16", len(ct))
	}
	pt, err := enc.Decrypt(iv, ct)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Errorf("Decrypt() = %q, want %q", pt, msg)
	}

	if _, err := enc.Encrypt(iv[:8], msg); err == nil {
		t.Error("Encrypt() with a short iv should fail")
	}
	if _, err := enc.Decrypt(iv, ct[:10]); err == nil {
		t.Error("Decrypt() of a partial block should fail")
	}
	if _, err := NewCBCEncryptor([]byte("short")); err == nil {
		t.Error("NewCBCEncryptor() with a 5-byte key should fail")
	}
}

func TestEncryptThenMAC(t *testing.T) {
	keyEnc := bytes.Repeat([]byte{1}, KeySize)
	keyMAC := bytes.Repeat([]byte{2}, KeySize)
	msg := []byte("Your password is:Se@ld-i5-great")

	data, err := EncryptThenMAC(msg, keyEnc, keyMAC, fixedIV(9))
	if err != nil {
		t.Fatalf("EncryptThenMAC() error = %v", err)
	}
	if want := IVSize + 32 + MACSize; len(data) != want {
		t.Errorf("len(data) = %d, want %d", len(data), want)
	}

	iv, err := IV(data)
	if err != nil || !bytes.Equal(iv, fixedIV(9)(IVSize)) {
		t.Errorf("IV() = %x, %v", iv, err)
	}

	pt, err := CheckMACThenDecrypt(data, keyEnc, keyMAC)
	if err != nil {
		t.Fatalf("CheckMACThenDecrypt() error = %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Errorf("CheckMACThenDecrypt() = %q, want %q", pt, msg)
	}

	for _, i := range []int{0, IVSize, len(data) - 1} {
		tampered := append([]byte(nil), data...)
		tampered[i] ^= 0x80
		if _, err := CheckMACThenDecrypt(tampered, keyEnc, keyMAC); !errors.Is(err, ErrInvalidMAC) {
			t.Errorf("byte %d flipped: error = %v, want ErrInvalidMAC", i, err)
		}
	}

	if _, err := CheckMACThenDecrypt(data, keyEnc, keyEnc); !errors.Is(err, ErrInvalidMAC) {
		t.Errorf("wrong MAC key: error = %v, want ErrInvalidMAC", err)
	}
	if _, err := CheckMACThenDecrypt(data[:40], keyEnc, keyMAC); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated data: error = %v, want ErrTruncated", err)
	}
	if _, err := IV(data[:4]); !errors.Is(err, ErrTruncated) {
		t.Errorf("IV() of 4 bytes: error = %v, want ErrTruncated", err)
	}
	if _, err := EncryptThenMAC(msg, keyEnc[:16], keyMAC, fixedIV(0)); err == nil {
		t.Error("EncryptThenMAC() with a 16-byte key should fail")
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("key one"))
	if len(a) != 16 {
		t.Errorf("len(Fingerprint()) = %d, want 16", len(a))
	}
	if a != Fingerprint([]byte("key one")) {
		t.Error("Fingerprint() is not deterministic")
	}
	if a == Fingerprint([]byte("key two")) {
		t.Error("different keys share a fingerprint")
	}
}

func TestArgon2id(t *testing.T) {
	config := Argon2Config{Time: 1, Memory: 64, Threads: 1, Salt: []byte("salt")}
	a := Argon2id([]byte("material"), config, 64)
	if len(a) != 64 {
		t.Fatalf("len(Argon2id()) = %d, want 64", len(a))
	}
	if !bytes.Equal(a, Argon2id([]byte("material"), config, 64)) {
		t.Error("Argon2id() is not deterministic")
	}
	if bytes.Equal(a, Argon2id([]byte("materiaL"), config, 64)) {
		t.Error("Argon2id() ignores its input")
	}
}

func TestPBKDF2(t *testing.T) {
	a := PBKDF2([]byte("material"), []byte("salt"), 64)
	if len(a) != 64 {
		t.Fatalf("len(PBKDF2()) = %d, want 64", len(a))
	}
	if !bytes.Equal(a, PBKDF2([]byte("material"), []byte("salt"), 64)) {
		t.Error("PBKDF2() is not deterministic")
	}
	if bytes.Equal(a, PBKDF2([]byte("material"), []byte("pepper"), 64)) {
		t.Error("PBKDF2() ignores its salt")
	}
}
