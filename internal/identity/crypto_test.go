package identity

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func TestDeriveKey(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error: %v", err)
	}
	key := DeriveKey([]byte("password"), salt)
	if len(key) != chacha20poly1305.KeySize {
		t.Errorf("key length = %d, want %d", len(key), chacha20poly1305.KeySize)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, _ := GenerateSalt()
	k1 := DeriveKey([]byte("password"), salt)
	k2 := DeriveKey([]byte("password"), salt)
	if !bytes.Equal(k1, k2) {
		t.Error("same password and salt should derive the same key")
	}
	k3 := DeriveKey([]byte("different"), salt)
	if bytes.Equal(k1, k3) {
		t.Error("different passwords should derive different keys")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey([]byte("password"), salt)
	plaintext := []byte("secret identity data")

	ciphertext, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := Decrypt(key, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey([]byte("password"), salt)
	wrongKey := DeriveKey([]byte("wrong"), salt)

	ciphertext, err := Encrypt(key, []byte("data"))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(wrongKey, ciphertext); err == nil {
		t.Error("decryption with wrong key should fail")
	}
}

func TestDecryptTruncated(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey([]byte("password"), salt)
	if _, err := Decrypt(key, []byte("short")); err == nil {
		t.Error("decryption of truncated data should fail")
	}
}

func TestGenerateSalt(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error: %v", err)
	}
	if len(s1) != saltLen {
		t.Errorf("salt length = %d, want %d", len(s1), saltLen)
	}
	s2, _ := GenerateSalt()
	if bytes.Equal(s1, s2) {
		t.Error("two salts should not be equal")
	}
}
