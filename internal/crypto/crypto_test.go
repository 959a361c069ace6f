package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/weedz/secrets/internal/domain"
)

func TestNewToken(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	if len(token) != TokenLen {
		t.Errorf("NewToken() length = %d, want %d", len(token), TokenLen)
	}

	other, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	if bytes.Equal(token, other) {
		t.Error("two generated tokens should not be equal")
	}
}

func TestDeriveLookupHash(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	hash := DeriveLookupHash(token)
	if hash == "" {
		t.Fatal("DeriveLookupHash() returned empty string")
	}
	if hash != DeriveLookupHash(token) {
		t.Error("DeriveLookupHash() is not deterministic")
	}
	if strings.ContainsAny(hash, "+/=") {
		t.Errorf("hash %q is not url-safe", hash)
	}

	other, _ := NewToken()
	if DeriveLookupHash(other) == hash {
		t.Error("distinct tokens produced the same lookup hash")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	plaintext := []byte("this is a very secret message")

	ciphertext, tag, err := Encrypt(token, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if len(tag) != TagLen {
		t.Errorf("tag length = %d, want %d", len(tag), TagLen)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	decrypted, err := Decrypt(token, tag, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypt() got = %q, want %q", decrypted, plaintext)
	}
}

func TestEncrypt_LargePayload(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	plaintext := bytes.Repeat([]byte("x"), domain.MaxSecretSize)

	ciphertext, tag, err := Encrypt(token, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	decrypted, err := Decrypt(token, tag, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("large payload did not round-trip")
	}
}

func TestDecrypt_WrongTag(t *testing.T) {
	token, _ := NewToken()
	ciphertext, tag, err := Encrypt(token, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tag[0] ^= 0xff
	if _, err := Decrypt(token, tag, ciphertext); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Errorf("Decrypt() with tampered tag error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecrypt_WrongToken(t *testing.T) {
	token, _ := NewToken()
	ciphertext, tag, err := Encrypt(token, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	other, _ := NewToken()
	if _, err := Decrypt(other, tag, ciphertext); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Errorf("Decrypt() with wrong token error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestTokenSize(t *testing.T) {
	short := make([]byte, TokenLen-1)

	if _, _, err := Encrypt(short, []byte("payload")); !errors.Is(err, ErrTokenSize) {
		t.Errorf("Encrypt() with short token error = %v, want ErrTokenSize", err)
	}
	if _, err := Decrypt(short, nil, nil); !errors.Is(err, ErrTokenSize) {
		t.Errorf("Decrypt() with short token error = %v, want ErrTokenSize", err)
	}
}
