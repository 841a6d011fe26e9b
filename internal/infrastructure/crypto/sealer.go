package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// TokenSealer encrypts secrets before they reach the database
type TokenSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

var ErrMalformedSealedValue = errors.New("sealed value must be <iv>.<ciphertext>")

// AESSealer stores values as base64(iv) + "." + base64(AES-256-GCM ciphertext)
type AESSealer struct {
	aead cipher.AEAD
}

func NewAESSealer(key []byte) (*AESSealer, error) {
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESSealer{aead: gcm}, nil
}

func (s *AESSealer) Seal(plaintext string) (string, error) {
	iv := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	ciphertext := s.aead.Seal(nil, iv, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(iv) + "." +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *AESSealer) Open(sealed string) (string, error) {
	ivB64, ctB64, ok := strings.Cut(sealed, ".")
	if !ok {
		return "", ErrMalformedSealedValue
	}

	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", err
	}
	if len(iv) != s.aead.NonceSize() {
		return "", ErrMalformedSealedValue
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ctB64)
	if err != nil {
		return "", err
	}

	plaintext, err := s.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
