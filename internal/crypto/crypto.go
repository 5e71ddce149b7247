// Package crypto provides the authenticated encryption used for secret
// values before they leave the machine. Bundles are self-describing:
// base64(nonce || ciphertext || tag) under AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/liberfy/open2fa/internal/errs"
)

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns the
// base64 bundle. Decrypting the bundle with the same key yields the
// plaintext back.
func Encrypt(plaintext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a bundle. Any tamper, wrong key, or malformed bundle is
// an AuthenticationError; no partial or unauthenticated data is ever
// returned.
func Decrypt(bundle string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(bundle)
	if err != nil {
		return "", &errs.AuthenticationError{Op: "decrypt", Err: err}
	}
	if len(raw) < aead.NonceSize() {
		return "", &errs.AuthenticationError{Op: "decrypt", Err: errors.New("bundle shorter than nonce")}
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", &errs.AuthenticationError{Op: "decrypt", Err: err}
	}
	return string(plain), nil
}
