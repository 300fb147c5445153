package auth

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var errCiphertextShort = errors.New("ciphertext too short")

// SubjectCipher encrypts the token subject with XChaCha20-Poly1305.
// Output is nonce||ciphertext, base64url without padding.
type SubjectCipher struct {
	aead cipher.AEAD
	aad  []byte
}

// NewSubjectCipher derives the key from secret via HKDF-SHA256. The issuer is
// bound as associated data so subjects do not decrypt across deployments.
func NewSubjectCipher(secret, issuer string) (*SubjectCipher, error) {
	if secret == "" {
		return nil, errors.New("subject secret is empty")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("token-subject"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive subject key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &SubjectCipher{aead: aead, aad: []byte(issuer)}, nil
}

// Encrypt seals plaintext under a random nonce
func (c *SubjectCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	out := make([]byte, 0, len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, nonce...)
	out = c.aead.Seal(out, nonce, []byte(plaintext), c.aad)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Decrypt opens a value produced by Encrypt
func (c *SubjectCipher) Decrypt(encoded string) (string, error) {
	blob, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode subject: %w", err)
	}
	if len(blob) < chacha20poly1305.NonceSizeX {
		return "", errCiphertextShort
	}

	nonce := blob[:chacha20poly1305.NonceSizeX]
	plain, err := c.aead.Open(nil, nonce, blob[chacha20poly1305.NonceSizeX:], c.aad)
	if err != nil {
		return "", fmt.Errorf("open subject: %w", err)
	}
	return string(plain), nil
}
