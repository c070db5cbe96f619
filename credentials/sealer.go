package credentials

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Password encodings recorded next to the stored value. A record with no
// encoding predates the field and holds plaintext.
const (
	EncodingPlain = "plain"
	EncodingV1    = "v1"
)

var errNoKey = errors.New("sealed credential found but no CREDENTIAL_KEY is configured")

// Sealer protects the password field at rest. The user id is bound into the
// ciphertext so a sealed value cannot be moved to another user's record.
type Sealer interface {
	// Seal returns the value to store and its encoding.
	Seal(userID int64, plaintext string) (stored, encoding string, err error)
	Open(userID int64, stored, encoding string) (string, error)
}

// NewSealer derives an XChaCha20-Poly1305 key from secret. An empty secret
// gives a sealer that stores passwords as given.
func NewSealer(secret string) (Sealer, error) {
	if secret == "" {
		return plainSealer{}, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("ecapbot credential password"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init credential cipher: %w", err)
	}
	return &aeadSealer{aead: aead}, nil
}

func openPlain(stored, encoding string) (string, error) {
	switch encoding {
	case "", EncodingPlain:
		return stored, nil
	case EncodingV1:
		return "", errNoKey
	default:
		return "", fmt.Errorf("unknown password encoding %q", encoding)
	}
}

type plainSealer struct{}

func (plainSealer) Seal(_ int64, plaintext string) (string, string, error) {
	return plaintext, EncodingPlain, nil
}

func (plainSealer) Open(_ int64, stored, encoding string) (string, error) {
	return openPlain(stored, encoding)
}

type aeadSealer struct {
	aead cipher.AEAD
}

func (s *aeadSealer) Seal(userID int64, plaintext string) (string, string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), additionalData(userID))
	return base64.StdEncoding.EncodeToString(out), EncodingV1, nil
}

// Open also accepts plaintext records written before a key was configured.
func (s *aeadSealer) Open(userID int64, stored, encoding string) (string, error) {
	if encoding != EncodingV1 {
		return openPlain(stored, encoding)
	}
	data, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", err
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData(userID))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func additionalData(userID int64) []byte {
	return []byte("user:" + strconv.FormatInt(userID, 10))
}
