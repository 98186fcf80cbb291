// Package crypter seals small secrets (OTP seeds) for storage with AES-256-GCM.
//
// Every ciphertext is bound to a context string through GCM additional data,
// so a value sealed for one phone number cannot be replayed into another row.
package crypter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Crypter seals and opens values bound to a context string.
type Crypter interface {
	Seal(plaintext []byte, bindTo string) ([]byte, error)
	Open(ciphertext []byte, bindTo string) ([]byte, error)
}

const (
	version  uint16 = 1
	keySize         = 32
	nonceLen        = 12
	header          = 2 + nonceLen
)

var (
	ErrInvalidKeyLength   = errors.New("crypter: key must be 32 bytes")
	ErrEmptyPlaintext     = errors.New("crypter: plaintext is empty")
	ErrCiphertextTooShort = errors.New("crypter: ciphertext too short")
	ErrUnknownVersion     = errors.New("crypter: unsupported ciphertext version")
	ErrOpenFailed         = errors.New("crypter: open failed")
)

// AESGCM implements Crypter with a single static key.
//
// Layout: uint16 version | 12 byte nonce | sealed data + tag.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM builds an AESGCM from a 32 byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != keySize {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypter: aes init: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypter: gcm init: %w", err)
	}

	return &AESGCM{aead: aead}, nil
}

// Seal encrypts plaintext bound to bindTo.
func (c *AESGCM) Seal(plaintext []byte, bindTo string) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	out := make([]byte, header, header+len(plaintext)+c.aead.Overhead())
	binary.BigEndian.PutUint16(out[:2], version)
	if _, err := io.ReadFull(rand.Reader, out[2:header]); err != nil {
		return nil, fmt.Errorf("crypter: nonce: %w", err)
	}

	return c.aead.Seal(out, out[2:header], plaintext, aad(bindTo)), nil
}

// Open decrypts a value produced by Seal with the same bindTo. It never says
// whether the key, the binding or the payload was wrong.
func (c *AESGCM) Open(ciphertext []byte, bindTo string) ([]byte, error) {
	if len(ciphertext) <= header {
		return nil, ErrCiphertextTooShort
	}
	if v := binary.BigEndian.Uint16(ciphertext[:2]); v != version {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, v)
	}

	plain, err := c.aead.Open(nil, ciphertext[2:header], ciphertext[header:], aad(bindTo))
	if err != nil {
		return nil, ErrOpenFailed
	}

	return plain, nil
}

func aad(bindTo string) []byte {
	sum := sha256.Sum256([]byte("bind=" + bindTo))
	return sum[:]
}
