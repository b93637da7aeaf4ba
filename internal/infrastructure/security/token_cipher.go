// File: internal/infrastructure/security/token_cipher.go
package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
)

// TokenCipher encrypts provider credentials before persistence using
// AES-256-CBC with a fixed key and IV, producing base64 ciphertext.
//
// The fixed IV is a compatibility requirement: every stored row was
// written under this exact construction, and identical plaintexts yield
// identical ciphertexts. Moving to a per-record random IV needs a
// re-encryption migration first (see DESIGN.md).
type TokenCipher struct {
	block cipher.Block
	iv    []byte
}

// NewTokenCipher validates the key and IV sizes (32 and 16 raw bytes) and
// prepares the cipher. Both values come from configuration exactly once.
func NewTokenCipher(key, iv string) (*TokenCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes, got %d", domainErrors.ErrCrypto, len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", domainErrors.ErrCrypto, aes.BlockSize, len(iv))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrCrypto, err)
	}
	return &TokenCipher{block: block, iv: []byte(iv)}, nil
}

// Encrypt returns the base64 AES-256-CBC ciphertext of plaintext. The
// empty string maps to the empty string.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. The empty string maps to the empty string; any
// malformed or foreign ciphertext fails with ErrCrypto.
func (c *TokenCipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", domainErrors.ErrCrypto, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d not a block multiple", domainErrors.ErrCrypto, len(raw))
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// SelfTest encrypts and decrypts a fixture and checks the round trip. Run
// at startup; a failure means the key/IV configuration is unusable.
func (c *TokenCipher) SelfTest() error {
	const fixture = "test_encryption"
	enc, err := c.Encrypt(fixture)
	if err != nil {
		return fmt.Errorf("cipher self-test encrypt failed: %w", err)
	}
	dec, err := c.Decrypt(enc)
	if err != nil {
		return fmt.Errorf("cipher self-test decrypt failed: %w", err)
	}
	if dec != fixture {
		return fmt.Errorf("%w: self-test round trip mismatch", domainErrors.ErrCrypto)
	}
	return nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext buffer", domainErrors.ErrCrypto)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: invalid padding", domainErrors.ErrCrypto)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", domainErrors.ErrCrypto)
		}
	}
	return data[:len(data)-n], nil
}
