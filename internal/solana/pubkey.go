package solana

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyLength is the byte length of an ed25519 public key.
const PublicKeyLength = 32

// PublicKey is a 32-byte Solana account address.
type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes a base58-encoded address.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	decoded, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("decode public key: %w", err)
	}
	if len(decoded) != PublicKeyLength {
		return pk, fmt.Errorf("public key must be %d bytes, got %d", PublicKeyLength, len(decoded))
	}
	copy(pk[:], decoded)
	return pk, nil
}

// MustPublicKey parses a base58 address and panics on failure.
// Intended for well-known program constants only.
func MustPublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("public key must be %d bytes, got %d", PublicKeyLength, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 encoding of the key.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns the raw 32 bytes.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// IsZero reports whether the key is the all-zero address.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// Equals compares two keys byte-wise.
func (pk PublicKey) Equals(other PublicKey) bool {
	return bytes.Equal(pk[:], other[:])
}
