package solana

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
)

// pdaMarker is appended to the hash input so program derived addresses can
// never collide with hashes produced outside this scheme.
var pdaMarker = []byte("ProgramDerivedAddress")

// maxSeedLength is the per-seed limit enforced by the runtime.
const maxSeedLength = 32

// CreateProgramAddress hashes seeds|programID|marker and returns the result
// if it is off the ed25519 curve. On-curve results are rejected because they
// would be spendable keys.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {
	var pk PublicKey

	data := make([]byte, 0, 128)
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return pk, fmt.Errorf("seed exceeds %d bytes", maxSeedLength)
		}
		data = append(data, seed...)
	}
	data = append(data, programID[:]...)
	data = append(data, pdaMarker...)

	hash := sha256.Sum256(data)
	if isOnCurve(hash[:]) {
		return pk, fmt.Errorf("derived address is on curve")
	}

	copy(pk[:], hash[:])
	return pk, nil
}

// FindProgramAddress searches bump seeds 255 down to 1 for the first
// off-curve derivation. Returns the address and the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	for bump := uint8(255); bump > 0; bump-- {
		candidate := append(append([][]byte{}, seeds...), []byte{bump})
		pk, err := CreateProgramAddress(candidate, programID)
		if err == nil {
			return pk, bump, nil
		}
	}
	return PublicKey{}, 0, fmt.Errorf("no viable bump seed found")
}

// AssociatedTokenAddress derives the canonical associated token account for
// an owner and mint. Pure and deterministic.
func AssociatedTokenAddress(owner, mint PublicKey) (PublicKey, error) {
	pk, _, err := FindProgramAddress(
		[][]byte{owner[:], TokenProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
	if err != nil {
		return PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return pk, nil
}

// isOnCurve reports whether the 32 bytes decode to a valid ed25519 point.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
