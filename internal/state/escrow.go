package state

import (
	"fmt"

	"solana-token-stream/internal/solana"
)

// Escrow derivation scheme versions. The scheme is part of a stream's
// identity: streams created under an older scheme stay verifiable without
// migrating their stored version value.
const (
	// EscrowVersionLegacy derives the escrow directly from the metadata key.
	EscrowVersionLegacy = 0

	// EscrowVersionTagged prefixes a scheme tag so escrow addresses live in
	// their own namespace under the program.
	EscrowVersionTagged = 1
)

// escrowSeedTag namespaces tagged-scheme escrow derivations.
var escrowSeedTag = []byte("strm")

// FindEscrowAccount derives a stream's custody address from its protocol
// version, its metadata key, and the program. Every handler that touches
// escrow funds must compare the caller-supplied escrow account against this
// derivation before mutating anything.
func FindEscrowAccount(version uint8, seed []byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	switch version {
	case EscrowVersionLegacy:
		return solana.FindProgramAddress([][]byte{seed}, programID)
	default:
		return solana.FindProgramAddress([][]byte{escrowSeedTag, seed}, programID)
	}
}

// VerifyEscrowAccount checks a supplied escrow address against the
// derivation for the given version and metadata key.
func VerifyEscrowAccount(version uint8, metadataKey, escrow, programID solana.PublicKey) error {
	derived, _, err := FindEscrowAccount(version, metadataKey[:], programID)
	if err != nil {
		return fmt.Errorf("derive escrow account: %w", err)
	}
	if !derived.Equals(escrow) {
		return fmt.Errorf("escrow account mismatch: want %s, got %s", derived, escrow)
	}
	return nil
}
