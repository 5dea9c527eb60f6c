package state

import (
	"testing"

	"solana-token-stream/internal/solana"
)

func TestFindEscrowAccountDeterministic(t *testing.T) {
	program := solana.TokenProgramID
	seed := testKey(42)

	for _, version := range []uint8{EscrowVersionLegacy, EscrowVersionTagged} {
		a1, b1, err := FindEscrowAccount(version, seed[:], program)
		if err != nil {
			t.Fatalf("FindEscrowAccount(v%d) error: %v", version, err)
		}
		a2, b2, err := FindEscrowAccount(version, seed[:], program)
		if err != nil {
			t.Fatalf("FindEscrowAccount(v%d) error: %v", version, err)
		}
		if !a1.Equals(a2) || b1 != b2 {
			t.Errorf("v%d derivation not deterministic", version)
		}
	}
}

func TestFindEscrowAccountVersionsDiffer(t *testing.T) {
	program := solana.TokenProgramID
	seed := testKey(42)

	legacy, _, err := FindEscrowAccount(EscrowVersionLegacy, seed[:], program)
	if err != nil {
		t.Fatalf("legacy derivation error: %v", err)
	}
	tagged, _, err := FindEscrowAccount(EscrowVersionTagged, seed[:], program)
	if err != nil {
		t.Fatalf("tagged derivation error: %v", err)
	}

	if legacy.Equals(tagged) {
		t.Error("different scheme versions must derive different addresses")
	}
}

func TestVerifyEscrowAccount(t *testing.T) {
	program := solana.TokenProgramID
	metadataKey := testKey(9)

	derived, _, err := FindEscrowAccount(EscrowVersionLegacy, metadataKey[:], program)
	if err != nil {
		t.Fatalf("FindEscrowAccount error: %v", err)
	}

	if err := VerifyEscrowAccount(EscrowVersionLegacy, metadataKey, derived, program); err != nil {
		t.Errorf("derived address should verify: %v", err)
	}

	if err := VerifyEscrowAccount(EscrowVersionLegacy, metadataKey, testKey(77), program); err == nil {
		t.Error("substitute address must be rejected")
	}

	if err := VerifyEscrowAccount(EscrowVersionTagged, metadataKey, derived, program); err == nil {
		t.Error("legacy address must not verify under the tagged scheme")
	}
}
