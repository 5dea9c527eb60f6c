package auth

import (
	"testing"

	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func TestNewInvokerRoleResolution(t *testing.T) {
	sender := key(1)
	recipient := key(2)
	third := key(3)

	tests := []struct {
		name      string
		authority solana.PublicKey
		want      Role
	}{
		{"sender", sender, Sender},
		{"recipient", recipient, Recipient},
		{"third party", third, Neither},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewInvoker(tt.authority, sender, recipient).Role(); got != tt.want {
				t.Errorf("Role = %v, want %v", got, tt.want)
			}
		})
	}
}

// A self-stream authority matches both parties; sender wins because the
// resolver checks sender first.
func TestNewInvokerSelfStream(t *testing.T) {
	self := key(5)
	inv := NewInvoker(self, self, self)
	if inv.Role() != Sender {
		t.Errorf("self-stream role = %v, want Sender", inv.Role())
	}
}

func TestCanTransferSymmetry(t *testing.T) {
	sender := key(1)
	recipient := key(2)
	third := key(3)

	tests := []struct {
		name        string
		authority   solana.PublicKey
		bySender    bool
		byRecipient bool
		want        bool
	}{
		{"sender allowed", sender, true, false, true},
		{"sender denied", sender, false, true, false},
		{"recipient allowed", recipient, false, true, true},
		{"recipient denied", recipient, true, false, false},
		{"both flags sender", sender, true, true, true},
		{"both flags recipient", recipient, true, true, true},
		{"neither with both flags", third, true, true, false},
		{"neither with no flags", third, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := state.StreamParams{
				TransferableBySender:    tt.bySender,
				TransferableByRecipient: tt.byRecipient,
			}
			inv := NewInvoker(tt.authority, sender, recipient)
			if got := inv.CanTransfer(&ix); got != tt.want {
				t.Errorf("CanTransfer = %v, want %v", got, tt.want)
			}
		})
	}
}

// Cancellation shares the flag-pair predicate with transfer; only the pair
// consulted differs.
func TestCanCancelUsesCancelFlags(t *testing.T) {
	sender := key(1)
	recipient := key(2)

	ix := state.StreamParams{
		CancelableBySender:      true,
		CancelableByRecipient:   false,
		TransferableBySender:    false,
		TransferableByRecipient: true,
	}

	senderInv := NewInvoker(sender, sender, recipient)
	if !senderInv.CanCancel(&ix) {
		t.Error("sender should be able to cancel")
	}
	if senderInv.CanTransfer(&ix) {
		t.Error("sender should not be able to transfer")
	}

	recipientInv := NewInvoker(recipient, sender, recipient)
	if recipientInv.CanCancel(&ix) {
		t.Error("recipient should not be able to cancel")
	}
	if !recipientInv.CanTransfer(&ix) {
		t.Error("recipient should be able to transfer")
	}
}

func TestRoleString(t *testing.T) {
	if Sender.String() != "sender" || Recipient.String() != "recipient" || Neither.String() != "neither" {
		t.Error("unexpected role names")
	}
}
