// Package auth decides who the invoking party is relative to a stream and
// whether the capability flags let them perform a restricted action.
package auth

import (
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
)

// Role is the resolved identity of an invoker relative to one stream.
type Role int

const (
	// Neither matches no stream party and is never granted anything.
	Neither Role = iota
	// Sender is the stream's funding party.
	Sender
	// Recipient is the stream's payout party.
	Recipient
)

// String returns the role name for diagnostics.
func (r Role) String() string {
	switch r {
	case Sender:
		return "sender"
	case Recipient:
		return "recipient"
	default:
		return "neither"
	}
}

// Invoker resolves an authority against a stream's parties. Resolution
// checks sender before recipient, so a self-stream authority resolves to
// Sender and ties are impossible.
type Invoker struct {
	role Role
}

// NewInvoker resolves the authority's role from the ledger's current
// sender and recipient.
func NewInvoker(authority, sender, recipient solana.PublicKey) Invoker {
	switch {
	case authority.Equals(sender):
		return Invoker{role: Sender}
	case authority.Equals(recipient):
		return Invoker{role: Recipient}
	default:
		return Invoker{role: Neither}
	}
}

// Role returns the resolved role.
func (i Invoker) Role() Role {
	return i.role
}

// allowed is the shared flag-pair predicate: the action is granted iff the
// invoker's role matches a side whose flag is set. Neither always denies.
func (i Invoker) allowed(bySender, byRecipient bool) bool {
	switch i.role {
	case Sender:
		return bySender
	case Recipient:
		return byRecipient
	default:
		return false
	}
}

// CanTransfer reports whether the invoker may reassign the stream's
// recipient under the given terms.
func (i Invoker) CanTransfer(ix *state.StreamParams) bool {
	return i.allowed(ix.TransferableBySender, ix.TransferableByRecipient)
}

// CanCancel reports whether the invoker may cancel the stream under the
// given terms.
func (i Invoker) CanCancel(ix *state.StreamParams) bool {
	return i.allowed(ix.CancelableBySender, ix.CancelableByRecipient)
}
