// Package streamerr defines the closed error taxonomy of the stream program.
// Every failure surfaced to a caller maps to a stable small-integer code; the
// message is diagnostic only.
package streamerr

import "errors"

// Code identifies one failure kind. The ordinal is the wire-visible error
// code and must never be reordered.
type Code uint32

const (
	// AccountsNotWritable: a required account lacks write permission.
	AccountsNotWritable Code = iota
	// InvalidMetadata: metadata buffer fails to decode, or decodes but
	// violates a required flag or state precondition.
	InvalidMetadata
	// InvalidMetadataAccount: supplied metadata account fails identity or
	// ownership checks.
	InvalidMetadataAccount
	// MetadataAccountMismatch: provided accounts don't match the ones stored
	// in the contract.
	MetadataAccountMismatch
	// InvalidEscrowAccount: supplied escrow address fails the derivation check.
	InvalidEscrowAccount
	// NotAssociated: a token account is not the canonical associated account
	// for its claimed owner and mint.
	NotAssociated
	// MintMismatch: a token account's mint disagrees with the contract's mint.
	MintMismatch
	// TransferNotAllowed: the invoker is not authorized for the action.
	TransferNotAllowed
	// StreamClosed: operation attempted after the stream's end time.
	StreamClosed
	// InvalidTreasury: supplied treasury accounts disagree with the contract.
	InvalidTreasury
	// InvalidTimestamps: schedule fields are internally inconsistent.
	InvalidTimestamps
	// InvalidDeposit: deposit would push deposited above total.
	InvalidDeposit
	// AmountIsZero: a zero amount where a positive one is required.
	AmountIsZero
	// AmountMoreThanAvailable: request exceeds what is currently unlockable.
	AmountMoreThanAvailable
)

var messages = map[Code]string{
	AccountsNotWritable:     "Accounts not writable!",
	InvalidMetadata:         "Invalid Metadata!",
	InvalidMetadataAccount:  "Invalid metadata account",
	MetadataAccountMismatch: "Provided accounts don't match the ones in contract.",
	InvalidEscrowAccount:    "Invalid escrow account",
	NotAssociated:           "Provided account(s) is/are not valid associated token accounts.",
	MintMismatch:            "Sender mint does not match accounts mint!",
	TransferNotAllowed:      "Recipient not transferable for account",
	StreamClosed:            "Stream closed",
	InvalidTreasury:         "Invalid treasury accounts supplied",
	InvalidTimestamps:       "Given timestamps are invalid",
	InvalidDeposit:          "Deposited amount must be <= Total amount",
	AmountIsZero:            "Amount cannot be zero",
	AmountMoreThanAvailable: "Amount requested is larger than available",
}

// Error implements the error interface; the message is the fixed diagnostic
// line for the code.
func (c Code) Error() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return "unknown stream error"
}

// Ordinal returns the stable integer identity of the code.
func (c Code) Ordinal() uint32 {
	return uint32(c)
}

// CodeOf extracts a taxonomy code from an error chain.
func CodeOf(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}
	return 0, false
}

// Host-level program errors. These are not part of the taxonomy: they model
// the generic failures the execution environment raises before or instead of
// a program-defined code.
var (
	// ErrInvalidAccountData: an account's contents or address is not what the
	// instruction requires.
	ErrInvalidAccountData = errors.New("invalid account data")

	// ErrMissingSignature: a required signer did not sign.
	ErrMissingSignature = errors.New("missing required signature")
)
