package domain

// EventKind classifies an observed ledger change.
type EventKind string

const (
	// EventTopup: deposited amount increased.
	EventTopup EventKind = "TOPUP"
	// EventWithdraw: withdrawn amount increased.
	EventWithdraw EventKind = "WITHDRAW"
	// EventTransferRecipient: recipient identity changed.
	EventTransferRecipient EventKind = "TRANSFER_RECIPIENT"
	// EventCancel: stream observed in a canceled state.
	EventCancel EventKind = "CANCEL"
)

// StreamEvent is one journaled ledger change, derived from the delta
// between two observations of the same metadata account.
type StreamEvent struct {
	// Metadata is the stream's metadata account address.
	Metadata string
	Kind     EventKind

	// Amount is the deposited/withdrawn delta; zero for recipient transfers.
	Amount uint64

	// OldRecipient and NewRecipient are set for recipient transfers.
	OldRecipient string
	NewRecipient string

	// Slot the change was observed at.
	Slot int64
	// ObservedAt is the observation time in unix ms.
	ObservedAt int64
}
