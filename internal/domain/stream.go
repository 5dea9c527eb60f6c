// Package domain defines the entities the off-chain mirror stores.
package domain

// StreamRecord is the mirrored view of one on-chain stream ledger.
// Addresses are base58 strings; amounts are raw token units.
type StreamRecord struct {
	// Metadata is the stream's metadata account address and primary key.
	Metadata string
	Version  uint8

	Mint            string
	Sender          string
	SenderTokens    string
	Recipient       string
	RecipientTokens string
	EscrowTokens    string
	Treasury        string
	Partner         string

	DepositedAmount uint64
	WithdrawnAmount uint64
	TotalAmount     uint64

	StartTime uint64
	EndTime   uint64
	Cliff     uint64

	// CanceledAt is the cancel timestamp, zero while the stream is live.
	CanceledAt uint64

	CanTopup                bool
	CancelableBySender      bool
	CancelableByRecipient   bool
	TransferableBySender    bool
	TransferableByRecipient bool

	Name string

	// Slot is the slot the record was last observed at.
	Slot int64
	// UpdatedAt is the observation time in unix ms.
	UpdatedAt int64
}
