// Package state holds the persisted per-stream ledger and its
// invariant-preserving mutators.
package state

import (
	"encoding/binary"
	"fmt"

	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/streamerr"
)

// StreamNameLength is the fixed capacity of the stream name field.
const StreamNameLength = 64

// StreamParams is the instruction payload captured at stream creation. It
// travels inside the ledger so later operations can evaluate the schedule
// and capability flags against the original terms.
type StreamParams struct {
	StartTime       uint64
	EndTime         uint64
	Cliff           uint64
	CliffAmount     uint64
	AmountPerPeriod uint64
	Period          uint64
	TotalAmount     uint64

	CanTopup                bool
	CancelableBySender      bool
	CancelableByRecipient   bool
	TransferableBySender    bool
	TransferableByRecipient bool

	StreamName [StreamNameLength]byte
}

// Contract is the ledger record for one stream, stored in the metadata
// account's fixed-capacity buffer.
type Contract struct {
	Version         uint8
	CreatedAt       uint64
	DepositedAmount uint64
	WithdrawnAmount uint64
	CanceledAt      uint64

	Sender          solana.PublicKey
	SenderTokens    solana.PublicKey
	Recipient       solana.PublicKey
	RecipientTokens solana.PublicKey
	Mint            solana.PublicKey
	EscrowTokens    solana.PublicKey
	Treasury        solana.PublicKey
	TreasuryTokens  solana.PublicKey
	Partner         solana.PublicKey
	PartnerTokens   solana.PublicKey

	Ix StreamParams
}

// EncodedContractLen is the exact byte length of an encoded Contract.
// Metadata accounts are allocated with extra capacity, so buffers are
// allowed to be longer.
const EncodedContractLen = 1 + 4*8 + // version + accounting words
	10*solana.PublicKeyLength + // addresses
	7*8 + 5 + StreamNameLength // params

// DecodeContract decodes a ledger from the front of a metadata buffer.
// Trailing bytes beyond the encoded payload are ignored; callers must apply
// semantic validation afterwards, successful decode alone proves nothing
// about flags or state.
func DecodeContract(buf []byte) (*Contract, error) {
	if len(buf) < EncodedContractLen {
		return nil, streamerr.InvalidMetadata
	}

	var c Contract
	r := reader{buf: buf}

	c.Version = r.u8()
	c.CreatedAt = r.u64()
	c.DepositedAmount = r.u64()
	c.WithdrawnAmount = r.u64()
	c.CanceledAt = r.u64()

	r.key(&c.Sender)
	r.key(&c.SenderTokens)
	r.key(&c.Recipient)
	r.key(&c.RecipientTokens)
	r.key(&c.Mint)
	r.key(&c.EscrowTokens)
	r.key(&c.Treasury)
	r.key(&c.TreasuryTokens)
	r.key(&c.Partner)
	r.key(&c.PartnerTokens)

	c.Ix.StartTime = r.u64()
	c.Ix.EndTime = r.u64()
	c.Ix.Cliff = r.u64()
	c.Ix.CliffAmount = r.u64()
	c.Ix.AmountPerPeriod = r.u64()
	c.Ix.Period = r.u64()
	c.Ix.TotalAmount = r.u64()

	c.Ix.CanTopup = r.boolean()
	c.Ix.CancelableBySender = r.boolean()
	c.Ix.CancelableByRecipient = r.boolean()
	c.Ix.TransferableBySender = r.boolean()
	c.Ix.TransferableByRecipient = r.boolean()

	copy(c.Ix.StreamName[:], r.bytes(StreamNameLength))

	return &c, nil
}

// Persist re-encodes the ledger over the front of the metadata buffer. It
// writes exactly EncodedContractLen bytes and leaves any remaining capacity
// untouched; the buffer is never reallocated or truncated.
func (c *Contract) Persist(buf []byte) error {
	if len(buf) < EncodedContractLen {
		return fmt.Errorf("metadata buffer too small: %d < %d", len(buf), EncodedContractLen)
	}

	w := writer{buf: buf}

	w.u8(c.Version)
	w.u64(c.CreatedAt)
	w.u64(c.DepositedAmount)
	w.u64(c.WithdrawnAmount)
	w.u64(c.CanceledAt)

	w.key(c.Sender)
	w.key(c.SenderTokens)
	w.key(c.Recipient)
	w.key(c.RecipientTokens)
	w.key(c.Mint)
	w.key(c.EscrowTokens)
	w.key(c.Treasury)
	w.key(c.TreasuryTokens)
	w.key(c.Partner)
	w.key(c.PartnerTokens)

	w.u64(c.Ix.StartTime)
	w.u64(c.Ix.EndTime)
	w.u64(c.Ix.Cliff)
	w.u64(c.Ix.CliffAmount)
	w.u64(c.Ix.AmountPerPeriod)
	w.u64(c.Ix.Period)
	w.u64(c.Ix.TotalAmount)

	w.boolean(c.Ix.CanTopup)
	w.boolean(c.Ix.CancelableBySender)
	w.boolean(c.Ix.CancelableByRecipient)
	w.boolean(c.Ix.TransferableBySender)
	w.boolean(c.Ix.TransferableByRecipient)

	w.bytes(c.Ix.StreamName[:])

	return nil
}

// SyncBalance reconciles tracked accounting with the live custody balance.
// Funds can reach or leave the escrow through paths outside this program,
// so the last known deposited amount cannot be trusted on its own. After
// the call, deposited - withdrawn equals the actual balance.
func (c *Contract) SyncBalance(actual uint64) {
	c.DepositedAmount = c.WithdrawnAmount + actual
}

// Deposit records amount as moved into escrow. Callable only after the
// token movement has already succeeded. Fails if the increment would push
// deposited above the committed total or overflow.
func (c *Contract) Deposit(amount uint64) error {
	next := c.DepositedAmount + amount
	if next < c.DepositedAmount || next > c.Ix.TotalAmount {
		return streamerr.InvalidDeposit
	}
	c.DepositedAmount = next
	return nil
}

// SetRecipient rewrites the stream's payout identity.
func (c *Contract) SetRecipient(recipient, recipientTokens solana.PublicKey) {
	c.Recipient = recipient
	c.RecipientTokens = recipientTokens
}

// Validate applies the semantic checks a successful decode does not imply.
func (c *Contract) Validate() error {
	if c.Ix.EndTime <= c.Ix.StartTime {
		return streamerr.InvalidTimestamps
	}
	if c.DepositedAmount > c.Ix.TotalAmount {
		return streamerr.InvalidDeposit
	}
	if c.WithdrawnAmount > c.DepositedAmount {
		return streamerr.InvalidDeposit
	}
	return nil
}

// Name returns the stream name with zero padding stripped.
func (c *Contract) Name() string {
	end := len(c.Ix.StreamName)
	for end > 0 && c.Ix.StreamName[end-1] == 0 {
		end--
	}
	return string(c.Ix.StreamName[:end])
}

// reader walks a buffer front to back; bounds were checked up front.
type reader struct {
	buf []byte
	off int
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) boolean() bool {
	return r.u8() == 1
}

func (r *reader) key(pk *solana.PublicKey) {
	copy(pk[:], r.buf[r.off:r.off+solana.PublicKeyLength])
	r.off += solana.PublicKeyLength
}

func (r *reader) bytes(n int) []byte {
	v := r.buf[r.off : r.off+n]
	r.off += n
	return v
}

type writer struct {
	buf []byte
	off int
}

func (w *writer) u8(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) key(pk solana.PublicKey) {
	copy(w.buf[w.off:], pk[:])
	w.off += solana.PublicKeyLength
}

func (w *writer) bytes(b []byte) {
	copy(w.buf[w.off:], b)
	w.off += len(b)
}
