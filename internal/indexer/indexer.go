// Package indexer mirrors on-chain stream ledgers into off-chain storage
// and journals the deltas between successive observations.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/observability"
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
	"solana-token-stream/internal/storage"
)

// Indexer decodes metadata accounts and reconciles them against the mirror.
type Indexer struct {
	programID solana.PublicKey
	streams   storage.StreamStore
	events    storage.StreamEventStore
	logger    *log.Logger
	now       func() int64 // unix ms
}

// Options contains configuration for creating an Indexer.
type Options struct {
	ProgramID solana.PublicKey
	Streams   storage.StreamStore
	Events    storage.StreamEventStore
	Logger    *log.Logger
	Now       func() int64
}

// New creates a new Indexer.
func New(opts Options) *Indexer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &Indexer{
		programID: opts.ProgramID,
		streams:   opts.Streams,
		events:    opts.Events,
		logger:    logger,
		now:       now,
	}
}

// ObserveAccount processes one observation of a metadata account: it decodes
// the ledger, checks its escrow derivation, journals the deltas against the
// previously mirrored row, and upserts the mirror.
//
// Observations older than the mirrored row produce no events and leave the
// mirror untouched.
func (ix *Indexer) ObserveAccount(ctx context.Context, pubkey string, data []byte, slot int64) error {
	observability.RecordAccountObserved()

	contract, err := state.DecodeContract(data)
	if err != nil {
		observability.RecordDecodeFailure()
		return fmt.Errorf("decode account %s: %w", pubkey, err)
	}
	if err := contract.Validate(); err != nil {
		observability.RecordProcessingError("validate")
		return fmt.Errorf("validate account %s: %w", pubkey, err)
	}

	metadataKey, err := solana.ParsePublicKey(pubkey)
	if err != nil {
		observability.RecordProcessingError("pubkey")
		return fmt.Errorf("parse account key: %w", err)
	}
	if err := state.VerifyEscrowAccount(contract.Version, metadataKey, contract.EscrowTokens, ix.programID); err != nil {
		observability.RecordEscrowMismatch()
		return fmt.Errorf("account %s: %w", pubkey, err)
	}

	record := recordFromContract(pubkey, contract, slot, ix.now())

	prev, err := ix.streams.GetByMetadata(ctx, pubkey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		observability.RecordProcessingError("mirror_read")
		return fmt.Errorf("read mirrored stream %s: %w", pubkey, err)
	}

	changes := deriveEvents(prev, record)
	if len(changes) > 0 {
		if err := ix.events.InsertBulk(ctx, changes); err != nil {
			observability.RecordProcessingError("journal")
			return fmt.Errorf("journal events for %s: %w", pubkey, err)
		}
		for _, e := range changes {
			observability.RecordEventJournaled(string(e.Kind))
			ix.logger.Printf("Journaled %s for %s (amount=%d)", e.Kind, e.Metadata, e.Amount)
		}
	}

	if err := ix.streams.Upsert(ctx, record); err != nil {
		observability.RecordProcessingError("mirror_write")
		return fmt.Errorf("upsert stream %s: %w", pubkey, err)
	}
	observability.RecordStreamUpserted()
	return nil
}

// recordFromContract flattens a decoded ledger into its mirrored form.
func recordFromContract(pubkey string, c *state.Contract, slot, observedAt int64) *domain.StreamRecord {
	return &domain.StreamRecord{
		Metadata:                pubkey,
		Version:                 c.Version,
		Mint:                    c.Mint.String(),
		Sender:                  c.Sender.String(),
		SenderTokens:            c.SenderTokens.String(),
		Recipient:               c.Recipient.String(),
		RecipientTokens:         c.RecipientTokens.String(),
		EscrowTokens:            c.EscrowTokens.String(),
		Treasury:                c.Treasury.String(),
		Partner:                 c.Partner.String(),
		DepositedAmount:         c.DepositedAmount,
		WithdrawnAmount:         c.WithdrawnAmount,
		TotalAmount:             c.Ix.TotalAmount,
		StartTime:               c.Ix.StartTime,
		EndTime:                 c.Ix.EndTime,
		Cliff:                   c.Ix.Cliff,
		CanceledAt:              c.CanceledAt,
		CanTopup:                c.Ix.CanTopup,
		CancelableBySender:      c.Ix.CancelableBySender,
		CancelableByRecipient:   c.Ix.CancelableByRecipient,
		TransferableBySender:    c.Ix.TransferableBySender,
		TransferableByRecipient: c.Ix.TransferableByRecipient,
		Name:                    c.Name(),
		Slot:                    slot,
		UpdatedAt:               observedAt,
	}
}

// deriveEvents compares two observations of the same stream and returns the
// journal entries for what changed. The first observation produces none.
func deriveEvents(prev, cur *domain.StreamRecord) []*domain.StreamEvent {
	if prev == nil || cur.Slot < prev.Slot {
		return nil
	}

	var events []*domain.StreamEvent
	add := func(kind domain.EventKind, amount uint64, oldRecipient, newRecipient string) {
		events = append(events, &domain.StreamEvent{
			Metadata:     cur.Metadata,
			Kind:         kind,
			Amount:       amount,
			OldRecipient: oldRecipient,
			NewRecipient: newRecipient,
			Slot:         cur.Slot,
			ObservedAt:   cur.UpdatedAt,
		})
	}

	if cur.DepositedAmount > prev.DepositedAmount {
		add(domain.EventTopup, cur.DepositedAmount-prev.DepositedAmount, "", "")
	}
	if cur.WithdrawnAmount > prev.WithdrawnAmount {
		add(domain.EventWithdraw, cur.WithdrawnAmount-prev.WithdrawnAmount, "", "")
	}
	if cur.Recipient != prev.Recipient {
		add(domain.EventTransferRecipient, 0, prev.Recipient, cur.Recipient)
	}
	if prev.CanceledAt == 0 && cur.CanceledAt != 0 {
		add(domain.EventCancel, 0, "", "")
	}
	return events
}
