package storage

import (
	"context"

	"solana-token-stream/internal/domain"
)

// StreamStore provides access to mirrored stream records.
type StreamStore interface {
	// Upsert inserts or replaces the record keyed by metadata address.
	// Observations from an older slot than the stored row are ignored.
	Upsert(ctx context.Context, r *domain.StreamRecord) error

	// GetByMetadata retrieves a stream by its metadata account address.
	// Returns ErrNotFound if not exists.
	GetByMetadata(ctx context.Context, metadata string) (*domain.StreamRecord, error)

	// GetByMint retrieves all streams for a mint, ordered by start time ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.StreamRecord, error)

	// GetBySender retrieves all streams funded by a sender.
	GetBySender(ctx context.Context, sender string) ([]*domain.StreamRecord, error)

	// GetByRecipient retrieves all streams paying a recipient.
	GetByRecipient(ctx context.Context, recipient string) ([]*domain.StreamRecord, error)

	// ListOpen retrieves non-canceled streams whose end time is at or after
	// now (unix seconds), ordered by end time ASC.
	ListOpen(ctx context.Context, now uint64) ([]*domain.StreamRecord, error)
}

// StreamEventStore provides access to the append-only operation journal.
type StreamEventStore interface {
	// Insert adds a single event.
	Insert(ctx context.Context, e *domain.StreamEvent) error

	// InsertBulk adds multiple events in one batch.
	InsertBulk(ctx context.Context, events []*domain.StreamEvent) error

	// GetByMetadata retrieves all events for a stream, ordered by
	// observation time ASC.
	GetByMetadata(ctx context.Context, metadata string) ([]*domain.StreamEvent, error)

	// GetByTimeRange retrieves events observed within [start, end] unix ms,
	// inclusive, ordered by observation time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.StreamEvent, error)
}
