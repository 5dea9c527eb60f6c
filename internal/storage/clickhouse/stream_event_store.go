package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

// StreamEventStore implements storage.StreamEventStore using ClickHouse.
// The journal is append-only; MergeTree does not enforce uniqueness and the
// indexer only appends newly observed deltas.
type StreamEventStore struct {
	conn *Conn
}

// NewStreamEventStore creates a new StreamEventStore.
func NewStreamEventStore(conn *Conn) *StreamEventStore {
	return &StreamEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StreamEventStore = (*StreamEventStore)(nil)

// Insert adds a single event.
func (s *StreamEventStore) Insert(ctx context.Context, e *domain.StreamEvent) error {
	return s.InsertBulk(ctx, []*domain.StreamEvent{e})
}

// InsertBulk adds multiple events in one batch.
func (s *StreamEventStore) InsertBulk(ctx context.Context, events []*domain.StreamEvent) error {
	if len(events) == 0 {
		return nil
	}

	for _, e := range events {
		if e.Metadata == "" || e.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO stream_events (
			metadata, kind, amount, old_recipient, new_recipient, slot, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(
			e.Metadata, string(e.Kind), e.Amount,
			e.OldRecipient, e.NewRecipient,
			uint64(e.Slot), uint64(e.ObservedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMetadata retrieves all events for a stream, ordered by observation
// time ASC.
func (s *StreamEventStore) GetByMetadata(ctx context.Context, metadata string) ([]*domain.StreamEvent, error) {
	query := `
		SELECT metadata, kind, amount, old_recipient, new_recipient, slot, observed_at
		FROM stream_events
		WHERE metadata = ?
		ORDER BY observed_at ASC, slot ASC
	`

	rows, err := s.conn.Query(ctx, query, metadata)
	if err != nil {
		return nil, fmt.Errorf("query by metadata: %w", err)
	}
	defer rows.Close()

	return scanStreamEvents(rows)
}

// GetByTimeRange retrieves events observed within [start, end] unix ms.
func (s *StreamEventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.StreamEvent, error) {
	query := `
		SELECT metadata, kind, amount, old_recipient, new_recipient, slot, observed_at
		FROM stream_events
		WHERE observed_at >= ? AND observed_at <= ?
		ORDER BY observed_at ASC, slot ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanStreamEvents(rows)
}

// scanStreamEvents scans all rows into StreamEvents.
func scanStreamEvents(rows driver.Rows) ([]*domain.StreamEvent, error) {
	var events []*domain.StreamEvent
	for rows.Next() {
		var e domain.StreamEvent
		var kind string
		var slot, observedAt uint64

		err := rows.Scan(&e.Metadata, &kind, &e.Amount, &e.OldRecipient, &e.NewRecipient, &slot, &observedAt)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.Kind = domain.EventKind(kind)
		e.Slot = int64(slot)
		e.ObservedAt = int64(observedAt)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
