package postgres

import (
	"context"
	"fmt"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

// StreamStore implements storage.StreamStore using PostgreSQL.
type StreamStore struct {
	pool *Pool
}

// NewStreamStore creates a new StreamStore.
func NewStreamStore(pool *Pool) *StreamStore {
	return &StreamStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StreamStore = (*StreamStore)(nil)

const streamColumns = `
	metadata, version, mint, sender, sender_tokens, recipient, recipient_tokens,
	escrow_tokens, treasury, partner, deposited_amount, withdrawn_amount,
	total_amount, start_time, end_time, cliff, canceled_at, can_topup,
	cancelable_by_sender, cancelable_by_recipient, transferable_by_sender,
	transferable_by_recipient, name, slot, updated_at
`

// Upsert inserts or replaces the record keyed by metadata address. Rows
// observed at an older slot than the stored one are left untouched.
func (s *StreamStore) Upsert(ctx context.Context, r *domain.StreamRecord) error {
	if r.Metadata == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO streams (` + streamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (metadata) DO UPDATE SET
			version = EXCLUDED.version,
			mint = EXCLUDED.mint,
			sender = EXCLUDED.sender,
			sender_tokens = EXCLUDED.sender_tokens,
			recipient = EXCLUDED.recipient,
			recipient_tokens = EXCLUDED.recipient_tokens,
			escrow_tokens = EXCLUDED.escrow_tokens,
			treasury = EXCLUDED.treasury,
			partner = EXCLUDED.partner,
			deposited_amount = EXCLUDED.deposited_amount,
			withdrawn_amount = EXCLUDED.withdrawn_amount,
			total_amount = EXCLUDED.total_amount,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			cliff = EXCLUDED.cliff,
			canceled_at = EXCLUDED.canceled_at,
			can_topup = EXCLUDED.can_topup,
			cancelable_by_sender = EXCLUDED.cancelable_by_sender,
			cancelable_by_recipient = EXCLUDED.cancelable_by_recipient,
			transferable_by_sender = EXCLUDED.transferable_by_sender,
			transferable_by_recipient = EXCLUDED.transferable_by_recipient,
			name = EXCLUDED.name,
			slot = EXCLUDED.slot,
			updated_at = EXCLUDED.updated_at
		WHERE streams.slot <= EXCLUDED.slot
	`

	_, err := s.pool.Exec(ctx, query,
		r.Metadata, int16(r.Version), r.Mint, r.Sender, r.SenderTokens,
		r.Recipient, r.RecipientTokens, r.EscrowTokens, r.Treasury, r.Partner,
		int64(r.DepositedAmount), int64(r.WithdrawnAmount), int64(r.TotalAmount),
		int64(r.StartTime), int64(r.EndTime), int64(r.Cliff), int64(r.CanceledAt),
		r.CanTopup, r.CancelableBySender, r.CancelableByRecipient,
		r.TransferableBySender, r.TransferableByRecipient,
		r.Name, r.Slot, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stream: %w", err)
	}
	return nil
}

// GetByMetadata retrieves a stream by its metadata account address.
func (s *StreamStore) GetByMetadata(ctx context.Context, metadata string) (*domain.StreamRecord, error) {
	query := `SELECT ` + streamColumns + ` FROM streams WHERE metadata = $1`

	row := s.pool.QueryRow(ctx, query, metadata)
	r, err := scanStream(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get stream by metadata: %w", err)
	}
	return r, nil
}

// GetByMint retrieves all streams for a mint, ordered by start time ASC.
func (s *StreamStore) GetByMint(ctx context.Context, mint string) ([]*domain.StreamRecord, error) {
	query := `
		SELECT ` + streamColumns + `
		FROM streams
		WHERE mint = $1
		ORDER BY start_time ASC, metadata ASC
	`
	return s.query(ctx, query, mint)
}

// GetBySender retrieves all streams funded by a sender.
func (s *StreamStore) GetBySender(ctx context.Context, sender string) ([]*domain.StreamRecord, error) {
	query := `
		SELECT ` + streamColumns + `
		FROM streams
		WHERE sender = $1
		ORDER BY start_time ASC, metadata ASC
	`
	return s.query(ctx, query, sender)
}

// GetByRecipient retrieves all streams paying a recipient.
func (s *StreamStore) GetByRecipient(ctx context.Context, recipient string) ([]*domain.StreamRecord, error) {
	query := `
		SELECT ` + streamColumns + `
		FROM streams
		WHERE recipient = $1
		ORDER BY start_time ASC, metadata ASC
	`
	return s.query(ctx, query, recipient)
}

// ListOpen retrieves streams whose end time is at or after now.
func (s *StreamStore) ListOpen(ctx context.Context, now uint64) ([]*domain.StreamRecord, error) {
	query := `
		SELECT ` + streamColumns + `
		FROM streams
		WHERE end_time >= $1 AND canceled_at = 0
		ORDER BY end_time ASC, metadata ASC
	`
	return s.query(ctx, query, int64(now))
}

func (s *StreamStore) query(ctx context.Context, query string, args ...any) ([]*domain.StreamRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query streams: %w", err)
	}
	defer rows.Close()

	var records []*domain.StreamRecord
	for rows.Next() {
		r, err := scanStream(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stream: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streams: %w", err)
	}
	return records, nil
}

// rowScanner matches both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStream scans a single row into a StreamRecord.
func scanStream(row rowScanner) (*domain.StreamRecord, error) {
	var r domain.StreamRecord
	var version int16
	var deposited, withdrawn, total, start, end, cliff, canceled int64

	err := row.Scan(
		&r.Metadata, &version, &r.Mint, &r.Sender, &r.SenderTokens,
		&r.Recipient, &r.RecipientTokens, &r.EscrowTokens, &r.Treasury,
		&r.Partner, &deposited, &withdrawn, &total, &start, &end, &cliff, &canceled,
		&r.CanTopup, &r.CancelableBySender, &r.CancelableByRecipient,
		&r.TransferableBySender, &r.TransferableByRecipient,
		&r.Name, &r.Slot, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Version = uint8(version)
	r.DepositedAmount = uint64(deposited)
	r.WithdrawnAmount = uint64(withdrawn)
	r.TotalAmount = uint64(total)
	r.StartTime = uint64(start)
	r.EndTime = uint64(end)
	r.Cliff = uint64(cliff)
	r.CanceledAt = uint64(canceled)
	return &r, nil
}
