// Package memory provides in-memory store implementations for tests and
// the -memory indexer mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

// StreamStore is an in-memory implementation of storage.StreamStore.
type StreamStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StreamRecord // keyed by metadata address
}

// NewStreamStore creates a new in-memory stream store.
func NewStreamStore() *StreamStore {
	return &StreamStore{
		data: make(map[string]*domain.StreamRecord),
	}
}

// Compile-time interface check.
var _ storage.StreamStore = (*StreamStore)(nil)

// Upsert inserts or replaces the record keyed by metadata address.
// Observations from an older slot than the stored row are ignored.
func (s *StreamStore) Upsert(_ context.Context, r *domain.StreamRecord) error {
	if r == nil || r.Metadata == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data[r.Metadata]; ok && existing.Slot > r.Slot {
		return nil
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	s.data[r.Metadata] = &recordCopy
	return nil
}

// GetByMetadata retrieves a stream by its metadata account address.
// Returns ErrNotFound if not exists.
func (s *StreamStore) GetByMetadata(_ context.Context, metadata string) (*domain.StreamRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[metadata]
	if !ok {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// GetByMint retrieves all streams for a mint, ordered by start time ASC.
func (s *StreamStore) GetByMint(_ context.Context, mint string) ([]*domain.StreamRecord, error) {
	return s.filter(func(r *domain.StreamRecord) bool { return r.Mint == mint }), nil
}

// GetBySender retrieves all streams funded by a sender.
func (s *StreamStore) GetBySender(_ context.Context, sender string) ([]*domain.StreamRecord, error) {
	return s.filter(func(r *domain.StreamRecord) bool { return r.Sender == sender }), nil
}

// GetByRecipient retrieves all streams paying a recipient.
func (s *StreamStore) GetByRecipient(_ context.Context, recipient string) ([]*domain.StreamRecord, error) {
	return s.filter(func(r *domain.StreamRecord) bool { return r.Recipient == recipient }), nil
}

// ListOpen retrieves non-canceled streams whose end time is at or after now,
// ordered by end time ASC.
func (s *StreamStore) ListOpen(_ context.Context, now uint64) ([]*domain.StreamRecord, error) {
	result := s.filter(func(r *domain.StreamRecord) bool {
		return r.EndTime >= now && r.CanceledAt == 0
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i].EndTime < result[j].EndTime
	})
	return result, nil
}

// filter returns copies of all records matching keep, sorted by start time ASC.
func (s *StreamStore) filter(keep func(*domain.StreamRecord) bool) []*domain.StreamRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StreamRecord
	for _, r := range s.data {
		if keep(r) {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].Metadata < result[j].Metadata
	})

	return result
}
