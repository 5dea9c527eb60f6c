package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

// StreamEventStore is an in-memory implementation of storage.StreamEventStore.
type StreamEventStore struct {
	mu     sync.RWMutex
	events []*domain.StreamEvent
}

// NewStreamEventStore creates a new in-memory event store.
func NewStreamEventStore() *StreamEventStore {
	return &StreamEventStore{}
}

// Compile-time interface check.
var _ storage.StreamEventStore = (*StreamEventStore)(nil)

// Insert adds a single event.
func (s *StreamEventStore) Insert(ctx context.Context, e *domain.StreamEvent) error {
	return s.InsertBulk(ctx, []*domain.StreamEvent{e})
}

// InsertBulk adds multiple events. The whole batch is rejected if any event
// is invalid.
func (s *StreamEventStore) InsertBulk(_ context.Context, events []*domain.StreamEvent) error {
	for _, e := range events {
		if e == nil || e.Metadata == "" || e.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		eventCopy := *e
		s.events = append(s.events, &eventCopy)
	}
	return nil
}

// GetByMetadata retrieves all events for a stream, ordered by observation
// time ASC.
func (s *StreamEventStore) GetByMetadata(_ context.Context, metadata string) ([]*domain.StreamEvent, error) {
	return s.filter(func(e *domain.StreamEvent) bool { return e.Metadata == metadata }), nil
}

// GetByTimeRange retrieves events observed within [start, end] unix ms.
func (s *StreamEventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.StreamEvent, error) {
	return s.filter(func(e *domain.StreamEvent) bool {
		return e.ObservedAt >= start && e.ObservedAt <= end
	}), nil
}

func (s *StreamEventStore) filter(keep func(*domain.StreamEvent) bool) []*domain.StreamEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StreamEvent
	for _, e := range s.events {
		if keep(e) {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ObservedAt != result[j].ObservedAt {
			return result[i].ObservedAt < result[j].ObservedAt
		}
		return result[i].Slot < result[j].Slot
	})

	return result
}
