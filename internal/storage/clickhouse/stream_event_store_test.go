package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

func testEvent(metadata string, kind domain.EventKind, observedAt int64) *domain.StreamEvent {
	return &domain.StreamEvent{
		Metadata:   metadata,
		Kind:       kind,
		Amount:     1_000,
		Slot:       500,
		ObservedAt: observedAt,
	}
}

func TestStreamEventStore_InsertAndGetByMetadata(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	ctx := context.Background()

	e := testEvent("meta-001", domain.EventTopup, 1700000000000)
	require.NoError(t, store.Insert(ctx, e))

	got, err := store.GetByMetadata(ctx, "meta-001")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, e.Metadata, got[0].Metadata)
	assert.Equal(t, e.Kind, got[0].Kind)
	assert.Equal(t, e.Amount, got[0].Amount)
	assert.Equal(t, e.Slot, got[0].Slot)
	assert.Equal(t, e.ObservedAt, got[0].ObservedAt)
}

func TestStreamEventStore_InsertBulkOrdering(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	ctx := context.Background()

	events := []*domain.StreamEvent{
		testEvent("meta-002", domain.EventWithdraw, 1700000002000),
		testEvent("meta-002", domain.EventTopup, 1700000001000),
		testEvent("meta-002", domain.EventCancel, 1700000003000),
	}
	require.NoError(t, store.InsertBulk(ctx, events))

	got, err := store.GetByMetadata(ctx, "meta-002")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.EventTopup, got[0].Kind)
	assert.Equal(t, domain.EventWithdraw, got[1].Kind)
	assert.Equal(t, domain.EventCancel, got[2].Kind)
}

func TestStreamEventStore_RecipientTransferFields(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	ctx := context.Background()

	e := &domain.StreamEvent{
		Metadata:     "meta-003",
		Kind:         domain.EventTransferRecipient,
		OldRecipient: "OldRecipient123",
		NewRecipient: "NewRecipient456",
		Slot:         600,
		ObservedAt:   1700000000000,
	}
	require.NoError(t, store.Insert(ctx, e))

	got, err := store.GetByMetadata(ctx, "meta-003")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "OldRecipient123", got[0].OldRecipient)
	assert.Equal(t, "NewRecipient456", got[0].NewRecipient)
	assert.Zero(t, got[0].Amount)
}

func TestStreamEventStore_InsertBulkValidation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	ctx := context.Background()

	batch := []*domain.StreamEvent{
		testEvent("meta-004", domain.EventTopup, 1),
		{Metadata: "meta-004"}, // missing kind
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	got, err := store.GetByMetadata(ctx, "meta-004")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStreamEventStore_InsertBulkEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	assert.NoError(t, store.InsertBulk(context.Background(), nil))
}

func TestStreamEventStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamEventStore(conn)
	ctx := context.Background()

	events := []*domain.StreamEvent{
		testEvent("meta-005", domain.EventTopup, 1000),
		testEvent("meta-006", domain.EventWithdraw, 2000),
		testEvent("meta-007", domain.EventTopup, 3000),
	}
	require.NoError(t, store.InsertBulk(ctx, events))

	// Range is inclusive on both ends.
	got, err := store.GetByTimeRange(ctx, 1000, 2000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "meta-005", got[0].Metadata)
	assert.Equal(t, "meta-006", got[1].Metadata)

	got, err = store.GetByTimeRange(ctx, 4000, 5000)
	require.NoError(t, err)
	assert.Empty(t, got)
}
