package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-stream/internal/domain"
	"solana-token-stream/internal/storage"
)

func testStream(metadata string) *domain.StreamRecord {
	return &domain.StreamRecord{
		Metadata:                metadata,
		Version:                 1,
		Mint:                    "MintAddress123",
		Sender:                  "SenderAddress123",
		SenderTokens:            "SenderTokens123",
		Recipient:               "RecipientAddress123",
		RecipientTokens:         "RecipientTokens123",
		EscrowTokens:            "EscrowTokens123",
		Treasury:                "TreasuryAddress123",
		Partner:                 "PartnerAddress123",
		DepositedAmount:         1_000_000,
		WithdrawnAmount:         250_000,
		TotalAmount:             5_000_000,
		StartTime:               1700000000,
		EndTime:                 1731536000,
		Cliff:                   1700086400,
		CanTopup:                true,
		CancelableBySender:      true,
		CancelableByRecipient:   false,
		TransferableBySender:    false,
		TransferableByRecipient: true,
		Name:                    "vesting-2024",
		Slot:                    12345,
		UpdatedAt:               1700000000000,
	}
}

func TestStreamStore_UpsertAndGetByMetadata(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	r := testStream("meta-001")
	err := store.Upsert(ctx, r)
	require.NoError(t, err)

	got, err := store.GetByMetadata(ctx, "meta-001")
	require.NoError(t, err)

	assert.Equal(t, r.Metadata, got.Metadata)
	assert.Equal(t, r.Version, got.Version)
	assert.Equal(t, r.Mint, got.Mint)
	assert.Equal(t, r.Sender, got.Sender)
	assert.Equal(t, r.SenderTokens, got.SenderTokens)
	assert.Equal(t, r.Recipient, got.Recipient)
	assert.Equal(t, r.RecipientTokens, got.RecipientTokens)
	assert.Equal(t, r.EscrowTokens, got.EscrowTokens)
	assert.Equal(t, r.Treasury, got.Treasury)
	assert.Equal(t, r.Partner, got.Partner)
	assert.Equal(t, r.DepositedAmount, got.DepositedAmount)
	assert.Equal(t, r.WithdrawnAmount, got.WithdrawnAmount)
	assert.Equal(t, r.TotalAmount, got.TotalAmount)
	assert.Equal(t, r.StartTime, got.StartTime)
	assert.Equal(t, r.EndTime, got.EndTime)
	assert.Equal(t, r.Cliff, got.Cliff)
	assert.Equal(t, r.CanceledAt, got.CanceledAt)
	assert.Equal(t, r.CanTopup, got.CanTopup)
	assert.Equal(t, r.CancelableBySender, got.CancelableBySender)
	assert.Equal(t, r.CancelableByRecipient, got.CancelableByRecipient)
	assert.Equal(t, r.TransferableBySender, got.TransferableBySender)
	assert.Equal(t, r.TransferableByRecipient, got.TransferableByRecipient)
	assert.Equal(t, r.Name, got.Name)
	assert.Equal(t, r.Slot, got.Slot)
	assert.Equal(t, r.UpdatedAt, got.UpdatedAt)
}

func TestStreamStore_UpsertReplacesNewerSlot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	first := testStream("meta-002")
	first.Slot = 100
	require.NoError(t, store.Upsert(ctx, first))

	second := testStream("meta-002")
	second.Slot = 200
	second.DepositedAmount = 2_000_000
	second.Recipient = "NewRecipient456"
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.GetByMetadata(ctx, "meta-002")
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), got.DepositedAmount)
	assert.Equal(t, "NewRecipient456", got.Recipient)
	assert.Equal(t, int64(200), got.Slot)
}

func TestStreamStore_UpsertIgnoresStaleSlot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	newer := testStream("meta-003")
	newer.Slot = 200
	newer.DepositedAmount = 2_000_000
	require.NoError(t, store.Upsert(ctx, newer))

	stale := testStream("meta-003")
	stale.Slot = 100
	stale.DepositedAmount = 1_000_000
	require.NoError(t, store.Upsert(ctx, stale))

	got, err := store.GetByMetadata(ctx, "meta-003")
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), got.DepositedAmount)
	assert.Equal(t, int64(200), got.Slot)
}

func TestStreamStore_UpsertInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	err := store.Upsert(ctx, &domain.StreamRecord{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestStreamStore_GetByMetadataNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)

	_, err := store.GetByMetadata(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStreamStore_GetByMintOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	late := testStream("meta-late")
	late.StartTime = 1700000300
	early := testStream("meta-early")
	early.StartTime = 1700000100
	other := testStream("meta-other")
	other.Mint = "OtherMint999"

	for _, r := range []*domain.StreamRecord{late, early, other} {
		require.NoError(t, store.Upsert(ctx, r))
	}

	got, err := store.GetByMint(ctx, "MintAddress123")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "meta-early", got[0].Metadata)
	assert.Equal(t, "meta-late", got[1].Metadata)
}

func TestStreamStore_GetBySenderAndRecipient(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	a := testStream("meta-a")
	b := testStream("meta-b")
	b.Sender = "SenderB"
	b.Recipient = "RecipientB"

	require.NoError(t, store.Upsert(ctx, a))
	require.NoError(t, store.Upsert(ctx, b))

	bySender, err := store.GetBySender(ctx, "SenderB")
	require.NoError(t, err)
	require.Len(t, bySender, 1)
	assert.Equal(t, "meta-b", bySender[0].Metadata)

	byRecipient, err := store.GetByRecipient(ctx, "RecipientAddress123")
	require.NoError(t, err)
	require.Len(t, byRecipient, 1)
	assert.Equal(t, "meta-a", byRecipient[0].Metadata)
}

func TestStreamStore_ListOpen(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	closed := testStream("meta-closed")
	closed.EndTime = 1000
	atBoundary := testStream("meta-boundary")
	atBoundary.EndTime = 2000
	open := testStream("meta-open")
	open.EndTime = 3000
	canceled := testStream("meta-canceled")
	canceled.EndTime = 4000
	canceled.CanceledAt = 1500

	for _, r := range []*domain.StreamRecord{closed, atBoundary, open, canceled} {
		require.NoError(t, store.Upsert(ctx, r))
	}

	got, err := store.ListOpen(ctx, 2000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "meta-boundary", got[0].Metadata)
	assert.Equal(t, "meta-open", got[1].Metadata)
}

func TestStreamStore_LargeAmountsRoundtrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStreamStore(pool)
	ctx := context.Background()

	// Amounts above math.MaxInt64 pass through the BIGINT columns via the
	// int64 cast and must come back intact.
	r := testStream("meta-large")
	r.DepositedAmount = 1 << 63
	r.WithdrawnAmount = (1 << 63) + 42
	r.TotalAmount = ^uint64(0)
	require.NoError(t, store.Upsert(ctx, r))

	got, err := store.GetByMetadata(ctx, "meta-large")
	require.NoError(t, err)
	assert.Equal(t, r.DepositedAmount, got.DepositedAmount)
	assert.Equal(t, r.WithdrawnAmount, got.WithdrawnAmount)
	assert.Equal(t, r.TotalAmount, got.TotalAmount)
}
