package slotredis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

func newStore(t *testing.T, now time.Time) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewStore(client)
	s.now = func() time.Time { return now }
	return s, mr
}

func makeHold(id string, userID int64, start, now time.Time) *domain.SlotHold {
	return &domain.SlotHold{
		ID:          id,
		UserID:      userID,
		EventTypeID: 1,
		SlotStart:   start,
		SlotEnd:     start.Add(30 * time.Minute),
		CreatedAt:   now,
		ReleaseAt:   now.Add(15 * time.Minute),
	}
}

func TestStore_UpsertAndList(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, _ := newStore(t, now)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)

	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 7, start, now)))
	require.NoError(t, s.Upsert(ctx, makeHold("res-2", 7, start.Add(24*time.Hour), now)))
	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 8, start, now)))

	holds, err := s.ListActiveByUser(ctx, 7, now, now.Add(12*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "res-1", holds[0].ID)
	assert.True(t, start.Equal(holds[0].SlotStart))
}

func TestStore_DeleteByID_Idempotent(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, _ := newStore(t, now)
	ctx := context.Background()
	start := now.Add(time.Hour)

	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 7, start, now)))
	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 8, start, now)))

	n, err := s.DeleteByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.DeleteByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	holds, err := s.ListActiveByUser(ctx, 7, now, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestStore_HoldExpiresByTTL(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, mr := newStore(t, now)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 7, now.Add(time.Hour), now)))
	mr.FastForward(16 * time.Minute)

	holds, err := s.ListActiveByUser(ctx, 7, now, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	assert.Empty(t, holds)

	members, err := mr.ZMembers(userIndexKey(7))
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestStore_UpsertAlreadyExpired(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, mr := newStore(t, now)

	hold := makeHold("res-1", 7, now.Add(time.Hour), now)
	hold.ReleaseAt = now.Add(-time.Second)

	require.NoError(t, s.Upsert(context.Background(), hold))
	assert.False(t, mr.Exists(holdKey(hold)))
}

func TestStore_SameUIDDifferentSlots(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, _ := newStore(t, now)
	ctx := context.Background()
	first := now.Add(time.Hour)
	second := now.Add(3 * time.Hour)

	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 7, first, now)))
	require.NoError(t, s.Upsert(ctx, makeHold("res-1", 7, second, now)))

	holds, err := s.ListActiveByUser(ctx, 7, now, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	assert.Len(t, holds, 2)
}

func TestStore_DeleteHolds_KeepsOtherSlots(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	s, mr := newStore(t, now)
	ctx := context.Background()

	kept := makeHold("res-1", 7, now.Add(time.Hour), now)
	dropped := []*domain.SlotHold{
		makeHold("res-1", 7, now.Add(3*time.Hour), now),
		makeHold("res-1", 8, now.Add(3*time.Hour), now),
	}

	require.NoError(t, s.Upsert(ctx, kept))
	for _, hold := range dropped {
		require.NoError(t, s.Upsert(ctx, hold))
	}

	n, err := s.DeleteHolds(ctx, dropped)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.True(t, mr.Exists(holdKey(kept)))
	holds, err := s.ListActiveByUser(ctx, 7, now, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.True(t, kept.SlotStart.Equal(holds[0].SlotStart))

	members, err := mr.SMembers(idIndexKey("res-1"))
	require.NoError(t, err)
	assert.Equal(t, []string{holdKey(kept)}, members)

	n, err = s.DeleteByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
