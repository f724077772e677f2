package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess, err := store.Merge(ctx, "conv-1", func(s *Session) {
		s.Step = StepSelectingSlot
		b := s.EnsureBooking()
		b.Name = "Arjun"
		b.Email = "arjun@example.com"
	})
	require.NoError(t, err)
	assert.Equal(t, StepSelectingSlot, sess.Step)

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StepSelectingSlot, got.Step)
	assert.Equal(t, "Arjun", got.Booking.Name)
	assert.Equal(t, "arjun@example.com", got.Booking.Email)
}

func TestRedisStoreGetUnknownReturnsNil(t *testing.T) {
	store, _ := newTestRedisStore(t)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreMergePreservesExistingFields(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Merge(ctx, "conv-1", func(s *Session) {
		s.EnsureBooking().Name = "Arjun"
	})
	require.NoError(t, err)

	sess, err := store.Merge(ctx, "conv-1", func(s *Session) {
		s.EnsureBooking().Phone = "9876543210"
	})
	require.NoError(t, err)
	assert.Equal(t, "Arjun", sess.Booking.Name)
	assert.Equal(t, "9876543210", sess.Booking.Phone)
}

func TestRedisStoreMergeRefreshesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, WithRedisMaxAge(12*time.Hour))
	ctx := context.Background()

	_, err := store.Merge(ctx, "conv-1", func(s *Session) {})
	require.NoError(t, err)

	mr.FastForward(11 * time.Hour)
	_, err = store.Merge(ctx, "conv-1", func(s *Session) {})
	require.NoError(t, err)

	mr.FastForward(11 * time.Hour)
	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, WithRedisMaxAge(12*time.Hour))
	ctx := context.Background()

	_, err := store.Merge(ctx, "conv-1", func(s *Session) {})
	require.NoError(t, err)

	mr.FastForward(13 * time.Hour)

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreClear(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Merge(ctx, "conv-1", func(s *Session) {})
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "conv-1"))

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
