package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BurstThenDeny(t *testing.T) {
	s := NewStore(0.001, 2)

	assert.True(t, s.Allow("1.1.1.1"))
	assert.True(t, s.Allow("1.1.1.1"))
	assert.False(t, s.Allow("1.1.1.1"))

	// отдельный ключ - отдельный бакет
	assert.True(t, s.Allow("2.2.2.2"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_CleanupRemovesIdleKeys(t *testing.T) {
	s := NewStore(1, 1, WithIdleTTL(-time.Second))
	s.Allow("a")
	s.Allow("b")
	require.Equal(t, 2, s.Len())

	s.Cleanup()
	assert.Equal(t, 0, s.Len())
}

func TestStore_RunJanitorStopsOnCancel(t *testing.T) {
	s := NewStore(1, 1, WithCleanupEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.RunJanitor(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), StatsEvent{Key: "k", Allowed: true}))
}
