package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFirstClaimWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.Acquire(ctx, "S1|document_email_sent|0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, "S1|document_email_sent|0")
	require.NoError(t, err)
	assert.False(t, ok, "second claim on the same key must lose")
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, _ := s.Acquire(ctx, "S1|document_email_sent|0")
	assert.True(t, ok)

	ok, _ = s.Acquire(ctx, "S1|document_email_sent|1")
	assert.True(t, ok, "distinct sequence is a distinct key")

	ok, _ = s.Acquire(ctx, "S2|document_email_sent|0")
	assert.True(t, ok, "distinct session is a distinct key")
}

func TestMemoryStoreReleaseReopensKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, _ := s.Acquire(ctx, "k")
	require.True(t, ok)

	require.NoError(t, s.Release(ctx, "k"))

	ok, _ = s.Acquire(ctx, "k")
	assert.True(t, ok, "released key must be claimable again")
}

func TestMemoryStoreConcurrentAcquire(t *testing.T) {
	s := NewMemoryStore()

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Acquire(context.Background(), "contended")
			if err == nil && ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one claimant may win")
}
