package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "product-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.locks)
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockAll_DeduplicatesKeys(t *testing.T) {
	l := NewLocalLocker()

	release, err := LockAll(context.Background(), l, []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Len(t, l.locks, 2)

	release()
	assert.Empty(t, l.locks)
}

func TestAcquireAll_ReentrantForHeldKeys(t *testing.T) {
	l := NewLocalLocker()

	ctx, release, err := AcquireAll(context.Background(), l, []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, Holds(ctx, "a"))
	assert.False(t, Holds(context.Background(), "a"))

	// Would block forever on a non-reentrant lock.
	inner, releaseInner, err := AcquireAll(ctx, l, []string{"b", "c"})
	require.NoError(t, err)
	assert.True(t, Holds(inner, "c"))
	assert.Len(t, l.locks, 3)

	releaseInner()
	assert.Len(t, l.locks, 2)
	release()
	assert.Empty(t, l.locks)
}
