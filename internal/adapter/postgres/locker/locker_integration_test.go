//go:build integration

package locker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-status/internal/adapter/postgres/locker"
	"github.com/alanyang/agent-status/internal/testutil"
)

func TestWithLock_Serialises(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	l := locker.New(pool)
	const key int64 = 424242

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), key, func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(50 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestWithLock_ReturnsFnErrorAndUnlocks(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	l := locker.New(pool)
	const key int64 = 434343

	boom := errors.New("boom")
	err := l.WithLock(context.Background(), key, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, l.WithLock(ctx, key, func(context.Context) error { return nil }), "lock was released")
}
