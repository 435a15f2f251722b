package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opencaption/internal/app/errors"
)

func TestKeyedMutex_SerialisesSameKey(t *testing.T) {
	k := NewKeyedMutex()
	var active, maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "m1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxActive)
	assert.Zero(t, k.Len(), "slots are released")
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	k := NewKeyedMutex()
	unlockA, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := k.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutex_ContextCancel(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.Lock(context.Background(), "m1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Lock(ctx, "m1")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	unlock()
	unlock()
	assert.Zero(t, k.Len())
}

func TestRedisLocker_ConnectionFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, err := NewRedisLocker(client, time.Minute, nil).Lock(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
}

func TestKeepAlive_RenewsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var renewals int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(ctx, 5*time.Millisecond, func(context.Context) (bool, error) {
			atomic.AddInt32(&renewals, 1)
			return true, nil
		}, func(error) { t.Error("lease reported lost") })
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&renewals) >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive did not stop after cancel")
	}
}

func TestKeepAlive_StopsWhenLeaseLost(t *testing.T) {
	var renewals int32
	var lostErr error
	keepAlive(context.Background(), time.Millisecond, func(context.Context) (bool, error) {
		switch atomic.AddInt32(&renewals, 1) {
		case 1:
			return false, errors.New("i/o timeout")
		case 2:
			return true, nil
		default:
			return false, nil
		}
	}, func(err error) { lostErr = err })

	assert.Equal(t, int32(3), atomic.LoadInt32(&renewals))
	assert.ErrorIs(t, lostErr, errLeaseLost)
}
