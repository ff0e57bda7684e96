package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/pkg/syncx/queue"
)

func TestQueue(t *testing.T) {
	q := queue.New[int]()
	require.Equal(t, 0, q.Len())

	q.Put(1)
	q.Put(2)
	require.Equal(t, 2, q.Len())

	v, ok := q.TryGet()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, err := q.GetWithContext(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, v)

	_, ok = q.TryGet()
	require.False(t, ok)
}

func TestGetWithContextBlocksUntilPut(t *testing.T) {
	q := queue.New[string]()

	got := make(chan string, 1)
	go func() {
		v, err := q.GetWithContext(context.Background())
		require.NoError(t, err)
		got <- v
	}()

	select {
	case <-got:
		require.FailNow(t, "get should have blocked")
	case <-time.After(50 * time.Millisecond):
	}

	q.Put("hello")
	select {
	case v := <-got:
		require.Equal(t, "hello", v)
	case <-time.After(time.Second):
		require.FailNow(t, "get should have unblocked")
	}
}

func TestGetWithContextCanceled(t *testing.T) {
	q := queue.New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)
	go func() {
		_, err := q.GetWithContext(ctx)
		errs <- err
	}()
	cancel()

	select {
	case err := <-errs:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		require.FailNow(t, "get should have returned after cancel")
	}
}

func TestQueuePreservesOrderUnderConcurrentPut(t *testing.T) {
	q := queue.New[int]()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Put(w*1000 + i)
			}
		}(w)
	}
	wg.Wait()
	require.Equal(t, 400, q.Len())

	last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
	for q.Len() > 0 {
		v, _ := q.TryGet()
		w, i := v/1000, v%1000
		require.Greater(t, i, last[w], "per-producer order must be kept")
		last[w] = i
	}
}
