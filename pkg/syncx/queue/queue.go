package queue

import (
	"context"
	"sync"
)

// Queue is an unbounded, thread-safe FIFO. Put never blocks, so a producer holding its own lock
// can hand values to a slow consumer without coalescing or dropping any of them.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	elems []T
}

// New creates a new queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends an element to the queue.
func (q *Queue[T]) Put(t T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.elems = append(q.elems, t)
	q.cond.Broadcast()
}

// TryGet removes and returns the head of the queue if there is one.
func (q *Queue[T]) TryGet() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.elems) == 0 {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// GetWithContext removes and returns the head of the queue, blocking until an element is
// available or the context is canceled.
func (q *Queue[T]) GetWithContext(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()

	for len(q.elems) == 0 && ctx.Err() == nil {
		q.cond.Wait()
	}
	if len(q.elems) == 0 {
		var zero T
		return zero, ctx.Err()
	}
	return q.pop(), nil
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.elems)
}

func (q *Queue[T]) pop() T {
	var zero T
	res := q.elems[0]
	q.elems[0] = zero
	q.elems = q.elems[1:]
	return res
}
