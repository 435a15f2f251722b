// Package worker bounds how many blocking collaborator calls (transcription,
// encoding, downloads) run at once.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool runs functions with at most Size concurrent executions.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool creates a pool. size < 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Size returns the concurrency limit.
func (p *Pool) Size() int {
	return int(p.size)
}

// Do waits for a free slot and runs fn in the calling goroutine. It returns
// ctx.Err() if the context ends before a slot frees up. fn itself is not
// interrupted.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}
