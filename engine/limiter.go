package engine

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// PermitLimiter bounds the number of in-flight extractions process-wide.
// Every successful Acquire must be paired with exactly one Release.
type PermitLimiter struct {
	sem  *semaphore.Weighted
	size int
}

// NewLimiter creates a limiter holding n permits. n < 1 is treated as 1.
func NewLimiter(n int) *PermitLimiter {
	if n < 1 {
		n = 1
	}
	return &PermitLimiter{
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
	}
}

// Acquire blocks until a permit is free or ctx is done.
func (l *PermitLimiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns one permit. It panics if called without a matching Acquire.
func (l *PermitLimiter) Release() {
	l.sem.Release(1)
}

// Size returns the permit capacity.
func (l *PermitLimiter) Size() int { return l.size }
