package core

// preview_limiter.go bounds the number of file previews read at once.
//
// Each preview decodes a whole file into memory, so the limiter uses a
// semaphore of maxConcurrent slots. When all slots are occupied, new
// requests wait up to maxWait before failing with ErrTooManyPreviews.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyPreviews is returned when all preview slots are occupied and the
// wait timeout expires.
var ErrTooManyPreviews = errors.New("too many previews in progress, please try again later")

// DefaultMaxConcurrentPreviews is the default limit for parallel previews.
const DefaultMaxConcurrentPreviews = 4

// DefaultPreviewWait is how long to wait for a slot before rejecting.
const DefaultPreviewWait = 10 * time.Second

// PreviewLimiter controls concurrent preview reads using a semaphore.
type PreviewLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewPreviewLimiter creates a limiter that allows at most maxConcurrent
// simultaneous previews.
func NewPreviewLimiter(maxConcurrent int, maxWait time.Duration) *PreviewLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPreviews
	}
	if maxWait <= 0 {
		maxWait = DefaultPreviewWait
	}

	return &PreviewLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. The caller must Release it (use defer).
func (l *PreviewLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyPreviews
	}
}

// TryAcquire takes a slot without blocking.
func (l *PreviewLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *PreviewLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.semaphore
}

// ActiveCount returns the number of previews in progress.
func (l *PreviewLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *PreviewLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no preview is in progress or ctx is done.
// Used during shutdown.
func (l *PreviewLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PreviewLimiterStatus is a snapshot of the limiter.
type PreviewLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for health checks.
func (l *PreviewLimiter) Status() PreviewLimiterStatus {
	return PreviewLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
