package web

// limiter.go bounds how many preview uploads are classified at once.
//
// Each preview parses a whole spreadsheet in memory, so the limiter caps
// parallel work with a semaphore. When every slot is taken, a request waits
// up to maxWait and then fails with ErrTooManyPreviews. WaitForDrain lets
// shutdown wait for previews that are still running.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyPreviews is returned when no preview slot frees up in time.
var ErrTooManyPreviews = errors.New("too many concurrent previews, please try again later")

// DefaultMaxConcurrentPreviews is used when the configured limit is not positive.
const DefaultMaxConcurrentPreviews = 4

// DefaultPreviewWait is used when the configured wait is not positive.
const DefaultPreviewWait = 10 * time.Second

// PreviewLimiter is a counting semaphore for preview uploads.
type PreviewLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewPreviewLimiter allows at most maxConcurrent previews at a time.
func NewPreviewLimiter(maxConcurrent int, maxWait time.Duration) *PreviewLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPreviews
	}
	if maxWait <= 0 {
		maxWait = DefaultPreviewWait
	}

	return &PreviewLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. It returns ErrTooManyPreviews when maxWait
// passes first and ctx.Err() when ctx ends first.
// A successful Acquire must be paired with Release.
func (l *PreviewLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
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

// TryAcquire takes a slot only if one is free right now.
func (l *PreviewLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
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
	<-l.slots
}

// ActiveCount returns the number of previews holding a slot.
func (l *PreviewLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no preview holds a slot or ctx ends.
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

// LimiterStatus is a point-in-time view of the limiter for /healthz.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the limiter's current state.
func (l *PreviewLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
