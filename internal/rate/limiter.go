// Package rate bounds calls to the metered analysis API with a trailing
// window of call timestamps. The budget is an in-memory safety net, not a
// durable quota; it does not survive a restart.
package rate

import (
	"errors"
	"sync"
	"time"
)

// ErrLimitExceeded is surfaced when admission is denied. Calls are denied,
// never queued.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Config defines the admission bound: at most MaxCalls within any trailing
// Window-length interval.
type Config struct {
	MaxCalls int
	Window   time.Duration
}

// Limiter is the admission capability consumed by the gateway.
type Limiter interface {
	CanCall() bool
	RecordCall() bool
	Remaining() int
	Reset()
}

// WindowLimiter implements Limiter over a mutex-guarded timestamp slice.
// Timestamps older than the window are pruned lazily on each check; there is
// no background timer.
type WindowLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	calls  []time.Time
	now    func() time.Time
}

// New creates a limiter. Non-positive settings fall back to 10 calls per
// minute.
func New(cfg Config) *WindowLimiter {
	if cfg.MaxCalls <= 0 {
		cfg.MaxCalls = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &WindowLimiter{
		max:    cfg.MaxCalls,
		window: cfg.Window,
		now:    time.Now,
	}
}

// CanCall reports whether a call would currently be admitted. It records
// nothing; use RecordCall to consume budget.
func (l *WindowLimiter) CanCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls) < l.max
}

// RecordCall atomically checks and consumes one unit of budget. When the
// window is full it records nothing and returns false, so N concurrent
// callers can never push the recorded count past the bound. A recorded call
// stands even if the caller later abandons the request.
func (l *WindowLimiter) RecordCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	if len(l.calls) >= l.max {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// Remaining reports how many calls are still admissible in the current
// window.
func (l *WindowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return l.max - len(l.calls)
}

// Reset drops all recorded calls.
func (l *WindowLimiter) Reset() {
	l.mu.Lock()
	l.calls = nil
	l.mu.Unlock()
}

// prune drops timestamps that are no longer strictly newer than now-window.
// Callers must hold the mutex.
func (l *WindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept
}
