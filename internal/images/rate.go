package images

import (
	"math"
	"sync"
	"time"
)

// Adaptive pacing thresholds. The delay between jobs shrinks while fetches
// keep succeeding and grows as soon as they start failing.
const (
	fastDelay   = 100 * time.Millisecond
	mediumDelay = 300 * time.Millisecond
	slowDelay   = time.Second

	successStep = 0.1
	failureStep = 0.2
)

// successTracker maintains a shared success-rate estimate across workers.
// The rate starts optimistic and moves down twice as fast as it moves up,
// so a burst of failures backs the pool off quickly.
type successTracker struct {
	mu   sync.Mutex
	rate float64
}

func newSuccessTracker() *successTracker {
	return &successTracker{rate: 1.0}
}

func (t *successTracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rate = clampRate(t.rate + successStep)
}

func (t *successTracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rate = clampRate(t.rate - failureStep)
}

// clampRate keeps the estimate in [0, 1] and snaps it to an exact tenth,
// so accumulated float error never pushes a rate sitting on a delay
// threshold to the wrong side of it.
func clampRate(rate float64) float64 {
	rate = math.Round(rate*10) / 10
	if rate > 1.0 {
		return 1.0
	}
	if rate < 0.0 {
		return 0.0
	}
	return rate
}

// Rate returns the current estimate.
func (t *successTracker) Rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rate
}

// Delay returns how long a worker should pause before its next job.
func (t *successTracker) Delay() time.Duration {
	rate := t.Rate()
	switch {
	case rate > 0.8:
		return fastDelay
	case rate > 0.5:
		return mediumDelay
	default:
		return slowDelay
	}
}
