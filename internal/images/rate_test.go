package images

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerStartsOptimistic(t *testing.T) {
	tracker := newSuccessTracker()

	assert.Equal(t, 1.0, tracker.Rate())
	assert.Equal(t, fastDelay, tracker.Delay())
}

func TestTrackerSuccessCapsAtOne(t *testing.T) {
	tracker := newSuccessTracker()

	for i := 0; i < 5; i++ {
		tracker.RecordSuccess()
	}

	assert.Equal(t, 1.0, tracker.Rate())
}

func TestTrackerFailureFloorsAtZero(t *testing.T) {
	tracker := newSuccessTracker()

	for i := 0; i < 10; i++ {
		tracker.RecordFailure()
	}

	assert.Equal(t, 0.0, tracker.Rate())
	assert.Equal(t, slowDelay, tracker.Delay())
}

func TestTrackerFailureMovesTwiceAsFastAsSuccess(t *testing.T) {
	tracker := newSuccessTracker()

	tracker.RecordFailure()
	assert.InDelta(t, 0.8, tracker.Rate(), 1e-9)

	tracker.RecordSuccess()
	tracker.RecordSuccess()
	assert.Equal(t, 1.0, tracker.Rate())
}

func TestTrackerDelayTiers(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		successes int
		wantRate  float64
		wantDelay time.Duration
	}{
		{name: "full confidence", wantRate: 1.0, wantDelay: fastDelay},
		{name: "just above fast threshold", failures: 10, successes: 9, wantRate: 0.9, wantDelay: fastDelay},
		{name: "exactly at fast threshold", failures: 1, wantRate: 0.8, wantDelay: mediumDelay},
		{name: "middle band", failures: 2, wantRate: 0.6, wantDelay: mediumDelay},
		{name: "exactly at medium threshold", failures: 10, successes: 5, wantRate: 0.5, wantDelay: slowDelay},
		{name: "low confidence", failures: 3, wantRate: 0.4, wantDelay: slowDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newSuccessTracker()
			for i := 0; i < tt.failures; i++ {
				tracker.RecordFailure()
			}
			for i := 0; i < tt.successes; i++ {
				tracker.RecordSuccess()
			}

			assert.Equal(t, tt.wantRate, tracker.Rate())
			assert.Equal(t, tt.wantDelay, tracker.Delay())
		})
	}
}
