package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_StartsAtEpoch(t *testing.T) {
	clock := NewManualClock()
	assert.Equal(t, Epoch, clock.Now())
	assert.False(t, clock.Now().IsZero())
}

func TestManualClock_Advance(t *testing.T) {
	clock := NewManualClock()

	got := clock.Advance(300 * time.Millisecond)
	assert.Equal(t, Epoch.Add(300*time.Millisecond), got)
	assert.Equal(t, got, clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, Epoch.Add(1300*time.Millisecond), clock.Now())
}

func TestManualClock_AdvanceNegativeIgnored(t *testing.T) {
	clock := NewManualClock()
	clock.Advance(-time.Hour)
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_SetAndReset(t *testing.T) {
	clock := NewManualClock()
	later := Epoch.Add(24 * time.Hour)

	clock.Set(later)
	assert.Equal(t, later, clock.Now())

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_ThreadSafe(t *testing.T) {
	clock := NewManualClock()
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Millisecond)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, Epoch.Add(numGoroutines*time.Millisecond), clock.Now())
}
