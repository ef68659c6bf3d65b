package mocks

import (
	"sync"
	"time"

	"github.com/fastprodman/fliprooms/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Every call to Now
// advances the clock by Step so records created in sequence keep their order.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	Step    time.Duration
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t, Step: time.Millisecond}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.current
	c.current = c.current.Add(c.Step)

	return now
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
}
