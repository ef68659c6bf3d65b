package mocks

import (
	"sync"

	"github.com/fastprodman/fliprooms/internal/dependencies/random"
)

// MockRandom replays queued Intn results and returns 0 once the queue is empty.
type MockRandom struct {
	mu      sync.Mutex
	results []int
	calls   int
}

var _ random.Random = (*MockRandom)(nil)

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	if len(r.results) == 0 {
		return 0
	}

	v := r.results[0]
	r.results = r.results[1:]

	return v
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, values...)
}

// Calls reports how many draws were made.
func (r *MockRandom) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}
