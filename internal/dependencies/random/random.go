package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Random is the uniform source used for coin flips. It can be mocked for testing.
type Random interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}

// PRNG is a goroutine-safe math/rand/v2 generator.
type PRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a ChaCha8 generator seeded once from crypto/rand.
func New() *PRNG {
	var seed [32]byte

	_, err := crand.Read(seed[:])
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic("random: seed from crypto/rand: " + err.Error())
	}

	return &PRNG{r: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded returns a reproducible generator.
func NewSeeded(seed uint64) *PRNG {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)

	return &PRNG{r: rand.New(rand.NewChaCha8(s))}
}

func (p *PRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.r.IntN(n)
}
