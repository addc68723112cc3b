// internal/engine/dice.go
package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Roller supplies every random outcome the processor needs: dice faces and
// uniform draws for the macro deck and join codes. Injecting it keeps roll
// outcomes reproducible in tests without touching the state machine.
type Roller interface {
	// Die returns a uniform value in [1, 6].
	Die() int
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

type randRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller returns a time-seeded Roller when seed is 0, otherwise a
// deterministic one.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Die() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(6) + 1
}

func (r *randRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
