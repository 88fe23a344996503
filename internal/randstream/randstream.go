// Package randstream provides a seeded PRNG substream scheme: the PRNG for
// ALNS is seeded once per run and, under parallel execution, each worker
// receives its own sub-stream so results stay reproducible regardless of
// goroutine scheduling.
package randstream

import "math/rand"

// Stream is a single deterministic PRNG stream. Not safe for concurrent
// use — each worker owns its own Stream, derived via SubStream.
type Stream struct {
	r *rand.Rand
}

// New creates the root stream for a run from the configured seed.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// SubStream derives an independent, deterministic child stream for worker
// index i. The derivation (splitmix64-style mixing of seed and index) is
// itself deterministic, so the same (seed, worker count) always produces
// the same set of substreams regardless of scheduling order.
func (s *Stream) SubStream(i int) *Stream {
	mixed := splitmix64(uint64(s.r.Int63())^uint64(i)*0x9E3779B97F4A7C15)
	return &Stream{r: rand.New(rand.NewSource(int64(mixed)))}
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)
	return x
}

// Float64 returns a pseudo-random float64 in [0,1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// Intn returns a pseudo-random int in [0,n).
func (s *Stream) Intn(n int) int { return s.r.Intn(n) }

// Shuffle permutes a slice of length n in place, using swap(i, j).
func (s *Stream) Shuffle(n int, swap func(i, j int)) { s.r.Shuffle(n, swap) }

// WeightedChoice draws an index in [0, len(weights)) with probability
// proportional to weights[i]. When the weights sum to zero or less it draws
// uniformly. Panics if weights is empty.
func (s *Stream) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return s.Intn(len(weights))
	}
	r := s.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
