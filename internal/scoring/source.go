package scoring

import "math/rand/v2"

// Source is the randomness used for the unmodeled parts of a score.
// *rand.Rand satisfies it, so tests can pass a seeded generator.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// EntropySource draws from the runtime's goroutine-safe global generator.
type EntropySource struct{}

func (EntropySource) IntN(n int) int { return rand.IntN(n) }

func (EntropySource) Float64() float64 { return rand.Float64() }

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick(src Source, items []string) string {
	return items[src.IntN(len(items))]
}
