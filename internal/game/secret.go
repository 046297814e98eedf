package game

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generator draws secrets from an injected random source.
// Each position is independent and uniform over A–Z, with replacement.
type Generator struct {
	mu sync.Mutex // *rand.Rand is not safe for concurrent use
	r  *rand.Rand
}

// NewGenerator wraps r. Tests pass a seeded source to pin the secret.
func NewGenerator(r *rand.Rand) *Generator {
	return &Generator{r: r}
}

// NewSeededGenerator returns a deterministic generator for seed.
func NewSeededGenerator(seed [32]byte) *Generator {
	return NewGenerator(rand.New(rand.NewChaCha8(seed)))
}

// NewRandomGenerator returns a generator seeded from crypto/rand.
func NewRandomGenerator() *Generator {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return NewSeededGenerator(seed)
}

// Secret returns a fresh secret.
func (g *Generator) Secret() Secret {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b [Size]byte
	for i := range b {
		b[i] = alphabet[g.r.IntN(len(alphabet))]
	}
	return Secret(b[:])
}
