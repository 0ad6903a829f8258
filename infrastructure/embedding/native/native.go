// Package native provides a deterministic, dependency-free embedder for
// local development and tests: no model weights, no network call, just a
// hash-derived unit vector. Two calls with the same text always produce the
// same embedding, which keeps dedup and retrieval tests reproducible.
package native

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder hashes text into a deterministic pseudo-embedding of a fixed
// dimension. It satisfies ports.Embedder without importing it directly,
// keeping this package dependency-free.
type Embedder struct {
	dimensions int
}

// New returns an Embedder producing vectors of the given dimension.
func New(dimensions int) *Embedder {
	return &Embedder{dimensions: dimensions}
}

// Embed hashes text with FNV-1a to seed a linear congruential generator,
// then draws one pseudo-random float per dimension and unit-normalizes the
// result so cosine similarity behaves sensibly.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec), nil
}

// Dimension reports the fixed output dimension.
func (e *Embedder) Dimension() int {
	return e.dimensions
}

func normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return vec
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
