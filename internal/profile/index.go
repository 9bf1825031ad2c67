// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile builds and queries the user interest profile: an
// append-only vector index of embedded reference documents plus aggregate
// statistics over authors, venues, and tags.
// See docs/ARCHITECTURE § Profile Store.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyCorpus is returned when a profile build receives no documents.
// Callers decide whether an empty library is fatal.
var ErrEmptyCorpus = errors.New("empty reference corpus")

// ErrDimensionMismatch is returned when vector dimensionality disagrees
// with the index. This is an integrity error: a profile must be queried
// with the same embedding dimension it was built with.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Index is an arena of fixed-dimension vectors addressed by integer
// position. It is append-only: a full rebuild replaces the whole index.
// The position ↔ document key correspondence is tracked by Profile.
type Index struct {
	dim     int
	vectors [][]float32
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dim int) *Index {
	return &Index{dim: dim}
}

// Dimension returns the fixed vector dimensionality.
func (ix *Index) Dimension() int { return ix.dim }

// Count returns the number of vectors in the index.
func (ix *Index) Count() int { return len(ix.vectors) }

// Add appends vectors to the arena in order.
func (ix *Index) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: index dimension %d, vector dimension %d",
				ErrDimensionMismatch, ix.dim, len(v))
		}
		ix.vectors = append(ix.vectors, v)
	}
	return nil
}

// Vector returns the vector at the given arena position.
func (ix *Index) Vector(pos int) []float32 {
	return ix.vectors[pos]
}

// Match pairs an arena position with its Euclidean distance to a query.
type Match struct {
	Distance float64
	Position int
}

// Search returns the k nearest vectors to query by L2 distance, closest
// first. k is clamped to the index size. An empty index returns no
// matches and no error: that is the "no profile signal" case, not a
// failure.
func (ix *Index) Search(query []float32, k int) ([]Match, error) {
	if ix == nil || len(ix.vectors) == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: index dimension %d, query dimension %d",
			ErrDimensionMismatch, ix.dim, len(query))
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 {
		return nil, nil
	}

	matches := make([]Match, len(ix.vectors))
	for pos, v := range ix.vectors {
		matches[pos] = Match{Distance: l2Distance(query, v), Position: pos}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches[:k], nil
}

// l2Distance computes the Euclidean distance between two equal-length vectors.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
