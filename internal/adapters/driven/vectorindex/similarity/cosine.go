// Package similarity provides brute-force cosine ranking shared by the
// local vector index backends.
package similarity

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of a and b. Zero vectors and
// vectors of different length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Scored pairs a position with its similarity.
type Scored struct {
	Pos   int
	Score float64
}

// TopK ranks candidates by descending score and keeps the first k.
// Ties keep candidate order, so results are deterministic.
func TopK(query []float32, candidates [][]float32, k int) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{Pos: i, Score: Cosine(query, c)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k >= 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
