// Package scoring implements the resume-JD compatibility scoring engine:
// the numeric model, the heuristic sub-score assessors, career-level blending,
// benchmarking and insight generation. Every function here is pure.
package scoring

import (
	"fmt"
	"math"

	"github.com/fairyhunter13/ats-screener/internal/domain"
)

// WeightedSum returns the dot product of the weight and feature vectors.
// Callers must validate dimensions first; see ValidateDims.
func WeightedSum(w, x []float64) float64 {
	var s float64
	for i := range w {
		s += w[i] * x[i]
	}
	return s
}

// Logistic returns 1 / (1 + e^-(w.x + b)).
func Logistic(w []float64, b float64, x []float64) float64 {
	return 1.0 / (1.0 + math.Exp(-(WeightedSum(w, x) + b)))
}

// Cosine returns the cosine similarity of a and b. When either vector has
// zero norm (including nil) it returns exactly 0.0 instead of dividing by
// zero.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ValidateDims checks that the feature vector matches the trained weight
// vector. A mismatch means scoring is undefined and is surfaced as
// ErrInvalidInput.
func ValidateDims(w domain.ScoringWeights, x []float64) error {
	if len(w.Vector) == 0 {
		return fmt.Errorf("%w: empty weight vector", domain.ErrMissingArtifact)
	}
	if len(x) != len(w.Vector) {
		return fmt.Errorf("%w: feature vector dim %d != weight dim %d", domain.ErrInvalidInput, len(x), len(w.Vector))
	}
	return nil
}

// Composite blends the three numeric-model outputs with career-level
// coefficients. The inputs are not individually bounded, so the result is an
// unbounded ranking value.
func Composite(weightedSum, logistic, semantic float64, c domain.BlendCoefficients) float64 {
	return c.Alpha*weightedSum + c.Beta*logistic + c.Gamma*semantic
}
