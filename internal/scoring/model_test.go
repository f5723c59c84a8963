package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/internal/scoring"
)

func TestWeightedSum(t *testing.T) {
	t.Parallel()
	w := []float64{1, 2, 3}
	x := []float64{4, 5, 6}
	assert.InDelta(t, 32.0, scoring.WeightedSum(w, x), 1e-12)
	assert.Zero(t, scoring.WeightedSum(nil, nil))
}

func TestLogistic(t *testing.T) {
	t.Parallel()
	// w.x + b = 0 => 0.5
	assert.InDelta(t, 0.5, scoring.Logistic([]float64{1}, -2, []float64{2}), 1e-12)
	// large positive activation saturates toward 1
	assert.Greater(t, scoring.Logistic([]float64{10}, 0, []float64{10}), 0.999)
	// large negative activation saturates toward 0
	assert.Less(t, scoring.Logistic([]float64{10}, 0, []float64{-10}), 0.001)
}

func TestCosine_ZeroVectorGuard(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, scoring.Cosine(nil, []float64{1, 2}))
	assert.Equal(t, 0.0, scoring.Cosine([]float64{0, 0}, []float64{1, 2}))
	assert.Equal(t, 0.0, scoring.Cosine([]float64{1, 2}, []float64{0, 0}))
	assert.Equal(t, 0.0, scoring.Cosine(nil, nil))
}

func TestCosine_SymmetryAndIdentity(t *testing.T) {
	t.Parallel()
	a := []float64{0.3, -0.2, 0.9}
	b := []float64{0.1, 0.8, -0.4}
	assert.InDelta(t, scoring.Cosine(a, b), scoring.Cosine(b, a), 1e-12)
	assert.InDelta(t, 1.0, scoring.Cosine(a, a), 1e-12)
	// orthogonal
	assert.InDelta(t, 0.0, scoring.Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
}

func TestValidateDims(t *testing.T) {
	t.Parallel()
	w := domain.ScoringWeights{Vector: []float64{1, 2, 3}, Bias: 0}
	require.NoError(t, scoring.ValidateDims(w, []float64{1, 2, 3}))

	err := scoring.ValidateDims(w, []float64{1, 2})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = scoring.ValidateDims(domain.ScoringWeights{}, []float64{1})
	require.ErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestComposite_SeniorBlendExample(t *testing.T) {
	t.Parallel()
	c := domain.BlendCoefficients{Alpha: 0.5, Beta: 0.4, Gamma: 0.1}
	got := scoring.Composite(80, 0.9, 0.7, c)
	assert.InDelta(t, 40.43, got, 1e-9)
}

func TestComposite_Deterministic(t *testing.T) {
	t.Parallel()
	c := scoring.BuiltinCoefficients().For("senior")
	first := scoring.Composite(12.5, 0.42, 0.31, c)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, scoring.Composite(12.5, 0.42, 0.31, c))
	}
}

func TestCoefficientTable_Lookup(t *testing.T) {
	t.Parallel()
	table := scoring.BuiltinCoefficients()
	assert.Equal(t, table["senior"], table.For("SeNiOr"))
	assert.Equal(t, table["senior"], table.For("  senior "))
	assert.Equal(t, domain.DefaultCoefficients, table.For("intern"))
	assert.Equal(t, domain.DefaultCoefficients, table.For(""))
}
