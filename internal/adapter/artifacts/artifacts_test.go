package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/adapter/artifacts"
	"github.com/fairyhunter13/ats-screener/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadWeights_OK(t *testing.T) {
	t.Parallel()
	w := writeFile(t, "weights.txt", "# trained 2026-01-10\n0.5\n-1.25\n\n3.0\n")
	b := writeFile(t, "bias.txt", "-0.75\n")
	got, err := artifacts.LoadWeights(w, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1.25, 3.0}, got.Vector)
	assert.Equal(t, -0.75, got.Bias)
}

func TestLoadWeights_MissingFileIsFatal(t *testing.T) {
	t.Parallel()
	b := writeFile(t, "bias.txt", "0")
	_, err := artifacts.LoadWeights(filepath.Join(t.TempDir(), "absent.txt"), b)
	require.ErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestLoadWeights_EmptyWeights(t *testing.T) {
	t.Parallel()
	w := writeFile(t, "weights.txt", "# nothing\n")
	b := writeFile(t, "bias.txt", "0")
	_, err := artifacts.LoadWeights(w, b)
	require.ErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestLoadWeights_MalformedValue(t *testing.T) {
	t.Parallel()
	w := writeFile(t, "weights.txt", "0.5\nnot-a-number\n")
	b := writeFile(t, "bias.txt", "0")
	_, err := artifacts.LoadWeights(w, b)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestLoadWeights_BiasMustBeSingleValue(t *testing.T) {
	t.Parallel()
	w := writeFile(t, "weights.txt", "1\n2\n")
	b := writeFile(t, "bias.txt", "1\n2\n")
	_, err := artifacts.LoadWeights(w, b)
	require.ErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestLoadCoefficients_EmptyPathUsesBuiltin(t *testing.T) {
	t.Parallel()
	table, err := artifacts.LoadCoefficients("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCoefficients, table.For("mid"))
	assert.Equal(t, domain.DefaultCoefficients, table.For("unknown"))
}

func TestLoadCoefficients_YAML(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "coeffs.yaml", `
Senior:
  alpha: 0.5
  beta: 0.4
  gamma: 0.1
entry:
  alpha: 0.2
  beta: 0.6
  gamma: 0.2
`)
	table, err := artifacts.LoadCoefficients(p)
	require.NoError(t, err)
	// keys normalize to lowercase, lookups stay case-insensitive
	assert.Equal(t, domain.BlendCoefficients{Alpha: 0.5, Beta: 0.4, Gamma: 0.1}, table.For("SENIOR"))
	assert.Equal(t, domain.BlendCoefficients{Alpha: 0.2, Beta: 0.6, Gamma: 0.2}, table.For("entry"))
	assert.Equal(t, domain.DefaultCoefficients, table.For("mid"))
}

func TestLoadCoefficients_ConfiguredButAbsent(t *testing.T) {
	t.Parallel()
	_, err := artifacts.LoadCoefficients(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, domain.ErrMissingArtifact)
}
