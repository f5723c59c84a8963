// Package artifacts loads the persisted model artifacts consumed at process
// startup: the trained weight vector, its bias, and the career-level blend
// coefficient table. Weights and bias are fatal-if-missing; the engine must
// refuse to serve rather than score with undefined weights.
package artifacts

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/internal/scoring"
)

// LoadWeights reads the weight vector and bias from flat numeric files.
// The weights file holds one float per line (blank lines and # comments
// ignored); the bias file holds a single float.
func LoadWeights(weightsPath, biasPath string) (domain.ScoringWeights, error) {
	vec, err := readFloats(weightsPath)
	if err != nil {
		return domain.ScoringWeights{}, err
	}
	if len(vec) == 0 {
		return domain.ScoringWeights{}, fmt.Errorf("%w: weights file %s holds no values", domain.ErrMissingArtifact, weightsPath)
	}
	biases, err := readFloats(biasPath)
	if err != nil {
		return domain.ScoringWeights{}, err
	}
	if len(biases) != 1 {
		return domain.ScoringWeights{}, fmt.Errorf("%w: bias file %s must hold exactly one value, got %d", domain.ErrMissingArtifact, biasPath, len(biases))
	}
	return domain.ScoringWeights{Vector: vec, Bias: biases[0]}, nil
}

// LoadCoefficients reads the career-level blend table from a YAML file.
// An empty path selects the built-in table; a configured-but-absent file is
// an error, since a deployment that names an artifact expects it loaded.
func LoadCoefficients(path string) (domain.CoefficientTable, error) {
	if path == "" {
		return scoring.BuiltinCoefficients(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: coefficients file %s: %v", domain.ErrMissingArtifact, path, err)
	}
	var raw map[string]domain.BlendCoefficients
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("op=artifacts.LoadCoefficients: %w", err)
	}
	table := make(domain.CoefficientTable, len(raw))
	for level, c := range raw {
		table[strings.ToLower(strings.TrimSpace(level))] = c
	}
	return table, nil
}

func readFloats(path string) ([]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMissingArtifact, path, err)
	}
	var out []float64
	for i, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("op=artifacts.readFloats: %s line %d: %w", path, i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}
