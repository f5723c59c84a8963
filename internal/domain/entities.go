package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrMissingArtifact         = errors.New("missing model artifact")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrNotFound                = errors.New("not found")
	ErrInternal                = errors.New("internal error")
)

// Career levels: the closed set of seniority buckets that select blend
// coefficients. Unknown labels fall back to DefaultCoefficients.
const (
	CareerLevelEntry     = "entry"
	CareerLevelMid       = "mid"
	CareerLevelSenior    = "senior"
	CareerLevelExecutive = "executive"
)

// JobProfile is the parsed job description a batch is scored against.
// Immutable after creation; Embedding is nil when no JD text was supplied.
type JobProfile struct {
	RequiredSkills []string
	OptionalSkills []string
	RawText        string
	Embedding      []float64
}

// ResumeProfile holds extracted fields for one resume.
// FeatureVector dimensionality always matches the loaded ScoringWeights;
// a zero vector is used when no reliable numeric feature could be derived.
type ResumeProfile struct {
	RawText        string
	Name           string
	Email          string
	Phone          string
	College        string
	EducationText  string
	ExperienceText string
	ProjectsText   string
	Skills         []string
	FeatureVector  []float64
	Embedding      []float64
}

// ScoringWeights is the trained model artifact, loaded once at startup and
// read-only for the process lifetime.
type ScoringWeights struct {
	Vector []float64
	Bias   float64
}

// BlendCoefficients weight the three numeric-model outputs in the composite.
type BlendCoefficients struct {
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
	Gamma float64 `yaml:"gamma" json:"gamma"`
}

// DefaultCoefficients is used for unrecognized career levels.
var DefaultCoefficients = BlendCoefficients{Alpha: 0.4, Beta: 0.4, Gamma: 0.2}

// CoefficientTable maps career levels to blend coefficients.
// Keys are stored lowercase; lookups are case-insensitive.
type CoefficientTable map[string]BlendCoefficients

// For returns the coefficients for a career level, falling back to
// DefaultCoefficients for unknown labels.
func (t CoefficientTable) For(level string) BlendCoefficients {
	if c, ok := t[strings.ToLower(strings.TrimSpace(level))]; ok {
		return c
	}
	return DefaultCoefficients
}

// SubScores are the independent per-resume assessor outputs.
// All fields are in [0,1] except KeywordDensity, which is an occurrence
// rate per 100 words and has no upper bound.
type SubScores struct {
	Compatibility    float64 `json:"compatibility"`
	Contact          float64 `json:"contact"`
	Content          float64 `json:"content"`
	RequiredCoverage float64 `json:"req_keyword_cov"`
	OptionalCoverage float64 `json:"opt_keyword_cov"`
	Formatting       float64 `json:"formatting"`
	KeywordDensity   float64 `json:"keyword_density"`
}

// Recommendation is one ranked, actionable suggestion.
type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Impact      string `json:"impact"`
}

// CompositeResult is the full scoring output for one resume.
// The composite is an unbounded ranking value, not a percentage; only the
// benchmarking fields interpret it on a coarse relative scale.
type CompositeResult struct {
	Composite           float64          `json:"composite"`
	Semantic            float64          `json:"semantic"`
	SubScores           SubScores        `json:"sub_scores"`
	FoundKeywords       []string         `json:"found_keywords"`
	MissingKeywords     []string         `json:"missing_keywords"`
	RecommendedKeywords []string         `json:"recommended_keywords"`
	Recommendations     []Recommendation `json:"recommendations"`
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
	IndustryAverage     float64          `json:"industry_average"`
	Percentile          int              `json:"percentile"`
	Summary             string           `json:"summary"`
}

// BatchReport is the result of one ScoreBatch invocation.
// Results order matches the input resume order.
type BatchReport struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	CareerLevel  string            `json:"career_level"`
	OverallScore float64           `json:"overall_score"`
	Results      []CompositeResult `json:"results"`
}

// Analysis is the optional-field response of the qualitative analyzer.
// Any field may be absent; consumers define a fallback per field.
type Analysis struct {
	ContentScore        *float64
	Recommendations     []Recommendation
	Strengths           []string
	AreasForImprovement []string
	Summary             string
}

// Ports

// TextExtractor converts raw document bytes into plain text.
// Unsupported formats surface as an empty string the pipeline tolerates.
type TextExtractor interface {
	Extract(ctx Context, fileName string, data []byte) (string, error)
}

// Analyzer is the optional qualitative collaborator.
type Analyzer interface {
	Analyze(ctx Context, resumeText, jdText string) (Analysis, error)
}

// Embedder produces fixed-length embedding vectors for texts.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float64, error)
}

// ReportRepository persists batch reports outside the engine.
type ReportRepository interface {
	Create(ctx Context, r BatchReport) (string, error)
	Get(ctx Context, id string) (BatchReport, error)
}

// Context aliases context.Context so domain signatures stay compact.
type Context = context.Context
