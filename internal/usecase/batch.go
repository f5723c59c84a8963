// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/internal/extract"
	"github.com/fairyhunter13/ats-screener/internal/scoring"
	"github.com/fairyhunter13/ats-screener/pkg/textx"
)

// BatchService scores many resumes against one job description. Weights and
// coefficients are loaded once at startup and never mutated; Analyzer and
// Embedder are optional collaborators whose absence degrades gracefully.
type BatchService struct {
	Weights         domain.ScoringWeights
	Coefficients    domain.CoefficientTable
	Analyzer        domain.Analyzer
	Embedder        domain.Embedder
	Concurrency     int
	AnalyzerTimeout time.Duration
}

// NewBatchService constructs a BatchService. It fails fast when the weight
// artifact was not loaded, so the engine never scores with undefined weights.
func NewBatchService(w domain.ScoringWeights, coeffs domain.CoefficientTable, analyzer domain.Analyzer, embedder domain.Embedder, concurrency int, analyzerTimeout time.Duration) (*BatchService, error) {
	if len(w.Vector) == 0 {
		return nil, fmt.Errorf("%w: weight vector not loaded", domain.ErrMissingArtifact)
	}
	if coeffs == nil {
		coeffs = scoring.BuiltinCoefficients()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if analyzerTimeout <= 0 {
		analyzerTimeout = 45 * time.Second
	}
	return &BatchService{
		Weights:         w,
		Coefficients:    coeffs,
		Analyzer:        analyzer,
		Embedder:        embedder,
		Concurrency:     concurrency,
		AnalyzerTimeout: analyzerTimeout,
	}, nil
}

// BatchInput carries one scoring request: a job description, optional
// explicit skill lists, the target career level and the resume texts.
// When RequiredSkills is empty the keyword list is derived from the JD text.
type BatchInput struct {
	JobDescription string
	RequiredSkills string
	OptionalSkills string
	CareerLevel    string
	ResumeTexts    []string
}

// ScoreBatch parses the JD once, scores every resume concurrently, and
// assembles a timestamped report whose results preserve the input order.
// An empty resume list is rejected with ErrInvalidInput; per-resume
// collaborator failures degrade locally and never abort the batch. On caller
// cancellation no partial report is returned.
func (s *BatchService) ScoreBatch(ctx domain.Context, in BatchInput) (domain.BatchReport, error) {
	if len(in.ResumeTexts) == 0 {
		return domain.BatchReport{}, fmt.Errorf("%w: empty resume batch", domain.ErrInvalidInput)
	}

	required := in.RequiredSkills
	if required == "" {
		required = in.JobDescription
	}
	job := extract.ParseJob(required, in.OptionalSkills)
	if in.JobDescription != "" {
		job.RawText = textx.SanitizeText(in.JobDescription)
	}
	job.Embedding = s.embedJD(ctx, job.RawText)
	coeffs := s.Coefficients.For(in.CareerLevel)

	results := make([]domain.CompositeResult, len(in.ResumeTexts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, text := range in.ResumeTexts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.scoreOne(gctx, job, text, coeffs)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	// scoreOne only returns context errors, so Wait fails iff cancelled.
	if err := g.Wait(); err != nil {
		return domain.BatchReport{}, fmt.Errorf("op=batch.score: %w", err)
	}

	var sum float64
	for _, r := range results {
		sum += r.Composite
	}
	report := domain.BatchReport{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		CareerLevel:  in.CareerLevel,
		OverallScore: sum / float64(len(results)),
		Results:      results,
	}
	return report, nil
}

// scoreOne runs the full pipeline for one resume. Extraction and scoring are
// pure and cannot fail; collaborator calls are isolated per resume.
func (s *BatchService) scoreOne(ctx domain.Context, job domain.JobProfile, text string, coeffs domain.BlendCoefficients) (domain.CompositeResult, error) {
	p := extract.ParseResume(text, len(s.Weights.Vector))
	if err := scoring.ValidateDims(s.Weights, p.FeatureVector); err != nil {
		// extraction always sizes the vector to the weights, so this only
		// trips on a programming error; treat as fatal to the batch.
		return domain.CompositeResult{}, err
	}

	analysis := s.analyze(ctx, text, job.RawText)
	semantic := s.semanticScore(ctx, job, text)

	var contentScore *float64
	if analysis != nil {
		contentScore = analysis.ContentScore
	}
	sub, km := scoring.Assess(p, job, contentScore)

	dot := scoring.WeightedSum(s.Weights.Vector, p.FeatureVector)
	prob := scoring.Logistic(s.Weights.Vector, s.Weights.Bias, p.FeatureVector)
	composite := scoring.Composite(dot, prob, semantic, coeffs)
	industryAvg, percentile := scoring.Benchmark(composite)
	ins := scoring.BuildInsights(sub, km, analysis)

	if err := ctx.Err(); err != nil {
		return domain.CompositeResult{}, err
	}
	return domain.CompositeResult{
		Composite:           composite,
		Semantic:            semantic,
		SubScores:           sub,
		FoundKeywords:       km.Found,
		MissingKeywords:     km.Missing,
		RecommendedKeywords: km.Recommended,
		Recommendations:     ins.Recommendations,
		Strengths:           ins.Strengths,
		AreasForImprovement: ins.AreasForImprovement,
		IndustryAverage:     industryAvg,
		Percentile:          percentile,
		Summary:             ins.Summary,
	}, nil
}

// analyze calls the qualitative collaborator with a per-call timeout. Any
// failure is logged and absorbed; the caller falls back to heuristics.
func (s *BatchService) analyze(ctx domain.Context, resumeText, jdText string) *domain.Analysis {
	if s.Analyzer == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, s.AnalyzerTimeout)
	defer cancel()
	a, err := s.Analyzer.Analyze(callCtx, resumeText, jdText)
	if err != nil {
		slog.Warn("qualitative analyzer unavailable, using heuristics", slog.Any("error", err))
		return nil
	}
	return &a
}

// semanticScore embeds the resume and compares it to the JD embedding.
// It is 0.0 whenever no JD embedding exists or the embedder fails.
func (s *BatchService) semanticScore(ctx domain.Context, job domain.JobProfile, resumeText string) float64 {
	if s.Embedder == nil || len(job.Embedding) == 0 || resumeText == "" {
		return 0.0
	}
	vecs, err := s.Embedder.Embed(ctx, []string{resumeText})
	if err != nil || len(vecs) == 0 {
		slog.Warn("embedding provider unavailable, semantic score zeroed", slog.Any("error", err))
		return 0.0
	}
	return scoring.Cosine(job.Embedding, vecs[0])
}

func (s *BatchService) embedJD(ctx domain.Context, jdText string) []float64 {
	if s.Embedder == nil || jdText == "" {
		return nil
	}
	vecs, err := s.Embedder.Embed(ctx, []string{jdText})
	if err != nil || len(vecs) == 0 {
		slog.Warn("JD embedding failed, semantic scoring disabled for batch", slog.Any("error", err))
		return nil
	}
	return vecs[0]
}
