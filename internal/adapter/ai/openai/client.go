// Package openai implements the qualitative analyzer and embedding provider
// against an OpenAI-compatible API.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ats-screener/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ats-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ats-screener/internal/config"
	"github.com/fairyhunter13/ats-screener/internal/domain"
)

// Client implements domain.Analyzer and domain.Embedder.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
	counter *tokencount.Counter
}

// New constructs a client with sensible timeouts and traced transports.
func New(cfg config.Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "ai " + r.URL.Path
		}),
	)
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: 60 * time.Second, Transport: transport},
		embedHC: &http.Client{Timeout: 30 * time.Second, Transport: transport},
		counter: tokencount.NewCounter(),
	}
}

const systemPrompt = `You are a senior technical recruiter reviewing one resume against one job description. Respond with ONLY a JSON object of this shape, no markdown:
{
  "content_score": <0.0-1.0, quality and specificity of the resume content>,
  "strengths": ["..."],
  "areas_for_improvement": ["..."],
  "summary": "<two sentences>",
  "recommendations": [
    {"id": "...", "title": "...", "description": "...", "category": "...", "priority": "high|medium|low", "impact": "..."}
  ]
}`

// analysisPayload mirrors the analyzer's JSON contract. Every field is
// optional; absent fields keep their zero value and consumers fall back.
type analysisPayload struct {
	ContentScore        *float64                `json:"content_score"`
	Strengths           []string                `json:"strengths"`
	AreasForImprovement []string                `json:"areas_for_improvement"`
	Summary             string                  `json:"summary"`
	Recommendations     []domain.Recommendation `json:"recommendations"`
}

// Analyze asks the model for a qualitative review of one resume. Failures
// map to ErrCollaboratorUnavailable so callers degrade to heuristics.
func (c *Client) Analyze(ctx domain.Context, resumeText, jdText string) (domain.Analysis, error) {
	if c.cfg.AIAPIKey == "" {
		return domain.Analysis{}, fmt.Errorf("%w: AI_API_KEY missing", domain.ErrCollaboratorUnavailable)
	}
	resumeText = c.counter.Truncate(resumeText, c.cfg.ChatModel, c.cfg.PromptTokenBudget)
	user := fmt.Sprintf("Job description:\n%s\n\nResume:\n%s", jdText, resumeText)

	start := time.Now()
	content, err := c.chatJSON(ctx, systemPrompt, user)
	observability.AnalyzerRequestDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AnalyzerRequestsTotal.WithLabelValues("analyze", "error").Inc()
		return domain.Analysis{}, err
	}
	observability.AnalyzerRequestsTotal.WithLabelValues("analyze", "ok").Inc()

	payload, err := parseAnalysis(content)
	if err != nil {
		slog.Warn("analyzer returned unparseable JSON", slog.Any("error", err))
		return domain.Analysis{}, fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return domain.Analysis{
		ContentScore:        payload.ContentScore,
		Strengths:           payload.Strengths,
		AreasForImprovement: payload.AreasForImprovement,
		Summary:             payload.Summary,
		Recommendations:     payload.Recommendations,
	}, nil
}

// Embed returns embedding vectors for texts via the embeddings endpoint.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float64, error) {
	if c.cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("%w: AI_API_KEY missing", domain.ErrCollaboratorUnavailable)
	}
	body := map[string]any{"model": c.cfg.EmbeddingsModel, "input": texts}

	var out [][]float64
	op := func() error {
		start := time.Now()
		defer func() {
			observability.AnalyzerRequestDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
		}()
		resp, err := c.post(ctx, c.embedHC, "/embeddings", body)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if err := checkStatus(resp); err != nil {
			return err
		}
		var parsed struct {
			Data []struct {
				Embedding []float64 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return backoff.Permanent(err)
		}
		out = make([][]float64, len(parsed.Data))
		for i, d := range parsed.Data {
			out[i] = d.Embedding
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		observability.AnalyzerRequestsTotal.WithLabelValues("embed", "error").Inc()
		return nil, fmt.Errorf("%w: embeddings: %v", domain.ErrCollaboratorUnavailable, err)
	}
	if len(out) != len(texts) {
		observability.AnalyzerRequestsTotal.WithLabelValues("embed", "error").Inc()
		return nil, fmt.Errorf("%w: embeddings: got %d vectors for %d texts", domain.ErrCollaboratorUnavailable, len(out), len(texts))
	}
	observability.AnalyzerRequestsTotal.WithLabelValues("embed", "ok").Inc()
	return out, nil
}

// chatJSON calls the chat completions endpoint and returns the raw message
// content, retrying transient failures with exponential backoff.
func (c *Client) chatJSON(ctx domain.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	var content string
	op := func() error {
		resp, err := c.post(ctx, c.chatHC, "/chat/completions", body)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if err := checkStatus(resp); err != nil {
			return err
		}
		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return backoff.Permanent(err)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("empty choices")
		}
		content = parsed.Choices[0].Message.Content
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		return "", fmt.Errorf("%w: chat: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return content, nil
}

func (c *Client) post(ctx domain.Context, hc *http.Client, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.cfg.AIBaseURL, "/")+path, bytes.NewReader(b))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
	return hc.Do(req)
}

// checkStatus drains error bodies and classifies them: 429/5xx retryable,
// other non-2xx permanent.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}
	return backoff.Permanent(err)
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// parseAnalysis strips markdown fences and extracts the outermost JSON
// object before unmarshalling; models frequently wrap JSON in prose.
func parseAnalysis(content string) (analysisPayload, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var p analysisPayload
	if err := json.Unmarshal([]byte(content), &p); err == nil {
		return p, nil
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return analysisPayload{}, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &p); err != nil {
		return analysisPayload{}, fmt.Errorf("parse analysis: %w", err)
	}
	return p, nil
}
