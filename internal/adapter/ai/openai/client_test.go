package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/config"
	"github.com/fairyhunter13/ats-screener/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:          "test",
		AIAPIKey:        "test-key",
		AIBaseURL:       baseURL,
		ChatModel:       "gpt-4o-mini",
		EmbeddingsModel: "text-embedding-3-small",
	}
}

func TestParseAnalysis_PlainJSON(t *testing.T) {
	t.Parallel()
	p, err := parseAnalysis(`{"content_score": 0.8, "summary": "solid"}`)
	require.NoError(t, err)
	require.NotNil(t, p.ContentScore)
	assert.Equal(t, 0.8, *p.ContentScore)
	assert.Equal(t, "solid", p.Summary)
}

func TestParseAnalysis_MarkdownFences(t *testing.T) {
	t.Parallel()
	p, err := parseAnalysis("```json\n{\"summary\": \"fenced\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "fenced", p.Summary)
}

func TestParseAnalysis_EmbeddedInProse(t *testing.T) {
	t.Parallel()
	p, err := parseAnalysis(`Here is my review: {"summary": "wrapped"} hope it helps`)
	require.NoError(t, err)
	assert.Equal(t, "wrapped", p.Summary)
}

func TestParseAnalysis_AbsentFieldsStayNil(t *testing.T) {
	t.Parallel()
	p, err := parseAnalysis(`{}`)
	require.NoError(t, err)
	assert.Nil(t, p.ContentScore)
	assert.Empty(t, p.Recommendations)
}

func TestParseAnalysis_NoJSON(t *testing.T) {
	t.Parallel()
	_, err := parseAnalysis("I cannot help with that")
	require.Error(t, err)
}

func TestAnalyze_RoundTrip(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"content_score": 0.9, "summary": "great"}`}},
			},
		})
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	a, err := c.Analyze(context.Background(), "resume text", "jd text")
	require.NoError(t, err)
	require.NotNil(t, a.ContentScore)
	assert.Equal(t, 0.9, *a.ContentScore)
	assert.Equal(t, "great", a.Summary)
}

func TestAnalyze_ServerErrorMapsToCollaboratorUnavailable(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	_, err := c.Analyze(context.Background(), "resume", "jd")
	require.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestAnalyze_NoAPIKey(t *testing.T) {
	t.Parallel()
	c := New(config.Config{AppEnv: "test"})
	_, err := c.Analyze(context.Background(), "resume", "jd")
	require.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestEmbed_RoundTrip(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{"embedding": []float64{0.1, 0.2, 0.3}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vecs[0])
}

func TestEmbed_CountMismatch(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	_, err := c.Embed(context.Background(), []string{"a"})
	require.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}
