package httpserver

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ats-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ats-screener/internal/config"
	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/internal/usecase"
	"github.com/fairyhunter13/ats-screener/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Batch      *usecase.BatchService
	Reports    domain.ReportRepository
	Extractor  domain.TextExtractor
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, batch *usecase.BatchService, reports domain.ReportRepository, extractor domain.TextExtractor, dbCheck, redisCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Batch: batch, Reports: reports, Extractor: extractor, DBCheck: dbCheck, RedisCheck: redisCheck, TikaCheck: tikaCheck}
}

// allowedExt enforces an allowlist for uploads: .txt, .pdf, .docx
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIMEFor(m string, filename string) bool {
	m = strings.ToLower(m)
	// For .txt files accept any text/* since some detectors misclassify rich text.
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") {
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// extractUploadedText extracts text from an uploaded file.
// PDF and DOCX go through the external extractor (Apache Tika); plain text
// is sanitized directly.
func extractUploadedText(ctx context.Context, extractor domain.TextExtractor, h *multipart.FileHeader, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if ext == ".pdf" || ext == ".docx" {
		if extractor == nil {
			return "", fmt.Errorf("%w: %s requires extractor", domain.ErrInvalidInput, strings.TrimPrefix(ext, "."))
		}
		return extractor.Extract(ctx, h.Filename, data)
	}
	return textx.SanitizeText(string(data)), nil
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type scoreRequest struct {
	CareerLevel    string `validate:"omitempty,max=32"`
	JobDescription string `validate:"required,max=50000"`
	RequiredSkills string `validate:"omitempty,max=5000"`
	OptionalSkills string `validate:"omitempty,max=5000"`
}

// ScoreHandler scores a batch of resumes against a job description.
// Accepts multipart/form-data with fields career_level, job_description,
// required_skills, optional_skills and one or more files under "resumes".
func (s *Server) ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_INPUT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidInput), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{Code: "INVALID_INPUT", Message: "payload too large", Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB}}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err), nil)
			return
		}
		req := scoreRequest{
			CareerLevel:    r.FormValue("career_level"),
			JobDescription: r.FormValue("job_description"),
			RequiredSkills: r.FormValue("required_skills"),
			OptionalSkills: r.FormValue("optional_skills"),
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidInput), verrs)
			return
		}

		files := r.MultipartForm.File["resumes"]
		if len(files) == 0 {
			writeError(w, r, fmt.Errorf("%w: at least one resume file required", domain.ErrInvalidInput), map[string]string{"field": "resumes"})
			return
		}

		ctx := r.Context()
		resumeTexts := make([]string, 0, len(files))
		for _, h := range files {
			if !allowedExt(h.Filename) {
				writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_INPUT", Message: "unsupported media type (extension)", Details: map[string]any{"filename": h.Filename}}})
				return
			}
			f, err := h.Open()
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, h.Filename, err), nil)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, h.Filename, err), nil)
				return
			}
			m := mimetype.Detect(data)
			if !allowedMIMEFor(m.String(), h.Filename) {
				writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{Code: "INVALID_INPUT", Message: "unsupported media type (content)", Details: map[string]any{"mime": m.String(), "filename": h.Filename}}})
				return
			}
			text, err := extractUploadedText(ctx, s.Extractor, h, data)
			if err != nil {
				writeError(w, r, fmt.Errorf("extract %s: %w", h.Filename, err), nil)
				return
			}
			resumeTexts = append(resumeTexts, text)
		}

		jdText := textx.SanitizeText(req.JobDescription)
		rep, err := s.Batch.ScoreBatch(ctx, usecase.BatchInput{
			JobDescription: jdText,
			RequiredSkills: req.RequiredSkills,
			OptionalSkills: req.OptionalSkills,
			CareerLevel:    req.CareerLevel,
			ResumeTexts:    resumeTexts,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		composites := make([]float64, len(rep.Results))
		for i, res := range rep.Results {
			composites[i] = res.Composite
		}
		observability.ObserveBatch(len(rep.Results), composites)

		if s.Reports != nil {
			id, err := s.Reports.Create(ctx, rep)
			if err != nil {
				// Scoring succeeded; log persistence failure but still return the report.
				LoggerFrom(r).Error("report persist failed", "error", err)
			} else {
				rep.ID = id
			}
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// GetReportHandler returns a previously persisted batch report.
func (s *Server) GetReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidInput), nil)
			return
		}
		if s.Reports == nil {
			writeError(w, r, fmt.Errorf("%w: report storage not configured", domain.ErrNotFound), nil)
			return
		}
		rep, err := s.Reports.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// ReadyzHandler returns a readiness handler that probes DB, Redis and Tika.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		probe := func(name string, fn func(context.Context) error) {
			if fn == nil {
				return
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: name, OK: true})
			}
		}
		probe("db", s.DBCheck)
		probe("redis", s.RedisCheck)
		probe("tika", s.TikaCheck)
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// HealthzHandler reports process liveness.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
