// Package postgres provides PostgreSQL persistence for batch reports.
//
// The engine itself never touches storage; reports are persisted by the
// HTTP layer after a batch completes so they can be fetched later.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ats-screener/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repo for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool creates a pgx connection pool from the provided DSN.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// ReportRepo persists and loads batch reports.
type ReportRepo struct{ Pool PgxPool }

// NewReportRepo constructs a ReportRepo with the given pool.
func NewReportRepo(p PgxPool) *ReportRepo { return &ReportRepo{Pool: p} }

var ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Weak random is sufficient for ULID entropy.

// Create stores a report and returns its id (generates one if empty).
// Per-resume results are stored as a JSONB payload alongside the scalar
// report columns used for listing and aggregation.
func (r *ReportRepo) Create(ctx domain.Context, rep domain.BatchReport) (string, error) {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.Create")
	defer span.End()

	id := rep.ID
	if id == "" {
		id = ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
	}
	payload, err := json.Marshal(rep.Results)
	if err != nil {
		return "", fmt.Errorf("op=report.create: %w", err)
	}
	q := `INSERT INTO reports (id, career_level, overall_score, results, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := r.Pool.Exec(ctx, q, id, rep.CareerLevel, rep.OverallScore, payload, rep.CreatedAt); err != nil {
		return "", fmt.Errorf("op=report.create: %w", err)
	}
	return id, nil
}

// Get loads a report by id.
func (r *ReportRepo) Get(ctx domain.Context, id string) (domain.BatchReport, error) {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.Get")
	defer span.End()

	q := `SELECT id, career_level, overall_score, results, created_at FROM reports WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var rep domain.BatchReport
	var payload []byte
	if err := row.Scan(&rep.ID, &rep.CareerLevel, &rep.OverallScore, &payload, &rep.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BatchReport{}, fmt.Errorf("%w: report %s", domain.ErrNotFound, id)
		}
		return domain.BatchReport{}, fmt.Errorf("op=report.get: %w", err)
	}
	if err := json.Unmarshal(payload, &rep.Results); err != nil {
		return domain.BatchReport{}, fmt.Errorf("op=report.get: %w", err)
	}
	return rep, nil
}
