package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/sentinel-console/pkg/database"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

var ErrRunNotFound = errors.New("diagnostic run not found")

type DiagnosticRunRepository struct {
	db *database.DB
}

func NewDiagnosticRunRepository(db *database.DB) *DiagnosticRunRepository {
	return &DiagnosticRunRepository{db: db}
}

// RunStats aggregates the audit trail over a time window.
type RunStats struct {
	Total     int64    `json:"total"`
	Succeeded int64    `json:"succeeded"`
	Failed    int64    `json:"failed"`
	Critical  int64    `json:"critical"`
	AvgRisk   *float64 `json:"avg_risk,omitempty"`
	MaxRisk   *float64 `json:"max_risk,omitempty"`
}

const runColumns = `id, session_id, machine_type, request, outcome, max_risk, critical,
	top_failure_mode, error_message, started_at, duration_ms, created_at`

// RecordRun inserts one finished run.
func (r *DiagnosticRunRepository) RecordRun(ctx context.Context, run *models.DiagnosticRun) error {
	if run == nil {
		return errors.New("nil diagnostic run")
	}

	request, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO diagnostic_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, r.db.Rebind(query),
		run.ID, run.SessionID, string(run.MachineType), string(request), string(run.Outcome),
		nullFloat(run.MaxRisk), run.Critical, nullString(string(run.TopMode)), nullString(run.Error),
		run.StartedAt.UTC(), run.Duration.Milliseconds(), createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert diagnostic run: %w", err)
	}
	return nil
}

func (r *DiagnosticRunRepository) GetByID(ctx context.Context, id string) (*models.DiagnosticRun, error) {
	query := `SELECT ` + runColumns + ` FROM diagnostic_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (r *DiagnosticRunRepository) GetRecent(ctx context.Context, limit int) ([]*models.DiagnosticRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + runColumns + `
		FROM diagnostic_runs
		ORDER BY started_at DESC
		LIMIT ?`

	return r.list(ctx, query, limit)
}

func (r *DiagnosticRunRepository) GetBySession(ctx context.Context, sessionID string, limit int) ([]*models.DiagnosticRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + runColumns + `
		FROM diagnostic_runs
		WHERE session_id = ?
		ORDER BY started_at DESC
		LIMIT ?`

	return r.list(ctx, query, sessionID, limit)
}

// GetStats summarizes runs started at or after since.
func (r *DiagnosticRunRepository) GetStats(ctx context.Context, since time.Time) (*RunStats, error) {
	query := `
		SELECT
			COUNT(*),
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN critical THEN 1 ELSE 0 END),
			AVG(max_risk),
			MAX(max_risk)
		FROM diagnostic_runs
		WHERE started_at >= ?`

	var (
		stats                       RunStats
		succeeded, failed, critical sql.NullInt64
		avg, max                    sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		string(models.RunSucceeded), string(models.RunFailed), since.UTC(),
	).Scan(&stats.Total, &succeeded, &failed, &critical, &avg, &max)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate diagnostic runs: %w", err)
	}

	stats.Succeeded = succeeded.Int64
	stats.Failed = failed.Int64
	stats.Critical = critical.Int64
	if avg.Valid {
		stats.AvgRisk = &avg.Float64
	}
	if max.Valid {
		stats.MaxRisk = &max.Float64
	}
	return &stats, nil
}

func (r *DiagnosticRunRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.DiagnosticRun, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.DiagnosticRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*models.DiagnosticRun, error) {
	var (
		run                  models.DiagnosticRun
		machineType, outcome string
		request              string
		maxRisk              sql.NullFloat64
		topMode, errMsg      sql.NullString
		durationMS           int64
	)

	err := row.Scan(
		&run.ID, &run.SessionID, &machineType, &request, &outcome, &maxRisk, &run.Critical,
		&topMode, &errMsg, &run.StartedAt, &durationMS, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(request), &run.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request of run %s: %w", run.ID, err)
	}

	run.MachineType = models.MachineType(machineType)
	run.Outcome = models.RunOutcome(outcome)
	if maxRisk.Valid {
		risk := maxRisk.Float64
		run.MaxRisk = &risk
	}
	run.TopMode = models.FailureMode(topMode.String)
	run.Error = errMsg.String
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
