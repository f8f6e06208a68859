package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/models/store"
)

const DefaultListLimit = 20

var ErrNotFound = errors.New("report not found")

// Store archives finalized readiness reports. Reports are never updated.
type Store interface {
	Add(ctx context.Context, report domain.Report) error
	Get(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, limit int) ([]domain.Report, error)
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{db: db}, nil
}

const insertRun = `
	INSERT INTO readiness_runs (
		id, generated_at, primary_region, dr_region, rpo_minutes,
		replica_lag_seconds, verdict, critical_count, warning_count
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertIssue = `
	INSERT INTO readiness_issues (
		run_id, seq, check_name, resource_id, severity, message
	) VALUES ($1, $2, $3, $4, $5, $6)`

const selectRuns = `
	SELECT id, generated_at, primary_region, dr_region, rpo_minutes,
		replica_lag_seconds, verdict, critical_count, warning_count
	FROM readiness_runs`

const selectIssues = `
	SELECT run_id, seq, check_name, resource_id, severity, message
	FROM readiness_issues
	WHERE run_id = $1
	ORDER BY seq`

// Add stores the report and its issues atomically. It joins the transaction
// in ctx when there is one.
func (s *historyStore) Add(ctx context.Context, report domain.Report) (err error) {
	rec := adapters.MapReportDomainToStore(report)

	tx := GetTransaction(ctx)
	if tx == nil {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
				return
			}
			err = tx.Commit()
		}()
	}

	run := rec.Run
	_, err = tx.ExecContext(ctx, insertRun,
		run.ID,
		run.GeneratedAt,
		run.PrimaryRegion,
		run.DRRegion,
		run.RPOMinutes,
		run.ReplicaLagSeconds,
		run.Verdict,
		run.CriticalCount,
		run.WarningCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(rec.Issues) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertIssue)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, issue := range rec.Issues {
		_, err = stmt.ExecContext(ctx,
			issue.RunID,
			issue.Position,
			issue.Check,
			issue.ResourceID,
			issue.Severity,
			issue.Message,
		)
		if err != nil {
			return fmt.Errorf("insert issue: %w", err)
		}
	}
	return nil
}

func (s *historyStore) Get(ctx context.Context, id string) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = $1`, id)

	var run store.ReportRun
	if err := scanRun(row, &run); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query run: %w", err)
	}

	issues, err := s.issues(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	report := adapters.MapReportStoreToDomain(store.ReportRecord{Run: run, Issues: issues})
	return &report, nil
}

// List returns the most recent reports first.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.Report, error) {
	logger := zerolog.Ctx(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY generated_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close history rows")
		}
	}(rows)

	var runs []store.ReportRun
	for rows.Next() {
		var run store.ReportRun
		if err := scanRun(rows, &run); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	reports := make([]domain.Report, 0, len(runs))
	for _, run := range runs {
		issues, err := s.issues(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, adapters.MapReportStoreToDomain(store.ReportRecord{Run: run, Issues: issues}))
	}
	return reports, nil
}

func (s *historyStore) issues(ctx context.Context, runID string) ([]store.ReportIssue, error) {
	rows, err := s.db.QueryContext(ctx, selectIssues, runID)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var issues []store.ReportIssue
	for rows.Next() {
		var i store.ReportIssue
		if err := rows.Scan(&i.RunID, &i.Position, &i.Check, &i.ResourceID, &i.Severity, &i.Message); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, run *store.ReportRun) error {
	return row.Scan(
		&run.ID,
		&run.GeneratedAt,
		&run.PrimaryRegion,
		&run.DRRegion,
		&run.RPOMinutes,
		&run.ReplicaLagSeconds,
		&run.Verdict,
		&run.CriticalCount,
		&run.WarningCount,
	)
}
