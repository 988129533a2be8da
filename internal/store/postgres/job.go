package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"foamworks/internal/store"

	"github.com/google/uuid"
)

const jobColumns = `id, tenant_id, customer_name, site_address, status, execution_status,
	planned_open_cell_sets, planned_closed_cell_sets, planned_labor_hours,
	actuals, completion_processed, created_at, completed_at`

// CreateJob inserts a new job row.
func (s *Store) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	query := `
		INSERT INTO jobs (id, tenant_id, customer_name, site_address, status, execution_status,
			planned_open_cell_sets, planned_closed_cell_sets, planned_labor_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		job.ID,
		job.TenantID,
		job.CustomerName,
		job.SiteAddress,
		job.Status,
		job.ExecutionStatus,
		job.PlannedOpenCellSets,
		job.PlannedClosedCellSets,
		job.PlannedLaborHours,
		job.CreatedAt,
	)
	return err
}

func (s *Store) GetJobByID(ctx context.Context, id uuid.UUID) (*store.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE id = $1"
	return s.scanJob(s.db.QueryRowContext(ctx, query, id))
}

// GetJobForUpdate loads the job row under FOR UPDATE so a concurrent
// completion of the same job blocks until this transaction finishes.
func (s *Store) GetJobForUpdate(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE id = $1 FOR UPDATE"
	return s.scanJob(tx.QueryRowContext(ctx, query, id))
}

func (s *Store) scanJob(row *sql.Row) (*store.Job, error) {
	var job store.Job
	var actuals sql.NullString

	err := row.Scan(
		&job.ID, &job.TenantID, &job.CustomerName, &job.SiteAddress,
		&job.Status, &job.ExecutionStatus,
		&job.PlannedOpenCellSets, &job.PlannedClosedCellSets, &job.PlannedLaborHours,
		&actuals, &job.CompletionProcessed, &job.CreatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if actuals.Valid {
		job.Actuals = json.RawMessage(actuals.String)
	}

	return &job, nil
}

func (s *Store) ListJobs(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]store.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT " + jobColumns + ` FROM jobs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		var job store.Job
		var actuals sql.NullString
		if err := rows.Scan(
			&job.ID, &job.TenantID, &job.CustomerName, &job.SiteAddress,
			&job.Status, &job.ExecutionStatus,
			&job.PlannedOpenCellSets, &job.PlannedClosedCellSets, &job.PlannedLaborHours,
			&actuals, &job.CompletionProcessed, &job.CreatedAt, &job.CompletedAt,
		); err != nil {
			return nil, err
		}
		if actuals.Valid {
			job.Actuals = json.RawMessage(actuals.String)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// UpdateJobStatus flips the billing status only if the row still holds the
// status the caller saw. Two racing updates serialize here: the loser's
// WHERE clause matches nothing and it gets sql.ErrNoRows.
func (s *Store) UpdateJobStatus(ctx context.Context, tx store.DBTransaction, id uuid.UUID, from, to store.JobStatus) error {
	executor := s.getExecutor(tx)

	res, err := executor.ExecContext(ctx,
		"UPDATE jobs SET status = $1 WHERE id = $2 AND status = $3", to, id, from)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (s *Store) UpdateExecutionStatus(ctx context.Context, tx store.DBTransaction, id uuid.UUID, status store.ExecutionStatus) error {
	executor := s.getExecutor(tx)

	res, err := executor.ExecContext(ctx, "UPDATE jobs SET execution_status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// FinalizeJobCompletion is the single writer of actuals and the
// completion_processed flag. The WHERE guard makes the flip conditional on
// the prior value so a racing completion of the same job cannot apply twice.
func (s *Store) FinalizeJobCompletion(ctx context.Context, tx store.DBTransaction, id uuid.UUID, actuals json.RawMessage, at time.Time) error {
	query := `
		UPDATE jobs
		SET execution_status = $1, actuals = $2, completion_processed = TRUE, completed_at = $3
		WHERE id = $4 AND completion_processed = FALSE
	`

	res, err := tx.ExecContext(ctx, query, store.ExecutionStatusCompleted, []byte(actuals), at, id)
	if err != nil {
		return fmt.Errorf("failed to finalize job %s: %w", id, err)
	}
	return requireOneRow(res)
}

// CountInProgressJobs returns the number of jobs currently on site across
// all tenants. Exposed as a gauge.
func (s *Store) CountInProgressJobs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE execution_status = $1",
		store.ExecutionStatusInProgress,
	).Scan(&count)
	return count, err
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
