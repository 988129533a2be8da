package postgres

import (
	"context"

	"foamworks/internal/store"

	"github.com/google/uuid"
)

// AddUsageEntry appends one audit row. There is no update or delete path
// for usage_log anywhere in the store; the table is append-only.
func (s *Store) AddUsageEntry(ctx context.Context, tx store.DBTransaction, entry *store.UsageLogEntry) error {
	executor := s.getExecutor(tx)

	query := `
		INSERT INTO usage_log (tenant_id, job_id, material, qty_delta, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	return executor.QueryRowContext(ctx, query,
		entry.TenantID,
		entry.JobID,
		entry.Material,
		entry.QtyDelta,
		entry.Actor,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func (s *Store) GetJobUsage(ctx context.Context, tenantID, jobID uuid.UUID) ([]store.UsageLogEntry, error) {
	query := `
		SELECT id, tenant_id, job_id, material, qty_delta, actor, created_at
		FROM usage_log
		WHERE tenant_id = $1 AND job_id = $2
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []store.UsageLogEntry
	for rows.Next() {
		var entry store.UsageLogEntry
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.JobID,
			&entry.Material, &entry.QtyDelta, &entry.Actor, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
