package postgres

import (
	"context"
	"time"

	"foamworks/internal/store"

	"github.com/google/uuid"
)

func (s *Store) ListEquipment(ctx context.Context, tenantID uuid.UUID) ([]store.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, status, last_job_id, last_crew, last_seen_at, created_at
		FROM equipment
		WHERE tenant_id = $1
		ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []store.Equipment
	for rows.Next() {
		var e store.Equipment
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Status,
			&e.LastJobID, &e.LastCrew, &e.LastSeen, &e.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, e)
	}

	return assets, rows.Err()
}

// MarkEquipmentReturned is called by the completion transaction for every
// asset the crew reports having used on the job.
func (s *Store) MarkEquipmentReturned(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID, jobID uuid.UUID, crew string, at time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE equipment
		SET status = $1, last_job_id = $2, last_crew = $3, last_seen_at = $4
		WHERE id = $5 AND tenant_id = $6
	`, store.EquipmentStatusAvailable, jobID, crew, at, equipmentID, tenantID)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (s *Store) UpdateEquipmentStatus(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID uuid.UUID, status store.EquipmentStatus) error {
	executor := s.getExecutor(tx)

	res, err := executor.ExecContext(ctx, `
		UPDATE equipment
		SET status = $1
		WHERE id = $2 AND tenant_id = $3
	`, status, equipmentID, tenantID)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}
