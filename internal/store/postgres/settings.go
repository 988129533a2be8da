package postgres

import (
	"context"

	"foamworks/internal/store"

	"github.com/google/uuid"
)

func (s *Store) GetSetting(ctx context.Context, tenantID uuid.UUID, key string) (*store.Setting, error) {
	query := "SELECT tenant_id, key, value, updated_at FROM settings WHERE tenant_id = $1 AND key = $2"

	var setting store.Setting
	err := s.db.QueryRowContext(ctx, query, tenantID, key).Scan(
		&setting.TenantID, &setting.Key, &setting.Value, &setting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

func (s *Store) PutSetting(ctx context.Context, tenantID uuid.UUID, key, value string) error {
	query := `
		INSERT INTO settings (tenant_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, tenantID, key, value)
	return err
}
