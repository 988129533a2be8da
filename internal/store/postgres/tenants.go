package postgres

import (
	"context"

	"foamworks/internal/store"

	"github.com/google/uuid"
)

func (s *Store) CreateTenant(ctx context.Context, tenant *store.Tenant, hashedKey string) error {
	query := `
		INSERT INTO tenants (id, name, api_key_hash, rate_limit, rate_limit_burst, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		tenant.ID,
		tenant.Name,
		hashedKey,
		tenant.RateLimit,
		tenant.RateLimitBurst,
		tenant.CreatedAt,
	)
	return err
}

func (s *Store) GetTenantByID(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	query := "SELECT id, name, rate_limit, rate_limit_burst, created_at FROM tenants WHERE id = $1"

	var t store.Tenant
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.RateLimit, &t.RateLimitBurst, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) GetTenantByAPIKeyHash(ctx context.Context, hash string) (*store.Tenant, error) {
	query := "SELECT id, name, rate_limit, rate_limit_burst, created_at FROM tenants WHERE api_key_hash = $1"

	var t store.Tenant
	err := s.db.QueryRowContext(ctx, query, hash).Scan(
		&t.ID, &t.Name, &t.RateLimit, &t.RateLimitBurst, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
