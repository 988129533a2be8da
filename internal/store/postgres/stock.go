package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foamworks/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetStockPool returns the tenant's chemical pool. A missing row means the
// tenant has never stocked anything; a zeroed pool is created on first read.
func (s *Store) GetStockPool(ctx context.Context, tenantID uuid.UUID) (*store.StockPool, error) {
	pool, err := s.scanStockPool(s.db.QueryRowContext(ctx,
		stockPoolSelect, tenantID))
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stock_pools (tenant_id) VALUES ($1)
		ON CONFLICT (tenant_id) DO NOTHING
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stock pool for tenant %s: %w", tenantID, err)
	}

	return s.scanStockPool(s.db.QueryRowContext(ctx, stockPoolSelect, tenantID))
}

const stockPoolSelect = `
	SELECT tenant_id, open_cell_qty, closed_cell_qty, open_cell_used, closed_cell_used, updated_at
	FROM stock_pools WHERE tenant_id = $1`

func (s *Store) scanStockPool(row *sql.Row) (*store.StockPool, error) {
	var pool store.StockPool
	err := row.Scan(
		&pool.TenantID,
		&pool.OpenCellQty, &pool.ClosedCellQty,
		&pool.OpenCellUsed, &pool.ClosedCellUsed,
		&pool.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// DeductStock locks the tenant's pool row, clamps each deduction at the
// available quantity, and increments the lifetime counters by the requested
// (unclamped) amounts. Concurrent completions drawing from the same pool
// serialize on the row lock, so the read-modify-write cannot lose updates.
func (s *Store) DeductStock(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	// A tenant that has never restocked has no pool row. An absent row is
	// an empty pool, not an error: the deduction must clamp to zero, so
	// create the row before the locked read.
	_, err := tx.ExecContext(ctx, `
		INSERT INTO stock_pools (tenant_id) VALUES ($1)
		ON CONFLICT (tenant_id) DO NOTHING
	`, tenantID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to initialize stock pool for tenant %s: %w", tenantID, err)
	}

	pool, err := s.scanStockPool(tx.QueryRowContext(ctx,
		stockPoolSelect+" FOR UPDATE", tenantID))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to lock stock pool for tenant %s: %w", tenantID, err)
	}

	appliedOpen := decimal.Min(openCell, pool.OpenCellQty)
	appliedClosed := decimal.Min(closedCell, pool.ClosedCellQty)

	_, err = tx.ExecContext(ctx, `
		UPDATE stock_pools
		SET open_cell_qty = open_cell_qty - $1,
			closed_cell_qty = closed_cell_qty - $2,
			open_cell_used = open_cell_used + $3,
			closed_cell_used = closed_cell_used + $4,
			updated_at = NOW()
		WHERE tenant_id = $5
	`, appliedOpen, appliedClosed, openCell, closedCell, tenantID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to deduct stock for tenant %s: %w", tenantID, err)
	}

	return appliedOpen, appliedClosed, nil
}

// RestockPool adds chemical sets. Uses an upsert so restocking works before
// the pool row exists.
func (s *Store) RestockPool(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) error {
	executor := s.getExecutor(tx)

	_, err := executor.ExecContext(ctx, `
		INSERT INTO stock_pools (tenant_id, open_cell_qty, closed_cell_qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id) DO UPDATE
		SET open_cell_qty = stock_pools.open_cell_qty + EXCLUDED.open_cell_qty,
			closed_cell_qty = stock_pools.closed_cell_qty + EXCLUDED.closed_cell_qty,
			updated_at = NOW()
	`, tenantID, openCell, closedCell)
	if err != nil {
		return fmt.Errorf("failed to restock pool for tenant %s: %w", tenantID, err)
	}
	return nil
}
