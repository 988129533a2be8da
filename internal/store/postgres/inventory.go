package postgres

import (
	"context"
	"fmt"

	"foamworks/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateInventoryItem(ctx context.Context, tx store.DBTransaction, item *store.InventoryItem) error {
	executor := s.getExecutor(tx)

	_, err := executor.ExecContext(ctx, `
		INSERT INTO inventory_items (id, tenant_id, name, unit, on_hand_qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.TenantID, item.Name, item.Unit, item.OnHandQty, item.CreatedAt)
	return err
}

func (s *Store) ListInventoryItems(ctx context.Context, tenantID uuid.UUID) ([]store.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, unit, on_hand_qty, lifetime_used, created_at
		FROM inventory_items
		WHERE tenant_id = $1
		ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []store.InventoryItem
	for rows.Next() {
		var item store.InventoryItem
		if err := rows.Scan(&item.ID, &item.TenantID, &item.Name, &item.Unit,
			&item.OnHandQty, &item.LifetimeUsed, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DeductInventoryItem locks the item row, clamps the deduction at the
// on-hand quantity, and increments lifetime_used by the requested amount.
// Same discipline as DeductStock.
func (s *Store) DeductInventoryItem(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error) {
	var onHand decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		SELECT on_hand_qty FROM inventory_items
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, itemID, tenantID).Scan(&onHand)
	if err != nil {
		return decimal.Zero, err
	}

	applied := decimal.Min(qty, onHand)

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory_items
		SET on_hand_qty = on_hand_qty - $1, lifetime_used = lifetime_used + $2
		WHERE id = $3 AND tenant_id = $4
	`, applied, qty, itemID, tenantID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to deduct inventory item %s: %w", itemID, err)
	}

	return applied, nil
}

// AdjustInventoryItem applies a signed manual correction. Negative results
// are clamped to zero, matching the deduction policy.
func (s *Store) AdjustInventoryItem(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, delta decimal.Decimal) error {
	executor := s.getExecutor(tx)

	res, err := executor.ExecContext(ctx, `
		UPDATE inventory_items
		SET on_hand_qty = GREATEST(on_hand_qty + $1, 0)
		WHERE id = $2 AND tenant_id = $3
	`, delta, itemID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to adjust inventory item %s: %w", itemID, err)
	}
	return requireOneRow(res)
}
