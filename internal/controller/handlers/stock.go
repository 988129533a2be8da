package handlers

import (
	"encoding/json"
	"net/http"

	"foamworks/internal/controller/middleware"
	"foamworks/pkg/api"
)

// GetStock handles GET /stock.
func (h *Handlers) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pool, err := h.store.GetStockPool(ctx, tenantID)
	if err != nil {
		h.httpError(w, "Failed to load stock pool", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.StockResponse{
		OpenCellQty:    pool.OpenCellQty,
		ClosedCellQty:  pool.ClosedCellQty,
		OpenCellUsed:   pool.OpenCellUsed,
		ClosedCellUsed: pool.ClosedCellUsed,
		UpdatedAt:      pool.UpdatedAt,
	})
}

// Restock handles POST /stock/restock.
// Restocking goes through the same transactional discipline as deduction
// so it cannot interleave with a concurrent completion.
func (h *Handlers) Restock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.OpenCellSets.IsNegative() || req.ClosedCellSets.IsNegative() {
		h.httpError(w, "Restock quantities must not be negative", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx, err := h.store.BeginTx(ctx)
	if err != nil {
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	if err := h.store.RestockPool(ctx, tx, tenantID, req.OpenCellSets, req.ClosedCellSets); err != nil {
		h.httpError(w, "Failed to restock", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		h.httpError(w, "Failed to commit transaction", http.StatusInternalServerError)
		return
	}

	pool, err := h.store.GetStockPool(ctx, tenantID)
	if err != nil {
		h.httpError(w, "Failed to load stock pool", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.StockResponse{
		OpenCellQty:    pool.OpenCellQty,
		ClosedCellQty:  pool.ClosedCellQty,
		OpenCellUsed:   pool.OpenCellUsed,
		ClosedCellUsed: pool.ClosedCellUsed,
		UpdatedAt:      pool.UpdatedAt,
	})
}
