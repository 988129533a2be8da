package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"foamworks/internal/controller/middleware"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// CreateInventoryItem handles POST /inventory.
func (h *Handlers) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.httpError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.OnHandQty.IsNegative() {
		h.httpError(w, "On-hand quantity must not be negative", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "each"
	}

	item := &store.InventoryItem{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      req.Name,
		Unit:      unit,
		OnHandQty: req.OnHandQty,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateInventoryItem(ctx, nil, item); err != nil {
		h.httpError(w, "Failed to create inventory item", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusCreated, inventoryItemToResponse(item))
}

// ListInventory handles GET /inventory.
func (h *Handlers) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.store.ListInventoryItems(ctx, tenantID)
	if err != nil {
		h.httpError(w, "Failed to list inventory", http.StatusInternalServerError)
		return
	}

	resp := make([]api.InventoryItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, inventoryItemToResponse(&items[i]))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// AdjustInventory handles POST /inventory/{id}/adjust.
func (h *Handlers) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	var req api.AdjustInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
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

	if err := h.store.AdjustInventoryItem(ctx, tx, tenantID, itemID, req.Delta); err != nil {
		h.httpError(w, "Item not found", http.StatusNotFound)
		return
	}

	if err := tx.Commit(); err != nil {
		h.httpError(w, "Failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, nil)
}

func inventoryItemToResponse(item *store.InventoryItem) api.InventoryItemResponse {
	return api.InventoryItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		Unit:         item.Unit,
		OnHandQty:    item.OnHandQty,
		LifetimeUsed: item.LifetimeUsed,
	}
}
