package handlers

import (
	"encoding/json"
	"net/http"

	"foamworks/internal/controller/middleware"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// ListEquipment handles GET /equipment.
func (h *Handlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	assets, err := h.store.ListEquipment(ctx, tenantID)
	if err != nil {
		h.httpError(w, "Failed to list equipment", http.StatusInternalServerError)
		return
	}

	resp := make([]api.EquipmentResponse, 0, len(assets))
	for _, asset := range assets {
		e := api.EquipmentResponse{
			ID:       asset.ID.String(),
			Name:     asset.Name,
			Status:   string(asset.Status),
			LastCrew: asset.LastCrew,
			LastSeen: asset.LastSeen,
		}
		if asset.LastJobID != nil {
			id := asset.LastJobID.String()
			e.LastJobID = &id
		}
		resp = append(resp, e)
	}
	h.respondJson(w, http.StatusOK, resp)
}

// UpdateEquipmentStatus handles PUT /equipment/{id}/status.
func (h *Handlers) UpdateEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	equipmentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid equipment id", http.StatusBadRequest)
		return
	}

	var req api.UpdateEquipmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := store.EquipmentStatus(req.Status)
	switch status {
	case store.EquipmentStatusAvailable, store.EquipmentStatusOnJob, store.EquipmentStatusMaintenance:
	default:
		h.httpError(w, "Unknown equipment status", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.UpdateEquipmentStatus(ctx, nil, tenantID, equipmentID, status); err != nil {
		h.httpError(w, "Equipment not found", http.StatusNotFound)
		return
	}

	h.respondJson(w, http.StatusOK, nil)
}
