package handlers

import (
	"encoding/json"
	"net/http"

	"foamworks/internal/controller/middleware"
	"foamworks/pkg/api"
)

// GetSetting handles GET /settings/{key}.
func (h *Handlers) GetSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.PathValue("key")
	if key == "" {
		h.httpError(w, "Setting key is required", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	setting, err := h.store.GetSetting(ctx, tenantID, key)
	if err != nil {
		h.httpError(w, "Setting not found", http.StatusNotFound)
		return
	}

	h.respondJson(w, http.StatusOK, api.SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
	})
}

// PutSetting handles PUT /settings/{key}.
func (h *Handlers) PutSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := r.PathValue("key")
	if key == "" {
		h.httpError(w, "Setting key is required", http.StatusBadRequest)
		return
	}

	var req api.PutSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.PutSetting(ctx, tenantID, key, req.Value); err != nil {
		h.httpError(w, "Failed to save setting", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, nil)
}
