package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"foamworks/internal/auth"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// CreateTenant handles POST /tenants (operator only).
// It generates a new API key, hashes it for storage, and returns the raw key ONCE.
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.httpError(w, "Name is required", http.StatusBadRequest)
		return
	}

	apiKey, err := auth.NewAPIKey()
	if err != nil {
		h.httpError(w, "Entropy failure", http.StatusInternalServerError)
		return
	}

	tenant := &store.Tenant{
		ID:             uuid.New(),
		Name:           req.Name,
		RateLimit:      req.RateLimit,
		RateLimitBurst: req.RateLimitBurst,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.store.CreateTenant(ctx, tenant, auth.HashKey(apiKey)); err != nil {
		h.httpError(w, "Failed to create tenant", http.StatusInternalServerError)
		return
	}

	// Return the Raw Key (This is the only time the user sees it)
	resp := api.CreateTenantResponse{
		ID:     tenant.ID.String(),
		Name:   tenant.Name,
		ApiKey: apiKey,
	}
	h.respondJson(w, http.StatusCreated, resp)
}
