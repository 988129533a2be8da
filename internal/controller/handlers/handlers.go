// Package handlers contains HTTP handlers for the controller API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"foamworks/internal/completion"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// StoreFactory combines the interfaces needed for the controller to function.
type StoreFactory interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	Ping(ctx context.Context) error
	store.TenantStore
	store.JobStore
	store.StockStore
	store.InventoryStore
	store.EquipmentStore
	store.UsageLogStore
	store.SettingsStore
}

// Completer runs the job completion transaction.
// Implemented by completion.Processor.
type Completer interface {
	CompleteJob(ctx context.Context, jobID uuid.UUID, actuals completion.Actuals) (*completion.Result, error)
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store     StoreFactory
	completer Completer
}

// New creates a new Handlers instance with the given dependencies.
func New(s StoreFactory, c Completer) *Handlers {
	return &Handlers{store: s, completer: c}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}
