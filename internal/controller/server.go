// Package controller contains the controller-specific logic for the HTTP API.
package controller

import (
	"context"
	"net/http"
	"time"

	"foamworks/internal/controller/handlers"
	"foamworks/internal/controller/middleware"
)

// Server is the HTTP server for the controller API.
type Server struct {
	httpServer *http.Server
}

// New creates a new controller server.
func New(addr string, store handlers.StoreFactory, completer handlers.Completer, systemSecret string, metricsHandler http.Handler) *Server {
	h := handlers.New(store, completer)
	authMW := middleware.AuthMiddleware(store)
	rateMW := middleware.RateLimitMiddleware()
	internalMW := middleware.RequireInternalAuth(systemSecret)

	authed := func(handler http.HandlerFunc) http.Handler {
		return authMW(rateMW(handler))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Operator endpoints; guarded by the system secret, not a tenant key.
	mux.Handle("POST /tenants", internalMW(http.HandlerFunc(h.CreateTenant)))

	// Tenant-authenticated API
	mux.Handle("POST /jobs", authed(h.CreateJob))
	mux.Handle("GET /jobs", authed(h.ListJobs))
	mux.Handle("GET /jobs/{id}", authed(h.GetJob))
	mux.Handle("PUT /jobs/{id}/status", authed(h.UpdateJobStatus))
	mux.Handle("PUT /jobs/{id}/execution", authed(h.UpdateExecutionStatus))
	mux.Handle("POST /jobs/{id}/complete", authed(h.CompleteJob))
	mux.Handle("GET /jobs/{id}/usage", authed(h.GetJobUsage))

	mux.Handle("GET /stock", authed(h.GetStock))
	mux.Handle("POST /stock/restock", authed(h.Restock))

	mux.Handle("GET /inventory", authed(h.ListInventory))
	mux.Handle("POST /inventory", authed(h.CreateInventoryItem))
	mux.Handle("POST /inventory/{id}/adjust", authed(h.AdjustInventory))

	mux.Handle("GET /equipment", authed(h.ListEquipment))
	mux.Handle("PUT /equipment/{id}/status", authed(h.UpdateEquipmentStatus))

	mux.Handle("GET /settings/{key}", authed(h.GetSetting))
	mux.Handle("PUT /settings/{key}", authed(h.PutSetting))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
