package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"foamworks/internal/controller/middleware"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// CreateJob handles POST /jobs.
// It saves a new job estimate with its planned material draw.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CustomerName == "" {
		h.httpError(w, "Customer name is required", http.StatusBadRequest)
		return
	}
	if req.PlannedOpenCellSets.IsNegative() || req.PlannedClosedCellSets.IsNegative() || req.PlannedLaborHours.IsNegative() {
		h.httpError(w, "Planned quantities must not be negative", http.StatusBadRequest)
		return
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	job := &store.Job{
		ID:                    uuid.New(),
		TenantID:              tenantID,
		CustomerName:          req.CustomerName,
		SiteAddress:           req.SiteAddress,
		Status:                store.JobStatusDraft,
		ExecutionStatus:       store.ExecutionStatusNotStarted,
		PlannedOpenCellSets:   req.PlannedOpenCellSets,
		PlannedClosedCellSets: req.PlannedClosedCellSets,
		PlannedLaborHours:     req.PlannedLaborHours,
		CreatedAt:             time.Now().UTC(),
	}

	if err := h.store.CreateJob(ctx, nil, job); err != nil {
		h.httpError(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusCreated, api.CreateJobResponse{JobID: job.ID.String()})
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadTenantJob(w, r)
	if !ok {
		return
	}

	h.respondJson(w, http.StatusOK, jobToResponse(job))
}

// ListJobs handles GET /jobs.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobs, err := h.store.ListJobs(ctx, tenantID, 50, 0)
	if err != nil {
		h.httpError(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}

	resp := make([]api.JobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, jobToResponse(&jobs[i]))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// UpdateJobStatus handles PUT /jobs/{id}/status.
// Billing status only moves forward; archiving is allowed from any state.
func (h *Handlers) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UpdateJobStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target := store.JobStatus(req.Status)
	if !store.ValidJobStatus(target) {
		h.httpError(w, "Unknown job status", http.StatusBadRequest)
		return
	}

	job, ok := h.loadTenantJob(w, r)
	if !ok {
		return
	}

	if !store.CanTransitionStatus(job.Status, target) {
		h.httpError(w, "Illegal status transition", http.StatusConflict)
		return
	}

	if err := h.store.UpdateJobStatus(ctx, nil, job.ID, job.Status, target); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Raced with another status update; the legality check above
			// no longer holds for the row's current state.
			h.httpError(w, "Job status changed concurrently, reload and retry", http.StatusConflict)
			return
		}
		h.httpError(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	job.Status = target
	h.respondJson(w, http.StatusOK, jobToResponse(job))
}

// UpdateExecutionStatus handles PUT /jobs/{id}/execution.
// Only not_started -> in_progress goes through here; completion must run
// the completion transaction.
func (h *Handlers) UpdateExecutionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UpdateExecutionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if store.ExecutionStatus(req.ExecutionStatus) != store.ExecutionStatusInProgress {
		h.httpError(w, "Only in_progress can be set directly; use the complete endpoint", http.StatusBadRequest)
		return
	}

	job, ok := h.loadTenantJob(w, r)
	if !ok {
		return
	}

	if job.ExecutionStatus != store.ExecutionStatusNotStarted {
		h.httpError(w, "Job has already started", http.StatusConflict)
		return
	}

	if err := h.store.UpdateExecutionStatus(ctx, nil, job.ID, store.ExecutionStatusInProgress); err != nil {
		h.httpError(w, "Failed to update execution status", http.StatusInternalServerError)
		return
	}

	job.ExecutionStatus = store.ExecutionStatusInProgress
	h.respondJson(w, http.StatusOK, jobToResponse(job))
}

// GetJobUsage handles GET /jobs/{id}/usage.
func (h *Handlers) GetJobUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job, ok := h.loadTenantJob(w, r)
	if !ok {
		return
	}

	entries, err := h.store.GetJobUsage(ctx, job.TenantID, job.ID)
	if err != nil {
		h.httpError(w, "Failed to load usage log", http.StatusInternalServerError)
		return
	}

	resp := api.GetUsageResponse{Entries: make([]api.UsageEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, api.UsageEntryResponse{
			ID:        entry.ID,
			Material:  entry.Material,
			QtyDelta:  entry.QtyDelta,
			Actor:     entry.Actor,
			CreatedAt: entry.CreatedAt,
		})
	}
	h.respondJson(w, http.StatusOK, resp)
}

// loadTenantJob parses {id}, loads the job, and enforces tenant ownership.
// Writes the error response itself when it returns ok=false.
func (h *Handlers) loadTenantJob(w http.ResponseWriter, r *http.Request) (*store.Job, bool) {
	ctx := r.Context()

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.httpError(w, "Invalid job id", http.StatusBadRequest)
		return nil, false
	}

	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	job, err := h.store.GetJobByID(ctx, jobID)
	if err != nil || job.TenantID != tenantID {
		h.httpError(w, "Job not found", http.StatusNotFound)
		return nil, false
	}

	return job, true
}

func jobToResponse(job *store.Job) api.JobResponse {
	return api.JobResponse{
		ID:                    job.ID.String(),
		CustomerName:          job.CustomerName,
		SiteAddress:           job.SiteAddress,
		Status:                string(job.Status),
		ExecutionStatus:       string(job.ExecutionStatus),
		PlannedOpenCellSets:   job.PlannedOpenCellSets,
		PlannedClosedCellSets: job.PlannedClosedCellSets,
		PlannedLaborHours:     job.PlannedLaborHours,
		CompletionProcessed:   job.CompletionProcessed,
		CreatedAt:             job.CreatedAt,
		CompletedAt:           job.CompletedAt,
	}
}
