package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateJob(t *testing.T) {
	tenantID := uuid.New()

	var created *store.Job
	ms := &mockStore{
		createJobFunc: func(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
			created = job
			return nil
		},
	}
	h := New(ms, &mockCompleter{})

	body, _ := json.Marshal(api.CreateJobRequest{
		CustomerName:          "Hargrove Residence",
		SiteAddress:           "14 Birch Ln",
		PlannedOpenCellSets:   decimal.NewFromInt(4),
		PlannedClosedCellSets: decimal.NewFromInt(2),
	})
	req := authedRequest(t, http.MethodPost, "/jobs", body, tenantID)
	rec := httptest.NewRecorder()

	h.CreateJob(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if created == nil {
		t.Fatal("job was not persisted")
	}
	if created.TenantID != tenantID {
		t.Errorf("tenant id = %s, want %s", created.TenantID, tenantID)
	}
	if created.Status != store.JobStatusDraft {
		t.Errorf("status = %s, want %s", created.Status, store.JobStatusDraft)
	}
	if created.ExecutionStatus != store.ExecutionStatusNotStarted {
		t.Errorf("execution status = %s, want %s", created.ExecutionStatus, store.ExecutionStatusNotStarted)
	}
}

func TestCreateJob_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  api.CreateJobRequest
	}{
		{"missing customer name", api.CreateJobRequest{PlannedOpenCellSets: decimal.NewFromInt(1)}},
		{"negative planned sets", api.CreateJobRequest{CustomerName: "x", PlannedOpenCellSets: decimal.NewFromInt(-1)}},
		{"negative labor hours", api.CreateJobRequest{CustomerName: "x", PlannedLaborHours: decimal.NewFromInt(-8)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&mockStore{}, &mockCompleter{})
			body, _ := json.Marshal(tt.req)
			req := authedRequest(t, http.MethodPost, "/jobs", body, uuid.New())
			rec := httptest.NewRecorder()

			h.CreateJob(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCreateJob_Unauthed(t *testing.T) {
	h := New(&mockStore{}, &mockCompleter{})
	body, _ := json.Marshal(api.CreateJobRequest{CustomerName: "Hargrove Residence"})
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateJob(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUpdateJobStatus_Transitions(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	tests := []struct {
		name       string
		current    store.JobStatus
		target     string
		wantStatus int
	}{
		{"draft to work_order", store.JobStatusDraft, "work_order", http.StatusOK},
		{"work_order to invoiced", store.JobStatusWorkOrder, "invoiced", http.StatusOK},
		{"archive from draft", store.JobStatusDraft, "archived", http.StatusOK},
		{"skip a step", store.JobStatusDraft, "invoiced", http.StatusConflict},
		{"backwards", store.JobStatusInvoiced, "draft", http.StatusConflict},
		{"out of archived", store.JobStatusArchived, "paid", http.StatusConflict},
		{"unknown status", store.JobStatusDraft, "cancelled", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{
				getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
					job := tenantJob(jobID, tenantID)
					job.Status = tt.current
					return job, nil
				},
			}
			h := New(ms, &mockCompleter{})

			body, _ := json.Marshal(api.UpdateJobStatusRequest{Status: tt.target})
			req := authedRequest(t, http.MethodPut, "/jobs/"+jobID.String()+"/status", body, tenantID)
			req.SetPathValue("id", jobID.String())
			rec := httptest.NewRecorder()

			h.UpdateJobStatus(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestUpdateJobStatus_LostRace(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	ms := &mockStore{
		getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
			job := tenantJob(jobID, tenantID)
			job.Status = store.JobStatusWorkOrder
			return job, nil
		},
		// The guarded UPDATE matched nothing: a concurrent update won.
		updateJobStatusFunc: func(ctx context.Context, tx store.DBTransaction, id uuid.UUID, from, to store.JobStatus) error {
			return sql.ErrNoRows
		},
	}
	h := New(ms, &mockCompleter{})

	body, _ := json.Marshal(api.UpdateJobStatusRequest{Status: "invoiced"})
	req := authedRequest(t, http.MethodPut, "/jobs/"+jobID.String()+"/status", body, tenantID)
	req.SetPathValue("id", jobID.String())
	rec := httptest.NewRecorder()

	h.UpdateJobStatus(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestUpdateExecutionStatus(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	t.Run("start job", func(t *testing.T) {
		ms := &mockStore{
			getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
				job := tenantJob(jobID, tenantID)
				job.ExecutionStatus = store.ExecutionStatusNotStarted
				return job, nil
			},
		}
		h := New(ms, &mockCompleter{})

		body, _ := json.Marshal(api.UpdateExecutionStatusRequest{ExecutionStatus: "in_progress"})
		req := authedRequest(t, http.MethodPut, "/jobs/"+jobID.String()+"/execution", body, tenantID)
		req.SetPathValue("id", jobID.String())
		rec := httptest.NewRecorder()

		h.UpdateExecutionStatus(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("completed is rejected", func(t *testing.T) {
		h := New(&mockStore{}, &mockCompleter{})

		body, _ := json.Marshal(api.UpdateExecutionStatusRequest{ExecutionStatus: "completed"})
		req := authedRequest(t, http.MethodPut, "/jobs/"+jobID.String()+"/execution", body, tenantID)
		req.SetPathValue("id", jobID.String())
		rec := httptest.NewRecorder()

		h.UpdateExecutionStatus(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("already started", func(t *testing.T) {
		ms := &mockStore{
			getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
				job := tenantJob(jobID, tenantID)
				job.ExecutionStatus = store.ExecutionStatusInProgress
				return job, nil
			},
		}
		h := New(ms, &mockCompleter{})

		body, _ := json.Marshal(api.UpdateExecutionStatusRequest{ExecutionStatus: "in_progress"})
		req := authedRequest(t, http.MethodPut, "/jobs/"+jobID.String()+"/execution", body, tenantID)
		req.SetPathValue("id", jobID.String())
		rec := httptest.NewRecorder()

		h.UpdateExecutionStatus(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})
}

func TestGetJobUsage(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	ms := &mockStore{
		getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
			return tenantJob(jobID, tenantID), nil
		},
		getJobUsageFunc: func(ctx context.Context, tid, jid uuid.UUID) ([]store.UsageLogEntry, error) {
			return []store.UsageLogEntry{
				{ID: 1, Material: store.MaterialOpenCell, QtyDelta: decimal.NewFromInt(-3), Actor: "M. Reyes"},
			}, nil
		},
	}
	h := New(ms, &mockCompleter{})

	req := authedRequest(t, http.MethodGet, "/jobs/"+jobID.String()+"/usage", nil, tenantID)
	req.SetPathValue("id", jobID.String())
	rec := httptest.NewRecorder()

	h.GetJobUsage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp api.GetUsageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(resp.Entries))
	}
	if !resp.Entries[0].QtyDelta.Equal(decimal.NewFromInt(-3)) {
		t.Errorf("delta = %s, want -3", resp.Entries[0].QtyDelta)
	}
}
