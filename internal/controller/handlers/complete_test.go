package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foamworks/internal/completion"
	"foamworks/internal/controller/middleware"
	"foamworks/internal/store"
	"foamworks/pkg/api"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func authedRequest(t *testing.T, method, target string, body []byte, tenantID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	tenant := &store.Tenant{ID: tenantID, Name: "test tenant"}
	return req.WithContext(middleware.NewContextWithTenant(req.Context(), tenant))
}

func tenantJob(jobID, tenantID uuid.UUID) *store.Job {
	return &store.Job{
		ID:              jobID,
		TenantID:        tenantID,
		CustomerName:    "Hargrove Residence",
		Status:          store.JobStatusWorkOrder,
		ExecutionStatus: store.ExecutionStatusInProgress,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestCompleteJob_Success(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	ms := &mockStore{
		getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
			return tenantJob(jobID, tenantID), nil
		},
	}
	mc := &mockCompleter{
		completeFunc: func(ctx context.Context, id uuid.UUID, actuals completion.Actuals) (*completion.Result, error) {
			if id != jobID {
				t.Errorf("completer got job %s, want %s", id, jobID)
			}
			return &completion.Result{
				JobID:             id,
				OpenCellRequested: actuals.OpenCellSets,
				OpenCellDeducted:  actuals.OpenCellSets,
				CompletedAt:       time.Now().UTC(),
			}, nil
		},
	}

	h := New(ms, mc)
	body, _ := json.Marshal(api.CompleteJobRequest{
		OpenCellSets: decimal.NewFromInt(3),
		CrewMember:   "M. Reyes",
	})

	req := authedRequest(t, http.MethodPost, "/jobs/"+jobID.String()+"/complete", body, tenantID)
	req.SetPathValue("id", jobID.String())
	rec := httptest.NewRecorder()

	h.CompleteJob(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp api.CompleteJobResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.JobID != jobID.String() {
		t.Errorf("job id = %s, want %s", resp.JobID, jobID)
	}
	if !resp.OpenCellDeducted.Equal(decimal.NewFromInt(3)) {
		t.Errorf("open cell deducted = %s, want 3", resp.OpenCellDeducted)
	}
}

func TestCompleteJob_ErrorMapping(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid actuals", &completion.InvalidActualsError{Reason: "open_cell_sets must not be negative"}, http.StatusBadRequest},
		{"job not found", &completion.JobNotFoundError{JobID: jobID}, http.StatusNotFound},
		{"already processed", &completion.AlreadyProcessedError{JobID: jobID}, http.StatusConflict},
		{"transaction failure", &completion.TransactionError{Op: "deduct stock", Err: sql.ErrConnDone}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{
				getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
					return tenantJob(jobID, tenantID), nil
				},
			}
			mc := &mockCompleter{
				completeFunc: func(ctx context.Context, id uuid.UUID, actuals completion.Actuals) (*completion.Result, error) {
					return nil, tt.err
				},
			}

			h := New(ms, mc)
			body, _ := json.Marshal(api.CompleteJobRequest{CrewMember: "M. Reyes"})
			req := authedRequest(t, http.MethodPost, "/jobs/"+jobID.String()+"/complete", body, tenantID)
			req.SetPathValue("id", jobID.String())
			rec := httptest.NewRecorder()

			h.CompleteJob(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCompleteJob_WrongTenant(t *testing.T) {
	jobID := uuid.New()

	ms := &mockStore{
		getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
			return tenantJob(jobID, uuid.New()), nil
		},
	}

	h := New(ms, &mockCompleter{})
	body, _ := json.Marshal(api.CompleteJobRequest{CrewMember: "M. Reyes"})
	req := authedRequest(t, http.MethodPost, "/jobs/"+jobID.String()+"/complete", body, uuid.New())
	req.SetPathValue("id", jobID.String())
	rec := httptest.NewRecorder()

	h.CompleteJob(rec, req)

	// Cross-tenant access reads as not found, never as forbidden.
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCompleteJob_BadItemID(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	ms := &mockStore{
		getJobByIDFunc: func(ctx context.Context, id uuid.UUID) (*store.Job, error) {
			return tenantJob(jobID, tenantID), nil
		},
	}
	completerCalled := false
	mc := &mockCompleter{
		completeFunc: func(ctx context.Context, id uuid.UUID, actuals completion.Actuals) (*completion.Result, error) {
			completerCalled = true
			return nil, nil
		},
	}

	h := New(ms, mc)
	body, _ := json.Marshal(api.CompleteJobRequest{
		CrewMember: "M. Reyes",
		Items:      []api.ItemUsageRequest{{ItemID: "not-a-uuid", Quantity: decimal.NewFromInt(1)}},
	})
	req := authedRequest(t, http.MethodPost, "/jobs/"+jobID.String()+"/complete", body, tenantID)
	req.SetPathValue("id", jobID.String())
	rec := httptest.NewRecorder()

	h.CompleteJob(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if completerCalled {
		t.Error("completer should not run for a malformed item id")
	}
}
