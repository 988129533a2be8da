package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"foamworks/internal/completion"
	"foamworks/pkg/api"

	"github.com/google/uuid"
)

// CompleteJob handles POST /jobs/{id}/complete.
// It runs the inventory-safe completion transaction. A duplicate
// submission gets 409; the crew UI must not treat that as a success.
func (h *Handlers) CompleteJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CompleteJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, ok := h.loadTenantJob(w, r)
	if !ok {
		return
	}

	actuals, err := actualsFromRequest(&req)
	if err != nil {
		h.httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.completer.CompleteJob(ctx, job.ID, actuals)
	if err != nil {
		var invalidErr *completion.InvalidActualsError
		var notFoundErr *completion.JobNotFoundError
		var processedErr *completion.AlreadyProcessedError

		switch {
		case errors.As(err, &invalidErr):
			h.httpError(w, invalidErr.Error(), http.StatusBadRequest)
		case errors.As(err, &notFoundErr):
			h.httpError(w, "Job not found", http.StatusNotFound)
		case errors.As(err, &processedErr):
			h.httpError(w, "Job completion already processed", http.StatusConflict)
		default:
			// TransactionError: nothing committed, safe for the caller to retry.
			h.httpError(w, "Completion transaction failed, retry the request", http.StatusServiceUnavailable)
		}
		return
	}

	h.respondJson(w, http.StatusOK, completionToResponse(result))
}

func actualsFromRequest(req *api.CompleteJobRequest) (completion.Actuals, error) {
	actuals := completion.Actuals{
		OpenCellSets:   req.OpenCellSets,
		ClosedCellSets: req.ClosedCellSets,
		LaborHours:     req.LaborHours,
		CrewMember:     req.CrewMember,
		Notes:          req.Notes,
	}

	for _, item := range req.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return completion.Actuals{}, errors.New("invalid inventory item id: " + item.ItemID)
		}
		actuals.Items = append(actuals.Items, completion.ItemUsage{
			ItemID:   itemID,
			Quantity: item.Quantity,
		})
	}

	for _, idStr := range req.EquipmentIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return completion.Actuals{}, errors.New("invalid equipment id: " + idStr)
		}
		actuals.EquipmentIDs = append(actuals.EquipmentIDs, id)
	}

	return actuals, nil
}

func completionToResponse(result *completion.Result) api.CompleteJobResponse {
	resp := api.CompleteJobResponse{
		JobID:               result.JobID.String(),
		OpenCellRequested:   result.OpenCellRequested,
		OpenCellDeducted:    result.OpenCellDeducted,
		ClosedCellRequested: result.ClosedCellRequested,
		ClosedCellDeducted:  result.ClosedCellDeducted,
		CompletedAt:         result.CompletedAt,
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, api.ItemDeductionResponse{
			ItemID:    item.ItemID.String(),
			Requested: item.Requested,
			Deducted:  item.Deducted,
		})
	}
	return resp
}
