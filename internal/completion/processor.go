package completion

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"foamworks/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store combines the repositories the completion transaction touches.
// Implemented by the postgres store.
type Store interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	GetJobForUpdate(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Job, error)
	DeductStock(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
	DeductInventoryItem(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error)
	MarkEquipmentReturned(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID, jobID uuid.UUID, crew string, at time.Time) error
	AddUsageEntry(ctx context.Context, tx store.DBTransaction, entry *store.UsageLogEntry) error
	FinalizeJobCompletion(ctx context.Context, tx store.DBTransaction, id uuid.UUID, actuals json.RawMessage, at time.Time) error
}

// ItemDeduction reports the requested vs applied quantity for one material.
type ItemDeduction struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Deducted  decimal.Decimal `json:"deducted"`
}

// Result summarizes a successful completion for caller-side reconciliation.
// Deducted amounts may be smaller than requested when the clamp fired; the
// usage log records the requested amounts either way.
type Result struct {
	JobID               uuid.UUID       `json:"job_id"`
	OpenCellRequested   decimal.Decimal `json:"open_cell_requested"`
	OpenCellDeducted    decimal.Decimal `json:"open_cell_deducted"`
	ClosedCellRequested decimal.Decimal `json:"closed_cell_requested"`
	ClosedCellDeducted  decimal.Decimal `json:"closed_cell_deducted"`
	Items               []ItemDeduction `json:"items,omitempty"`
	CompletedAt         time.Time       `json:"completed_at"`
}

// Processor applies crew-reported actuals to a job exactly once.
type Processor struct {
	store  Store
	logger *slog.Logger
}

// NewProcessor creates a Processor backed by the given store.
func NewProcessor(s Store, logger *slog.Logger) *Processor {
	return &Processor{store: s, logger: logger}
}

// CompleteJob runs the completion transaction for jobID. All mutations
// happen inside a single database transaction: on any failure the whole
// unit rolls back and the error kind tells the caller whether a retry is
// safe (TransactionError) or a bug (AlreadyProcessedError).
//
// The job row is locked first, so two concurrent completions of the same
// job serialize on it and the loser observes completion_processed = true.
// The stock pool and inventory rows are locked by their deduction steps;
// completions of different jobs drawing from the same tenant pool
// serialize there, and different tenants never contend.
func (p *Processor) CompleteJob(ctx context.Context, jobID uuid.UUID, actuals Actuals) (*Result, error) {
	if err := actuals.Validate(); err != nil {
		return nil, err
	}

	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return nil, &TransactionError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	job, err := p.store.GetJobForUpdate(ctx, tx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &JobNotFoundError{JobID: jobID}
		}
		return nil, &TransactionError{Op: "load job", Err: err}
	}

	// Idempotency guard. Checked under the row lock taken above, so the
	// check-and-set cannot race with another completion of this job.
	if job.CompletionProcessed {
		return nil, &AlreadyProcessedError{JobID: jobID}
	}

	now := time.Now().UTC()

	appliedOpen, appliedClosed, err := p.store.DeductStock(ctx, tx, job.TenantID,
		actuals.OpenCellSets, actuals.ClosedCellSets)
	if err != nil {
		return nil, &TransactionError{Op: "deduct stock", Err: err}
	}

	result := &Result{
		JobID:               jobID,
		OpenCellRequested:   actuals.OpenCellSets,
		OpenCellDeducted:    appliedOpen,
		ClosedCellRequested: actuals.ClosedCellSets,
		ClosedCellDeducted:  appliedClosed,
		CompletedAt:         now,
	}

	for _, item := range actuals.Items {
		applied, err := p.store.DeductInventoryItem(ctx, tx, job.TenantID, item.ItemID, item.Quantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, &InvalidActualsError{Reason: "unknown inventory item " + item.ItemID.String()}
			}
			return nil, &TransactionError{Op: "deduct inventory", Err: err}
		}
		result.Items = append(result.Items, ItemDeduction{
			ItemID:    item.ItemID,
			Requested: item.Quantity,
			Deducted:  applied,
		})
	}

	for _, equipmentID := range actuals.EquipmentIDs {
		err := p.store.MarkEquipmentReturned(ctx, tx, job.TenantID, equipmentID, jobID, actuals.CrewMember, now)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, &InvalidActualsError{Reason: "unknown equipment " + equipmentID.String()}
			}
			return nil, &TransactionError{Op: "update equipment", Err: err}
		}
	}

	// One audit row per consumed material. The logged delta is the
	// requested amount negated, not the clamped amount: a draw larger than
	// the pool shows up as usage exceeding stock, which is the
	// reconciliation signal management reads, not data loss.
	if err := p.logUsage(ctx, tx, job, actuals, now); err != nil {
		return nil, &TransactionError{Op: "log usage", Err: err}
	}

	actualsJSON, err := json.Marshal(actuals)
	if err != nil {
		return nil, &InvalidActualsError{Reason: err.Error()}
	}
	if err := p.store.FinalizeJobCompletion(ctx, tx, jobID, actualsJSON, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Flag flipped between our check and the update. Cannot happen
			// while the row lock is held; kept as a backstop.
			return nil, &AlreadyProcessedError{JobID: jobID}
		}
		return nil, &TransactionError{Op: "finalize job", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &TransactionError{Op: "commit", Err: err}
	}

	p.logger.InfoContext(ctx, "job completed",
		"job_id", jobID,
		"tenant_id", job.TenantID,
		"crew", actuals.CrewMember,
		"open_cell_requested", actuals.OpenCellSets,
		"open_cell_deducted", appliedOpen,
		"closed_cell_requested", actuals.ClosedCellSets,
		"closed_cell_deducted", appliedClosed,
	)

	return result, nil
}

func (p *Processor) logUsage(ctx context.Context, tx store.Tx, job *store.Job, actuals Actuals, now time.Time) error {
	entry := func(material string, requested decimal.Decimal) error {
		return p.store.AddUsageEntry(ctx, tx, &store.UsageLogEntry{
			TenantID:  job.TenantID,
			JobID:     job.ID,
			Material:  material,
			QtyDelta:  requested.Neg(),
			Actor:     actuals.CrewMember,
			CreatedAt: now,
		})
	}

	if actuals.OpenCellSets.IsPositive() {
		if err := entry(store.MaterialOpenCell, actuals.OpenCellSets); err != nil {
			return err
		}
	}
	if actuals.ClosedCellSets.IsPositive() {
		if err := entry(store.MaterialClosedCell, actuals.ClosedCellSets); err != nil {
			return err
		}
	}
	for _, item := range actuals.Items {
		if !item.Quantity.IsPositive() {
			continue
		}
		if err := entry(item.ItemID.String(), item.Quantity); err != nil {
			return err
		}
	}

	return nil
}
