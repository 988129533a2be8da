// Package store contains the database layer for foamworks.
package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents a contractor company in the multi-tenant system.
// All operations must be scoped by TenantID.
type Tenant struct {
	ID             uuid.UUID
	Name           string
	RateLimit      int
	RateLimitBurst int
	CreatedAt      time.Time
}

// JobStatus is the billing lifecycle of a job.
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusWorkOrder JobStatus = "work_order"
	JobStatusInvoiced  JobStatus = "invoiced"
	JobStatusPaid      JobStatus = "paid"
	JobStatusArchived  JobStatus = "archived"
)

// jobStatusOrder drives transition checks: a job only moves forward
// through the billing lifecycle, one step at a time, except that any
// status may be archived.
var jobStatusOrder = map[JobStatus]int{
	JobStatusDraft:     0,
	JobStatusWorkOrder: 1,
	JobStatusInvoiced:  2,
	JobStatusPaid:      3,
	JobStatusArchived:  4,
}

// ValidJobStatus reports whether s names a known billing status.
func ValidJobStatus(s JobStatus) bool {
	_, ok := jobStatusOrder[s]
	return ok
}

// CanTransitionStatus reports whether a job may move from -> to.
func CanTransitionStatus(from, to JobStatus) bool {
	f, ok := jobStatusOrder[from]
	if !ok {
		return false
	}
	t, ok := jobStatusOrder[to]
	if !ok {
		return false
	}
	if to == JobStatusArchived {
		return from != JobStatusArchived
	}
	return t == f+1
}

// ExecutionStatus is the field progress of a job, independent of billing.
type ExecutionStatus string

const (
	ExecutionStatusNotStarted ExecutionStatus = "not_started"
	ExecutionStatusInProgress ExecutionStatus = "in_progress"
	ExecutionStatusCompleted  ExecutionStatus = "completed"
)

// Job represents one unit of work for a customer: the estimate, the
// planned material draw, and (after completion) the crew-reported actuals.
type Job struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	CustomerName    string
	SiteAddress     string
	Status          JobStatus
	ExecutionStatus ExecutionStatus

	// Planned quantities from the estimate.
	PlannedOpenCellSets   decimal.Decimal
	PlannedClosedCellSets decimal.Decimal
	PlannedLaborHours     decimal.Decimal

	// Actuals is the crew-submitted payload stored verbatim at completion.
	// Nil until the completion transaction has run.
	Actuals json.RawMessage

	// CompletionProcessed transitions false -> true exactly once; the
	// completion transaction is its only writer.
	CompletionProcessed bool

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// StockPool holds a tenant's shared chemical counters. One row per tenant.
// Current quantities never go below zero; lifetime counters only grow.
type StockPool struct {
	TenantID       uuid.UUID
	OpenCellQty    decimal.Decimal
	ClosedCellQty  decimal.Decimal
	OpenCellUsed   decimal.Decimal
	ClosedCellUsed decimal.Decimal
	UpdatedAt      time.Time
}

// InventoryItem is a named, unit-tracked supply (non-chemical).
type InventoryItem struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Unit         string
	OnHandQty    decimal.Decimal
	LifetimeUsed decimal.Decimal
	CreatedAt    time.Time
}

// EquipmentStatus is the state of a tracked asset.
type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusOnJob       EquipmentStatus = "on_job"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

// Equipment is a tracked asset (rig, proportioner, generator).
type Equipment struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Status    EquipmentStatus
	LastJobID *uuid.UUID
	LastCrew  *string
	LastSeen  *time.Time
	CreatedAt time.Time
}

// Material identifiers used in usage log entries. Chemical kinds use the
// fixed names below; inventory items use their UUID string.
const (
	MaterialOpenCell   = "open_cell"
	MaterialClosedCell = "closed_cell"
)

// UsageLogEntry is an append-only audit record of material movement.
// Negative QtyDelta means consumption. Immutable once written.
type UsageLogEntry struct {
	ID        int64
	TenantID  uuid.UUID
	JobID     uuid.UUID
	Material  string
	QtyDelta  decimal.Decimal
	Actor     string
	CreatedAt time.Time
}

// Setting is one tenant-scoped key/value pair.
type Setting struct {
	TenantID  uuid.UUID
	Key       string
	Value     string
	UpdatedAt time.Time
}
