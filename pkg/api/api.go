// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the server.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTenantRequest is the request body for creating a new tenant.
type CreateTenantRequest struct {
	Name           string `json:"name"`
	RateLimit      int    `json:"rate_limit,omitempty"`
	RateLimitBurst int    `json:"rate_limit_burst,omitempty"`
}

// CreateTenantResponse is the response body after creating a tenant.
type CreateTenantResponse struct {
	ID     string `json:"tenant_id"`
	Name   string `json:"name"`
	ApiKey string `json:"api_key"`
}

// CreateJobRequest is the request body for creating a new job estimate.
type CreateJobRequest struct {
	CustomerName          string          `json:"customer_name"`
	SiteAddress           string          `json:"site_address,omitempty"`
	PlannedOpenCellSets   decimal.Decimal `json:"planned_open_cell_sets"`
	PlannedClosedCellSets decimal.Decimal `json:"planned_closed_cell_sets"`
	PlannedLaborHours     decimal.Decimal `json:"planned_labor_hours"`
}

// CreateJobResponse is the response body after creating a job.
type CreateJobResponse struct {
	JobID string `json:"job_id"`
}

// JobResponse represents a job in API responses.
type JobResponse struct {
	ID                    string          `json:"id"`
	CustomerName          string          `json:"customer_name"`
	SiteAddress           string          `json:"site_address,omitempty"`
	Status                string          `json:"status"`
	ExecutionStatus       string          `json:"execution_status"`
	PlannedOpenCellSets   decimal.Decimal `json:"planned_open_cell_sets"`
	PlannedClosedCellSets decimal.Decimal `json:"planned_closed_cell_sets"`
	PlannedLaborHours     decimal.Decimal `json:"planned_labor_hours"`
	CompletionProcessed   bool            `json:"completion_processed"`
	CreatedAt             time.Time       `json:"created_at"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
}

// UpdateJobStatusRequest moves a job through its billing lifecycle.
type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

// UpdateExecutionStatusRequest records field progress short of completion.
type UpdateExecutionStatusRequest struct {
	ExecutionStatus string `json:"execution_status"`
}

// ItemUsageRequest is one consumed inventory item in a completion request.
type ItemUsageRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CompleteJobRequest is the crew-submitted actuals payload.
type CompleteJobRequest struct {
	OpenCellSets   decimal.Decimal    `json:"open_cell_sets"`
	ClosedCellSets decimal.Decimal    `json:"closed_cell_sets"`
	LaborHours     decimal.Decimal    `json:"labor_hours"`
	Items          []ItemUsageRequest `json:"items,omitempty"`
	EquipmentIDs   []string           `json:"equipment_ids,omitempty"`
	CrewMember     string             `json:"crew_member"`
	Notes          string             `json:"notes,omitempty"`
}

// ItemDeductionResponse reports requested vs applied for one item.
type ItemDeductionResponse struct {
	ItemID    string          `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Deducted  decimal.Decimal `json:"deducted"`
}

// CompleteJobResponse summarizes the deductions a completion applied.
// Deducted can be less than requested when stock ran short.
type CompleteJobResponse struct {
	JobID               string                  `json:"job_id"`
	OpenCellRequested   decimal.Decimal         `json:"open_cell_requested"`
	OpenCellDeducted    decimal.Decimal         `json:"open_cell_deducted"`
	ClosedCellRequested decimal.Decimal         `json:"closed_cell_requested"`
	ClosedCellDeducted  decimal.Decimal         `json:"closed_cell_deducted"`
	Items               []ItemDeductionResponse `json:"items,omitempty"`
	CompletedAt         time.Time               `json:"completed_at"`
}

// StockResponse is the current state of the tenant's chemical pool.
type StockResponse struct {
	OpenCellQty    decimal.Decimal `json:"open_cell_qty"`
	ClosedCellQty  decimal.Decimal `json:"closed_cell_qty"`
	OpenCellUsed   decimal.Decimal `json:"open_cell_used"`
	ClosedCellUsed decimal.Decimal `json:"closed_cell_used"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RestockRequest adds chemical sets to the pool.
type RestockRequest struct {
	OpenCellSets   decimal.Decimal `json:"open_cell_sets"`
	ClosedCellSets decimal.Decimal `json:"closed_cell_sets"`
}

// CreateInventoryItemRequest registers a new unit-tracked supply.
type CreateInventoryItemRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	OnHandQty decimal.Decimal `json:"on_hand_qty"`
}

// InventoryItemResponse represents one inventory item.
type InventoryItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	OnHandQty    decimal.Decimal `json:"on_hand_qty"`
	LifetimeUsed decimal.Decimal `json:"lifetime_used"`
}

// AdjustInventoryRequest applies a signed manual correction.
type AdjustInventoryRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// EquipmentResponse represents one tracked asset.
type EquipmentResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	LastJobID *string    `json:"last_job_id,omitempty"`
	LastCrew  *string    `json:"last_crew,omitempty"`
	LastSeen  *time.Time `json:"last_seen_at,omitempty"`
}

// UpdateEquipmentStatusRequest sets an asset's status.
type UpdateEquipmentStatusRequest struct {
	Status string `json:"status"`
}

// UsageEntryResponse is one row of the material audit trail.
type UsageEntryResponse struct {
	ID        int64           `json:"id"`
	Material  string          `json:"material"`
	QtyDelta  decimal.Decimal `json:"qty_delta"`
	Actor     string          `json:"actor"`
	CreatedAt time.Time       `json:"created_at"`
}

// GetUsageResponse is the response body for a job's usage log.
type GetUsageResponse struct {
	Entries []UsageEntryResponse `json:"entries"`
}

// SettingResponse is one tenant setting.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PutSettingRequest sets a tenant setting.
type PutSettingRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
