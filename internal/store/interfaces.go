package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DBTransaction defines the methods shared by *sql.DB and *sql.Tx
// This allows us to pass either a connection pool or an active transaction to the repository methods.
type DBTransaction interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Tx interface {
	DBTransaction
	Commit() error
	Rollback() error
}

// TenantStore handles retrieving tenant information for authentication.
type TenantStore interface {
	// CreateTenant inserts a new tenant to the database
	CreateTenant(ctx context.Context, tenant *Tenant, hashedKey string) error

	// GetTenantByID returns a tenant by its ID.
	GetTenantByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// GetTenantByAPIKeyHash returns a tenant by its API key hash.
	GetTenantByAPIKeyHash(ctx context.Context, hash string) (*Tenant, error)
}

// JobStore handles the persistence of jobs and their lifecycle.
type JobStore interface {
	// CreateJob inserts a new job (estimate) to the database.
	CreateJob(ctx context.Context, tx DBTransaction, job *Job) error

	// GetJobByID returns a job by its ID.
	GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// GetJobForUpdate loads a job row under a row lock inside tx.
	// Returns sql.ErrNoRows if no job exists with the given ID.
	GetJobForUpdate(ctx context.Context, tx DBTransaction, id uuid.UUID) (*Job, error)

	// ListJobs returns the tenant's jobs, newest first.
	ListJobs(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Job, error)

	// UpdateJobStatus moves a job through its billing lifecycle. The write
	// is guarded by the expected current status; returns sql.ErrNoRows when
	// the job changed underneath the caller.
	UpdateJobStatus(ctx context.Context, tx DBTransaction, id uuid.UUID, from, to JobStatus) error

	// UpdateExecutionStatus records field progress short of completion.
	UpdateExecutionStatus(ctx context.Context, tx DBTransaction, id uuid.UUID, status ExecutionStatus) error

	// FinalizeJobCompletion marks the job completed and stores actuals,
	// guarded by completion_processed = false. Returns sql.ErrNoRows if
	// the guard did not match.
	FinalizeJobCompletion(ctx context.Context, tx DBTransaction, id uuid.UUID, actuals json.RawMessage, at time.Time) error
}

// StockStore mutates a tenant's shared chemical counters.
// Deductions are clamped at zero; lifetime counters record the
// requested amount regardless of the clamp.
type StockStore interface {
	// GetStockPool returns the tenant's pool, creating a zeroed row if absent.
	GetStockPool(ctx context.Context, tenantID uuid.UUID) (*StockPool, error)

	// DeductStock decrements the pool under a row lock inside tx and
	// returns the amounts actually applied after clamping.
	DeductStock(ctx context.Context, tx DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) (appliedOpen, appliedClosed decimal.Decimal, err error)

	// RestockPool adds chemical sets to the pool inside tx.
	RestockPool(ctx context.Context, tx DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) error
}

// InventoryStore mutates unit-tracked supplies.
type InventoryStore interface {
	CreateInventoryItem(ctx context.Context, tx DBTransaction, item *InventoryItem) error

	ListInventoryItems(ctx context.Context, tenantID uuid.UUID) ([]InventoryItem, error)

	// DeductInventoryItem decrements on-hand quantity under a row lock,
	// clamped at zero, and returns the amount actually applied.
	// Returns sql.ErrNoRows if the item does not exist for the tenant.
	DeductInventoryItem(ctx context.Context, tx DBTransaction, tenantID, itemID uuid.UUID, qty decimal.Decimal) (applied decimal.Decimal, err error)

	// AdjustInventoryItem applies a signed manual correction, clamped at zero.
	AdjustInventoryItem(ctx context.Context, tx DBTransaction, tenantID, itemID uuid.UUID, delta decimal.Decimal) error
}

// EquipmentStore tracks assets and their last-seen metadata.
type EquipmentStore interface {
	ListEquipment(ctx context.Context, tenantID uuid.UUID) ([]Equipment, error)

	// MarkEquipmentReturned sets the asset available and stamps its
	// last-seen job/crew/time. Returns sql.ErrNoRows for unknown assets.
	MarkEquipmentReturned(ctx context.Context, tx DBTransaction, tenantID, equipmentID, jobID uuid.UUID, crew string, at time.Time) error

	UpdateEquipmentStatus(ctx context.Context, tx DBTransaction, tenantID, equipmentID uuid.UUID, status EquipmentStatus) error
}

// UsageLogStore appends and reads the material audit trail.
type UsageLogStore interface {
	// AddUsageEntry appends one immutable audit row.
	AddUsageEntry(ctx context.Context, tx DBTransaction, entry *UsageLogEntry) error

	// GetJobUsage returns all entries for a job, oldest first.
	GetJobUsage(ctx context.Context, tenantID, jobID uuid.UUID) ([]UsageLogEntry, error)
}

// SettingsStore is the tenant-scoped key/value store.
type SettingsStore interface {
	GetSetting(ctx context.Context, tenantID uuid.UUID, key string) (*Setting, error)
	PutSetting(ctx context.Context, tenantID uuid.UUID, key, value string) error
}
