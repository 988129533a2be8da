package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"foamworks/internal/completion"
	"foamworks/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mockStore is a hand-rolled StoreFactory for handler tests. Set only the
// function fields a test needs; untouched methods return zero values.
type mockStore struct {
	beginTxFunc             func(ctx context.Context) (store.Tx, error)
	pingFunc                func(ctx context.Context) error
	createTenantFunc        func(ctx context.Context, tenant *store.Tenant, hashedKey string) error
	getTenantByIDFunc       func(ctx context.Context, id uuid.UUID) (*store.Tenant, error)
	getTenantByHashFunc     func(ctx context.Context, hash string) (*store.Tenant, error)
	createJobFunc           func(ctx context.Context, tx store.DBTransaction, job *store.Job) error
	getJobByIDFunc          func(ctx context.Context, id uuid.UUID) (*store.Job, error)
	getJobForUpdateFunc     func(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Job, error)
	listJobsFunc            func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]store.Job, error)
	updateJobStatusFunc     func(ctx context.Context, tx store.DBTransaction, id uuid.UUID, from, to store.JobStatus) error
	updateExecStatusFunc    func(ctx context.Context, tx store.DBTransaction, id uuid.UUID, status store.ExecutionStatus) error
	finalizeFunc            func(ctx context.Context, tx store.DBTransaction, id uuid.UUID, actuals json.RawMessage, at time.Time) error
	getStockPoolFunc        func(ctx context.Context, tenantID uuid.UUID) (*store.StockPool, error)
	deductStockFunc         func(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
	restockPoolFunc         func(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) error
	createInventoryFunc     func(ctx context.Context, tx store.DBTransaction, item *store.InventoryItem) error
	listInventoryFunc       func(ctx context.Context, tenantID uuid.UUID) ([]store.InventoryItem, error)
	deductInventoryFunc     func(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error)
	adjustInventoryFunc     func(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, delta decimal.Decimal) error
	listEquipmentFunc       func(ctx context.Context, tenantID uuid.UUID) ([]store.Equipment, error)
	markReturnedFunc        func(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID, jobID uuid.UUID, crew string, at time.Time) error
	updateEquipStatusFunc   func(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID uuid.UUID, status store.EquipmentStatus) error
	addUsageEntryFunc       func(ctx context.Context, tx store.DBTransaction, entry *store.UsageLogEntry) error
	getJobUsageFunc         func(ctx context.Context, tenantID, jobID uuid.UUID) ([]store.UsageLogEntry, error)
	getSettingFunc          func(ctx context.Context, tenantID uuid.UUID, key string) (*store.Setting, error)
	putSettingFunc          func(ctx context.Context, tenantID uuid.UUID, key, value string) error
}

func (m *mockStore) BeginTx(ctx context.Context) (store.Tx, error) {
	if m.beginTxFunc != nil {
		return m.beginTxFunc(ctx)
	}
	return nil, sql.ErrConnDone
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockStore) CreateTenant(ctx context.Context, tenant *store.Tenant, hashedKey string) error {
	if m.createTenantFunc != nil {
		return m.createTenantFunc(ctx, tenant, hashedKey)
	}
	return nil
}

func (m *mockStore) GetTenantByID(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	if m.getTenantByIDFunc != nil {
		return m.getTenantByIDFunc(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetTenantByAPIKeyHash(ctx context.Context, hash string) (*store.Tenant, error) {
	if m.getTenantByHashFunc != nil {
		return m.getTenantByHashFunc(ctx, hash)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) CreateJob(ctx context.Context, tx store.DBTransaction, job *store.Job) error {
	if m.createJobFunc != nil {
		return m.createJobFunc(ctx, tx, job)
	}
	return nil
}

func (m *mockStore) GetJobByID(ctx context.Context, id uuid.UUID) (*store.Job, error) {
	if m.getJobByIDFunc != nil {
		return m.getJobByIDFunc(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetJobForUpdate(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Job, error) {
	if m.getJobForUpdateFunc != nil {
		return m.getJobForUpdateFunc(ctx, tx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) ListJobs(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]store.Job, error) {
	if m.listJobsFunc != nil {
		return m.listJobsFunc(ctx, tenantID, limit, offset)
	}
	return nil, nil
}

func (m *mockStore) UpdateJobStatus(ctx context.Context, tx store.DBTransaction, id uuid.UUID, from, to store.JobStatus) error {
	if m.updateJobStatusFunc != nil {
		return m.updateJobStatusFunc(ctx, tx, id, from, to)
	}
	return nil
}

func (m *mockStore) UpdateExecutionStatus(ctx context.Context, tx store.DBTransaction, id uuid.UUID, status store.ExecutionStatus) error {
	if m.updateExecStatusFunc != nil {
		return m.updateExecStatusFunc(ctx, tx, id, status)
	}
	return nil
}

func (m *mockStore) FinalizeJobCompletion(ctx context.Context, tx store.DBTransaction, id uuid.UUID, actuals json.RawMessage, at time.Time) error {
	if m.finalizeFunc != nil {
		return m.finalizeFunc(ctx, tx, id, actuals, at)
	}
	return nil
}

func (m *mockStore) GetStockPool(ctx context.Context, tenantID uuid.UUID) (*store.StockPool, error) {
	if m.getStockPoolFunc != nil {
		return m.getStockPoolFunc(ctx, tenantID)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) DeductStock(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if m.deductStockFunc != nil {
		return m.deductStockFunc(ctx, tx, tenantID, openCell, closedCell)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *mockStore) RestockPool(ctx context.Context, tx store.DBTransaction, tenantID uuid.UUID, openCell, closedCell decimal.Decimal) error {
	if m.restockPoolFunc != nil {
		return m.restockPoolFunc(ctx, tx, tenantID, openCell, closedCell)
	}
	return nil
}

func (m *mockStore) CreateInventoryItem(ctx context.Context, tx store.DBTransaction, item *store.InventoryItem) error {
	if m.createInventoryFunc != nil {
		return m.createInventoryFunc(ctx, tx, item)
	}
	return nil
}

func (m *mockStore) ListInventoryItems(ctx context.Context, tenantID uuid.UUID) ([]store.InventoryItem, error) {
	if m.listInventoryFunc != nil {
		return m.listInventoryFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockStore) DeductInventoryItem(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, qty decimal.Decimal) (decimal.Decimal, error) {
	if m.deductInventoryFunc != nil {
		return m.deductInventoryFunc(ctx, tx, tenantID, itemID, qty)
	}
	return decimal.Zero, nil
}

func (m *mockStore) AdjustInventoryItem(ctx context.Context, tx store.DBTransaction, tenantID, itemID uuid.UUID, delta decimal.Decimal) error {
	if m.adjustInventoryFunc != nil {
		return m.adjustInventoryFunc(ctx, tx, tenantID, itemID, delta)
	}
	return nil
}

func (m *mockStore) ListEquipment(ctx context.Context, tenantID uuid.UUID) ([]store.Equipment, error) {
	if m.listEquipmentFunc != nil {
		return m.listEquipmentFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockStore) MarkEquipmentReturned(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID, jobID uuid.UUID, crew string, at time.Time) error {
	if m.markReturnedFunc != nil {
		return m.markReturnedFunc(ctx, tx, tenantID, equipmentID, jobID, crew, at)
	}
	return nil
}

func (m *mockStore) UpdateEquipmentStatus(ctx context.Context, tx store.DBTransaction, tenantID, equipmentID uuid.UUID, status store.EquipmentStatus) error {
	if m.updateEquipStatusFunc != nil {
		return m.updateEquipStatusFunc(ctx, tx, tenantID, equipmentID, status)
	}
	return nil
}

func (m *mockStore) AddUsageEntry(ctx context.Context, tx store.DBTransaction, entry *store.UsageLogEntry) error {
	if m.addUsageEntryFunc != nil {
		return m.addUsageEntryFunc(ctx, tx, entry)
	}
	return nil
}

func (m *mockStore) GetJobUsage(ctx context.Context, tenantID, jobID uuid.UUID) ([]store.UsageLogEntry, error) {
	if m.getJobUsageFunc != nil {
		return m.getJobUsageFunc(ctx, tenantID, jobID)
	}
	return nil, nil
}

func (m *mockStore) GetSetting(ctx context.Context, tenantID uuid.UUID, key string) (*store.Setting, error) {
	if m.getSettingFunc != nil {
		return m.getSettingFunc(ctx, tenantID, key)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) PutSetting(ctx context.Context, tenantID uuid.UUID, key, value string) error {
	if m.putSettingFunc != nil {
		return m.putSettingFunc(ctx, tenantID, key, value)
	}
	return nil
}

// mockCompleter stubs the completion transaction.
type mockCompleter struct {
	completeFunc func(ctx context.Context, jobID uuid.UUID, actuals completion.Actuals) (*completion.Result, error)
}

func (m *mockCompleter) CompleteJob(ctx context.Context, jobID uuid.UUID, actuals completion.Actuals) (*completion.Result, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, jobID, actuals)
	}
	return &completion.Result{JobID: jobID, CompletedAt: time.Now().UTC()}, nil
}
