// Package completion implements the inventory-safe job completion
// transaction: a crew's reported actuals are applied to the job and the
// tenant's shared stock in a single atomic unit of work.
package completion

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemUsage is one (inventory item, consumed quantity) pair.
type ItemUsage struct {
	ItemID   uuid.UUID       `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// Actuals is the crew-submitted consumption report. Quantities must be
// non-negative; anything outside this shape is rejected before the
// transaction begins.
type Actuals struct {
	OpenCellSets   decimal.Decimal `json:"open_cell_sets" validate:"gte=0"`
	ClosedCellSets decimal.Decimal `json:"closed_cell_sets" validate:"gte=0"`
	LaborHours     decimal.Decimal `json:"labor_hours" validate:"gte=0"`
	Items          []ItemUsage     `json:"items,omitempty" validate:"dive"`
	EquipmentIDs   []uuid.UUID     `json:"equipment_ids,omitempty"`
	CrewMember     string          `json:"crew_member" validate:"required"`
	Notes          string          `json:"notes,omitempty"`
}

var validate = newValidator()

// newValidator registers a type func so decimal quantities can use the
// numeric tags (gte=0 etc.) directly.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks the payload shape and quantity signs.
func (a *Actuals) Validate() error {
	if err := validate.Struct(a); err != nil {
		return &InvalidActualsError{Reason: err.Error()}
	}

	// Duplicate item references would produce two log entries for the same
	// material within one completion, which the audit contract forbids.
	seen := make(map[uuid.UUID]bool, len(a.Items))
	for _, item := range a.Items {
		if seen[item.ItemID] {
			return &InvalidActualsError{Reason: "duplicate inventory item " + item.ItemID.String()}
		}
		seen[item.ItemID] = true
	}

	seenEquipment := make(map[uuid.UUID]bool, len(a.EquipmentIDs))
	for _, id := range a.EquipmentIDs {
		if id == uuid.Nil {
			return &InvalidActualsError{Reason: "equipment id must not be empty"}
		}
		if seenEquipment[id] {
			return &InvalidActualsError{Reason: "duplicate equipment id " + id.String()}
		}
		seenEquipment[id] = true
	}

	return nil
}
