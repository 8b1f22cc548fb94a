package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment is a catalog record for a rentable scaffold component
type Equipment struct {
	ID          int             `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	StockQty    int             `json:"stock_qty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EquipmentRequest is the request body for creating or updating a catalog record
type EquipmentRequest struct {
	Code        string          `json:"code" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=500"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	StockQty    int             `json:"stock_qty" validate:"gte=0"`
}

// EquipmentSnapshot is the catalog data copied into a line item when the
// equipment is selected. Later catalog changes do not affect it.
type EquipmentSnapshot struct {
	EquipmentID int             `json:"equipment_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
}

// Snapshot captures the current catalog values of e
func (e *Equipment) Snapshot() EquipmentSnapshot {
	return EquipmentSnapshot{
		EquipmentID: e.ID,
		Code:        e.Code,
		Description: e.Description,
		DailyRate:   e.DailyRate,
		MonthlyRate: e.MonthlyRate,
	}
}
