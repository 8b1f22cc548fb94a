package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DurationType selects which rate a line item is billed at
type DurationType string

const (
	DurationDaily   DurationType = "DAILY"
	DurationMonthly DurationType = "MONTHLY"
)

// Valid reports whether d is a known duration type
func (d DurationType) Valid() bool {
	return d == DurationDaily || d == DurationMonthly
}

// RentalLineItem is one equipment booking under a contract.
// EndDate and Total are derived; they are recomputed on every save and read.
type RentalLineItem struct {
	ID           int             `json:"id"`
	ContractID   int             `json:"contract_id"`
	Position     int             `json:"position"`
	EquipmentID  *int            `json:"equipment_id"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	StartDate    time.Time       `json:"start_date"`
	DurationType DurationType    `json:"duration_type"`
	Duration     int             `json:"duration"`
	Quantity     int             `json:"quantity"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	MonthlyRate  decimal.Decimal `json:"monthly_rate"`
	EndDate      time.Time       `json:"end_date"`
	Total        decimal.Decimal `json:"total"`
}

// ApplySnapshot overwrites the catalog-sourced fields of the item
func (li *RentalLineItem) ApplySnapshot(s EquipmentSnapshot) {
	id := s.EquipmentID
	li.EquipmentID = &id
	li.Code = s.Code
	li.Description = s.Description
	li.DailyRate = s.DailyRate
	li.MonthlyRate = s.MonthlyRate
}

// LineItemDraft is a line item as submitted by a client
type LineItemDraft struct {
	EquipmentID  *int             `json:"equipment_id"`
	Code         string           `json:"code" validate:"max=50"`
	Description  string           `json:"description" validate:"max=500"`
	StartDate    Date             `json:"start_date"`
	DurationType DurationType     `json:"duration_type" validate:"required,oneof=DAILY MONTHLY"`
	Duration     int              `json:"duration" validate:"gt=0"`
	Quantity     int              `json:"quantity" validate:"gt=0"`
	DailyRate    *decimal.Decimal `json:"daily_rate"`
	MonthlyRate  *decimal.Decimal `json:"monthly_rate"`
}

// ToLineItem converts the draft into a line item. Rates left nil are
// filled from the catalog snapshot by the caller.
func (d LineItemDraft) ToLineItem(position int) RentalLineItem {
	li := RentalLineItem{
		Position:     position,
		EquipmentID:  d.EquipmentID,
		Code:         d.Code,
		Description:  d.Description,
		StartDate:    d.StartDate.Time,
		DurationType: d.DurationType,
		Duration:     d.Duration,
		Quantity:     d.Quantity,
	}
	if d.DailyRate != nil {
		li.DailyRate = *d.DailyRate
	}
	if d.MonthlyRate != nil {
		li.MonthlyRate = *d.MonthlyRate
	}
	return li
}

// NeedsSnapshot reports whether rates must be taken from the catalog
func (d LineItemDraft) NeedsSnapshot() bool {
	return d.EquipmentID != nil && (d.DailyRate == nil || d.MonthlyRate == nil)
}
