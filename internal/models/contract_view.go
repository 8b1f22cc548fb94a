package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus summarizes how much of a contract has been paid
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Stages is the four-checkpoint progress indicator shown for a contract.
// It is display-only and never drives Status.
type Stages struct {
	Signed    bool `json:"signed"`
	Delivered bool `json:"delivered"`
	Inactive  bool `json:"inactive"`
	Completed bool `json:"completed"`
}

// ContractView is the read model: persisted fields plus everything derived
// from line items, payments and the evaluation date.
type ContractView struct {
	Contract
	EndDate            *time.Time      `json:"end_date"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalAfterDiscount decimal.Decimal `json:"total_after_discount"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	Overpaid           bool            `json:"overpaid"`
	PaymentStatus      PaymentStatus   `json:"payment_status"`
	IsOverdue          bool            `json:"is_overdue"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount"`
	OverdueDays        int             `json:"overdue_days"`
	Stages             Stages          `json:"stages"`
	EvaluatedAt        time.Time       `json:"evaluated_at"`
}

// Dashboard aggregates contract read models for the back-office home page
type Dashboard struct {
	TotalContracts   int                    `json:"total_contracts"`
	ByStatus         map[ContractStatus]int `json:"by_status"`
	ByPaymentStatus  map[PaymentStatus]int  `json:"by_payment_status"`
	TotalContracted  decimal.Decimal        `json:"total_contracted"`
	TotalCollected   decimal.Decimal        `json:"total_collected"`
	TotalOutstanding decimal.Decimal        `json:"total_outstanding"`
	OverdueCount     int                    `json:"overdue_count"`
	OverdueAmount    decimal.Decimal        `json:"overdue_amount"`
}
