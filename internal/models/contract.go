package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is the coarse lifecycle status stored on a contract
type ContractStatus string

const (
	StatusDraft             ContractStatus = "DRAFT" // never persisted
	StatusActive            ContractStatus = "ACTIVE"
	StatusClosed            ContractStatus = "CLOSED"
	StatusClosedNotReceived ContractStatus = "CLOSED_NOT_RECEIVED"
	StatusCancelled         ContractStatus = "CANCELLED"
)

// DeliveryAddress is where the equipment is delivered
type DeliveryAddress struct {
	Text        string `json:"text"`
	Governorate string `json:"governorate"`
	Wilayat     string `json:"wilayat"`
	Region      string `json:"region"`
	Details     string `json:"details"`
	MapLink     string `json:"map_link" validate:"omitempty,url"`
}

// Contract is a rental agreement. Money totals are not stored here; they
// are derived from LineItems and Payments (see ContractView).
type Contract struct {
	ID                int              `json:"id"`
	ContractNumber    string           `json:"contract_number"`
	ContractDate      time.Time        `json:"contract_date"`
	CustomerID        int              `json:"customer_id"`
	CustomerName      string           `json:"customer_name,omitempty"` // Joined from customers table
	DeliveryAddress   DeliveryAddress  `json:"delivery_address"`
	TransportCost     decimal.Decimal  `json:"transport_cost"`
	TotalDiscount     decimal.Decimal  `json:"total_discount"`
	Status            ContractStatus   `json:"status"`
	SignedAt          *time.Time       `json:"signed_at"`
	CustomerSignature string           `json:"customer_signature,omitempty"`
	CompanySignature  string           `json:"company_signature,omitempty"`
	DeliveredAt       *time.Time       `json:"delivered_at"`
	Notes             string           `json:"notes"`
	CreatedByUserID   int              `json:"created_by_user_id"`
	LineItems         []RentalLineItem `json:"line_items"`
	Payments          []Payment        `json:"payments"`
	Attachments       []Attachment     `json:"attachments"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ContractDraft is the input for creating or editing a contract.
// Editing replaces the full line-item and payment collections.
type ContractDraft struct {
	CustomerID      int             `json:"customer_id" validate:"required,gt=0"`
	ContractNumber  string          `json:"contract_number" validate:"max=50"`
	ContractDate    Date            `json:"contract_date"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	TransportCost   decimal.Decimal `json:"transport_cost"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
	Notes           string          `json:"notes"`
	LineItems       []LineItemDraft `json:"line_items" validate:"dive"`
	Payments        []PaymentDraft  `json:"payments" validate:"dive"`
}

// StatusChangeRequest is the body of an explicit status transition
type StatusChangeRequest struct {
	Status ContractStatus `json:"status" validate:"required,oneof=ACTIVE CLOSED CLOSED_NOT_RECEIVED CANCELLED"`
}

// ContractFilter narrows contract listings
type ContractFilter struct {
	Status        ContractStatus `json:"status"`
	CustomerID    int            `json:"customer_id"`
	Search        string         `json:"search"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	OverdueOnly   bool           `json:"overdue_only"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
}
