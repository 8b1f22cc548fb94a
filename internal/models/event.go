package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a contract change broadcast on the ops feed
type EventType string

const (
	EventContractCreated   EventType = "contract.created"
	EventContractUpdated   EventType = "contract.updated"
	EventContractDeleted   EventType = "contract.deleted"
	EventStatusChanged     EventType = "contract.status_changed"
	EventContractDelivered EventType = "contract.delivered"
	EventContractSigned    EventType = "contract.signed"
	EventPaymentRecorded   EventType = "payment.recorded"
	EventPaymentDeleted    EventType = "payment.deleted"
	EventAttachmentAdded   EventType = "attachment.added"
)

// ContractEvent is one entry of the ops feed
type ContractEvent struct {
	Type           EventType        `json:"type"`
	ContractID     int              `json:"contract_id"`
	ContractNumber string           `json:"contract_number"`
	Status         ContractStatus   `json:"status,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	UserID         int              `json:"user_id,omitempty"`
	At             time.Time        `json:"at"`
}
