package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodKind is the tag of a PaymentMethod
type PaymentMethodKind string

const (
	MethodCash         PaymentMethodKind = "CASH"
	MethodCheck        PaymentMethodKind = "CHECK"
	MethodCreditCard   PaymentMethodKind = "CREDIT_CARD"
	MethodBankTransfer PaymentMethodKind = "BANK_TRANSFER"
)

// CheckDetails carries the fields that exist only for check payments
type CheckDetails struct {
	Number    string     `json:"check_number"`
	BankName  string     `json:"bank_name"`
	CheckDate *time.Time `json:"check_date"`
	ImageKey  string     `json:"check_image,omitempty"`
}

// PaymentMethod is a tagged union: CASH | CREDIT_CARD | BANK_TRANSFER | CHECK{details}.
// Check details can only be attached through CheckPayment.
type PaymentMethod struct {
	kind  PaymentMethodKind
	check *CheckDetails
}

func CashPayment() PaymentMethod         { return PaymentMethod{kind: MethodCash} }
func CreditCardPayment() PaymentMethod   { return PaymentMethod{kind: MethodCreditCard} }
func BankTransferPayment() PaymentMethod { return PaymentMethod{kind: MethodBankTransfer} }

// CheckPayment builds a CHECK method carrying d
func CheckPayment(d CheckDetails) PaymentMethod {
	return PaymentMethod{kind: MethodCheck, check: &d}
}

// NewPaymentMethod builds a method from its tag. Check details are dropped
// for every kind other than CHECK.
func NewPaymentMethod(kind PaymentMethodKind, check *CheckDetails) (PaymentMethod, error) {
	switch kind {
	case MethodCash:
		return CashPayment(), nil
	case MethodCreditCard:
		return CreditCardPayment(), nil
	case MethodBankTransfer:
		return BankTransferPayment(), nil
	case MethodCheck:
		if check == nil {
			return CheckPayment(CheckDetails{}), nil
		}
		return CheckPayment(*check), nil
	}
	return PaymentMethod{}, fmt.Errorf("unknown payment method %q", kind)
}

func (m PaymentMethod) Kind() PaymentMethodKind { return m.kind }

// Check returns the check details when the method is CHECK
func (m PaymentMethod) Check() (CheckDetails, bool) {
	if m.kind != MethodCheck || m.check == nil {
		return CheckDetails{}, false
	}
	return *m.check, true
}

func (m PaymentMethod) IsZero() bool { return m.kind == "" }

type paymentMethodJSON struct {
	Type PaymentMethodKind `json:"type"`
	*CheckDetails
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentMethodJSON{Type: m.kind, CheckDetails: m.check})
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var raw paymentMethodJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	pm, err := NewPaymentMethod(raw.Type, raw.CheckDetails)
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

// Payment is an amount received against a contract. Payments are never
// edited; corrections are new payments or deletions.
type Payment struct {
	ID              int             `json:"id"`
	ContractID      int             `json:"contract_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	Method          PaymentMethod   `json:"method"`
	PaymentDate     time.Time       `json:"payment_date"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
	CreatedByUserID int             `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentDraft is the flat form a client submits. Check fields are kept
// only when PaymentMethod is CHECK. On contract edits a draft carrying the
// id of a recorded payment keeps that payment unchanged.
type PaymentDraft struct {
	ID            int               `json:"id"`
	PaymentMethod PaymentMethodKind `json:"payment_method" validate:"omitempty,oneof=CASH CHECK CREDIT_CARD BANK_TRANSFER"`
	PaymentDate   Date              `json:"payment_date"`
	Amount        decimal.Decimal   `json:"amount"`
	CheckNumber   string            `json:"check_number" validate:"max=50"`
	BankName      string            `json:"bank_name" validate:"max=100"`
	CheckDate     *Date             `json:"check_date"`
	CheckImageKey string            `json:"check_image"`
	Notes         string            `json:"notes"`
}

// ToPayment converts the draft into a payment
func (d PaymentDraft) ToPayment() (Payment, error) {
	var check *CheckDetails
	if d.PaymentMethod == MethodCheck {
		check = &CheckDetails{
			Number:   d.CheckNumber,
			BankName: d.BankName,
			ImageKey: d.CheckImageKey,
		}
		if d.CheckDate != nil && !d.CheckDate.IsZero() {
			t := d.CheckDate.Time
			check.CheckDate = &t
		}
	}
	method, err := NewPaymentMethod(d.PaymentMethod, check)
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		Method:      method,
		PaymentDate: d.PaymentDate.Time,
		Amount:      d.Amount,
		Notes:       d.Notes,
	}, nil
}

// PaymentResult is returned after a payment is recorded
type PaymentResult struct {
	Payment  Payment      `json:"payment"`
	Contract ContractView `json:"contract"`
}
