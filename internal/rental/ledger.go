package rental

import (
	"github.com/shopspring/decimal"

	"scaffold-backend/internal/models"
)

// PaymentSummary is the paid/remaining view of a contract. Remaining is
// signed: a negative value means the contract is overpaid.
type PaymentSummary struct {
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	Remaining     decimal.Decimal      `json:"remaining"`
	Overpaid      bool                 `json:"overpaid"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

// DisplayRemaining clamps Remaining at zero
func (s PaymentSummary) DisplayRemaining() decimal.Decimal {
	if s.Remaining.IsNegative() {
		return decimal.Zero
	}
	return s.Remaining
}

// ComputePaymentSummary folds payments into paid and remaining amounts
func ComputePaymentSummary(totalAfterDiscount decimal.Decimal, payments []models.Payment) PaymentSummary {
	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
	}
	paid := RoundMoney(sum(amounts))
	remaining := RoundMoney(totalAfterDiscount.Sub(paid))

	status := models.PaymentPartial
	switch {
	case remaining.Sign() <= 0:
		status = models.PaymentPaid
	case paid.IsZero():
		status = models.PaymentUnpaid
	}
	return PaymentSummary{
		TotalPaid:     paid,
		Remaining:     remaining,
		Overpaid:      remaining.IsNegative(),
		PaymentStatus: status,
	}
}

// ValidatePayment checks a single payment in isolation
func ValidatePayment(prefix string, p models.Payment) ValidationErrors {
	var errs ValidationErrors
	switch {
	case !p.Amount.IsPositive():
		errs = append(errs, invalid(prefix+".amount", ErrNonPositiveAmount))
	case !IsMoney(p.Amount):
		errs = append(errs, invalid(prefix+".amount", ErrTooManyDecimals))
	}
	switch p.Method.Kind() {
	case models.MethodCash, models.MethodCreditCard, models.MethodBankTransfer:
	case models.MethodCheck:
		check, _ := p.Method.Check()
		if check.Number == "" {
			errs = append(errs, invalid(prefix+".check_number", ErrMissingCheckDetails))
		}
		if check.BankName == "" {
			errs = append(errs, invalid(prefix+".bank_name", ErrMissingCheckDetails))
		}
		if check.CheckDate == nil || check.CheckDate.IsZero() {
			errs = append(errs, invalid(prefix+".check_date", ErrMissingCheckDetails))
		}
	default:
		errs = append(errs, invalid(prefix+".payment_method", ErrUnknownPaymentMethod))
	}
	return errs
}

// Ledger holds the payments of one contract against its total
type Ledger struct {
	total    decimal.Decimal
	payments []models.Payment
}

// NewLedger starts a ledger over a copy of payments
func NewLedger(totalAfterDiscount decimal.Decimal, payments []models.Payment) *Ledger {
	return &Ledger{
		total:    totalAfterDiscount,
		payments: append([]models.Payment(nil), payments...),
	}
}

// Summary recomputes the summary from the current payments
func (l *Ledger) Summary() PaymentSummary {
	return ComputePaymentSummary(l.total, l.payments)
}

// Payments returns a copy of the recorded payments
func (l *Ledger) Payments() []models.Payment {
	return append([]models.Payment(nil), l.payments...)
}

// Record appends p when it is valid and does not exceed the remaining
// balance. On error the ledger is unchanged.
func (l *Ledger) Record(p models.Payment) (PaymentSummary, error) {
	return l.record("payment", p)
}

func (l *Ledger) record(prefix string, p models.Payment) (PaymentSummary, error) {
	if errs := ValidatePayment(prefix, p); len(errs) > 0 {
		return l.Summary(), errs
	}
	current := l.Summary()
	if p.Amount.GreaterThan(current.Remaining) {
		return current, violation(prefix+".amount", ErrAmountExceedsRemaining,
			"amount %s exceeds remaining balance %s", p.Amount.StringFixed(MoneyPlaces), current.DisplayRemaining().StringFixed(MoneyPlaces))
	}
	l.payments = append(l.payments, p)
	return l.Summary(), nil
}

// Remove deletes the payment with the given id
func (l *Ledger) Remove(id int) (models.Payment, error) {
	for i, p := range l.payments {
		if p.ID == id {
			l.payments = append(l.payments[:i:i], l.payments[i+1:]...)
			return p, nil
		}
	}
	return models.Payment{}, NewNotFound("payment", id)
}

// RecordPayment checks input against the contract's current balance and
// appends it to c.Payments. Closed contracts still accept payments so that
// CLOSED_NOT_RECEIVED balances can be settled; cancelled ones do not.
// c is unchanged on error.
func RecordPayment(c *models.Contract, input models.Payment) (PaymentSummary, error) {
	if c.Status == models.StatusCancelled {
		return PaymentSummary{}, violation("status", ErrAlreadyFinalized, "contract %s is cancelled", c.ContractNumber)
	}
	totals := rawTotals(c.LineItems, c.TransportCost, c.TotalDiscount)
	ledger := NewLedger(totals.TotalAfterDiscount, c.Payments)
	input.ContractID = c.ID
	summary, err := ledger.Record(input)
	if err != nil {
		return summary, err
	}
	c.Payments = ledger.Payments()
	return summary, nil
}

// RemovePayment deletes a recorded payment from c. c is unchanged on error.
func RemovePayment(c *models.Contract, id int) (models.Payment, error) {
	if c.Status == models.StatusCancelled {
		return models.Payment{}, violation("status", ErrAlreadyFinalized, "contract %s is cancelled", c.ContractNumber)
	}
	totals := rawTotals(c.LineItems, c.TransportCost, c.TotalDiscount)
	ledger := NewLedger(totals.TotalAfterDiscount, c.Payments)
	removed, err := ledger.Remove(id)
	if err != nil {
		return removed, err
	}
	c.Payments = ledger.Payments()
	return removed, nil
}
