package rental

import (
	"time"

	"github.com/shopspring/decimal"

	"scaffold-backend/internal/timeutil"
)

// Overdue is the delinquency of a contract on a given day. It is always
// derived at evaluation time and never stored.
type Overdue struct {
	IsOverdue bool            `json:"is_overdue"`
	Amount    decimal.Decimal `json:"overdue_amount"`
	Days      int             `json:"overdue_days"`
}

// ComputeOverdue reports a contract as overdue when today is past its end
// date and a balance is still outstanding. Days counts whole calendar days;
// both dates are compared by their calendar fields, so today should be in
// the business timezone.
func ComputeOverdue(endDate *time.Time, remaining decimal.Decimal, today time.Time) Overdue {
	if endDate == nil || endDate.IsZero() || !remaining.IsPositive() {
		return Overdue{Amount: decimal.Zero}
	}
	days := timeutil.DaysBetween(*endDate, today)
	if days <= 0 {
		return Overdue{Amount: decimal.Zero}
	}
	return Overdue{IsOverdue: true, Amount: remaining, Days: days}
}
