package rental

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"scaffold-backend/internal/models"
)

// Totals are the contract-level amounts derived from line items
type Totals struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalAfterDiscount decimal.Decimal `json:"total_after_discount"`
}

// ComputeContractTotals sums the line items, adds transport and subtracts
// the discount. Each line total is recomputed from its inputs; stored
// totals on the items are ignored.
func ComputeContractTotals(items []models.RentalLineItem, transportCost, totalDiscount decimal.Decimal) (Totals, error) {
	var errs ValidationErrors
	if len(items) == 0 {
		errs = append(errs, invalid("line_items", ErrNoLineItems))
	}
	for i, item := range items {
		errs = append(errs, ValidateLineItem(fmt.Sprintf("line_items[%d]", i), item)...)
	}
	errs = append(errs, validateAmount("transport_cost", transportCost)...)
	errs = append(errs, validateAmount("total_discount", totalDiscount)...)
	if err := errs.errOrNil(); err != nil {
		return Totals{}, err
	}

	totals := rawTotals(items, transportCost, totalDiscount)
	if totals.TotalAfterDiscount.IsNegative() {
		gross := totals.Subtotal.Add(transportCost)
		return Totals{}, violation("total_discount", ErrDiscountExceedsTotal,
			"discount %s exceeds subtotal plus transport %s", totalDiscount.StringFixed(MoneyPlaces), gross.StringFixed(MoneyPlaces))
	}
	return totals, nil
}

// rawTotals computes totals without validation, for read models of
// contracts that are already persisted
func rawTotals(items []models.RentalLineItem, transportCost, totalDiscount decimal.Decimal) Totals {
	lineTotals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		lineTotals[i] = ComputeLineTotal(item)
	}
	subtotal := sum(lineTotals)
	return Totals{
		Subtotal:           subtotal,
		TotalAfterDiscount: RoundMoney(subtotal.Add(transportCost).Sub(totalDiscount)),
	}
}

// ContractEndDate is the latest end date over all line items, or nil when
// no item has a computable end date
func ContractEndDate(items []models.RentalLineItem) *time.Time {
	var latest *time.Time
	for _, item := range items {
		end, ok := PreviewEndDate(item.StartDate, item.Duration, item.DurationType)
		if !ok {
			continue
		}
		if latest == nil || end.After(*latest) {
			e := end
			latest = &e
		}
	}
	return latest
}

// PrepareContract is the validation gate run before a contract is saved.
// It normalizes every line item, computes totals and replays the payments
// against the total. c is only modified when no error is returned.
func PrepareContract(c *models.Contract) (Totals, error) {
	var errs ValidationErrors
	items := make([]models.RentalLineItem, len(c.LineItems))
	for i, item := range c.LineItems {
		item.Position = i
		normalized, err := NormalizeLineItem(fmt.Sprintf("line_items[%d]", i), item)
		if err != nil {
			errs = append(errs, err.(ValidationErrors)...)
			continue
		}
		items[i] = normalized
	}
	if len(errs) > 0 {
		return Totals{}, errs
	}

	totals, err := ComputeContractTotals(items, c.TransportCost, c.TotalDiscount)
	if err != nil {
		return Totals{}, err
	}

	for i, p := range c.Payments {
		errs = append(errs, ValidatePayment(fmt.Sprintf("payments[%d]", i), p)...)
	}
	if len(errs) > 0 {
		return Totals{}, errs
	}
	payments := append([]models.Payment(nil), c.Payments...)
	summary := ComputePaymentSummary(totals.TotalAfterDiscount, payments)
	if summary.Overpaid {
		return Totals{}, violation("payments", ErrPaidExceedsTotal,
			"payments %s exceed contract total %s", summary.TotalPaid.StringFixed(MoneyPlaces), totals.TotalAfterDiscount.StringFixed(MoneyPlaces))
	}

	c.LineItems = items
	c.Payments = payments
	return totals, nil
}
