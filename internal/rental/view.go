package rental

import (
	"time"

	"scaffold-backend/internal/models"
)

// BuildView derives the read model of c as of today. It never fails:
// persisted contracts already passed PrepareContract.
func BuildView(c models.Contract, today time.Time) models.ContractView {
	items := make([]models.RentalLineItem, len(c.LineItems))
	for i, item := range c.LineItems {
		if end, ok := PreviewEndDate(item.StartDate, item.Duration, item.DurationType); ok {
			item.EndDate = end
		}
		item.Total = ComputeLineTotal(item)
		items[i] = item
	}
	c.LineItems = items

	totals := rawTotals(items, c.TransportCost, c.TotalDiscount)
	summary := ComputePaymentSummary(totals.TotalAfterDiscount, c.Payments)
	endDate := ContractEndDate(items)
	overdue := ComputeOverdue(endDate, summary.Remaining, today)

	return models.ContractView{
		Contract:           c,
		EndDate:            endDate,
		Subtotal:           totals.Subtotal,
		TotalAfterDiscount: totals.TotalAfterDiscount,
		TotalPaid:          summary.TotalPaid,
		RemainingAmount:    summary.DisplayRemaining(),
		Overpaid:           summary.Overpaid,
		PaymentStatus:      summary.PaymentStatus,
		IsOverdue:          overdue.IsOverdue,
		OverdueAmount:      overdue.Amount,
		OverdueDays:        overdue.Days,
		Stages:             ComputeStages(&c, endDate, summary.Remaining, today),
		EvaluatedAt:        today,
	}
}

// Summarize aggregates read models into dashboard figures
func Summarize(views []models.ContractView) models.Dashboard {
	d := models.Dashboard{
		ByStatus:        map[models.ContractStatus]int{},
		ByPaymentStatus: map[models.PaymentStatus]int{},
	}
	for _, v := range views {
		d.TotalContracts++
		d.ByStatus[v.Status]++
		d.ByPaymentStatus[v.PaymentStatus]++
		if v.Status == models.StatusCancelled {
			continue
		}
		d.TotalContracted = d.TotalContracted.Add(v.TotalAfterDiscount)
		d.TotalCollected = d.TotalCollected.Add(v.TotalPaid)
		d.TotalOutstanding = d.TotalOutstanding.Add(v.RemainingAmount)
		if v.IsOverdue {
			d.OverdueCount++
			d.OverdueAmount = d.OverdueAmount.Add(v.OverdueAmount)
		}
	}
	return d
}
