package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/timeutil"
)

const currency = "OMR"

type ReportService struct {
	Contracts *ContractService
	Customers CustomerStore
}

func NewReportService(contracts *ContractService, customers CustomerStore) *ReportService {
	return &ReportService{Contracts: contracts, Customers: customers}
}

func formatMoney(d decimal.Decimal) string {
	return fmt.Sprintf("%s %s", d.StringFixed(rental.MoneyPlaces), currency)
}

func formatDate(t interface{ Format(string) string }) string {
	return t.Format("02-Jan-2006")
}

// ContractStatementPDF renders the statement of one contract
func (s *ReportService) ContractStatementPDF(ctx context.Context, id int) ([]byte, string, error) {
	v, err := s.Contracts.GetContract(ctx, id)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.Customers.Get(ctx, v.CustomerID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderStatement(v, customer)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("statement_%s.pdf", v.ContractNumber), nil
}

func (s *ReportService) renderStatement(v *models.ContractView, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Scaffold Rental - Contract Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Contract %s", v.ContractNumber), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", formatDate(v.ContractDate)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", v.Status), "RB", 1, "L", false, 0, "")
	endDate := "-"
	if v.EndDate != nil {
		endDate = formatDate(*v.EndDate)
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("End date: %s", endDate), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Payment: %s", v.PaymentStatus), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Company: %s", customer.CompanyName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Site: %s %s", v.DeliveryAddress.Wilayat, v.DeliveryAddress.Governorate), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Equipment", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Duration", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Start", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "End", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, item := range v.LineItems {
		unit := "days"
		if item.DurationType == models.DurationMonthly {
			unit = "months"
		}
		pdf.CellFormat(25, 6, item.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, truncate(item.Description, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d %s", item.Duration, unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatDate(item.StartDate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, formatDate(item.EndDate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatMoney(item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Financial Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Equipment: %s", formatMoney(v.Subtotal)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Transport: %s", formatMoney(v.TransportCost)), "1", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Discount: %s", formatMoney(v.TotalDiscount)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Total: %s", formatMoney(v.TotalAfterDiscount)), "1", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Paid: %s", formatMoney(v.TotalPaid)), "1", 1, "L", false, 0, "")

	if v.RemainingAmount.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Remaining: %s", formatMoney(v.RemainingAmount))
	if v.Overpaid {
		balanceText += " (overpaid)"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	if v.IsOverdue {
		pdf.Ln(3)
		pdf.SetFillColor(255, 200, 200)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, fmt.Sprintf("OVERDUE: %s for %d days", formatMoney(v.OverdueAmount), v.OverdueDays), "1", 1, "C", true, 0, "")
	}

	if len(v.Payments) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(40, 7, "Receipt #", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Method", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Check #", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range v.Payments {
			checkNo := ""
			if check, ok := p.Method.Check(); ok {
				checkNo = check.Number
			}
			pdf.CellFormat(40, 6, p.ReceiptNumber, "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, formatDate(p.PaymentDate), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, string(p.Method.Kind()), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, formatMoney(p.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, checkNo, "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// OverdueCSV lists every ACTIVE contract that is overdue today
func (s *ReportService) OverdueCSV(ctx context.Context) ([]byte, error) {
	views, err := s.Contracts.ListContracts(ctx, models.ContractFilter{Status: models.StatusActive, OverdueOnly: true})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Contract", "Customer", "Contract Date", "End Date",
		"Total", "Paid", "Overdue Amount", "Overdue Days",
	})
	for i, v := range views {
		endDate := ""
		if v.EndDate != nil {
			endDate = v.EndDate.Format(timeutil.DateLayout)
		}
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			v.ContractNumber,
			v.CustomerName,
			v.ContractDate.Format(timeutil.DateLayout),
			endDate,
			v.TotalAfterDiscount.StringFixed(rental.MoneyPlaces),
			v.TotalPaid.StringFixed(rental.MoneyPlaces),
			v.OverdueAmount.StringFixed(rental.MoneyPlaces),
			fmt.Sprintf("%d", v.OverdueDays),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
