package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/models"
)

func TestPaymentsSettleContract(t *testing.T) {
	summary := ComputePaymentSummary(money("500"), []models.Payment{cash("200"), cash("300")})

	assertMoney(t, "500", summary.TotalPaid)
	assertMoney(t, "0", summary.Remaining)
	assert.Equal(t, models.PaymentPaid, summary.PaymentStatus)
	assert.False(t, summary.Overpaid)
}

func TestPaymentSummaryStatuses(t *testing.T) {
	assert.Equal(t, models.PaymentUnpaid, ComputePaymentSummary(money("500"), nil).PaymentStatus)
	assert.Equal(t, models.PaymentPartial, ComputePaymentSummary(money("500"), []models.Payment{cash("0.001")}).PaymentStatus)
	assert.Equal(t, models.PaymentPaid, ComputePaymentSummary(money("0"), nil).PaymentStatus)
}

func TestPaymentSummaryOrderIndependent(t *testing.T) {
	a := ComputePaymentSummary(money("1000"), []models.Payment{cash("0.1"), cash("0.2"), cash("333.333")})
	b := ComputePaymentSummary(money("1000"), []models.Payment{cash("333.333"), cash("0.2"), cash("0.1")})

	assert.True(t, a.TotalPaid.Equal(b.TotalPaid))
	assert.True(t, a.Remaining.Equal(b.Remaining))
	assert.Equal(t, a.PaymentStatus, b.PaymentStatus)
	assertMoney(t, "333.633", a.TotalPaid)
	assertMoney(t, "666.367", a.Remaining)
}

func TestPaymentSummaryKeepsSignedRemaining(t *testing.T) {
	summary := ComputePaymentSummary(money("100"), []models.Payment{cash("120")})
	assertMoney(t, "-20", summary.Remaining)
	assertMoney(t, "0", summary.DisplayRemaining())
	assert.True(t, summary.Overpaid)
	assert.Equal(t, models.PaymentPaid, summary.PaymentStatus)
}

func TestExactPaymentDrivesRemainingToZero(t *testing.T) {
	ledger := NewLedger(money("0.3"), []models.Payment{cash("0.1")})

	summary, err := ledger.Record(cash("0.2"))
	require.NoError(t, err)
	assert.True(t, summary.Remaining.IsZero(), "remaining %s", summary.Remaining)
	assert.Equal(t, models.PaymentPaid, summary.PaymentStatus)
}

func TestPaymentAfterFullSettlementIsRejected(t *testing.T) {
	ledger := NewLedger(money("500"), []models.Payment{cash("200"), cash("300")})

	_, err := ledger.Record(cash("50"))
	assert.ErrorIs(t, err, ErrAmountExceedsRemaining)
	assert.True(t, IsInvariant(err))
	assert.Len(t, ledger.Payments(), 2)
	assertMoney(t, "0", ledger.Summary().Remaining)
}

func TestPaymentAmountMustBePositive(t *testing.T) {
	ledger := NewLedger(money("500"), nil)

	_, err := ledger.Record(cash("0"))
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = ledger.Record(cash("-5"))
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
	assert.Empty(t, ledger.Payments())
}

func TestPaymentAmountPrecision(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
		status  models.PaymentStatus
	}{
		{"sub-baisa amount", "0.0004", ErrTooManyDecimals, ""},
		{"sub-baisa over remaining", "10.0004", ErrTooManyDecimals, ""},
		{"trailing zeros", "10.0000", nil, models.PaymentPaid},
		{"one baisa short", "9.999", nil, models.PaymentPartial},
		{"one baisa over", "10.001", ErrAmountExceedsRemaining, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger(money("10"), nil)
			summary, err := ledger.Record(cash(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, ledger.Payments())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, summary.PaymentStatus)
			require.Len(t, ledger.Payments(), 1)
			assertMoney(t, tt.amount, ledger.Payments()[0].Amount)
		})
	}

	fields := FieldErrors(ValidatePayment("payment", cash("0.0004")))
	require.Len(t, fields, 1)
	assert.Equal(t, "payment.amount", fields[0].Field)
}

func TestCheckPaymentRequiresDetails(t *testing.T) {
	ledger := NewLedger(money("500"), nil)

	p := models.Payment{Method: models.CheckPayment(models.CheckDetails{Number: "000123"}), Amount: money("50")}
	_, err := ledger.Record(p)
	assert.ErrorIs(t, err, ErrMissingCheckDetails)

	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "payment.bank_name", fields[0].Field)
	assert.Equal(t, "payment.check_date", fields[1].Field)

	checkDate := date(2024, 4, 1)
	p.Method = models.CheckPayment(models.CheckDetails{Number: "000123", BankName: "Bank Muscat", CheckDate: &checkDate})
	summary, err := ledger.Record(p)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, summary.PaymentStatus)
}

func TestUnknownPaymentMethodIsRejected(t *testing.T) {
	errs := ValidatePayment("payment", models.Payment{Amount: money("1")})
	assert.ErrorIs(t, errs, ErrUnknownPaymentMethod)
}

func TestLedgerRemove(t *testing.T) {
	p := cash("100")
	p.ID = 42
	ledger := NewLedger(money("500"), []models.Payment{p})

	_, err := ledger.Remove(7)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := ledger.Remove(42)
	require.NoError(t, err)
	assert.Equal(t, 42, removed.ID)
	assert.Equal(t, models.PaymentUnpaid, ledger.Summary().PaymentStatus)
}

func TestRecordPaymentOnContract(t *testing.T) {
	c := sampleContract()

	summary, err := RecordPayment(&c, cash("200"))
	require.NoError(t, err)
	assertMoney(t, "300", summary.Remaining)
	require.Len(t, c.Payments, 1)
	assert.Equal(t, c.ID, c.Payments[0].ContractID)

	_, err = RecordPayment(&c, cash("300.001"))
	assert.ErrorIs(t, err, ErrAmountExceedsRemaining)
	assert.Len(t, c.Payments, 1)
}

func TestRecordPaymentOnCancelledContract(t *testing.T) {
	c := sampleContract()
	c.Status = models.StatusCancelled
	_, err := RecordPayment(&c, cash("10"))
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	c.Status = models.StatusClosedNotReceived
	_, err = RecordPayment(&c, cash("10"))
	assert.NoError(t, err)
}

func TestPaymentDraftClearsCheckFieldsForOtherMethods(t *testing.T) {
	d := models.PaymentDraft{
		PaymentMethod: models.MethodBankTransfer,
		PaymentDate:   models.NewDate(date(2024, 1, 2)),
		Amount:        money("10"),
		CheckNumber:   "1",
		BankName:      "Bank",
	}
	p, err := d.ToPayment()
	require.NoError(t, err)
	_, ok := p.Method.Check()
	assert.False(t, ok)
	assert.Equal(t, models.MethodBankTransfer, p.Method.Kind())
	assert.Equal(t, date(2024, 1, 2), p.PaymentDate)

	checkDate := models.NewDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	d.PaymentMethod = models.MethodCheck
	d.CheckDate = &checkDate
	p, err = d.ToPayment()
	require.NoError(t, err)
	check, ok := p.Method.Check()
	require.True(t, ok)
	assert.Equal(t, "Bank", check.BankName)
	assert.Empty(t, ValidatePayment("payment", p))
}

func TestRemovePaymentFromContract(t *testing.T) {
	c := sampleContract()
	p := cash("100")
	p.ID = 3
	c.Payments = []models.Payment{p}

	_, err := RemovePayment(&c, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, c.Payments, 1)

	c.Status = models.StatusCancelled
	_, err = RemovePayment(&c, 3)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	c.Status = models.StatusClosed
	removed, err := RemovePayment(&c, 3)
	require.NoError(t, err)
	assertMoney(t, "100", removed.Amount)
	assert.Empty(t, c.Payments)
}
