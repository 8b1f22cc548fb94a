package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
)

func newReportFixture(t *testing.T) (*ReportService, *ContractService) {
	t.Helper()
	contracts, _, _ := newContractService()
	customers := newFakeCustomers()
	require.NoError(t, customers.Create(context.Background(), &models.Customer{Name: "Al Noor Contracting", Phone: "+968 9123 4567"}))
	return NewReportService(contracts, customers), contracts
}

func TestContractStatementPDF(t *testing.T) {
	defer fixClock(2024, 6, 11)()
	reports, contracts := newReportFixture(t)
	ctx := context.Background()

	draft := sampleDraft()
	checkDate := day(2024, 3, 2)
	draft.Payments = []models.PaymentDraft{{
		PaymentMethod: models.MethodCheck, Amount: money("120"),
		CheckNumber: "000123", BankName: "Bank Muscat", CheckDate: &checkDate,
	}}
	created, err := contracts.CreateContract(ctx, draft, 1)
	require.NoError(t, err)

	data, name, err := reports.ContractStatementPDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "statement_CNT-000001.pdf", name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, _, err = reports.ContractStatementPDF(ctx, 404)
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func TestOverdueCSV(t *testing.T) {
	ctx := context.Background()
	restore := fixClock(2024, 3, 1)
	reports, contracts := newReportFixture(t)

	paid := sampleDraft()
	paid.Payments = []models.PaymentDraft{*cashDraft("500")}
	_, err := contracts.CreateContract(ctx, paid, 1)
	require.NoError(t, err)
	partial := sampleDraft()
	partial.Payments = []models.PaymentDraft{*cashDraft("380")}
	_, err = contracts.CreateContract(ctx, partial, 1)
	require.NoError(t, err)
	cancelled, err := contracts.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)
	_, err = contracts.ChangeStatus(ctx, cancelled.ID, &models.StatusChangeRequest{Status: models.StatusCancelled}, 1)
	require.NoError(t, err)
	restore()

	defer fixClock(2024, 6, 11)()
	data, err := reports.OverdueCSV(ctx)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Contract", rows[0][1])
	assert.Equal(t, "CNT-000002", rows[1][1])
	assert.Equal(t, "2024-06-01", rows[1][4])
	assert.Equal(t, "120.000", rows[1][7])
	assert.Equal(t, "10", rows[1][8])
}
