package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
)

func newContractService() (*ContractService, *fakeContracts, *recordingPublisher) {
	repo := newFakeContracts()
	events := &recordingPublisher{}
	equipment := newFakeEquipment(&models.Equipment{
		ID: 9, Code: "FRM-200", Description: "Frame 200cm", DailyRate: money("5"), MonthlyRate: money("120"),
	})
	return NewContractService(repo, equipment, newFakeObjects(), events), repo, events
}

func TestCreateContract(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, events := newContractService()

	draft := sampleDraft()
	draft.Payments = []models.PaymentDraft{*cashDraft("200")}
	v, err := svc.CreateContract(context.Background(), draft, 4)
	require.NoError(t, err)

	assert.Equal(t, "CNT-000001", v.ContractNumber)
	assert.Equal(t, models.StatusActive, v.Status)
	assert.Equal(t, 4, v.CreatedByUserID)
	assert.True(t, money("550").Equal(v.Subtotal))
	assert.True(t, money("500").Equal(v.TotalAfterDiscount))
	assert.True(t, money("300").Equal(v.RemainingAmount))
	assert.Equal(t, models.PaymentPartial, v.PaymentStatus)
	require.Len(t, v.Payments, 1)
	assert.Equal(t, "RCP-000001", v.Payments[0].ReceiptNumber)
	assert.Equal(t, 2024, v.Payments[0].PaymentDate.Year(), "payment date defaults to today")
	assert.Equal(t, []models.EventType{models.EventContractCreated}, events.types())
}

func TestCreateContractKeepsGivenNumber(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, _ := newContractService()

	draft := sampleDraft()
	draft.ContractNumber = " MCT-77 "
	v, err := svc.CreateContract(context.Background(), draft, 1)
	require.NoError(t, err)
	assert.Equal(t, "MCT-77", v.ContractNumber)
}

func TestCreateContractReportsFieldPaths(t *testing.T) {
	svc, repo, _ := newContractService()

	draft := sampleDraft()
	draft.CustomerID = 0
	draft.LineItems[1].Duration = 0
	_, err := svc.CreateContract(context.Background(), draft, 1)
	require.Error(t, err)
	assert.True(t, rental.IsValidation(err))

	fields := map[string]bool{}
	for _, fe := range rental.FieldErrors(err) {
		fields[fe.Field] = true
	}
	assert.True(t, fields["customer_id"], fields)
	assert.True(t, fields["line_items[1].duration"], fields)
	assert.Empty(t, repo.rows)
}

func TestCreateContractRejectsOverpayment(t *testing.T) {
	svc, repo, _ := newContractService()

	draft := sampleDraft()
	draft.Payments = []models.PaymentDraft{*cashDraft("400"), *cashDraft("100.001")}
	_, err := svc.CreateContract(context.Background(), draft, 1)
	assert.ErrorIs(t, err, rental.ErrPaidExceedsTotal)
	assert.Empty(t, repo.rows)
}

func TestCreateContractTakesCatalogSnapshot(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, _ := newContractService()

	draft := sampleDraft()
	draft.LineItems[0] = models.LineItemDraft{
		EquipmentID:  intPtr(9),
		StartDate:    day(2024, 3, 1),
		DurationType: models.DurationDaily,
		Duration:     10,
		Quantity:     2,
		MonthlyRate:  moneyPtr("99"),
	}
	v, err := svc.CreateContract(context.Background(), draft, 1)
	require.NoError(t, err)

	item := v.LineItems[0]
	assert.Equal(t, "FRM-200", item.Code)
	assert.Equal(t, "Frame 200cm", item.Description)
	assert.True(t, money("5").Equal(item.DailyRate))
	assert.True(t, money("99").Equal(item.MonthlyRate), "typed rate wins over the catalog")
	assert.True(t, money("100").Equal(item.Total))
}

func TestCreateContractUnknownEquipment(t *testing.T) {
	svc, _, _ := newContractService()

	draft := sampleDraft()
	draft.LineItems[0].EquipmentID = intPtr(404)
	draft.LineItems[0].DailyRate = nil
	_, err := svc.CreateContract(context.Background(), draft, 1)
	require.True(t, rental.IsValidation(err))
	assert.ErrorIs(t, err, rental.ErrMissingEquipment)
	assert.Equal(t, "line_items[0].equipment_id", rental.FieldErrors(err)[0].Field)
}

func TestUpdateContractKeepsRecordedPayments(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, _ := newContractService()
	ctx := context.Background()

	draft := sampleDraft()
	draft.Payments = []models.PaymentDraft{*cashDraft("200")}
	created, err := svc.CreateContract(ctx, draft, 1)
	require.NoError(t, err)
	kept := created.Payments[0]

	draft.Notes = "second crew"
	draft.Payments = []models.PaymentDraft{{ID: kept.ID}, *cashDraft("50")}
	v, err := svc.UpdateContract(ctx, created.ID, draft, 1)
	require.NoError(t, err)

	require.Len(t, v.Payments, 2)
	assert.Equal(t, kept.ID, v.Payments[0].ID)
	assert.Equal(t, kept.ReceiptNumber, v.Payments[0].ReceiptNumber)
	assert.Equal(t, "second crew", v.Notes)
	assert.True(t, money("250").Equal(v.RemainingAmount))

	draft.Payments = []models.PaymentDraft{{ID: 999}}
	_, err = svc.UpdateContract(ctx, created.ID, draft, 1)
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func TestUpdateContractRejectsRepeatedPaymentID(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, _ := newContractService()
	ctx := context.Background()

	draft := sampleDraft()
	draft.Payments = []models.PaymentDraft{*cashDraft("200")}
	created, err := svc.CreateContract(ctx, draft, 1)
	require.NoError(t, err)
	kept := created.Payments[0].ID

	draft.Payments = []models.PaymentDraft{{ID: kept}, {ID: kept}}
	_, err = svc.UpdateContract(ctx, created.ID, draft, 1)
	assert.ErrorIs(t, err, rental.ErrDuplicatePayment)
	require.True(t, rental.IsValidation(err))
	assert.Equal(t, "payments[1].id", rental.FieldErrors(err)[0].Field)

	v, err := svc.GetContract(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, v.Payments, 1)
	assert.True(t, money("200").Equal(v.TotalPaid))
}

func TestUpdateContractRejectsTotalBelowPayments(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, repo, _ := newContractService()
	ctx := context.Background()

	draft := sampleDraft()
	draft.Payments = []models.PaymentDraft{*cashDraft("450")}
	created, err := svc.CreateContract(ctx, draft, 1)
	require.NoError(t, err)

	draft.Payments = []models.PaymentDraft{{ID: created.Payments[0].ID}}
	draft.TotalDiscount = money("200")
	_, err = svc.UpdateContract(ctx, created.ID, draft, 1)
	assert.ErrorIs(t, err, rental.ErrPaidExceedsTotal)
	assert.True(t, money("100").Equal(repo.rows[created.ID].TotalDiscount), "stored contract unchanged")
}

func TestUpdateContractGuards(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, _ := newContractService()
	ctx := context.Background()

	created, err := svc.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)

	renumbered := sampleDraft()
	renumbered.ContractNumber = "OTHER-1"
	_, err = svc.UpdateContract(ctx, created.ID, renumbered, 1)
	assert.ErrorIs(t, err, rental.ErrConflict)

	_, err = svc.ChangeStatus(ctx, created.ID, &models.StatusChangeRequest{Status: models.StatusClosed}, 1)
	require.NoError(t, err)
	_, err = svc.UpdateContract(ctx, created.ID, sampleDraft(), 1)
	assert.ErrorIs(t, err, rental.ErrAlreadyFinalized)

	_, err = svc.UpdateContract(ctx, 404, sampleDraft(), 1)
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func TestChangeStatus(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, events := newContractService()
	ctx := context.Background()

	created, err := svc.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)

	v, err := svc.ChangeStatus(ctx, created.ID, &models.StatusChangeRequest{Status: models.StatusClosedNotReceived}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosedNotReceived, v.Status)
	assert.True(t, v.Stages.Completed)

	_, err = svc.ChangeStatus(ctx, created.ID, &models.StatusChangeRequest{Status: models.StatusActive}, 1)
	assert.ErrorIs(t, err, rental.ErrAlreadyFinalized)

	_, err = svc.ChangeStatus(ctx, created.ID, &models.StatusChangeRequest{Status: "DRAFT"}, 1)
	assert.True(t, rental.IsValidation(err))

	assert.Equal(t, []models.EventType{models.EventContractCreated, models.EventStatusChanged}, events.types())
}

func TestMarkDelivered(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, _, events := newContractService()
	ctx := context.Background()

	created, err := svc.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)

	v, err := svc.MarkDelivered(ctx, created.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, v.DeliveredAt)
	assert.True(t, v.Stages.Delivered)
	first := *v.DeliveredAt

	defer fixClock(2024, 3, 9)()
	v, err = svc.MarkDelivered(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.True(t, first.Equal(*v.DeliveredAt))
	assert.Len(t, events.events, 2)
}

func TestListContractsFilters(t *testing.T) {
	ctx := context.Background()
	restore := fixClock(2024, 3, 1)
	svc, _, _ := newContractService()

	paid := sampleDraft()
	paid.Payments = []models.PaymentDraft{*cashDraft("500")}
	_, err := svc.CreateContract(ctx, paid, 1)
	require.NoError(t, err)
	_, err = svc.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)
	partial := sampleDraft()
	partial.Payments = []models.PaymentDraft{*cashDraft("100")}
	_, err = svc.CreateContract(ctx, partial, 1)
	require.NoError(t, err)
	restore()

	// The last item ends on 2024-06-01
	defer fixClock(2024, 6, 11)()

	all, err := svc.ListContracts(ctx, models.ContractFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unpaid, err := svc.ListContracts(ctx, models.ContractFilter{PaymentStatus: models.PaymentUnpaid})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "CNT-000002", unpaid[0].ContractNumber)

	overdue, err := svc.ListContracts(ctx, models.ContractFilter{OverdueOnly: true})
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, 10, overdue[0].OverdueDays)

	page, err := svc.ListContracts(ctx, models.ContractFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "CNT-000002", page[0].ContractNumber)

	empty, err := svc.ListContracts(ctx, models.ContractFilter{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalContracts)
	assert.Equal(t, 2, d.OverdueCount)
	assert.True(t, money("900").Equal(d.OverdueAmount))
}

func TestDeleteContract(t *testing.T) {
	defer fixClock(2024, 3, 5)()
	svc, repo, _ := newContractService()
	ctx := context.Background()

	withPayment := sampleDraft()
	withPayment.Payments = []models.PaymentDraft{*cashDraft("10")}
	blocked, err := svc.CreateContract(ctx, withPayment, 1)
	require.NoError(t, err)
	err = svc.DeleteContract(ctx, blocked.ID, 1)
	assert.ErrorIs(t, err, rental.ErrConflict)

	free, err := svc.CreateContract(ctx, sampleDraft(), 1)
	require.NoError(t, err)
	objects := svc.Files.(*fakeObjects)
	objects.objects["contracts/2/attachments/a.pdf"] = []byte("pdf")
	repo.rows[free.ID].Attachments = []models.Attachment{{ID: 1, ContractID: free.ID, Path: "contracts/2/attachments/a.pdf"}}

	require.NoError(t, svc.DeleteContract(ctx, free.ID, 1))
	assert.NotContains(t, repo.rows, free.ID)
	assert.Empty(t, objects.objects)

	assert.ErrorIs(t, svc.DeleteContract(ctx, free.ID, 1), rental.ErrNotFound)
}
