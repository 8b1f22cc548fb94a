package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/timeutil"
)

// ContractService runs every contract mutation through the rental engine
// before anything is persisted. Read models are rebuilt on each request.
type ContractService struct {
	Repo      ContractStore
	Equipment EquipmentReader
	Files     ObjectStore
	Events    EventPublisher
	log       *logrus.Entry
}

func NewContractService(repo ContractStore, equipment EquipmentReader, files ObjectStore, events EventPublisher) *ContractService {
	return &ContractService{
		Repo:      repo,
		Equipment: equipment,
		Files:     files,
		Events:    events,
		log:       logging.For("contracts"),
	}
}

// CreateContract validates draft and stores it as an ACTIVE contract
func (s *ContractService) CreateContract(ctx context.Context, draft *models.ContractDraft, userID int) (*models.ContractView, error) {
	if err := ValidateStruct(draft); err != nil {
		return nil, observe("create_contract", err)
	}
	items, err := s.buildLineItems(ctx, draft.LineItems)
	if err != nil {
		return nil, observe("create_contract", err)
	}

	c := &models.Contract{
		ContractNumber:  strings.TrimSpace(draft.ContractNumber),
		ContractDate:    timeutil.Today(),
		Status:          models.StatusActive,
		CreatedByUserID: userID,
	}
	if err := applyDraft(c, draft, items, nil, userID); err != nil {
		return nil, observe("create_contract", err)
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	metrics.ContractsCreated.Inc()
	for _, p := range c.Payments {
		metrics.PaymentsRecorded.WithLabelValues(string(p.Method.Kind())).Inc()
	}
	s.log.WithFields(logrus.Fields{"contract": c.ContractNumber, "user_id": userID}).Info("Contract created")
	s.emit(models.EventContractCreated, c, userID)
	return view(c), nil
}

// UpdateContract replaces the editable fields, line items and payments of
// a non-terminal contract. Payments sent back with their id are kept as
// recorded.
func (s *ContractService) UpdateContract(ctx context.Context, id int, draft *models.ContractDraft, userID int) (*models.ContractView, error) {
	if err := ValidateStruct(draft); err != nil {
		return nil, observe("update_contract", err)
	}
	items, err := s.buildLineItems(ctx, draft.LineItems)
	if err != nil {
		return nil, observe("update_contract", err)
	}

	c, err := s.Repo.Mutate(ctx, id, func(c *models.Contract) error {
		if err := rental.CanEdit(c); err != nil {
			return err
		}
		if number := strings.TrimSpace(draft.ContractNumber); number != "" && number != c.ContractNumber {
			return rental.Conflict("contract_number", "contract number %s cannot be changed", c.ContractNumber)
		}
		return applyDraft(c, draft, items, c.Payments, userID)
	})
	if err != nil {
		return nil, observe("update_contract", err)
	}
	s.emit(models.EventContractUpdated, c, userID)
	return view(c), nil
}

func (s *ContractService) GetContract(ctx context.Context, id int) (*models.ContractView, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(c), nil
}

// ListContracts returns read models matching filter. Payment status and
// overdue filters depend on today's date, so they run after loading.
func (s *ContractService) ListContracts(ctx context.Context, filter models.ContractFilter) ([]models.ContractView, error) {
	contracts, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := timeutil.Today()
	views := make([]models.ContractView, 0, len(contracts))
	for _, c := range contracts {
		v := rental.BuildView(c, today)
		if filter.PaymentStatus != "" && v.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.OverdueOnly && !v.IsOverdue {
			continue
		}
		views = append(views, v)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(views) {
			return []models.ContractView{}, nil
		}
		views = views[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(views) {
		views = views[:filter.Limit]
	}
	return views, nil
}

// ChangeStatus applies an explicit lifecycle transition
func (s *ContractService) ChangeStatus(ctx context.Context, id int, req *models.StatusChangeRequest, userID int) (*models.ContractView, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, observe("change_status", err)
	}
	var from models.ContractStatus
	c, err := s.Repo.Mutate(ctx, id, func(c *models.Contract) error {
		from = c.Status
		return rental.Transition(c, req.Status)
	})
	if err != nil {
		return nil, observe("change_status", err)
	}
	if from != c.Status {
		metrics.ContractStatusChanges.WithLabelValues(string(c.Status)).Inc()
		s.log.WithFields(logrus.Fields{"contract": c.ContractNumber, "from": from, "to": c.Status}).Info("Contract status changed")
		s.emit(models.EventStatusChanged, c, userID)
	}
	return view(c), nil
}

// MarkDelivered sets the delivered stage. Repeat calls are no-ops.
func (s *ContractService) MarkDelivered(ctx context.Context, id, userID int) (*models.ContractView, error) {
	var already bool
	c, err := s.Repo.Mutate(ctx, id, func(c *models.Contract) error {
		already = c.DeliveredAt != nil
		return rental.MarkDelivered(c, timeutil.Now())
	})
	if err != nil {
		return nil, observe("mark_delivered", err)
	}
	if !already {
		s.emit(models.EventContractDelivered, c, userID)
	}
	return view(c), nil
}

// DeleteContract removes a contract that has no payments. Stored files
// are removed after the rows are gone.
func (s *ContractService) DeleteContract(ctx context.Context, id, userID int) error {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(c.Payments) > 0 {
		return observe("delete_contract", rental.Conflict("payments",
			"contract %s has %d payments and cannot be deleted", c.ContractNumber, len(c.Payments)))
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.Files != nil {
		keys := []string{c.CustomerSignature, c.CompanySignature}
		for _, a := range c.Attachments {
			keys = append(keys, a.Path)
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := s.Files.Delete(ctx, key); err != nil {
				s.log.WithError(err).WithField("key", key).Warn("Failed to remove stored file")
			}
		}
	}
	s.log.WithField("contract", c.ContractNumber).Info("Contract deleted")
	s.emit(models.EventContractDeleted, c, userID)
	return nil
}

// Dashboard aggregates every contract's read model
func (s *ContractService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	views, err := s.ListContracts(ctx, models.ContractFilter{})
	if err != nil {
		return nil, err
	}
	d := rental.Summarize(views)
	return &d, nil
}

// buildLineItems converts drafts into line items, copying catalog values
// for items that reference equipment without explicit rates
func (s *ContractService) buildLineItems(ctx context.Context, drafts []models.LineItemDraft) ([]models.RentalLineItem, error) {
	items := make([]models.RentalLineItem, len(drafts))
	var errs rental.ValidationErrors
	for i, d := range drafts {
		item := d.ToLineItem(i)
		if d.NeedsSnapshot() && s.Equipment != nil {
			e, err := s.Equipment.Get(ctx, *d.EquipmentID)
			if errors.Is(err, rental.ErrNotFound) {
				errs = append(errs, &rental.ValidationError{
					Field:   fmt.Sprintf("line_items[%d].equipment_id", i),
					Message: fmt.Sprintf("equipment %d does not exist", *d.EquipmentID),
					Err:     rental.ErrMissingEquipment,
				})
				continue
			}
			if err != nil {
				return nil, err
			}
			item.ApplySnapshot(e.Snapshot())
			// Values typed on the draft win over the catalog
			if d.DailyRate != nil {
				item.DailyRate = *d.DailyRate
			}
			if d.MonthlyRate != nil {
				item.MonthlyRate = *d.MonthlyRate
			}
			if d.Code != "" {
				item.Code = d.Code
			}
			if d.Description != "" {
				item.Description = d.Description
			}
		}
		items[i] = item
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

// applyDraft copies draft onto c and runs the engine over the result.
// Drafted payments with an id must name one of existing.
func applyDraft(c *models.Contract, draft *models.ContractDraft, items []models.RentalLineItem, existing []models.Payment, userID int) error {
	recorded := make(map[int]models.Payment, len(existing))
	for _, p := range existing {
		recorded[p.ID] = p
	}

	payments := make([]models.Payment, 0, len(draft.Payments))
	seen := make(map[int]bool, len(draft.Payments))
	var errs rental.ValidationErrors
	for i, pd := range draft.Payments {
		if pd.ID != 0 {
			p, ok := recorded[pd.ID]
			if !ok {
				return rental.NewNotFound("payment", pd.ID)
			}
			if seen[pd.ID] {
				errs = append(errs, &rental.ValidationError{
					Field:   fmt.Sprintf("payments[%d].id", i),
					Message: fmt.Sprintf("payment %d is listed more than once", pd.ID),
					Err:     rental.ErrDuplicatePayment,
				})
				continue
			}
			seen[pd.ID] = true
			payments = append(payments, p)
			continue
		}
		p, err := paymentFromDraft(fmt.Sprintf("payments[%d].payment_method", i), pd)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if p.PaymentDate.IsZero() {
			p.PaymentDate = timeutil.Today()
		}
		p.CreatedByUserID = userID
		payments = append(payments, p)
	}
	if len(errs) > 0 {
		return errs
	}

	next := *c
	next.CustomerID = draft.CustomerID
	if !draft.ContractDate.IsZero() {
		next.ContractDate = draft.ContractDate.Time
	}
	next.DeliveryAddress = draft.DeliveryAddress
	next.TransportCost = draft.TransportCost
	next.TotalDiscount = draft.TotalDiscount
	next.Notes = draft.Notes
	next.LineItems = items
	next.Payments = payments
	if _, err := rental.PrepareContract(&next); err != nil {
		return err
	}
	*c = next
	return nil
}

// paymentFromDraft converts a new payment draft. The method is only
// optional on drafts that reference a recorded payment.
func paymentFromDraft(field string, pd models.PaymentDraft) (models.Payment, *rental.ValidationError) {
	if pd.PaymentMethod == "" {
		return models.Payment{}, &rental.ValidationError{Field: field, Message: "is required", Err: rental.ErrUnknownPaymentMethod}
	}
	p, err := pd.ToPayment()
	if err != nil {
		return models.Payment{}, &rental.ValidationError{Field: field, Message: err.Error(), Err: rental.ErrUnknownPaymentMethod}
	}
	return p, nil
}

func view(c *models.Contract) *models.ContractView {
	v := rental.BuildView(*c, timeutil.Today())
	return &v
}

func (s *ContractService) emit(t models.EventType, c *models.Contract, userID int) {
	publish(s.Events, models.ContractEvent{
		Type:           t,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		UserID:         userID,
		At:             timeutil.Now(),
	})
}
