package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/storage"
	"scaffold-backend/internal/timeutil"
)

// PaymentService records and removes payments. Each change runs inside
// ContractStore.Mutate, which holds the contract row lock, so the balance
// check and the write cannot interleave with another writer.
type PaymentService struct {
	Repo   ContractStore
	Files  ObjectStore
	Events EventPublisher
	log    *logrus.Entry
}

func NewPaymentService(repo ContractStore, files ObjectStore, events EventPublisher) *PaymentService {
	return &PaymentService{Repo: repo, Files: files, Events: events, log: logging.For("payments")}
}

// RecordPayment appends a payment to the contract. A check image, when
// given, is stored first and removed again if the payment is rejected.
func (s *PaymentService) RecordPayment(ctx context.Context, contractID int, draft *models.PaymentDraft, checkImage *FileUpload, userID int) (*models.PaymentResult, error) {
	if err := ValidateStruct(draft); err != nil {
		return nil, observe("record_payment", err)
	}
	input := *draft
	input.ID = 0

	var imageKey string
	if checkImage != nil && input.PaymentMethod == models.MethodCheck {
		if !storage.IsImage(checkImage.Name) {
			return nil, observe("record_payment", &rental.ValidationError{
				Field: "check_image", Message: "check image must be png, jpg or gif", Err: rental.ErrUnsupportedFileType,
			})
		}
		if err := rental.ValidateAttachment(checkImage.Name, checkImage.Size()); err != nil {
			return nil, observe("record_payment", err)
		}
		imageKey = storage.CheckImageKey(contractID, checkImage.Name)
		if err := putObject(ctx, s.Files, imageKey, storage.ContentType(checkImage.Name), checkImage.Data); err != nil {
			return nil, err
		}
		input.CheckImageKey = imageKey
	}

	result, err := s.record(ctx, contractID, input, userID)
	if err != nil && imageKey != "" {
		if rmErr := removeObject(ctx, s.Files, imageKey); rmErr != nil {
			s.log.WithError(rmErr).WithField("key", imageKey).Warn("Failed to remove check image")
		}
	}
	return result, err
}

func (s *PaymentService) record(ctx context.Context, contractID int, input models.PaymentDraft, userID int) (*models.PaymentResult, error) {
	p, verr := paymentFromDraft("payment.payment_method", input)
	if verr != nil {
		return nil, observe("record_payment", verr)
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = timeutil.Today()
	}
	p.CreatedByUserID = userID

	c, err := s.Repo.Mutate(ctx, contractID, func(c *models.Contract) error {
		_, err := rental.RecordPayment(c, p)
		return err
	})
	if err != nil {
		return nil, observe("record_payment", err)
	}

	// RecordPayment appends, so the new payment is last
	recorded := c.Payments[len(c.Payments)-1]
	metrics.PaymentsRecorded.WithLabelValues(string(recorded.Method.Kind())).Inc()
	s.log.WithFields(logrus.Fields{
		"contract": c.ContractNumber,
		"receipt":  recorded.ReceiptNumber,
		"amount":   recorded.Amount.StringFixed(rental.MoneyPlaces),
	}).Info("Payment recorded")

	amount := recorded.Amount
	publish(s.Events, models.ContractEvent{
		Type:           models.EventPaymentRecorded,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Amount:         &amount,
		UserID:         userID,
		At:             timeutil.Now(),
	})
	return &models.PaymentResult{Payment: recorded, Contract: *view(c)}, nil
}

// DeletePayment removes a payment from the contract
func (s *PaymentService) DeletePayment(ctx context.Context, contractID, paymentID, userID int) (*models.ContractView, error) {
	var removed models.Payment
	c, err := s.Repo.Mutate(ctx, contractID, func(c *models.Contract) error {
		var err error
		removed, err = rental.RemovePayment(c, paymentID)
		return err
	})
	if err != nil {
		return nil, observe("delete_payment", err)
	}

	if check, ok := removed.Method.Check(); ok && check.ImageKey != "" && s.Files != nil {
		if err := removeObject(ctx, s.Files, check.ImageKey); err != nil {
			s.log.WithError(err).WithField("key", check.ImageKey).Warn("Failed to remove check image")
		}
	}
	s.log.WithFields(logrus.Fields{"contract": c.ContractNumber, "receipt": removed.ReceiptNumber}).Info("Payment deleted")

	amount := removed.Amount
	publish(s.Events, models.ContractEvent{
		Type:           models.EventPaymentDeleted,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Amount:         &amount,
		UserID:         userID,
		At:             timeutil.Now(),
	})
	return view(c), nil
}

// ListPayments returns the payments of a contract in recorded order
func (s *PaymentService) ListPayments(ctx context.Context, contractID int) ([]models.Payment, error) {
	c, err := s.Repo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Payments == nil {
		return []models.Payment{}, nil
	}
	return c.Payments, nil
}
