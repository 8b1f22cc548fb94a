package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/cache"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
)

// EquipmentService manages the scaffold catalog
type EquipmentService struct {
	Repo EquipmentStore
	log  *logrus.Entry
}

func NewEquipmentService(repo EquipmentStore) *EquipmentService {
	return &EquipmentService{Repo: repo, log: logging.For("catalog")}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, req *models.EquipmentRequest) (*models.Equipment, error) {
	e, err := equipmentFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	cache.InvalidateEquipmentCaches(ctx)
	s.log.WithField("code", e.Code).Info("Equipment created")
	return e, nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id int) (*models.Equipment, error) {
	return s.Repo.Get(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	var list []*models.Equipment
	if cache.GetJSON(ctx, cache.EquipmentListKey, &list) {
		return list, nil
	}
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, cache.EquipmentListKey, list, cache.ListTTL)
	return list, nil
}

// UpdateEquipment changes the catalog record. Line items already on
// contracts keep the snapshot taken when they were saved.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id int, req *models.EquipmentRequest) (*models.Equipment, error) {
	e, err := equipmentFromRequest(req)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, err
	}
	cache.InvalidateEquipmentCaches(ctx)
	return e, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateEquipmentCaches(ctx)
	return nil
}

// SnapshotOf returns the catalog values a line item copies
func (s *EquipmentService) SnapshotOf(ctx context.Context, id int) (models.EquipmentSnapshot, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return models.EquipmentSnapshot{}, err
	}
	return e.Snapshot(), nil
}

func equipmentFromRequest(req *models.EquipmentRequest) (*models.Equipment, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	var errs rental.ValidationErrors
	if req.DailyRate.IsNegative() {
		errs = append(errs, &rental.ValidationError{Field: "daily_rate", Message: "must not be negative", Err: rental.ErrNegativeAmount})
	}
	if req.MonthlyRate.IsNegative() {
		errs = append(errs, &rental.ValidationError{Field: "monthly_rate", Message: "must not be negative", Err: rental.ErrNegativeAmount})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &models.Equipment{
		Code:        strings.TrimSpace(req.Code),
		Description: req.Description,
		DailyRate:   rental.RoundMoney(req.DailyRate),
		MonthlyRate: rental.RoundMoney(req.MonthlyRate),
		StockQty:    req.StockQty,
	}, nil
}
