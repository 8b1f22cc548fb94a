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

const customerListKey = cache.CustomersPrefix + "list"

type CustomerService struct {
	Repo CustomerStore
	log  *logrus.Entry
}

func NewCustomerService(repo CustomerStore) *CustomerService {
	return &CustomerService{Repo: repo, log: logging.For("customers")}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	customer := customerFromRequest(req)
	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	cache.InvalidateCustomerCaches(ctx)
	s.log.WithField("customer_id", customer.ID).Info("Customer created")
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

// ListCustomers returns all customers, or those whose name or phone
// matches query. The unfiltered list is served from Redis when warm.
func (s *CustomerService) ListCustomers(ctx context.Context, query string) ([]*models.Customer, error) {
	query = strings.TrimSpace(query)
	if query != "" {
		return s.Repo.List(ctx, query)
	}

	var customers []*models.Customer
	if cache.GetJSON(ctx, customerListKey, &customers) {
		return customers, nil
	}
	customers, err := s.Repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, customerListKey, customers, cache.ListTTL)
	return customers, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.CustomerRequest) (*models.Customer, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	customer := customerFromRequest(req)
	customer.ID = id
	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	cache.InvalidateCustomerCaches(ctx)
	return customer, nil
}

// DeleteCustomer removes a customer that has no contracts
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	count, err := s.Repo.CountContracts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return rental.Conflict("customer_id", "customer %d has %d contracts and cannot be deleted", id, count)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCustomerCaches(ctx)
	return nil
}

func customerFromRequest(req *models.CustomerRequest) *models.Customer {
	return &models.Customer{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		NationalID:  strings.TrimSpace(req.NationalID),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     req.Address,
	}
}
