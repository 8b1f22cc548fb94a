package rental

import (
	"time"

	"github.com/shopspring/decimal"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/timeutil"
)

// IsTerminal reports whether no further status transition is allowed
func IsTerminal(s models.ContractStatus) bool {
	switch s {
	case models.StatusClosed, models.StatusClosedNotReceived, models.StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal explicit status change
func CanTransition(from, to models.ContractStatus) bool {
	switch from {
	case models.StatusDraft:
		return to == models.StatusActive
	case models.StatusActive:
		return IsTerminal(to)
	}
	return false
}

// Transition applies an explicit status change to c
func Transition(c *models.Contract, to models.ContractStatus) error {
	if c.Status == to {
		return nil
	}
	if IsTerminal(c.Status) {
		return violation("status", ErrAlreadyFinalized, "contract %s is already %s", c.ContractNumber, c.Status)
	}
	if !CanTransition(c.Status, to) {
		return violation("status", ErrInvalidTransition, "cannot change status from %s to %s", c.Status, to)
	}
	c.Status = to
	return nil
}

// ComputeStages derives the display-only progress flags
func ComputeStages(c *models.Contract, endDate *time.Time, remaining decimal.Decimal, today time.Time) models.Stages {
	completed := c.Status == models.StatusClosed || c.Status == models.StatusClosedNotReceived
	if !completed && c.Status == models.StatusActive && endDate != nil && remaining.Sign() <= 0 {
		completed = timeutil.DaysBetween(*endDate, today) > 0
	}
	return models.Stages{
		Signed:    c.SignedAt != nil,
		Delivered: c.DeliveredAt != nil,
		Inactive:  c.Status == models.StatusCancelled,
		Completed: completed,
	}
}

// SigningPolicy decides the cases the business has not settled
type SigningPolicy struct {
	// AllowResign lets a new customer signature overwrite an existing one
	AllowResign bool
	// AllowTerminal lets closed or cancelled contracts be signed
	AllowTerminal bool
}

// DefaultSigningPolicy rejects re-signing and allows late signing
var DefaultSigningPolicy = SigningPolicy{AllowResign: false, AllowTerminal: true}

// SignContract records the customer's signature on c
func SignContract(c *models.Contract, signature string, now time.Time, policy SigningPolicy) error {
	if signature == "" {
		return &ValidationError{Field: "signature", Message: "signature is required"}
	}
	if c.SignedAt != nil && !policy.AllowResign {
		return violation("signature", ErrAlreadySigned, "contract %s was signed on %s", c.ContractNumber, c.SignedAt.Format(time.RFC3339))
	}
	if IsTerminal(c.Status) && !policy.AllowTerminal {
		return violation("status", ErrAlreadyFinalized, "contract %s is %s", c.ContractNumber, c.Status)
	}
	signedAt := now
	c.SignedAt = &signedAt
	c.CustomerSignature = signature
	return nil
}

// CanEdit reports whether the line items and payments of c may be replaced
func CanEdit(c *models.Contract) error {
	if IsTerminal(c.Status) {
		return violation("status", ErrAlreadyFinalized, "contract %s is %s and can no longer be edited", c.ContractNumber, c.Status)
	}
	return nil
}

// MarkDelivered records when the equipment reached the site. The first
// delivery time is kept on repeat calls.
func MarkDelivered(c *models.Contract, now time.Time) error {
	if c.Status == models.StatusCancelled {
		return violation("status", ErrAlreadyFinalized, "contract %s is cancelled", c.ContractNumber)
	}
	if c.DeliveredAt == nil {
		deliveredAt := now
		c.DeliveredAt = &deliveredAt
	}
	return nil
}

// Countersign stores the company signature. SignedAt tracks the customer
// signature only and is left alone.
func Countersign(c *models.Contract, signature string) error {
	if signature == "" {
		return &ValidationError{Field: "signature", Message: "signature is required"}
	}
	if c.Status == models.StatusCancelled {
		return violation("status", ErrAlreadyFinalized, "contract %s is cancelled", c.ContractNumber)
	}
	c.CompanySignature = signature
	return nil
}
