package services

import (
	"context"
	"time"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/models"
)

// The services depend on these narrow interfaces so that tests can run
// against in-memory fakes. The pgx repositories, the S3 store and the
// JWT manager satisfy them in production.

type ContractStore interface {
	Create(ctx context.Context, c *models.Contract) error
	Get(ctx context.Context, id int) (*models.Contract, error)
	List(ctx context.Context, filter models.ContractFilter) ([]models.Contract, error)
	Mutate(ctx context.Context, id int, fn func(c *models.Contract) error) (*models.Contract, error)
	Delete(ctx context.Context, id int) error
}

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context, query string) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	CountContracts(ctx context.Context, id int) (int, error)
	Delete(ctx context.Context, id int) error
}

type EquipmentStore interface {
	Create(ctx context.Context, e *models.Equipment) error
	Get(ctx context.Context, id int) (*models.Equipment, error)
	List(ctx context.Context) ([]*models.Equipment, error)
	Update(ctx context.Context, e *models.Equipment) error
	Delete(ctx context.Context, id int) error
}

// EquipmentReader is the part of the catalog contracts need
type EquipmentReader interface {
	Get(ctx context.Context, id int) (*models.Equipment, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Upsert(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, id int, active bool) error
}

type AttachmentStore interface {
	Create(ctx context.Context, a *models.Attachment) error
	Get(ctx context.Context, contractID, id int) (*models.Attachment, error)
	ListByContract(ctx context.Context, contractID int) ([]models.Attachment, error)
	Delete(ctx context.Context, contractID, id int) error
}

// ObjectStore holds file bytes (attachments, signatures, check images)
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// SessionIssuer mints staff session tokens
type SessionIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// SigningTokens mints and checks public e-signature link tokens
type SigningTokens interface {
	GenerateSigningToken(contractID int, contractNumber string) (string, time.Time, error)
	ValidateSigningToken(token string) (*auth.SigningClaims, error)
}

// EventPublisher receives contract events for the ops feed
type EventPublisher interface {
	Publish(e models.ContractEvent)
}

func publish(p EventPublisher, e models.ContractEvent) {
	if p == nil {
		return
	}
	p.Publish(e)
}
