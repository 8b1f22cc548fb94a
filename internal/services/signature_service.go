package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/storage"
	"scaffold-backend/internal/timeutil"
)

// SignatureService captures customer and company signatures, from staff
// screens or from the public signing link
type SignatureService struct {
	Repo      ContractStore
	Files     ObjectStore
	Tokens    SigningTokens
	Policy    rental.SigningPolicy
	PublicURL string
	Events    EventPublisher
	log       *logrus.Entry
}

func NewSignatureService(repo ContractStore, files ObjectStore, tokens SigningTokens, policy rental.SigningPolicy, publicURL string, events EventPublisher) *SignatureService {
	return &SignatureService{
		Repo:      repo,
		Files:     files,
		Tokens:    tokens,
		Policy:    policy,
		PublicURL: strings.TrimRight(publicURL, "/"),
		Events:    events,
		log:       logging.For("signatures"),
	}
}

// SignDataURI stores a signature sent as a base64 image data URI
func (s *SignatureService) SignDataURI(ctx context.Context, contractID int, req *models.SignatureRequest) (*models.SignatureResult, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, observe("sign_contract", err)
	}
	data, contentType, ext, err := storage.ParseDataURI(req.Signature)
	if err != nil {
		return nil, observe("sign_contract", &rental.ValidationError{Field: "signature", Message: err.Error(), Err: err})
	}
	return s.Sign(ctx, contractID, req.Signer, &FileUpload{Name: "signature" + ext, ContentType: contentType, Data: data})
}

// Sign stores a signature image for signer. The engine rules are checked
// before the upload and again under the row lock; the object is removed
// when the second check fails.
func (s *SignatureService) Sign(ctx context.Context, contractID int, signer models.Signer, file *FileUpload) (*models.SignatureResult, error) {
	if signer != models.SignerCustomer && signer != models.SignerCompany {
		return nil, observe("sign_contract", &rental.ValidationError{Field: "signer", Message: "must be one of: company customer"})
	}
	if !storage.IsImage(file.Name) || len(file.Data) == 0 {
		return nil, observe("sign_contract", &rental.ValidationError{
			Field: "signature", Message: "signature must be a png, jpg or gif image", Err: rental.ErrUnsupportedFileType,
		})
	}
	if err := rental.ValidateAttachment(file.Name, file.Size()); err != nil {
		return nil, observe("sign_contract", err)
	}

	current, err := s.Repo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	dryRun := *current
	if err := s.apply(&dryRun, signer, "pending"); err != nil {
		return nil, observe("sign_contract", err)
	}

	key := storage.SignatureKey(contractID, string(signer), strings.ToLower(filepath.Ext(file.Name)))
	if err := putObject(ctx, s.Files, key, storage.ContentType(file.Name), file.Data); err != nil {
		return nil, err
	}

	c, err := s.Repo.Mutate(ctx, contractID, func(c *models.Contract) error {
		return s.apply(c, signer, key)
	})
	if err != nil {
		if rmErr := removeObject(ctx, s.Files, key); rmErr != nil {
			s.log.WithError(rmErr).WithField("key", key).Warn("Failed to remove signature image")
		}
		return nil, observe("sign_contract", err)
	}

	s.log.WithFields(logrus.Fields{"contract": c.ContractNumber, "signer": signer}).Info("Signature stored")
	if signer == models.SignerCustomer {
		publish(s.Events, models.ContractEvent{
			Type:           models.EventContractSigned,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			Status:         c.Status,
			At:             timeutil.Now(),
		})
	}

	result := &models.SignatureResult{Signer: signer, URI: key}
	if signer == models.SignerCustomer {
		result.SignedAt = c.SignedAt
	}
	if url, err := s.Files.PresignGet(ctx, key); err == nil {
		result.URI = url
	}
	return result, nil
}

func (s *SignatureService) apply(c *models.Contract, signer models.Signer, key string) error {
	if signer == models.SignerCompany {
		return rental.Countersign(c, key)
	}
	return rental.SignContract(c, key, timeutil.Now(), s.Policy)
}

// CreateSigningLink issues a public link the customer can sign through.
// Contracts that could not be signed get no link.
func (s *SignatureService) CreateSigningLink(ctx context.Context, contractID int) (*models.SigningLink, error) {
	c, err := s.Repo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	dryRun := *c
	if err := s.apply(&dryRun, models.SignerCustomer, "pending"); err != nil {
		return nil, observe("signing_link", err)
	}

	token, expiresAt, err := s.Tokens.GenerateSigningToken(c.ID, c.ContractNumber)
	if err != nil {
		return nil, err
	}
	return &models.SigningLink{
		Token:     token,
		URL:       s.PublicURL + "/public/sign/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveLink returns the contract a signing token was issued for
func (s *SignatureService) ResolveLink(ctx context.Context, token string) (*models.ContractView, error) {
	c, err := s.contractForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return view(c), nil
}

// SignWithLink stores the customer signature sent through a public link
func (s *SignatureService) SignWithLink(ctx context.Context, token, signature string) (*models.SignatureResult, error) {
	c, err := s.contractForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.SignDataURI(ctx, c.ID, &models.SignatureRequest{Signer: models.SignerCustomer, Signature: signature})
}

func (s *SignatureService) contractForToken(ctx context.Context, token string) (*models.Contract, error) {
	claims, err := s.Tokens.ValidateSigningToken(token)
	if err != nil {
		return nil, err
	}
	c, err := s.Repo.Get(ctx, claims.ContractID)
	if errors.Is(err, rental.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if c.ContractNumber != claims.ContractNumber {
		return nil, auth.ErrInvalidToken
	}
	return c, nil
}
