package services

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/storage"
	"scaffold-backend/internal/timeutil"
)

// AttachmentService stores contract documents. Bytes go to object storage,
// metadata to the attachments table.
type AttachmentService struct {
	Repo      AttachmentStore
	Contracts ContractStore
	Files     ObjectStore
	Events    EventPublisher
	log       *logrus.Entry
}

func NewAttachmentService(repo AttachmentStore, contracts ContractStore, files ObjectStore, events EventPublisher) *AttachmentService {
	return &AttachmentService{
		Repo:      repo,
		Contracts: contracts,
		Files:     files,
		Events:    events,
		log:       logging.For("attachments"),
	}
}

// Upload validates and stores a file against a contract. A failed row
// insert removes the stored object again.
func (s *AttachmentService) Upload(ctx context.Context, contractID int, file *FileUpload, description string, userID int) (*models.Attachment, error) {
	c, err := s.Contracts.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(file.Name)
	contentType := storage.ContentType(name)
	a := &models.Attachment{
		ContractID:   contractID,
		FileName:     name,
		FileType:     contentType,
		FileSize:     file.Size(),
		Description:  description,
		UploadedByID: userID,
	}
	if err := rental.AddAttachment(c, *a); err != nil {
		return nil, observe("upload_attachment", err)
	}

	key := storage.AttachmentKey(contractID, name)
	a.Path = key
	if err := putObject(ctx, s.Files, key, contentType, file.Data); err != nil {
		s.log.WithError(err).WithField("contract", c.ContractNumber).Error("Attachment upload failed")
		return nil, err
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		if rmErr := removeObject(ctx, s.Files, key); rmErr != nil {
			s.log.WithError(rmErr).WithField("key", key).Warn("Failed to remove orphaned attachment")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"contract": c.ContractNumber, "file": name, "size": a.FileSize}).Info("Attachment stored")
	publish(s.Events, models.ContractEvent{
		Type:           models.EventAttachmentAdded,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		UserID:         userID,
		At:             timeutil.Now(),
	})
	return a, nil
}

func (s *AttachmentService) List(ctx context.Context, contractID int) ([]models.Attachment, error) {
	if _, err := s.Contracts.Get(ctx, contractID); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Attachment{}
	}
	return list, nil
}

// DownloadURL returns a short-lived presigned URL for the file
func (s *AttachmentService) DownloadURL(ctx context.Context, contractID, id int) (string, error) {
	a, err := s.Repo.Get(ctx, contractID, id)
	if err != nil {
		return "", err
	}
	url, err := s.Files.PresignGet(ctx, a.Path)
	if err != nil {
		return "", rental.External("presign attachment", err)
	}
	return url, nil
}

// Content reads the stored file through the server, for clients that
// cannot follow a presigned URL
func (s *AttachmentService) Content(ctx context.Context, contractID, id int) (*models.Attachment, []byte, error) {
	a, err := s.Repo.Get(ctx, contractID, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.Files.Get(ctx, a.Path)
	if err != nil {
		return nil, nil, rental.External("read attachment", err)
	}
	return a, data, nil
}

// Delete removes the row first, then the stored object
func (s *AttachmentService) Delete(ctx context.Context, contractID, id int) error {
	a, err := s.Repo.Get(ctx, contractID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, contractID, id); err != nil {
		return err
	}
	if err := removeObject(ctx, s.Files, a.Path); err != nil {
		s.log.WithError(err).WithField("key", a.Path).Warn("Failed to remove attachment object")
	}
	return nil
}
