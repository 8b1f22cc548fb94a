package rental

import (
	"fmt"
	"path/filepath"
	"strings"

	"scaffold-backend/internal/models"
)

// MaxAttachmentSize is the largest accepted upload (10 MB)
const MaxAttachmentSize int64 = 10 << 20

var allowedExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "zip": true, "rar": true,
	"jpg": true, "jpeg": true, "png": true, "gif": true,
}

// AllowedExtension reports whether a file name has an accepted extension
func AllowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return allowedExtensions[ext]
}

// ValidateAttachment checks file size and type before anything is stored
func ValidateAttachment(name string, size int64) error {
	var errs ValidationErrors
	if size > MaxAttachmentSize {
		errs = append(errs, &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file is %d bytes, limit is %d", size, MaxAttachmentSize),
			Err:     ErrFileTooLarge,
		})
	}
	if !AllowedExtension(name) {
		errs = append(errs, &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("%q: allowed types are pdf, doc, docx, zip, rar, jpg, jpeg, png, gif", filepath.Base(name)),
			Err:     ErrUnsupportedFileType,
		})
	}
	return errs.errOrNil()
}

// AddAttachment validates a and appends it to c
func AddAttachment(c *models.Contract, a models.Attachment) error {
	if err := ValidateAttachment(a.FileName, a.FileSize); err != nil {
		return err
	}
	a.ContractID = c.ID
	c.Attachments = append(c.Attachments, a)
	return nil
}

// RemoveAttachment removes the attachment with id from c
func RemoveAttachment(c *models.Contract, id int) (models.Attachment, error) {
	for i, a := range c.Attachments {
		if a.ID == id {
			c.Attachments = append(c.Attachments[:i:i], c.Attachments[i+1:]...)
			return a, nil
		}
	}
	return models.Attachment{}, NewNotFound("attachment", id)
}
