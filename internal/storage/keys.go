package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".zip":  "application/zip",
	".rar":  "application/vnd.rar",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ContentType guesses the MIME type from a file name
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsImage reports whether name has a png, jpeg or gif extension
func IsImage(name string) bool {
	return strings.HasPrefix(ContentType(name), "image/")
}

// AttachmentKey is contracts/{id}/attachments/{uuid}{ext}
func AttachmentKey(contractID int, fileName string) string {
	return fmt.Sprintf("contracts/%d/attachments/%s%s", contractID, uuid.NewString(), strings.ToLower(filepath.Ext(fileName)))
}

// SignatureKey is contracts/{id}/signatures/{signer}-{uuid}{ext}
func SignatureKey(contractID int, signer, ext string) string {
	return fmt.Sprintf("contracts/%d/signatures/%s-%s%s", contractID, signer, uuid.NewString(), ext)
}

// CheckImageKey is contracts/{id}/checks/{uuid}{ext}
func CheckImageKey(contractID int, fileName string) string {
	return fmt.Sprintf("contracts/%d/checks/%s%s", contractID, uuid.NewString(), strings.ToLower(filepath.Ext(fileName)))
}

var ErrInvalidDataURI = errors.New("invalid data URI")

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// ParseDataURI decodes a base64 image data URI such as
// "data:image/png;base64,iVBOR...". It returns the bytes, the content type
// and the matching file extension.
func ParseDataURI(uri string) (data []byte, contentType, ext string, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", "", ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", "", ErrInvalidDataURI
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, "", "", fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURI)
	}
	ext, ok = imageExtensions[contentType]
	if !ok {
		return nil, "", "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidDataURI, contentType)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, "", "", fmt.Errorf("%w: empty image", ErrInvalidDataURI)
	}
	return data, contentType, ext, nil
}
