package services

import (
	"context"

	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/rental"
)

// FileUpload is a file received from a client, already read into memory
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *FileUpload) Size() int64 { return int64(len(f.Data)) }

// putObject stores data under key, reporting failures as ExternalError
func putObject(ctx context.Context, files ObjectStore, key, contentType string, data []byte) error {
	if err := files.Put(ctx, key, contentType, data); err != nil {
		metrics.StorageFailures.WithLabelValues("put").Inc()
		return rental.External("store object", err)
	}
	return nil
}

// removeObject deletes key after a failed write. Errors are counted and
// returned for logging only.
func removeObject(ctx context.Context, files ObjectStore, key string) error {
	if err := files.Delete(ctx, key); err != nil {
		metrics.StorageFailures.WithLabelValues("delete").Inc()
		return err
	}
	return nil
}
