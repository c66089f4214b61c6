package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
)

// Object path
// exports/{uid}/{yyyymmdd-hhmmss}.csv

type archiveStore struct {
	client *storage.Client
	bucket string
}

func NewArchiveStore(client *storage.Client, bucket string) *archiveStore {
	return &archiveStore{client: client, bucket: bucket}
}

func (s *archiveStore) objectName(uid string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.csv", uid, at.UTC().Format("20060102-150405"))
}

// PutExport uploads a CSV export and returns the object name.
func (s *archiveStore) PutExport(ctx context.Context, uid string, data []byte) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", errs.NewValidationError("export archive is not configured")
	}

	name := s.objectName(uid, time.Now())
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "text/csv; charset=utf-8"
	w.Metadata = map[string]string{"uid": uid}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", errs.NewExternalServiceError("storage", false, err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", false, err)
	}
	return name, nil
}
