package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
)

// ObjectStore is the binary side of the service: bytes addressed by opaque keys.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration, filename string) (string, error)
	EnsureBucket(ctx context.Context) error
}

// New builds the object store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "", "minio":
		return NewMinIOClient(cfg.MinIO)
	case "s3":
		return NewS3Client(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

const maxKeyNameLength = 128

// ObjectKey derives the storage key for a new upload: the owner's id, the upload
// time in milliseconds and a slugified form of the original name.
func ObjectKey(ownerID uuid.UUID, at time.Time, originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	if len(stem) > maxKeyNameLength {
		stem = stem[:maxKeyNameLength]
	}
	if ext == "." || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return fmt.Sprintf("%s/%d-%s%s", ownerID.String(), at.UnixMilli(), stem, ext)
}

func attachmentDisposition(filename string) string {
	if filename == "" {
		return ""
	}
	escaped := strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)
	return fmt.Sprintf(`attachment; filename="%s"`, escaped)
}
