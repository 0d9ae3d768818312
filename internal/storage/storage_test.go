package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	owner := uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f")
	at := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"plain name", "report.pdf", owner.String() + "/1700000000123-report.pdf"},
		{"spaces and case", "My Holiday Photo.JPG", owner.String() + "/1700000000123-my-holiday-photo.jpg"},
		{"no extension", "README", owner.String() + "/1700000000123-readme"},
		{"path components stripped", "../../etc/passwd", owner.String() + "/1700000000123-passwd"},
		{"only punctuation", "!!!.txt", owner.String() + "/1700000000123-file.txt"},
		{"empty", "", owner.String() + "/1700000000123-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(owner, at, tt.original))
		})
	}
}

func TestObjectKey_DistinctPerUpload(t *testing.T) {
	owner := uuid.New()
	first := ObjectKey(owner, time.UnixMilli(1000), "a.txt")
	second := ObjectKey(owner, time.UnixMilli(1001), "a.txt")
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, owner.String()+"/"))
}

func TestObjectKey_TruncatesLongNames(t *testing.T) {
	key := ObjectKey(uuid.New(), time.UnixMilli(1), strings.Repeat("a", 500)+".bin")
	object := key[strings.LastIndex(key, "/")+1:]
	name := object[strings.Index(object, "-")+1:]
	assert.Len(t, name, maxKeyNameLength+len(".bin"))
}

func TestAttachmentDisposition(t *testing.T) {
	assert.Equal(t, "", attachmentDisposition(""))
	assert.Equal(t, `attachment; filename="report.pdf"`, attachmentDisposition("report.pdf"))
	assert.Equal(t, `attachment; filename="badname.txt"`, attachmentDisposition("bad\"\r\nname.txt"))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "ftp"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestNew_MinIODriver(t *testing.T) {
	store, err := New(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: "minio"},
		MinIO: config.MinIOConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "key",
			SecretKey: "secret",
			Bucket:    "bucket",
		},
	})
	require.NoError(t, err)
	assert.IsType(t, &MinIOClient{}, store)
}

func TestMinIOPresignedGetURL(t *testing.T) {
	client, err := NewMinIOClient(config.MinIOConfig{
		Endpoint:       "minio:9000",
		PublicEndpoint: "files.example.com",
		AccessKey:      "key",
		SecretKey:      "secret",
		Bucket:         "bucket",
		Region:         "us-east-1",
	})
	require.NoError(t, err)

	url, err := client.PresignedGetURL(context.Background(), "owner/1-report.pdf", time.Hour, "report.pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "files.example.com/bucket/owner/1-report.pdf")
	assert.Contains(t, url, "X-Amz-Expires=3600")
	assert.Contains(t, url, "response-content-disposition=")
}

func TestS3PresignedGetURL(t *testing.T) {
	client, err := NewS3Client(context.Background(), config.S3Config{
		Region:    "eu-west-1",
		Bucket:    "drive-bucket",
		Endpoint:  "http://localhost:4566",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	url, err := client.PresignedGetURL(context.Background(), "owner/1-report.pdf", time.Hour, "report.pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:4566/drive-bucket/owner/1-report.pdf")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}
