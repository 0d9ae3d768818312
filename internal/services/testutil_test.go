package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shubhamsharma-10/CloudDrive/internal/database"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploadErr  error
	deleteErr  error
	presignErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, objectName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	return nil
}

func (f *fakeStore) PresignedGetURL(_ context.Context, objectName string, expiry time.Duration, _ string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[objectName]; !ok {
		return "", errors.New("no such object")
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectName, int(expiry.Seconds())), nil
}

func (f *fakeStore) EnsureBucket(context.Context) error { return nil }

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash := "hash"
	user := &models.User{Email: email, PasswordHash: &hash, Name: email}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user: %v", err)
	}
	return user
}

func principalFor(user *models.User) *Principal {
	return &Principal{UserID: user.ID, Email: user.Email}
}

func uploadString(t *testing.T, svc *FileService, principal *Principal, name, content string) *models.File {
	t.Helper()
	file, err := svc.Upload(context.Background(), principal, UploadInput{
		Reader:   bytes.NewReader([]byte(content)),
		Filename: name,
		MimeType: "text/plain",
		Size:     int64(len(content)),
	})
	if err != nil {
		t.Fatalf("upload %q failed: %v", name, err)
	}
	return file
}

func reloadFile(t *testing.T, db *gorm.DB, file *models.File) *models.File {
	t.Helper()
	var fresh models.File
	if err := db.First(&fresh, "id = ?", file.ID).Error; err != nil {
		t.Fatalf("failed reloading file: %v", err)
	}
	return &fresh
}

func newTestFileService(t *testing.T) (*FileService, *gorm.DB, *fakeStore) {
	t.Helper()
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewFileService(db, store, time.Hour)

	clock := time.UnixMilli(1700000000000)
	svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return svc, db, store
}
