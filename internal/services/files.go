package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shubhamsharma-10/CloudDrive/internal/metrics"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"github.com/shubhamsharma-10/CloudDrive/internal/storage"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
	"gorm.io/gorm"
)

const (
	defaultMimeType    = "application/octet-stream"
	shareTokenAttempts = 5
)

type UploadInput struct {
	Reader   io.Reader
	Filename string
	MimeType string
	Size     int64
}

type DownloadLink struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
	Filename  string `json:"filename"`
}

// SharedFile is what an anonymous holder of a share link may see.
type SharedFile struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

type FileService struct {
	db        *gorm.DB
	store     storage.ObjectStore
	gate      Gate
	urlExpiry time.Duration

	now      func() time.Time
	newToken func() (string, error)

	keyMu     sync.Mutex
	lastKeyAt time.Time
}

func NewFileService(db *gorm.DB, store storage.ObjectStore, urlExpiry time.Duration) *FileService {
	return &FileService{
		db:        db,
		store:     store,
		urlExpiry: urlExpiry,
		now:       time.Now,
		newToken:  utils.GenerateShareToken,
	}
}

func (s *FileService) Upload(ctx context.Context, principal *Principal, in UploadInput) (file *models.File, err error) {
	defer func() { metrics.RecordFileOperation("upload", err) }()

	if principal == nil {
		return nil, ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Filename)
	if name == "" || in.Reader == nil {
		return nil, validationError("no file uploaded")
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	key := storage.ObjectKey(principal.UserID, s.keyTime(), name)
	if err := s.store.Upload(ctx, key, in.Reader, in.Size, mimeType); err != nil {
		return nil, upstreamError("storage upload failed", err)
	}

	file = &models.File{
		OwnerID:    principal.UserID,
		Filename:   name,
		StorageKey: key,
		MimeType:   mimeType,
		Size:       in.Size,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		// The object is unreachable without a record; remove it if we can.
		if cleanupErr := s.store.Delete(context.WithoutCancel(ctx), key); cleanupErr != nil {
			logger.ErrorWithUser(principal.UserID.String(), "upload_orphaned_object", cleanupErr, map[string]interface{}{
				"storage_key": key,
			})
		}
		return nil, upstreamError("failed to save file record", err)
	}

	logger.InfoWithUser(principal.UserID.String(), "file_uploaded", map[string]interface{}{
		"file_id":  file.ID.String(),
		"filename": file.Filename,
		"size":     file.Size,
	})
	return file, nil
}

// List returns the caller's files, newest first. A non-empty query keeps only
// filenames containing it, case-insensitively.
func (s *FileService) List(ctx context.Context, principal *Principal, query string) ([]models.File, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	db := s.db.WithContext(ctx).Where("owner_id = ?", principal.UserID)
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where("LOWER(filename) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(q))+"%")
	}

	files := make([]models.File, 0)
	if err := db.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, upstreamError("failed to list files", err)
	}
	return files, nil
}

func (s *FileService) Get(ctx context.Context, principal *Principal, id uuid.UUID) (*models.File, error) {
	return s.lookupOwned(ctx, principal, id)
}

func (s *FileService) Rename(ctx context.Context, principal *Principal, id uuid.UUID, newName string) (file *models.File, err error) {
	defer func() { metrics.RecordFileOperation("rename", err) }()

	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, validationError("new filename is required")
	}

	file, err = s.lookupOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(file).
		Where("owner_id = ?", principal.UserID).
		Update("filename", name)
	if result.Error != nil {
		return nil, upstreamError("failed to rename file", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, Decision{Reason: DenyNotFound}.Err()
	}
	file.Filename = name

	logger.InfoWithUser(principal.UserID.String(), "file_renamed", map[string]interface{}{
		"file_id":  file.ID.String(),
		"filename": name,
	})
	return file, nil
}

// Delete removes the object first. If storage refuses, the record stays so the
// caller can retry.
func (s *FileService) Delete(ctx context.Context, principal *Principal, id uuid.UUID) (err error) {
	defer func() { metrics.RecordFileOperation("delete", err) }()

	file, err := s.lookupOwned(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		return upstreamError("failed to delete file from storage", err)
	}

	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", file.ID, principal.UserID).
		Delete(&models.File{}).Error; err != nil {
		return upstreamError("failed to delete file record", err)
	}

	logger.InfoWithUser(principal.UserID.String(), "file_deleted", map[string]interface{}{
		"file_id":     file.ID.String(),
		"storage_key": file.StorageKey,
	})
	return nil
}

func (s *FileService) Download(ctx context.Context, principal *Principal, id uuid.UUID) (link *DownloadLink, err error) {
	defer func() { metrics.RecordFileOperation("download", err) }()

	file, err := s.lookupOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignedGetURL(ctx, file.StorageKey, s.urlExpiry, file.Filename)
	if err != nil {
		return nil, upstreamError("failed to generate download url", err)
	}

	return &DownloadLink{
		URL:       url,
		ExpiresIn: int(s.urlExpiry / time.Second),
		Filename:  file.Filename,
	}, nil
}

// EnableSharing publishes a private file under a fresh token. The update is
// conditional on the file still being private, so of two concurrent callers
// exactly one wins and the other gets a conflict.
func (s *FileService) EnableSharing(ctx context.Context, principal *Principal, id uuid.UUID) (file *models.File, err error) {
	defer func() { metrics.RecordFileOperation("share", err) }()

	file, err = s.lookupOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if file.IsPublic {
		return nil, conflictError("file is already shared")
	}

	for attempt := 1; attempt <= shareTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, upstreamError("failed to generate share token", err)
		}

		result := s.db.WithContext(ctx).Model(&models.File{}).
			Where("id = ? AND owner_id = ? AND is_public = ?", file.ID, principal.UserID, false).
			Updates(map[string]interface{}{
				"is_public":    true,
				"shared_token": token,
			})
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				logger.WarnWithUser(principal.UserID.String(), "share_token_collision", map[string]interface{}{
					"file_id": file.ID.String(),
					"attempt": attempt,
				})
				continue
			}
			return nil, upstreamError("failed to enable sharing", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, conflictError("file is already shared")
		}

		file.IsPublic = true
		file.SharedToken = &token
		logger.InfoWithUser(principal.UserID.String(), "file_shared", map[string]interface{}{
			"file_id": file.ID.String(),
		})
		return file, nil
	}

	return nil, upstreamError("failed to enable sharing", errors.New("could not allocate a unique share token"))
}

func (s *FileService) DisableSharing(ctx context.Context, principal *Principal, id uuid.UUID) (file *models.File, err error) {
	defer func() { metrics.RecordFileOperation("unshare", err) }()

	file, err = s.lookupOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !file.IsPublic {
		return nil, conflictError("file is not shared")
	}

	result := s.db.WithContext(ctx).Model(&models.File{}).
		Where("id = ? AND owner_id = ? AND is_public = ?", file.ID, principal.UserID, true).
		Updates(map[string]interface{}{
			"is_public":    false,
			"shared_token": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return nil, upstreamError("failed to disable sharing", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, conflictError("file is not shared")
	}

	file.IsPublic = false
	file.SharedToken = nil
	logger.InfoWithUser(principal.UserID.String(), "file_unshared", map[string]interface{}{
		"file_id": file.ID.String(),
	})
	return file, nil
}

// GetSharedFile resolves a share token without any caller identity.
func (s *FileService) GetSharedFile(ctx context.Context, token string) (shared *SharedFile, err error) {
	defer func() { metrics.RecordFileOperation("shared_download", err) }()

	var file *models.File
	if token != "" {
		var found models.File
		err := s.db.WithContext(ctx).
			Where("shared_token = ? AND is_public = ?", token, true).
			First(&found).Error
		switch {
		case err == nil:
			file = &found
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, upstreamError("failed to look up shared file", err)
		}
	}

	if decision := s.gate.AuthorizeShared(token, file); !decision.Allowed {
		return nil, decision.Err()
	}

	url, err := s.store.PresignedGetURL(ctx, file.StorageKey, s.urlExpiry, file.Filename)
	if err != nil {
		return nil, upstreamError("failed to generate download url", err)
	}

	return &SharedFile{
		Filename:  file.Filename,
		MimeType:  file.MimeType,
		Size:      file.Size,
		URL:       url,
		ExpiresIn: int(s.urlExpiry / time.Second),
	}, nil
}

func (s *FileService) lookupOwned(ctx context.Context, principal *Principal, id uuid.UUID) (*models.File, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var file *models.File
	var found models.File
	err := s.db.WithContext(ctx).First(&found, "id = ?", id).Error
	switch {
	case err == nil:
		file = &found
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, upstreamError("failed to load file", err)
	}

	if decision := s.gate.AuthorizeOwner(principal, file); !decision.Allowed {
		if decision.Reason == DenyNotOwner {
			logger.WarnWithUser(principal.UserID.String(), "file_access_denied", map[string]interface{}{
				"file_id": id.String(),
			})
		}
		return nil, decision.Err()
	}
	return file, nil
}

// keyTime returns strictly increasing millisecond timestamps so that two
// uploads of the same name in this process never share a storage key.
func (s *FileService) keyTime() time.Time {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	t := s.now().Truncate(time.Millisecond)
	if !t.After(s.lastKeyAt) {
		t = s.lastKeyAt.Add(time.Millisecond)
	}
	s.lastKeyAt = t
	return t
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
