package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/internal/database"
	"github.com/shubhamsharma-10/CloudDrive/internal/middleware"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
	"gorm.io/gorm"
)

const testMaxUploadBytes = 1024

type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func (m *memoryStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, objectName string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *memoryStore) PresignedGetURL(_ context.Context, objectName string, expiry time.Duration, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectName]; !ok {
		return "", errors.New("no such object")
	}
	return fmt.Sprintf("https://storage.test/%s?X-Amz-Expires=%d", objectName, int(expiry.Seconds())), nil
}

func (m *memoryStore) EnsureBucket(context.Context) error { return nil }

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *memoryStore
	cfg   *config.Config
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.SetOutput(io.Discard)
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL: "http://localhost:5173",
			BackendURL:  "http://localhost:8080/api",
		},
		Upload: config.UploadConfig{MaxBytes: testMaxUploadBytes},
		Share:  config.ShareConfig{URLExpiry: time.Hour},
		SSO: config.SSOConfig{
			LinkPolicy: config.LinkPolicyVerified,
			StateTTL:   10 * time.Minute,
			Google: config.OAuthProviderConfig{
				Enabled:     true,
				ClientID:    "google-client-id",
				RedirectURL: "http://localhost:8080/api/auth/sso/google/callback",
				IssuerURL:   "https://accounts.google.com",
				Scopes:      "openid,email,profile",
			},
		},
	}

	store := &memoryStore{objects: make(map[string][]byte)}
	fileService := services.NewFileService(db, store, cfg.Share.URLExpiry)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(middleware.SecurityLogger())

	RegisterRoutes(app, Handlers{
		Auth:  NewAuthHandler(db),
		Files: NewFilesHandler(fileService, cfg.Upload.MaxBytes, cfg.Server.FrontendURL),
		SSO: NewSSOHandler(
			cfg,
			services.NewSSOService(db, cfg),
			services.NewOAuthProviderService(cfg),
			services.NewMemoryStateStore(cfg.SSO.StateTTL),
		),
	}, authMiddleware)

	return &testEnv{app: app, db: db, store: store, cfg: cfg}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: &hash,
		Name:         "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func performUpload(t *testing.T, app *fiber.App, token, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	headers := authHeaders(token)
	headers["Content-Type"] = writer.FormDataContentType()
	return performRequest(t, app, http.MethodPost, "/api/files/upload", &body, headers)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected message %q, got %q", expected, got)
	}
}

func envelopeData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	if success, _ := body["success"].(bool); !success {
		t.Fatalf("expected success=true, got %+v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", body["data"])
	}
	return data
}

func uploadTestFile(t *testing.T, env *testEnv, token, filename, content string) map[string]any {
	t.Helper()
	resp := performUpload(t, env.app, token, filename, []byte(content))
	assertStatus(t, resp, http.StatusCreated)
	return envelopeData(t, decodeJSONMap(t, resp))
}
