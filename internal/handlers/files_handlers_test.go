package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
)

func TestUpload(t *testing.T) {
	env := setupTestEnv(t)
	user, token := createTestUser(t, env.db, "upload@test.com", "password123")

	t.Run("stores object and record", func(t *testing.T) {
		data := uploadTestFile(t, env, token, "Annual Report.pdf", "%PDF")

		if data["filename"] != "Annual Report.pdf" {
			t.Fatalf("unexpected filename %v", data["filename"])
		}
		if data["ownerID"] != user.ID.String() {
			t.Fatalf("unexpected owner %v", data["ownerID"])
		}
		if data["isPublic"] != false {
			t.Fatalf("expected private file, got %v", data["isPublic"])
		}
		if _, leaked := data["storageKey"]; leaked {
			t.Fatal("storage key must not be serialised")
		}
		if len(env.store.objects) != 1 {
			t.Fatalf("expected 1 stored object, got %d", len(env.store.objects))
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/files/upload", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "No file uploaded")
	})

	t.Run("file over the upload limit", func(t *testing.T) {
		resp := performUpload(t, env.app, token, "big.bin", bytes.Repeat([]byte("x"), testMaxUploadBytes+1))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "file too large")
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp := performUpload(t, env.app, "", "a.txt", []byte("x"))
		assertStatus(t, resp, http.StatusUnauthorized)
	})
}

func TestListAndSearch(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := createTestUser(t, env.db, "alice@test.com", "password123")
	_, bobToken := createTestUser(t, env.db, "bob@test.com", "password123")

	uploadTestFile(t, env, aliceToken, "report.pdf", "a")
	uploadTestFile(t, env, aliceToken, "photo.png", "b")
	uploadTestFile(t, env, bobToken, "report-bob.pdf", "c")

	listNames := func(t *testing.T, path, token string) []string {
		t.Helper()
		resp := performRequest(t, env.app, http.MethodGet, path, nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		body := decodeJSONMap(t, resp)
		items, ok := body["data"].([]any)
		if !ok {
			t.Fatalf("expected array data, got %T", body["data"])
		}
		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, item.(map[string]any)["filename"].(string))
		}
		return names
	}

	if names := listNames(t, "/api/files", aliceToken); len(names) != 2 || names[0] != "photo.png" {
		t.Fatalf("expected alice's two files newest first, got %v", names)
	}
	if names := listNames(t, "/api/files?q=REP", aliceToken); len(names) != 1 || names[0] != "report.pdf" {
		t.Fatalf("expected only alice's report, got %v", names)
	}
	if names := listNames(t, "/api/files/search?q=report", bobToken); len(names) != 1 || names[0] != "report-bob.pdf" {
		t.Fatalf("expected only bob's report, got %v", names)
	}
	if names := listNames(t, "/api/files?search=nothing", bobToken); len(names) != 0 {
		t.Fatalf("expected empty list, got %v", names)
	}

	resp := performRequest(t, env.app, http.MethodGet, "/api/files/search", nil, authHeaders(aliceToken))
	assertStatus(t, resp, http.StatusBadRequest)
	assertEnvelopeError(t, decodeJSONMap(t, resp), "search query is required")
}

func TestFileOperations(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "owner@test.com", "password123")
	file := uploadTestFile(t, env, token, "notes.txt", "hello")
	id := file["id"].(string)

	t.Run("get", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+id, nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		if data := envelopeData(t, decodeJSONMap(t, resp)); data["filename"] != "notes.txt" {
			t.Fatalf("unexpected filename %v", data["filename"])
		}
	})

	t.Run("rename", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/files/"+id+"/rename", map[string]any{"newFilename": "renamed.txt"}, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		if data := envelopeData(t, decodeJSONMap(t, resp)); data["filename"] != "renamed.txt" {
			t.Fatalf("unexpected filename %v", data["filename"])
		}
	})

	t.Run("rename requires a name", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/files/"+id+"/rename", map[string]any{"newFilename": ""}, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "newFilename is required")

		resp = performJSONRequest(t, env.app, http.MethodPut, "/api/files/"+id+"/rename", map[string]any{"newFilename": "   "}, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "new filename is required")
	})

	t.Run("download", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+id+"/download", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		data := envelopeData(t, decodeJSONMap(t, resp))
		if data["expiresIn"] != float64(3600) {
			t.Fatalf("expected expiresIn 3600, got %v", data["expiresIn"])
		}
		if url, _ := data["url"].(string); !strings.Contains(url, "X-Amz-Expires=3600") {
			t.Fatalf("unexpected url %v", data["url"])
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/not-a-uuid", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "invalid file id")
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+uuid.NewString(), nil, authHeaders(token))
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "file not found")
	})

	t.Run("delete failure keeps file", func(t *testing.T) {
		env.store.deleteErr = errors.New("storage offline")
		defer func() { env.store.deleteErr = nil }()

		resp := performRequest(t, env.app, http.MethodDelete, "/api/files/"+id, nil, authHeaders(token))
		assertStatus(t, resp, http.StatusInternalServerError)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "internal server error")

		resp = performRequest(t, env.app, http.MethodGet, "/api/files/"+id, nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
	})

	t.Run("delete then download", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/files/"+id, nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)

		resp = performRequest(t, env.app, http.MethodGet, "/api/files/"+id+"/download", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusNotFound)

		var count int64
		env.db.Model(&models.File{}).Count(&count)
		if count != 0 {
			t.Fatalf("expected record to be gone, found %d", count)
		}
	})
}

func TestCrossOwnerAccess(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := createTestUser(t, env.db, "alice@test.com", "password123")
	_, malloryToken := createTestUser(t, env.db, "mallory@test.com", "password123")
	id := uploadTestFile(t, env, aliceToken, "private.txt", "secret")["id"].(string)

	requests := []struct {
		method string
		path   string
		body   map[string]any
	}{
		{http.MethodGet, "/api/files/" + id, nil},
		{http.MethodPut, "/api/files/" + id + "/rename", map[string]any{"newFilename": "x"}},
		{http.MethodGet, "/api/files/" + id + "/download", nil},
		{http.MethodPost, "/api/files/" + id + "/share", nil},
		{http.MethodPost, "/api/files/" + id + "/unshare", nil},
		{http.MethodDelete, "/api/files/" + id, nil},
	}

	for _, r := range requests {
		resp := performJSONRequest(t, env.app, r.method, r.path, r.body, authHeaders(malloryToken))
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", r.method, r.path, resp.StatusCode)
		}
		assertEnvelopeError(t, decodeJSONMap(t, resp), "file not found")
	}

	resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+id, nil, authHeaders(aliceToken))
	assertStatus(t, resp, http.StatusOK)
	if data := envelopeData(t, decodeJSONMap(t, resp)); data["filename"] != "private.txt" {
		t.Fatalf("file was modified by another user: %v", data["filename"])
	}
}

func TestSharingFlow(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "sharer@test.com", "password123")
	id := uploadTestFile(t, env, token, "report.pdf", "%PDF-1.7")["id"].(string)

	resp := performRequest(t, env.app, http.MethodPost, "/api/files/"+id+"/share", nil, authHeaders(token))
	assertStatus(t, resp, http.StatusOK)
	data := envelopeData(t, decodeJSONMap(t, resp))
	shareToken, _ := data["sharedToken"].(string)
	if shareToken == "" {
		t.Fatal("expected share token")
	}
	if data["shareUrl"] != "http://localhost:5173/shared/"+shareToken {
		t.Fatalf("unexpected share url %v", data["shareUrl"])
	}

	t.Run("double enable is a conflict", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/files/"+id+"/share", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "file is already shared")

		var stored models.File
		env.db.First(&stored, "id = ?", id)
		if stored.SharedToken == nil || *stored.SharedToken != shareToken {
			t.Fatal("share token changed after rejected enable")
		}
	})

	t.Run("anonymous access by token", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/shared/"+shareToken, nil, nil)
		assertStatus(t, resp, http.StatusOK)
		shared, _ := envelopeData(t, decodeJSONMap(t, resp))["file"].(map[string]any)
		if shared["filename"] != "report.pdf" {
			t.Fatalf("unexpected filename %v", shared["filename"])
		}
		if shared["expiresIn"] != float64(3600) {
			t.Fatalf("unexpected expiresIn %v", shared["expiresIn"])
		}
		for _, hidden := range []string{"ownerID", "storageKey", "id"} {
			if _, ok := shared[hidden]; ok {
				t.Fatalf("shared view must not expose %s", hidden)
			}
		}
	})

	t.Run("unshare revokes the token", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/files/"+id+"/unshare", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		if data := envelopeData(t, decodeJSONMap(t, resp)); data["isPublic"] != false {
			t.Fatalf("expected private file, got %v", data["isPublic"])
		}

		resp = performRequest(t, env.app, http.MethodGet, "/api/files/shared/"+shareToken, nil, nil)
		assertStatus(t, resp, http.StatusNotFound)

		resp = performRequest(t, env.app, http.MethodPost, "/api/files/"+id+"/unshare", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "file is not shared")
	})

	t.Run("re-enable issues a fresh token", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/files/"+id+"/share", nil, authHeaders(token))
		assertStatus(t, resp, http.StatusOK)
		fresh, _ := envelopeData(t, decodeJSONMap(t, resp))["sharedToken"].(string)
		if fresh == "" || fresh == shareToken {
			t.Fatalf("expected a new token, got %q", fresh)
		}
	})
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestEnv(t)
	resp := performRequest(t, env.app, http.MethodGet, "/nope", nil, nil)
	assertStatus(t, resp, http.StatusNotFound)
	if body := decodeJSONMap(t, resp); body["success"] != false {
		t.Fatalf("expected error envelope, got %v", body)
	}
}
