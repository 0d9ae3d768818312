package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), dirName, fileName)
	t.Setenv(PathEnv, path)
	return path
}

func TestPath(t *testing.T) {
	t.Run("honours override", func(t *testing.T) {
		path := useTempConfig(t)
		got, err := Path()
		if err != nil {
			t.Fatalf("Path() returned error: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("defaults to user config dir", func(t *testing.T) {
		t.Setenv(PathEnv, "")
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		got, err := Path()
		if err != nil {
			t.Fatalf("Path() returned error: %v", err)
		}
		if got != filepath.Join(userConfigDir, dirName, fileName) {
			t.Errorf("unexpected path %s", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when file does not exist", func(t *testing.T) {
		useTempConfig(t)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != DefaultURL {
			t.Errorf("expected ServerURL %s, got %s", DefaultURL, cfg.ServerURL)
		}
		if cfg.HasToken() {
			t.Error("expected no token")
		}
	})

	t.Run("fills in missing server url", func(t *testing.T) {
		path := useTempConfig(t)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(`{"token":"abc"}`), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != DefaultURL || cfg.Token != "abc" {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		path := useTempConfig(t)
		_ = os.MkdirAll(filepath.Dir(path), 0700)
		_ = os.WriteFile(path, []byte("{not json"), 0600)
		if _, err := Load(); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}

func TestSaveAndClear(t *testing.T) {
	path := useTempConfig(t)

	cfg := &Config{ServerURL: "https://drive.example.com", Token: "tok", Email: "me@example.com"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != filePerms {
		t.Errorf("expected permissions %o, got %o", filePerms, info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}

	if err := Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected config file to be removed")
	}
	if err := Clear(); err != nil {
		t.Errorf("Clear() on missing file returned error: %v", err)
	}
}
