package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	cfg, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.OwnerID != DefaultOwnerID {
		t.Errorf("expected owner %d, got %d", DefaultOwnerID, cfg.OwnerID)
	}
}

func TestNew_FileSettings(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	dir := t.TempDir()
	writeConfig(t, dir, "base_url = \"http://localhost:8080/\"\nowner_id = 53\n")

	cfg, err := New(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.OwnerID != 53 {
		t.Errorf("expected owner 53, got %d", cfg.OwnerID)
	}
}

func TestNew_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base_url = \"http://file.example\"\n")

	t.Setenv(EnvBaseURL, "http://env.example")
	cfg, err := New(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://env.example" {
		t.Errorf("expected env to win over file, got %q", cfg.BaseURL)
	}

	cfg, err = New(dir, "http://flag.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://flag.example" {
		t.Errorf("expected flag to win over env, got %q", cfg.BaseURL)
	}
}

func TestNew_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base_url = ")

	_, err := New(dir, "")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config parse failed") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	_, err := New(t.TempDir(), "ftp://example.com")
	if err == nil {
		t.Fatal("expected invalid base url error")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("expected xdg dir, got %q", got)
	}
}
