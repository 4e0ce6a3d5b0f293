package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.App.PageSize)
	}
	if cfg.Upload.MaxSize != 16*1024*1024 {
		t.Errorf("MaxSize = %d, want 16MiB", cfg.Upload.MaxSize)
	}
	want := []string{"png", "jpg", "jpeg", "gif", "pdf", "txt"}
	if len(cfg.Upload.AllowedExtensions) != len(want) {
		t.Fatalf("AllowedExtensions = %v, want %v", cfg.Upload.AllowedExtensions, want)
	}
	for i := range want {
		if cfg.Upload.AllowedExtensions[i] != want[i] {
			t.Errorf("AllowedExtensions[%d] = %q, want %q", i, cfg.Upload.AllowedExtensions[i], want[i])
		}
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("Mode = %q, want debug", cfg.Server.Mode)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
app:
  environment: production
  page_size: 25
database:
  url: postgres://user:pw@localhost/lifelog
upload:
  dir: /tmp/media
  allowed_extensions: [".PNG", "mp4", "mov"]
cors:
  origins: ["https://a.example", "https://b.example"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.Database.URL != "postgresql://user:pw@localhost/lifelog" {
		t.Errorf("URL = %q, want postgresql:// scheme", cfg.Database.URL)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("Mode = %q, want release in production", cfg.Server.Mode)
	}
	if cfg.App.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.App.PageSize)
	}
	if got := cfg.Upload.AllowedExtensions; len(got) != 3 || got[0] != "png" {
		t.Errorf("AllowedExtensions = %v", got)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Origins = %v", cfg.CORS.Origins)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///var/lib/lifelog.db")
	t.Setenv("CORS_ORIGINS", "https://x.example, https://y.example")
	t.Setenv("LIFELOG_UPLOAD_DIR", "/srv/uploads")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "var/lib/lifelog.db" {
		t.Errorf("URL = %q", cfg.Database.URL)
	}
	if cfg.Upload.Dir != "/srv/uploads" {
		t.Errorf("Upload.Dir = %q", cfg.Upload.Dir)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "https://y.example" {
		t.Errorf("Origins = %v", cfg.CORS.Origins)
	}
}

func TestLoad_DebugAndEmptyOrigins(t *testing.T) {
	path := writeConfig(t, `
server:
  debug: true
app:
  environment: production
cors:
  origins: []
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("Mode = %q, want debug when server.debug is set", cfg.Server.Mode)
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "*" {
		t.Errorf("Origins = %v, want [*]", cfg.CORS.Origins)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 70000\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want error for out of range port")
	}
}
