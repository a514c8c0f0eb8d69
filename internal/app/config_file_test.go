package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileConfig_AppliesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cifrabox.yaml")
	data := `
site:
  baseURL: https://example.test
  brand: Example
search:
  apiURL: https://api.example.test
  limit: 7
cache:
  ttl: 30m
server:
  addr: ":9090"
  jwtSecret: file-secret
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var cfg Config
	fc.Apply(&cfg)
	cfg.Defaults()

	if cfg.BaseURL != "https://example.test" || cfg.Brand != "Example" {
		t.Fatalf("site section not applied: %+v", cfg)
	}
	if cfg.SearchAPIURL != "https://api.example.test" || cfg.SearchLimit != 7 {
		t.Fatalf("search section not applied: %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("cache ttl not applied: %v", cfg.CacheTTL)
	}
	if cfg.ListenAddr != ":9090" || cfg.JWTSecret != "file-secret" {
		t.Fatalf("server section not applied: %+v", cfg)
	}
	// Untouched fields keep defaults.
	if cfg.Domain != "cifraclub.com.br" {
		t.Fatalf("expected default domain, got %q", cfg.Domain)
	}
}

func TestLoadFileConfig_MissingFileIsEmpty(t *testing.T) {
	fc, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected missing file tolerated, got %v", err)
	}
	var cfg Config
	fc.Apply(&cfg)
	cfg.Defaults()
	if cfg.BaseURL != "https://www.cifraclub.com.br" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestApplyEnv_WinsOverFile(t *testing.T) {
	t.Setenv("CIFRABOX_DOMAIN", "env.example")
	t.Setenv("CIFRABOX_CACHE_TTL", "2h")
	t.Setenv("CIFRABOX_SEARCH_LIMIT", "3")

	cfg := Config{Domain: "file.example"}
	ApplyEnv(&cfg)
	if cfg.Domain != "env.example" {
		t.Fatalf("expected env override, got %q", cfg.Domain)
	}
	if cfg.CacheTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", cfg.CacheTTL)
	}
	if cfg.SearchLimit != 3 {
		t.Fatalf("expected limit 3, got %d", cfg.SearchLimit)
	}
}
