package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPortalConfig(t *testing.T) {
	path := writeConfig(t, `name = "portal-a"
addr = ":9999"
cors_origins = ["http://localhost:3000"]
history_db = "visits.db"

[client]
connect_timeout_ms = 2000
max_redirects = 3
`)

	cfg, err := LoadPortalConfig(path)
	if err != nil {
		t.Fatalf("LoadPortalConfig: %v", err)
	}
	if cfg.Name != "portal-a" || cfg.Addr != ":9999" {
		t.Fatalf("identity: got=%q/%q", cfg.Name, cfg.Addr)
	}
	if cfg.HistoryDB != "visits.db" {
		t.Fatalf("history_db: got=%q", cfg.HistoryDB)
	}
	if cfg.Client.ConnectTimeoutMS != 2000 || cfg.Client.MaxRedirects != 3 {
		t.Fatalf("client section: got=%+v", cfg.Client)
	}
}

func TestLoadPortalConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := LoadPortalConfig(path)
	if err != nil {
		t.Fatalf("LoadPortalConfig: %v", err)
	}
	if cfg.Name != "gemnav-portal" {
		t.Fatalf("default name: got=%q", cfg.Name)
	}
	if cfg.Addr != ":8965" {
		t.Fatalf("default addr: got=%q", cfg.Addr)
	}
}

func TestLoadPortalConfigMissingFile(t *testing.T) {
	if _, err := LoadPortalConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateClientConfigRejectsNegatives(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{"negative timeout", ClientConfig{ConnectTimeoutMS: -1}},
		{"negative body cap", ClientConfig{MaxBodyBytes: -1}},
		{"negative redirects", ClientConfig{MaxRedirects: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateClientConfig(tc.cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGeminiConfigFillsDefaults(t *testing.T) {
	out := GeminiConfig(ClientConfig{ConnectTimeoutMS: 1500})
	if out.ConnectTimeout != 1500*time.Millisecond {
		t.Fatalf("ConnectTimeout: got=%v", out.ConnectTimeout)
	}
	if out.ReadTimeout != 5*time.Second {
		t.Fatalf("ReadTimeout default: got=%v", out.ReadTimeout)
	}
	if out.MaxBodyBytes != 5*1024*1024 {
		t.Fatalf("MaxBodyBytes default: got=%d", out.MaxBodyBytes)
	}
	if out.MaxRedirects != 5 {
		t.Fatalf("MaxRedirects default: got=%d", out.MaxRedirects)
	}
}

func TestTemplateKinds(t *testing.T) {
	for _, kind := range []string{"portal", "browser"} {
		if _, err := Template(kind); err != nil {
			t.Fatalf("Template(%q): %v", kind, err)
		}
	}
	if _, err := Template("spartan"); err == nil {
		t.Fatal("expected error for unknown template kind")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.toml")
	if err := WriteTemplate(path, "portal", false); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	if err := WriteTemplate(path, "portal", false); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "portal", true); err != nil {
		t.Fatalf("WriteTemplate overwrite: %v", err)
	}

	cfg, err := LoadPortalConfig(path)
	if err != nil {
		t.Fatalf("LoadPortalConfig on template: %v", err)
	}
	if cfg.Addr != ":8965" {
		t.Fatalf("template addr: got=%q", cfg.Addr)
	}
}
