package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRIPAY_CONFIG", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Database.Backend != "sqlite" {
		t.Errorf("backend = %q", c.Database.Backend)
	}
	if c.Sync.PollInterval != 30*time.Second {
		t.Errorf("poll interval = %v", c.Sync.PollInterval)
	}
	if c.Sync.DedupWindow != 5*time.Second {
		t.Errorf("dedup window = %v", c.Sync.DedupWindow)
	}
	if c.UI.Currency != "PHP" || c.UI.Locale != "en-PH" {
		t.Errorf("ui defaults: %+v", c.UI)
	}
	if string(c.SessionSecret()) == "" {
		t.Error("session secret fallback missing")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
backend = "postgres"
url = "postgres://tripay:pw@localhost/tripay"

[sync]
poll_interval = "10s"
dedup_window = "2s"

[ui]
currency = "USD"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIPAY_CONFIG", path)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Database.Backend != "postgres" || c.Database.URL == "" {
		t.Errorf("database = %+v", c.Database)
	}
	if c.Sync.PollInterval != 10*time.Second || c.Sync.DedupWindow != 2*time.Second {
		t.Errorf("sync = %+v", c.Sync)
	}
	if c.UI.Currency != "USD" {
		t.Errorf("currency = %q", c.UI.Currency)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[database]\nbackend = \"oracle\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIPAY_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("want error for unknown backend")
	}
}

func TestValidateRequiresPostgresURL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[database]\nbackend = \"postgres\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRIPAY_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("want error for missing postgres url")
	}
}
