package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"token": "secret-token",
		"database_id": "db-123",
		"recent_count": 7,
		"lookback_days": 14,
		"expenses": {
			"Transport": ["Taxi", "Train ticket"],
			"Food": ["Groceries"]
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Token != "secret-token" {
		t.Errorf("Token = %q, want secret-token", cfg.Token)
	}
	if cfg.DatabaseID != "db-123" {
		t.Errorf("DatabaseID = %q, want db-123", cfg.DatabaseID)
	}
	if cfg.RecentCount != 7 {
		t.Errorf("RecentCount = %d, want 7", cfg.RecentCount)
	}
	if cfg.LookbackDays != 14 {
		t.Errorf("LookbackDays = %d, want 14", cfg.LookbackDays)
	}
	if got := len(cfg.Expenses["Transport"]); got != 2 {
		t.Errorf("Expenses[Transport] has %d names, want 2", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"token": "t", "database_id": "d"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RecentCount != 5 {
		t.Errorf("RecentCount = %d, want default 5", cfg.RecentCount)
	}
	if cfg.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want default 30", cfg.LookbackDays)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `{"token": "from-file", "database_id": "d"}`)
	t.Setenv("SPENDNOTE_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %q, want env override from-env", cfg.Token)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no token", `{"database_id": "d"}`},
		{"no database", `{"token": "t"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load succeeded for missing file, want error")
	}
}
