package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/gig/internal/model"
)

func TestPaths_DataDir(t *testing.T) {
	tests := []struct {
		name         string
		dataLocation string
		want         string
	}{
		{"default", "", "/home/u/gig"},
		{"relative", "data", "/home/u/gig/data"},
		{"absolute", "/srv/gig", "/srv/gig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaths("/home/u/gig", tt.dataLocation)
			if got := p.DataDir(); got != tt.want {
				t.Errorf("DataDir() = %q, want %q", got, tt.want)
			}
			if got := p.DataFilePath(); got != filepath.Join(tt.want, DataFileName) {
				t.Errorf("DataFilePath() = %q", got)
			}
		})
	}
}

func TestPaths_SettingsPathIgnoresDataLocation(t *testing.T) {
	p := NewPaths("/home/u/gig", "elsewhere")
	if got := p.SettingsPath(); got != "/home/u/gig/config.toml" {
		t.Errorf("SettingsPath() = %q", got)
	}
}

func TestDefaultHome_EnvOverride(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/custom-gig")
	if got := DefaultHome(); got != "/tmp/custom-gig" {
		t.Errorf("DefaultHome() = %q", got)
	}
}

func TestSettings_NormalizeFillsDefaults(t *testing.T) {
	s := &Settings{Currency: "eur"}
	s.Normalize()

	if s.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", s.Currency)
	}
	if s.PeriodDays != DefaultPeriodDays {
		t.Errorf("PeriodDays = %d", s.PeriodDays)
	}
	order, err := s.ParsedStatusOrder()
	if err != nil {
		t.Fatalf("ParsedStatusOrder failed: %v", err)
	}
	if order[0] != model.StatusNew {
		t.Errorf("Expected default order, got %v", order)
	}
}

func TestSettings_NormalizeReplacesInvalidOrder(t *testing.T) {
	s := &Settings{StatusOrder: []string{"done", "done", "new", "canceled"}}
	s.Normalize()

	if _, err := s.ParsedStatusOrder(); err != nil {
		t.Errorf("Expected status order to be repaired, got %v", err)
	}
}

func TestSettings_ApplyEnv(t *testing.T) {
	t.Setenv(EnvCurrency, "gbp")
	s := DefaultSettings()
	s.ApplyEnv()
	if s.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", s.Currency)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("GIG_TEST_VALUE=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvEnvFile, envFile)
	t.Setenv("GIG_TEST_VALUE", "")
	os.Unsetenv("GIG_TEST_VALUE")

	LoadEnvFile()

	if got := os.Getenv("GIG_TEST_VALUE"); got != "from-file" {
		t.Errorf("GIG_TEST_VALUE = %q, want from-file", got)
	}
}
