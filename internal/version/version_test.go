package version

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormatSettingsSchema(t *testing.T) {
	tests := []struct {
		version  int
		expected string
	}{
		{1, "settings/1"},
		{2, "settings/2"},
		{10, "settings/10"},
	}
	for _, tt := range tests {
		got := FormatSettingsSchema(tt.version)
		if got != tt.expected {
			t.Errorf("FormatSettingsSchema(%d) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestParseSettingsVersion(t *testing.T) {
	tests := []struct {
		schema    string
		expected  int
		expectErr bool
	}{
		{"settings/1", 1, false},
		{"settings/10", 10, false},
		{"board/1", 0, true},      // Wrong prefix
		{"settings/", 0, true},    // Missing version
		{"settings/abc", 0, true}, // Invalid version
		{"settings/0", 0, true},   // Version must be >= 1
		{"", 0, true},             // Empty
	}
	for _, tt := range tests {
		got, err := ParseSettingsVersion(tt.schema)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseSettingsVersion(%q) expected error, got %d", tt.schema, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSettingsVersion(%q) unexpected error: %v", tt.schema, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseSettingsVersion(%q) = %d, want %d", tt.schema, got, tt.expected)
		}
	}
}

func TestMinGigVersionCompleteness(t *testing.T) {
	for v := 1; v <= CurrentSettingsVersion; v++ {
		key := FormatSettingsSchema(v)
		if _, ok := MinGigVersion[key]; !ok {
			t.Errorf("MinGigVersion missing entry for %s", key)
		}
	}
}

func TestInvalidSettingsSchema_FutureVersion(t *testing.T) {
	future := fmt.Sprintf("settings/%d", CurrentSettingsVersion+1)
	err := InvalidSettingsSchema("/tmp/config.toml", future)
	if !strings.Contains(err.Error(), "requires gig >=") {
		t.Errorf("Expected upgrade hint, got %q", err.Error())
	}

	err = InvalidSettingsSchema("/tmp/config.toml", "garbage")
	if strings.Contains(err.Error(), "requires gig") {
		t.Errorf("Did not expect upgrade hint, got %q", err.Error())
	}
}
