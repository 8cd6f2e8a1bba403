package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema versions - bump these when making breaking changes.
//
// CHECKLIST when bumping a version:
//  1. Update the constant below
//  2. Add entry to MinGigVersion map (tested by TestMinGigVersionCompleteness)
//  3. Teach the settings store to upgrade the previous version
const (
	CurrentSettingsVersion = 1
)

// SettingsSchemaPrefix prefixes the settings schema string.
const SettingsSchemaPrefix = "settings/"

// MinGigVersion maps schema identifiers to the minimum gig version required.
// Used to provide helpful upgrade messages when encountering newer schemas.
var MinGigVersion = map[string]string{
	"settings/1": "0.1.0",
}

// FormatSettingsSchema creates a settings schema string from a version number.
// Example: FormatSettingsSchema(1) returns "settings/1"
func FormatSettingsSchema(v int) string {
	return fmt.Sprintf("%s%d", SettingsSchemaPrefix, v)
}

// ParseSettingsVersion extracts the version number from a settings schema string.
// Returns an error if the format is invalid.
func ParseSettingsVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, SettingsSchemaPrefix, "settings")
}

func parseSchemaVersion(schema, prefix, schemaType string) (int, error) {
	if !strings.HasPrefix(schema, prefix) {
		return 0, fmt.Errorf("invalid %s schema format: %q (expected %sN)", schemaType, schema, prefix)
	}
	versionStr := strings.TrimPrefix(schema, prefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s schema version: %q", schemaType, versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s schema version: %d (must be >= 1)", schemaType, v)
	}
	return v, nil
}

// CurrentSettingsSchema returns the current settings schema string.
func CurrentSettingsSchema() string {
	return FormatSettingsSchema(CurrentSettingsVersion)
}
