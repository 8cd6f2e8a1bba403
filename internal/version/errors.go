package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem during file read.
type SchemaVersionError struct {
	FileType    string // "settings"
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "settings/2")
	Expected    string // What was expected (e.g., "settings/1")
	MinRequired string // Minimum gig version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires gig >= %s (file: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

// InvalidSettingsSchema creates an error for settings with an unsupported schema.
func InvalidSettingsSchema(path, found string) error {
	e := &SchemaVersionError{
		FileType: "settings",
		FilePath: path,
		Found:    found,
		Expected: CurrentSettingsSchema(),
	}
	// Check if it's a future version
	if v, err := ParseSettingsVersion(found); err == nil && v > CurrentSettingsVersion {
		if minGig, ok := MinGigVersion[found]; ok {
			e.MinRequired = minGig
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
