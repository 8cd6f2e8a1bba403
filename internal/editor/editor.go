package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/amterp/gig/internal/config"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	settings *config.Settings
}

// NewEditor creates a new Editor.
func NewEditor(settings *config.Settings) *Editor {
	return &Editor{settings: settings}
}

// Resolve returns the editor command to use.
// Order: settings > $VISUAL > $EDITOR > vim
func (e *Editor) Resolve() string {
	if e.settings != nil && e.settings.Editor != "" {
		return e.settings.Editor
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vim"
}

// Edit opens the editor on content and returns the edited text with
// surrounding whitespace trimmed.
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "gig-note-*.txt")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Editors like "code --wait" carry arguments.
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", parts[0], err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(edited)), nil
}
