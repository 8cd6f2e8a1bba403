package prompt

import "errors"

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Option is one choice in a selection prompt.
type Option struct {
	Label string
	Value string
}

// Options builds options whose label and value are the same.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return opts
}

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents options and returns the selected value.
	Select(title string, options []Option) (string, error)

	// Input prompts for text input. validate may be nil.
	Input(title string, defaultValue string, validate func(string) error) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)

	// MultiSelect allows selecting multiple options.
	MultiSelect(title string, options []Option, selected []string) ([]string, error)
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(title string, options []Option) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(title string, defaultValue string, validate func(string) error) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, ErrNonInteractive
}

func (p *NoopPrompter) MultiSelect(title string, options []Option, selected []string) ([]string, error) {
	return nil, ErrNonInteractive
}
