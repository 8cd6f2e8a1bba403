package prompt

import (
	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter using the charmbracelet/huh library.
type HuhPrompter struct{}

// NewHuhPrompter creates a new huh-based prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func huhOptions(options []Option) []huh.Option[string] {
	opts := make([]huh.Option[string], len(options))
	for i, opt := range options {
		opts[i] = huh.NewOption(opt.Label, opt.Value)
	}
	return opts
}

func (p *HuhPrompter) Select(title string, options []Option) (string, error) {
	var result string

	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions(options)...).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Input(title string, defaultValue string, validate func(string) error) (string, error) {
	result := defaultValue

	input := huh.NewInput().
		Title(title).
		Value(&result)
	if validate != nil {
		input = input.Validate(validate)
	}

	err := input.Run()
	return result, err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) MultiSelect(title string, options []Option, selected []string) ([]string, error) {
	result := append([]string(nil), selected...)

	err := huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions(options)...).
		Value(&result).
		Run()

	return result, err
}
