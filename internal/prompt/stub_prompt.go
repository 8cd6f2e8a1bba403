package prompt

import "fmt"

// StubPrompter answers prompts from canned responses. Used in tests.
type StubPrompter struct {
	SelectAnswers  []string
	InputAnswers   []string
	ConfirmAnswers []bool
	MultiAnswers   [][]string

	// Titles records every prompt title in order.
	Titles []string
}

func (p *StubPrompter) Select(title string, options []Option) (string, error) {
	p.Titles = append(p.Titles, title)
	if len(p.SelectAnswers) == 0 {
		return "", fmt.Errorf("unexpected select prompt %q", title)
	}
	answer := p.SelectAnswers[0]
	p.SelectAnswers = p.SelectAnswers[1:]
	return answer, nil
}

func (p *StubPrompter) Input(title string, defaultValue string, validate func(string) error) (string, error) {
	p.Titles = append(p.Titles, title)
	if len(p.InputAnswers) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", title)
	}
	answer := p.InputAnswers[0]
	p.InputAnswers = p.InputAnswers[1:]
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *StubPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	p.Titles = append(p.Titles, title)
	if len(p.ConfirmAnswers) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt %q", title)
	}
	answer := p.ConfirmAnswers[0]
	p.ConfirmAnswers = p.ConfirmAnswers[1:]
	return answer, nil
}

func (p *StubPrompter) MultiSelect(title string, options []Option, selected []string) ([]string, error) {
	p.Titles = append(p.Titles, title)
	if len(p.MultiAnswers) == 0 {
		return nil, fmt.Errorf("unexpected multi-select prompt %q", title)
	}
	answer := p.MultiAnswers[0]
	p.MultiAnswers = p.MultiAnswers[1:]
	return answer, nil
}
