package resolver

import (
	"fmt"
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/prompt"
	"github.com/amterp/gig/internal/util"
)

// ClientSource lists clients. service.DataStore satisfies it.
type ClientSource interface {
	Clients() []model.Client
}

// ClientResolver turns user input into a client.
type ClientResolver struct {
	source   ClientSource
	prompter prompt.Prompter
}

// NewClientResolver creates a new client resolver.
func NewClientResolver(source ClientSource, prompter prompt.Prompter) *ClientResolver {
	return &ClientResolver{source: source, prompter: prompter}
}

// Resolve finds a client by ID or name:
// 1. Exact ID
// 2. Exact name, case-insensitive
// 3. Name substring, case-insensitive
// An empty query or several matches prompt the user when interactive,
// and fail otherwise. Archived clients are only offered when named.
func (r *ClientResolver) Resolve(query string, interactive bool) (model.Client, error) {
	query = strings.TrimSpace(query)
	clients := r.source.Clients()

	if query == "" {
		active := make([]model.Client, 0, len(clients))
		for _, c := range clients {
			if !c.IsArchived {
				active = append(active, c)
			}
		}
		if len(active) == 0 {
			return model.Client{}, fmt.Errorf("no clients yet; add one with 'gig client add'")
		}
		if !interactive {
			return model.Client{}, gigerr.InvalidField("client", "required in non-interactive mode")
		}
		return r.choose("Select client", active)
	}

	for _, c := range clients {
		if c.ID == query {
			return c, nil
		}
	}

	var exact, partial []model.Client
	folded := util.Fold(query)
	for _, c := range clients {
		if util.Fold(c.Name) == folded {
			exact = append(exact, c)
		} else if util.ContainsFold(c.Name, query) {
			partial = append(partial, c)
		}
	}

	for _, matches := range [][]model.Client{exact, partial} {
		switch {
		case len(matches) == 1:
			return matches[0], nil
		case len(matches) > 1:
			if !interactive {
				return model.Client{}, gigerr.AmbiguousMatch("client", query, len(matches))
			}
			return r.choose(fmt.Sprintf("Several clients match %q", query), matches)
		}
	}

	return model.Client{}, gigerr.ClientNotFound(query)
}

func (r *ClientResolver) choose(title string, clients []model.Client) (model.Client, error) {
	options := make([]prompt.Option, len(clients))
	for i, c := range clients {
		options[i] = prompt.Option{Label: ClientLabel(c), Value: c.ID}
	}
	chosen, err := r.prompter.Select(title, options)
	if err != nil {
		return model.Client{}, err
	}
	for _, c := range clients {
		if c.ID == chosen {
			return c, nil
		}
	}
	return model.Client{}, gigerr.ClientNotFound(chosen)
}

// ClientLabel renders a client for selection lists.
func ClientLabel(c model.Client) string {
	label := fmt.Sprintf("%s (%s)", c.Name, c.ID)
	if c.IsArchived {
		label += " [archived]"
	}
	return label
}
