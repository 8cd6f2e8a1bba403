package store

import (
	"time"

	"github.com/amterp/gig/internal/id"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/util"
)

// SeedPayload returns the sample dataset: three clients and three orders
// spread across yesterday and today with statuses new, inProgress and done.
// Times are truncated to whole seconds so the dataset survives a save/load
// cycle unchanged.
func SeedPayload(now time.Time) *model.Payload {
	now = now.Truncate(time.Second)
	today := util.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	anna := model.Client{
		ID:        id.Generate(id.Client),
		Name:      "Anna Petrova",
		Note:      "Prefers morning appointments",
		CreatedAt: now,
	}
	mark := model.Client{
		ID:        id.Generate(id.Client),
		Name:      "Mark Doyle",
		CreatedAt: now,
	}
	sofia := model.Client{
		ID:        id.Generate(id.Client),
		Name:      "Sofia Reyes",
		Note:      "Call before arriving",
		CreatedAt: now,
	}

	order := func(client model.Client, templateID string, date time.Time, status model.OrderStatus) model.Order {
		tmpl, _ := model.FindTemplate(templateID)
		return model.Order{
			ID:              id.Generate(id.Order),
			ClientID:        client.ID,
			ServiceName:     tmpl.Name,
			ServiceIcon:     tmpl.Icon,
			ServiceColorHex: tmpl.ColorHex,
			Price:           tmpl.BasePrice,
			Date:            date,
			Status:          status,
			CreatedAt:       now,
		}
	}

	return &model.Payload{
		Clients: []model.Client{anna, mark, sofia},
		Orders: []model.Order{
			order(anna, "consultation", yesterday.Add(10*time.Hour), model.StatusDone),
			order(mark, "repair", today.Add(11*time.Hour), model.StatusInProgress),
			order(sofia, "premium", today.Add(15*time.Hour), model.StatusNew),
		},
		SeededAt: &now,
	}
}
