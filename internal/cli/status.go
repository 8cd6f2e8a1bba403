package cli

import (
	"fmt"
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/ra"
)

func registerStatus(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("status")
	cmd.SetDescription("Manage the status workflow")

	// status show
	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Show the status order")

	ctx.StatusShowUsed, _ = cmd.RegisterCmd(showCmd)

	// status reorder
	reorderCmd := ra.NewCmd("reorder")
	reorderCmd.SetDescription("Change the status order used by the board and 'order advance'")

	ctx.StatusReorderOrder, _ = ra.NewString("order").
		SetOptional(true).
		SetUsage("Comma-separated permutation of new,inProgress,done,canceled").
		Register(reorderCmd)

	ctx.StatusReorderReset, _ = ra.NewBool("reset").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Restore the default order").
		Register(reorderCmd)

	ctx.StatusReorderUsed, _ = cmd.RegisterCmd(reorderCmd)

	ctx.StatusUsed, _ = parent.RegisterCmd(cmd)
}

func runStatusShow(jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	order := app.Store.StatusOrder()
	if jsonOutput {
		if err := printJson(StatusOrderOutput{StatusOrder: order.Strings()}); err != nil {
			Fatal(err)
		}
		return
	}

	labels := make([]string, len(order))
	for i, s := range order {
		labels[i] = RenderStatus(s)
	}
	fmt.Println(strings.Join(labels, RenderMuted(" "+IconInfo+" ")) + RenderMuted(" "+IconInfo+" (wraps)"))
}

// parseStatusOrder parses a comma-separated permutation of the statuses.
func parseStatusOrder(s string) (model.StatusOrder, error) {
	statuses, err := model.ParseStatuses(s)
	if err != nil {
		return nil, gigerr.InvalidField("status order", err.Error())
	}
	order := model.StatusOrder(statuses)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func runStatusReorder(orderStr string, reset, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	var order model.StatusOrder
	switch {
	case reset:
		order = model.DefaultStatusOrder()
	case orderStr != "":
		order, err = parseStatusOrder(orderStr)
		if err != nil {
			Fatal(err)
		}
	case nonInteractive:
		Fatal(fmt.Errorf("order is required in non-interactive mode"))
	default:
		order, err = promptStatusOrder(app)
		if err != nil {
			Fatal(err)
		}
	}

	if err := app.Store.SetStatusOrder(order); err != nil {
		Fatal(err)
	}
	app.Settings.StatusOrder = order.Strings()
	if err := app.SaveSettings(); err != nil {
		Fatal(err)
	}
	PrintSuccess("Status order: %s", strings.Join(order.Strings(), ", "))
}

// promptStatusOrder asks for the statuses one position at a time.
func promptStatusOrder(app *App) (model.StatusOrder, error) {
	remaining := app.Store.StatusOrder()
	order := make(model.StatusOrder, 0, len(remaining))
	for len(remaining) > 1 {
		choice, err := app.Prompter.Select(fmt.Sprintf("Position %d", len(order)+1), statusOptions(remaining))
		if err != nil {
			return nil, err
		}
		status := model.OrderStatus(choice)
		order = append(order, status)
		remaining = remaining.Move(remaining.Index(status), len(remaining)-1)[:len(remaining)-1]
	}
	return append(order, remaining...), nil
}
