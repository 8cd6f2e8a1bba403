package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/prompt"
	"github.com/amterp/gig/internal/resolver"
	"github.com/amterp/gig/internal/service"
	"github.com/amterp/gig/internal/util"
	"github.com/amterp/ra"
)

const customServiceOption = "custom"

func registerOrder(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("order")
	cmd.SetDescription("Manage orders")

	// order add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a new order")

	ctx.OrderAddClient, _ = ra.NewString("client").
		SetOptional(true).
		SetUsage("Client ID or name (prompted if omitted)").
		SetCompletionFunc(completeClients).
		Register(addCmd)

	ctx.OrderAddTemplate, _ = ra.NewString("template").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Service template ID or name").
		SetCompletionFunc(completeTemplates).
		Register(addCmd)

	ctx.OrderAddService, _ = ra.NewString("service").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Custom service name (instead of a template)").
		Register(addCmd)

	ctx.OrderAddPrice, _ = ra.NewString("price").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Price (defaults to the template's base price)").
		Register(addCmd)

	ctx.OrderAddDate, _ = ra.NewString("date").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Date: today, tomorrow, YYYY-MM-DD or 'YYYY-MM-DD HH:MM'").
		Register(addCmd)

	ctx.OrderAddNote, _ = ra.NewString("note").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Free-form note").
		Register(addCmd)

	ctx.OrderAddStatus, _ = ra.NewString("status").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Initial status (default: new)").
		SetCompletionFunc(completeStatuses).
		Register(addCmd)

	ctx.OrderAddUsed, _ = cmd.RegisterCmd(addCmd)

	// order list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List orders by date")

	ctx.OrderListClient, _ = ra.NewString("client").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Only orders for this client").
		SetCompletionFunc(completeClients).
		Register(listCmd)

	ctx.OrderListStatus, _ = ra.NewString("status").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Comma-separated statuses to show").
		Register(listCmd)

	ctx.OrderListQuery, _ = ra.NewString("query").
		SetShort("q").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Search client name, service and note").
		Register(listCmd)

	ctx.OrderListUsed, _ = cmd.RegisterCmd(listCmd)

	// order edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Edit an order")

	ctx.OrderEditOrder = registerOrderArg(editCmd)

	ctx.OrderEditStatus, _ = ra.NewString("status").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New status").
		SetCompletionFunc(completeStatuses).
		Register(editCmd)

	ctx.OrderEditPrice, _ = ra.NewString("price").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New price").
		Register(editCmd)

	ctx.OrderEditDate, _ = ra.NewString("date").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New date").
		Register(editCmd)

	ctx.OrderEditNote, _ = ra.NewString("note").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New note").
		Register(editCmd)

	ctx.OrderEditUsed, _ = cmd.RegisterCmd(editCmd)

	// order delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete an order")

	ctx.OrderDeleteOrder = registerOrderArg(deleteCmd)

	ctx.OrderDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(deleteCmd)

	ctx.OrderDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	// order duplicate
	dupCmd := ra.NewCmd("duplicate")
	dupCmd.SetDescription("Copy an order onto a new date")

	ctx.OrderDuplicateOrder = registerOrderArg(dupCmd)

	ctx.OrderDuplicateDate, _ = ra.NewString("date").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Date for the copy (default: now)").
		Register(dupCmd)

	ctx.OrderDuplicateUsed, _ = cmd.RegisterCmd(dupCmd)

	// order advance
	advanceCmd := ra.NewCmd("advance")
	advanceCmd.SetDescription("Move an order to the next status")

	ctx.OrderAdvanceOrder = registerOrderArg(advanceCmd)

	ctx.OrderAdvanceUsed, _ = cmd.RegisterCmd(advanceCmd)

	// order move
	moveCmd := ra.NewCmd("move")
	moveCmd.SetDescription("Set an order's status")

	ctx.OrderMoveOrder = registerOrderArg(moveCmd)

	ctx.OrderMoveStatus, _ = ra.NewString("status").
		SetOptional(true).
		SetUsage("Target status (prompted if omitted)").
		SetCompletionFunc(completeStatuses).
		Register(moveCmd)

	ctx.OrderMoveUsed, _ = cmd.RegisterCmd(moveCmd)

	// order note
	noteCmd := ra.NewCmd("note")
	noteCmd.SetDescription("Edit an order's note in your editor")

	ctx.OrderNoteOrder = registerOrderArg(noteCmd)

	ctx.OrderNoteUsed, _ = cmd.RegisterCmd(noteCmd)

	ctx.OrderUsed, _ = parent.RegisterCmd(cmd)
}

func registerOrderArg(cmd *ra.Cmd) *string {
	arg, _ := ra.NewString("order").
		SetOptional(true).
		SetUsage("Order ID or unique ID prefix").
		SetCompletionFunc(completeOrders).
		Register(cmd)
	return arg
}

// parsePrice parses an optional price flag. Empty means unset.
func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, gigerr.InvalidField("price", fmt.Sprintf("%q is not a number", s))
	}
	if err := model.ValidatePrice(price); err != nil {
		return nil, err
	}
	return &price, nil
}

// parseDateFlag parses an optional date flag. Empty means unset.
func parseDateFlag(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	date, err := util.ParseDate(s, now)
	if err != nil {
		return nil, gigerr.InvalidField("date", fmt.Sprintf("cannot parse %q", s))
	}
	return &date, nil
}

// parseStatusFlag parses an optional status flag. Empty means unset.
func parseStatusFlag(s string) (*model.OrderStatus, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	status, err := model.ParseStatus(s)
	if err != nil {
		return nil, gigerr.InvalidField("status", err.Error())
	}
	return &status, nil
}

// buildOrderPatch turns edit flags into a patch.
func buildOrderPatch(status, price, date, note string, now time.Time) (service.OrderPatch, error) {
	var patch service.OrderPatch
	var err error
	if patch.Status, err = parseStatusFlag(status); err != nil {
		return patch, err
	}
	if patch.Price, err = parsePrice(price); err != nil {
		return patch, err
	}
	if patch.Date, err = parseDateFlag(date, now); err != nil {
		return patch, err
	}
	if note != "" {
		patch.Note = &note
	}
	return patch, nil
}

func templateOptions() []prompt.Option {
	templates := model.DefaultTemplates()
	options := make([]prompt.Option, 0, len(templates)+1)
	for _, t := range templates {
		options = append(options, prompt.Option{
			Label: fmt.Sprintf("%s (%.2f)", t.Name, t.BasePrice),
			Value: t.ID,
		})
	}
	return append(options, prompt.Option{Label: "Custom service...", Value: customServiceOption})
}

func statusOptions(order model.StatusOrder) []prompt.Option {
	options := make([]prompt.Option, 0, len(order))
	for _, s := range order {
		options = append(options, prompt.Option{Label: s.Label(), Value: string(s)})
	}
	return options
}

func validatePriceInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("price is required")
	}
	_, err := parsePrice(s)
	return err
}

func runOrderAdd(clientQuery, templateName, serviceName, priceStr, dateStr, note, statusStr string, nonInteractive, jsonOutput bool) {
	if templateName != "" && serviceName != "" {
		Fatal(fmt.Errorf("--template and --service cannot be used together"))
	}

	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	client, err := app.ClientResolver.Resolve(clientQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if templateName == "" && serviceName == "" {
		if nonInteractive {
			Fatal(fmt.Errorf("pass --template or --service"))
		}
		choice, err := app.Prompter.Select("Service", templateOptions())
		if err != nil {
			Fatal(err)
		}
		if choice == customServiceOption {
			serviceName, err = app.Prompter.Input("Service name", "", requireName)
			if err != nil {
				Fatal(err)
			}
			if priceStr == "" {
				priceStr, err = app.Prompter.Input("Price", "", validatePriceInput)
				if err != nil {
					Fatal(err)
				}
			}
		} else {
			templateName = choice
		}
	}

	price, err := parsePrice(priceStr)
	if err != nil {
		Fatal(err)
	}
	date, err := parseDateFlag(dateStr, time.Now())
	if err != nil {
		Fatal(err)
	}
	status, err := parseStatusFlag(statusStr)
	if err != nil {
		Fatal(err)
	}

	input := service.OrderInput{ClientID: client.ID, Note: note}
	if date != nil {
		input.Date = *date
	}
	if status != nil {
		input.Status = *status
	}

	if templateName != "" {
		tmpl, ok := model.FindTemplate(templateName)
		if !ok {
			Fatal(gigerr.TemplateNotFound(templateName))
		}
		input.ServiceName = tmpl.Name
		input.ServiceIcon = tmpl.Icon
		input.ServiceColorHex = tmpl.ColorHex
		input.Price = tmpl.BasePrice
	} else {
		input.ServiceName = serviceName
	}
	if price != nil {
		input.Price = *price
	}

	order, err := app.Store.AddOrder(input)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewOrderOutput(order, client.Name)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Added %s for %s on %s (%s)",
		RenderBold(order.ServiceName), client.Name, util.FormatTime(order.Date), RenderID(order.ID))
}

func runOrderList(clientQuery, statusStr, query string, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	statuses, err := model.ParseStatuses(statusStr)
	if err != nil {
		Fatal(gigerr.InvalidField("status", err.Error()))
	}

	var clientID string
	if clientQuery != "" {
		client, err := app.ClientResolver.Resolve(clientQuery, false)
		if err != nil {
			Fatal(err)
		}
		clientID = client.ID
	}

	orders := filterByClient(
		app.Store.OrdersMatching(service.Filter{Query: query, Statuses: statuses}),
		clientID,
	)
	service.SortOrders(orders)

	if jsonOutput {
		if err := printJson(NewOrdersOutput(orders, app.ClientName)); err != nil {
			Fatal(err)
		}
		return
	}

	if len(orders) == 0 {
		PrintInfo("No orders found")
		return
	}
	for _, o := range orders {
		printOrderLine(app, o)
	}
}

func filterByClient(orders []model.Order, clientID string) []model.Order {
	if clientID == "" {
		return orders
	}
	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.ClientID == clientID {
			result = append(result, o)
		}
	}
	return result
}

func printOrderLine(app *App, o model.Order) {
	fmt.Printf("  %s  %s  %s %s  %s  %s  %s\n",
		RenderID(o.ID),
		util.FormatTime(o.Date),
		RenderHex("●", o.ServiceColorHex),
		o.ServiceName,
		app.ClientName(o.ClientID),
		app.Store.FormatCurrency(o.Price),
		RenderStatus(o.Status),
	)
}

func runOrderEdit(orderQuery, statusStr, priceStr, dateStr, note string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if statusStr == "" && priceStr == "" && dateStr == "" && note == "" {
		if nonInteractive {
			Fatal(fmt.Errorf("nothing to change: pass --status, --price, --date or --note"))
		}
		statusStr, err = app.Prompter.Select("Status", statusOptions(app.Store.StatusOrder()))
		if err != nil {
			Fatal(err)
		}
		priceStr, err = app.Prompter.Input("Price", strconv.FormatFloat(order.Price, 'f', -1, 64), validatePriceInput)
		if err != nil {
			Fatal(err)
		}
		dateStr, err = app.Prompter.Input("Date", order.Date.Local().Format(util.DateTimeLayout), nil)
		if err != nil {
			Fatal(err)
		}
	}

	patch, err := buildOrderPatch(statusStr, priceStr, dateStr, note, time.Now())
	if err != nil {
		Fatal(err)
	}
	if err := app.Store.UpdateOrder(order.ID, patch); err != nil {
		Fatal(err)
	}
	PrintSuccess("Updated order %s", RenderID(order.ID))
}

func runOrderDelete(orderQuery string, force, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}
	label := resolver.OrderLabel(order, app.ClientName(order.ClientID))

	if !force {
		if nonInteractive {
			Fatal(fmt.Errorf("deleting order %s requires --force in non-interactive mode", order.ID))
		}
		confirmed, err := app.Prompter.Confirm(fmt.Sprintf("Delete %s?", label), false)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.Store.DeleteOrder(order.ID); err != nil {
		Fatal(err)
	}
	PrintSuccess("Deleted %s", label)
}

func runOrderDuplicate(orderQuery, dateStr string, nonInteractive, jsonOutput bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	now := time.Now()
	date, err := parseDateFlag(dateStr, now)
	if err != nil {
		Fatal(err)
	}
	if date == nil {
		date = &now
	}

	dup, err := app.Store.DuplicateOrder(order.ID, *date)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewOrderOutput(dup, app.ClientName(dup.ClientID))); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Duplicated %s to %s (%s)", RenderID(order.ID), util.FormatTime(dup.Date), RenderID(dup.ID))
}

func runOrderAdvance(orderQuery string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if err := app.Store.CycleStatusForward(order.ID); err != nil {
		Fatal(err)
	}

	updated, err := app.Store.Order(order.ID)
	if err != nil {
		Fatal(err)
	}
	if updated.Status == order.Status {
		PrintWarning("Status %q is not in the status order; left unchanged", order.Status)
		return
	}
	PrintSuccess("%s: %s %s %s", RenderID(order.ID), RenderStatus(order.Status), IconInfo, RenderStatus(updated.Status))
}

func runOrderMove(orderQuery, statusStr string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if statusStr == "" {
		if nonInteractive {
			Fatal(fmt.Errorf("status is required in non-interactive mode"))
		}
		statusStr, err = app.Prompter.Select("Move to", statusOptions(app.Store.StatusOrder()))
		if err != nil {
			Fatal(err)
		}
	}

	status, err := parseStatusFlag(statusStr)
	if err != nil {
		Fatal(err)
	}
	if err := app.Store.Move(order.ID, *status); err != nil {
		Fatal(err)
	}
	PrintSuccess("Moved %s to %s", RenderID(order.ID), RenderStatus(*status))
}

func runOrderNote(orderQuery string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	order, err := app.OrderResolver.Resolve(orderQuery, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	note, err := app.Editor.Edit(order.Note)
	if err != nil {
		Fatal(err)
	}
	if note == order.Note {
		PrintInfo("Note unchanged")
		return
	}

	if err := app.Store.UpdateOrder(order.ID, service.OrderPatch{Note: &note}); err != nil {
		Fatal(err)
	}
	PrintSuccess("Updated note for %s", RenderID(order.ID))
}
