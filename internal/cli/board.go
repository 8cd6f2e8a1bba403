package cli

import (
	"fmt"
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/service"
	"github.com/amterp/gig/internal/util"
	"github.com/amterp/ra"
)

func registerBoard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("board")
	cmd.SetDescription("Show orders grouped by status")

	ctx.BoardQuery, _ = ra.NewString("query").
		SetShort("q").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Search client name, service and note").
		Register(cmd)

	ctx.BoardStatus, _ = ra.NewString("status").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Comma-separated statuses to show (default: visible_statuses setting)").
		Register(cmd)

	ctx.BoardUsed, _ = parent.RegisterCmd(cmd)
}

func runBoard(query, statusStr string, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	// Flags override the saved view for this invocation only.
	if statusStr != "" {
		statuses, err := model.ParseStatuses(statusStr)
		if err != nil {
			Fatal(gigerr.InvalidField("status", err.Error()))
		}
		app.Store.SetSelectedStatuses(statuses)
	}
	app.Store.SetSearchQuery(query)

	columns := app.Store.Board()
	filter := service.Filter{Query: app.Store.SearchQuery(), Statuses: app.Store.SelectedStatuses()}

	if jsonOutput {
		if err := printJson(NewBoardOutput(columns, filter, app.ClientName)); err != nil {
			Fatal(err)
		}
		return
	}

	printBoard(app, columns)
}

func printBoard(app *App, columns []service.Column) {
	selected := app.Store.SelectedStatuses()
	shown := 0
	for _, col := range columns {
		if len(selected) > 0 && !containsStatus(selected, col.Status) {
			continue
		}
		header := RenderStatus(col.Status)
		fmt.Printf("\n%s %s\n", header, RenderMuted(fmt.Sprintf("(%d)", len(col.Orders))))
		for _, o := range col.Orders {
			printBoardCard(app, o)
		}
		shown += len(col.Orders)
	}
	if shown == 0 {
		fmt.Println()
		PrintInfo("No matching orders")
	}
}

func printBoardCard(app *App, o model.Order) {
	line := fmt.Sprintf("  %s %s  %s  %s  %s",
		RenderHex("●", o.ServiceColorHex),
		RenderBold(o.ServiceName),
		app.ClientName(o.ClientID),
		app.Store.FormatCurrency(o.Price),
		RenderMuted(util.FormatRelative(o.Date)),
	)
	fmt.Println(line)
	if note := strings.TrimSpace(o.Note); note != "" {
		fmt.Printf("      %s\n", RenderMuted(firstLine(note)))
	}
}

func containsStatus(statuses []model.OrderStatus, s model.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
