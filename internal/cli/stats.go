package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerStats(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("stats")
	cmd.SetDescription("Revenue from completed orders")

	ctx.StatsDays, _ = ra.NewInt("days").
		SetShort("d").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("Window in days (default: period_days setting)").
		Register(cmd)

	ctx.StatsUsed, _ = parent.RegisterCmd(cmd)
}

func runStats(days int, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	if days < 0 {
		Fatal(fmt.Errorf("--days must be positive"))
	}
	if days == 0 {
		days = app.Settings.PeriodDays
	}

	totals := app.Store.Totals(days)
	breakdown := app.Store.ServiceBreakdown(days)

	if jsonOutput {
		if err := printJson(NewStatsOutput(days, app.Store.Currency(), totals, breakdown)); err != nil {
			Fatal(err)
		}
		return
	}

	fmt.Println(TitleBox(fmt.Sprintf("Last %s", plural(days, "day"))))
	fmt.Println(LabelValue("Completed", fmt.Sprintf("%d", totals.Count), 10))
	fmt.Println(LabelValue("Revenue", RenderBold(app.Store.FormatCurrency(totals.Revenue)), 10))
	fmt.Println(LabelValue("Average", app.Store.FormatCurrency(totals.Avg), 10))

	if len(breakdown) == 0 {
		return
	}
	fmt.Println()
	for _, st := range breakdown {
		share := 0.0
		if totals.Revenue > 0 {
			share = st.Total / totals.Revenue * 100
		}
		fmt.Printf("  %-24s %12s  %s\n", st.Name, app.Store.FormatCurrency(st.Total), RenderMuted(fmt.Sprintf("%.0f%%", share)))
	}
}
