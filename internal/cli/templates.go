package cli

import (
	"fmt"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/ra"
)

func registerTemplates(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("templates")
	cmd.SetDescription("List built-in service templates")

	ctx.TemplatesUsed, _ = parent.RegisterCmd(cmd)
}

func runTemplates(jsonOutput bool) {
	templates := model.DefaultTemplates()

	if jsonOutput {
		if err := printJson(TemplatesOutput{Templates: templates}); err != nil {
			Fatal(err)
		}
		return
	}

	for _, t := range templates {
		fmt.Printf("  %s %-18s %-14s %8.2f\n", ColorSwatch(t.ColorHex), t.Name, RenderMuted(t.ID), t.BasePrice)
	}
}
