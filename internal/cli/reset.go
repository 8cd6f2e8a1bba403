package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerReset(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("reset")
	cmd.SetDescription("Delete all data and restore the sample dataset")

	ctx.ResetForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.ResetUsed, _ = parent.RegisterCmd(cmd)
}

func runReset(force, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if nonInteractive {
			Fatal(fmt.Errorf("reset deletes all data; use --force in non-interactive mode"))
		}
		confirmed, err := app.Prompter.Confirm("Delete all clients and orders and restore the sample data?", false)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.PayloadStore.Clear(); err != nil {
		Fatal(err)
	}
	payload, err := app.PayloadStore.Seed()
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Restored sample data: %s and %s",
		plural(len(payload.Clients), "client"), plural(len(payload.Orders), "order"))
}
