package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/gig/internal/store"
	"github.com/amterp/ra"
)

func registerExport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("export")
	cmd.SetDescription("Write the dataset to a file or stdout")

	ctx.ExportPath, _ = ra.NewString("path").
		SetOptional(true).
		SetDefault("-").
		SetUsage("Output file, or - for stdout").
		Register(cmd)

	ctx.ExportFormat, _ = ra.NewString("format").
		SetShort("F").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("json, json.zst or yaml (default: from file extension)").
		SetCompletionFunc(completeFormats).
		Register(cmd)

	ctx.ExportUsed, _ = parent.RegisterCmd(cmd)
}

func registerImport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("import")
	cmd.SetDescription("Replace the dataset with the contents of a file")

	ctx.ImportPath, _ = ra.NewString("path").
		SetUsage("Input file, or - for stdin").
		Register(cmd)

	ctx.ImportFormat, _ = ra.NewString("format").
		SetShort("F").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("json, json.zst or yaml (default: from file extension)").
		SetCompletionFunc(completeFormats).
		Register(cmd)

	ctx.ImportForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.ImportUsed, _ = parent.RegisterCmd(cmd)
}

// transferFormat picks the explicit format, or infers one from the path.
func transferFormat(path, explicit string) (store.Format, error) {
	if explicit != "" {
		return store.ParseFormat(explicit)
	}
	if path == "-" {
		return store.FormatJSON, nil
	}
	return store.FormatForPath(path), nil
}

func runExport(path, formatName string) {
	format, err := transferFormat(path, formatName)
	if err != nil {
		Fatal(err)
	}

	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}
	payload := app.Store.Payload()

	if path == "-" {
		if err := store.Export(os.Stdout, payload, format); err != nil {
			Fatal(err)
		}
		return
	}

	f, err := os.Create(path)
	if err != nil {
		Fatal(err)
	}
	if err := store.Export(f, payload, format); err != nil {
		f.Close()
		Fatal(err)
	}
	if err := f.Close(); err != nil {
		Fatal(err)
	}
	PrintSuccess("Exported %s and %s to %s (%s)",
		plural(len(payload.Clients), "client"), plural(len(payload.Orders), "order"), path, format)
}

func runImport(path, formatName string, force, nonInteractive bool) {
	format, err := transferFormat(path, formatName)
	if err != nil {
		Fatal(err)
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			Fatal(err)
		}
		defer f.Close()
		r = f
	}

	payload, err := store.Import(r, format)
	if err != nil {
		Fatal(fmt.Errorf("failed to read %s: %w", path, err))
	}

	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if nonInteractive {
			Fatal(fmt.Errorf("importing replaces all data; use --force in non-interactive mode"))
		}
		current := app.Store.Payload()
		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Replace %s and %s with %s and %s?",
				plural(len(current.Clients), "client"), plural(len(current.Orders), "order"),
				plural(len(payload.Clients), "client"), plural(len(payload.Orders), "order")),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.Store.ReplaceAll(payload); err != nil {
		Fatal(err)
	}
	PrintSuccess("Imported %s and %s", plural(len(payload.Clients), "client"), plural(len(payload.Orders), "order"))
}
