package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/ra"
)

func registerClient(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("client")
	cmd.SetDescription("Manage clients")

	// client add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a new client")

	ctx.ClientAddName, _ = ra.NewString("name").
		SetOptional(true).
		SetUsage("Client name (prompted if omitted)").
		Register(addCmd)

	ctx.ClientAddNote, _ = ra.NewString("note").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Free-form note").
		Register(addCmd)

	ctx.ClientAddUsed, _ = cmd.RegisterCmd(addCmd)

	// client list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List clients")

	ctx.ClientListArchived, _ = ra.NewBool("archived").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Include archived clients").
		Register(listCmd)

	ctx.ClientListUsed, _ = cmd.RegisterCmd(listCmd)

	// client edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Edit a client")

	ctx.ClientEditClient, _ = ra.NewString("client").
		SetOptional(true).
		SetUsage("Client ID or name").
		SetCompletionFunc(completeClients).
		Register(editCmd)

	ctx.ClientEditName, _ = ra.NewString("name").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New name").
		Register(editCmd)

	ctx.ClientEditNote, _ = ra.NewString("note").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New note").
		Register(editCmd)

	ctx.ClientEditArchive, _ = ra.NewBool("archive").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Hide the client from pickers").
		Register(editCmd)

	ctx.ClientEditUnarchive, _ = ra.NewBool("unarchive").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show the client in pickers again").
		Register(editCmd)

	ctx.ClientEditUsed, _ = cmd.RegisterCmd(editCmd)

	// client delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a client and all of their orders")

	ctx.ClientDeleteClient, _ = ra.NewString("client").
		SetOptional(true).
		SetUsage("Client ID or name").
		SetCompletionFunc(completeClients).
		Register(deleteCmd)

	ctx.ClientDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(deleteCmd)

	ctx.ClientDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	// client note
	noteCmd := ra.NewCmd("note")
	noteCmd.SetDescription("Edit a client's note in your editor")

	ctx.ClientNoteClient, _ = ra.NewString("client").
		SetOptional(true).
		SetUsage("Client ID or name").
		SetCompletionFunc(completeClients).
		Register(noteCmd)

	ctx.ClientNoteUsed, _ = cmd.RegisterCmd(noteCmd)

	ctx.ClientUsed, _ = parent.RegisterCmd(cmd)
}

func requireName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func runClientAdd(name, note string, nonInteractive, jsonOutput bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if strings.TrimSpace(name) == "" && !nonInteractive {
		name, err = app.Prompter.Input("Client name", "", requireName)
		if err != nil {
			Fatal(err)
		}
	}

	client, err := app.Store.AddClient(name, note)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(ClientOutput{Client: clientToJson(client, 0)}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Added client %s (%s)", RenderBold(client.Name), RenderID(client.ID))
}

func runClientList(includeArchived, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	clients := app.Store.ActiveClients()
	if includeArchived {
		clients = app.Store.Clients()
	}
	counts := orderCounts(app.Store.Orders())

	if jsonOutput {
		if err := printJson(NewClientsOutput(clients, counts)); err != nil {
			Fatal(err)
		}
		return
	}

	if len(clients) == 0 {
		PrintInfo("No clients yet. Add one with 'gig client add'")
		return
	}

	for _, c := range clients {
		line := fmt.Sprintf("  %s  %s  %s", RenderID(c.ID), RenderBold(c.Name), RenderMuted(plural(counts[c.ID], "order")))
		if c.IsArchived {
			line += " " + StyleWarning.Render("[archived]")
		}
		fmt.Println(line)
		if c.Note != "" {
			fmt.Printf("      %s\n", RenderMuted(firstLine(c.Note)))
		}
	}
}

func runClientEdit(query, name, note string, archive, unarchive, nonInteractive bool) {
	if archive && unarchive {
		Fatal(fmt.Errorf("--archive and --unarchive cannot be used together"))
	}

	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	client, err := app.ClientResolver.Resolve(query, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	noFlags := name == "" && note == "" && !archive && !unarchive
	if noFlags {
		if nonInteractive {
			Fatal(fmt.Errorf("nothing to change: pass --name, --note, --archive or --unarchive"))
		}
		name, err = app.Prompter.Input("Client name", client.Name, requireName)
		if err != nil {
			Fatal(err)
		}
		note, err = app.Prompter.Input("Note", client.Note, nil)
		if err != nil {
			Fatal(err)
		}
	}

	updated := applyClientEdits(client, name, note, archive, unarchive)
	if err := app.Store.UpdateClient(client.ID, updated.Name, updated.Note, updated.IsArchived); err != nil {
		Fatal(err)
	}
	PrintSuccess("Updated client %s (%s)", RenderBold(updated.Name), RenderID(client.ID))
}

// applyClientEdits overlays the non-empty edits onto the client.
func applyClientEdits(c model.Client, name, note string, archive, unarchive bool) model.Client {
	if name != "" {
		c.Name = name
	}
	if note != "" {
		c.Note = note
	}
	if archive {
		c.IsArchived = true
	}
	if unarchive {
		c.IsArchived = false
	}
	return c
}

func runClientDelete(query string, force, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	client, err := app.ClientResolver.Resolve(query, !nonInteractive)
	if err != nil {
		Fatal(err)
	}
	orderCount := len(app.Store.OrdersForClient(client.ID))

	if !force {
		if nonInteractive {
			Fatal(fmt.Errorf("deleting client %q (%s) requires --force in non-interactive mode", client.Name, client.ID))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete client %q and %s?", client.Name, plural(orderCount, "order")),
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

	if err := app.Store.DeleteClient(client.ID); err != nil {
		Fatal(err)
	}

	if orderCount > 0 {
		PrintSuccess("Deleted client %q and %s", client.Name, plural(orderCount, "order"))
	} else {
		PrintSuccess("Deleted client %q", client.Name)
	}
}

func runClientNote(query string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	client, err := app.ClientResolver.Resolve(query, !nonInteractive)
	if err != nil {
		Fatal(err)
	}

	note, err := app.Editor.Edit(client.Note)
	if err != nil {
		Fatal(err)
	}
	if note == client.Note {
		PrintInfo("Note unchanged")
		return
	}

	if err := app.Store.UpdateClient(client.ID, client.Name, note, client.IsArchived); err != nil {
		Fatal(err)
	}
	PrintSuccess("Updated note for %s", RenderBold(client.Name))
}

func orderCounts(orders []model.Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range orders {
		counts[o.ClientID]++
	}
	return counts
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
