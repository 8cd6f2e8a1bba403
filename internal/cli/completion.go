package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/store"
	"github.com/amterp/ra"
)

// completionCtx provides lightweight data access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// and must never seed or rewrite the data file, so this reads it directly.
type completionCtx struct {
	once    sync.Once
	payload *model.Payload
	err     error
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		payloads := store.NewPayloadStore(resolvePaths().DataFilePath())
		compCtx.payload, compCtx.err = payloads.ReadExisting()
	})
}

// completeClients returns client IDs and names matching the given prefix.
func completeClients(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchClients(compCtx.payload.Clients, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchClients(clients []model.Client, toComplete string) []string {
	lower := strings.ToLower(toComplete)
	var result []string
	for _, c := range clients {
		if c.IsArchived {
			continue
		}
		if strings.HasPrefix(c.ID, toComplete) {
			result = append(result, c.ID)
		}
		if strings.HasPrefix(strings.ToLower(c.Name), lower) {
			result = append(result, c.Name)
		}
	}
	return result
}

// completeOrders returns order IDs matching the given prefix.
func completeOrders(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}

	var result []string
	for _, o := range compCtx.payload.Orders {
		if strings.HasPrefix(o.ID, toComplete) {
			result = append(result, o.ID)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeStatuses returns status tokens matching the given prefix.
func completeStatuses(toComplete string) ([]string, ra.CompletionDirective) {
	var values []string
	for _, s := range model.AllStatuses() {
		values = append(values, string(s))
	}
	return matchPrefix(values, toComplete), ra.CompletionDirectiveNoFileComp
}

// completeTemplates returns template IDs matching the given prefix.
func completeTemplates(toComplete string) ([]string, ra.CompletionDirective) {
	var values []string
	for _, t := range model.DefaultTemplates() {
		values = append(values, t.ID)
	}
	return matchPrefix(values, toComplete), ra.CompletionDirectiveNoFileComp
}

// completeFormats returns export format names matching the given prefix.
func completeFormats(toComplete string) ([]string, ra.CompletionDirective) {
	var values []string
	for _, f := range store.Formats() {
		values = append(values, string(f))
	}
	return matchPrefix(values, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchPrefix(values []string, prefix string) []string {
	var result []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			result = append(result, v)
		}
	}
	return result
}

// registerCompletion adds the "gig completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
