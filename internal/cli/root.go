package cli

import (
	"os"

	"github.com/amterp/gig/internal/config"
	"github.com/amterp/ra"
	log "github.com/sirupsen/logrus"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	Json           *bool

	// client
	ClientUsed *bool

	ClientAddUsed *bool
	ClientAddName *string
	ClientAddNote *string

	ClientListUsed     *bool
	ClientListArchived *bool

	ClientEditUsed      *bool
	ClientEditClient    *string
	ClientEditName      *string
	ClientEditNote      *string
	ClientEditArchive   *bool
	ClientEditUnarchive *bool

	ClientDeleteUsed   *bool
	ClientDeleteClient *string
	ClientDeleteForce  *bool

	ClientNoteUsed   *bool
	ClientNoteClient *string

	// order
	OrderUsed *bool

	OrderAddUsed     *bool
	OrderAddClient   *string
	OrderAddTemplate *string
	OrderAddService  *string
	OrderAddPrice    *string
	OrderAddDate     *string
	OrderAddNote     *string
	OrderAddStatus   *string

	OrderListUsed   *bool
	OrderListClient *string
	OrderListStatus *string
	OrderListQuery  *string

	OrderEditUsed   *bool
	OrderEditOrder  *string
	OrderEditStatus *string
	OrderEditPrice  *string
	OrderEditDate   *string
	OrderEditNote   *string

	OrderDeleteUsed  *bool
	OrderDeleteOrder *string
	OrderDeleteForce *bool

	OrderDuplicateUsed  *bool
	OrderDuplicateOrder *string
	OrderDuplicateDate  *string

	OrderAdvanceUsed  *bool
	OrderAdvanceOrder *string

	OrderMoveUsed   *bool
	OrderMoveOrder  *string
	OrderMoveStatus *string

	OrderNoteUsed  *bool
	OrderNoteOrder *string

	// board command
	BoardUsed   *bool
	BoardQuery  *string
	BoardStatus *string

	// stats command
	StatsUsed *bool
	StatsDays *int

	// status
	StatusUsed         *bool
	StatusShowUsed     *bool
	StatusReorderUsed  *bool
	StatusReorderOrder *string
	StatusReorderReset *bool

	// templates command
	TemplatesUsed *bool

	// doctor command
	DoctorUsed   *bool
	DoctorFix    *bool
	DoctorDryRun *bool

	// export / import
	ExportUsed   *bool
	ExportPath   *string
	ExportFormat *string
	ImportUsed   *bool
	ImportPath   *string
	ImportFormat *string
	ImportForce  *bool

	// reset command
	ResetUsed  *bool
	ResetForce *bool

	// serve command
	ServeUsed *bool
	ServePort *int

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	config.LoadEnvFile()
	config.ConfigureLogging(log.WarnLevel)

	ctx := &CommandContext{}

	cmd := ra.NewCmd("gig")
	cmd.SetDescription("Clients, orders and revenue for a small service business")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.Json, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print machine-readable JSON").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerClient(cmd, ctx)
	registerOrder(cmd, ctx)
	registerBoard(cmd, ctx)
	registerStats(cmd, ctx)
	registerStatus(cmd, ctx)
	registerTemplates(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerExport(cmd, ctx)
	registerImport(cmd, ctx)
	registerReset(cmd, ctx)
	registerServe(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	nonInteractive := *ctx.NonInteractive
	jsonOutput := *ctx.Json

	switch {
	case *ctx.ClientAddUsed:
		runClientAdd(*ctx.ClientAddName, *ctx.ClientAddNote, nonInteractive, jsonOutput)

	case *ctx.ClientListUsed:
		runClientList(*ctx.ClientListArchived, jsonOutput)

	case *ctx.ClientEditUsed:
		runClientEdit(*ctx.ClientEditClient, *ctx.ClientEditName, *ctx.ClientEditNote,
			*ctx.ClientEditArchive, *ctx.ClientEditUnarchive, nonInteractive)

	case *ctx.ClientDeleteUsed:
		runClientDelete(*ctx.ClientDeleteClient, *ctx.ClientDeleteForce, nonInteractive)

	case *ctx.ClientNoteUsed:
		runClientNote(*ctx.ClientNoteClient, nonInteractive)

	case *ctx.OrderAddUsed:
		runOrderAdd(*ctx.OrderAddClient, *ctx.OrderAddTemplate, *ctx.OrderAddService,
			*ctx.OrderAddPrice, *ctx.OrderAddDate, *ctx.OrderAddNote, *ctx.OrderAddStatus,
			nonInteractive, jsonOutput)

	case *ctx.OrderListUsed:
		runOrderList(*ctx.OrderListClient, *ctx.OrderListStatus, *ctx.OrderListQuery, jsonOutput)

	case *ctx.OrderEditUsed:
		runOrderEdit(*ctx.OrderEditOrder, *ctx.OrderEditStatus, *ctx.OrderEditPrice,
			*ctx.OrderEditDate, *ctx.OrderEditNote, nonInteractive)

	case *ctx.OrderDeleteUsed:
		runOrderDelete(*ctx.OrderDeleteOrder, *ctx.OrderDeleteForce, nonInteractive)

	case *ctx.OrderDuplicateUsed:
		runOrderDuplicate(*ctx.OrderDuplicateOrder, *ctx.OrderDuplicateDate, nonInteractive, jsonOutput)

	case *ctx.OrderAdvanceUsed:
		runOrderAdvance(*ctx.OrderAdvanceOrder, nonInteractive)

	case *ctx.OrderMoveUsed:
		runOrderMove(*ctx.OrderMoveOrder, *ctx.OrderMoveStatus, nonInteractive)

	case *ctx.OrderNoteUsed:
		runOrderNote(*ctx.OrderNoteOrder, nonInteractive)

	case *ctx.BoardUsed:
		runBoard(*ctx.BoardQuery, *ctx.BoardStatus, jsonOutput)

	case *ctx.StatsUsed:
		runStats(*ctx.StatsDays, jsonOutput)

	case *ctx.StatusShowUsed:
		runStatusShow(jsonOutput)

	case *ctx.StatusReorderUsed:
		runStatusReorder(*ctx.StatusReorderOrder, *ctx.StatusReorderReset, nonInteractive)

	case *ctx.TemplatesUsed:
		runTemplates(jsonOutput)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorDryRun, jsonOutput)

	case *ctx.ExportUsed:
		if jsonOutput {
			warnJsonNotSupported("export")
		}
		runExport(*ctx.ExportPath, *ctx.ExportFormat)

	case *ctx.ImportUsed:
		runImport(*ctx.ImportPath, *ctx.ImportFormat, *ctx.ImportForce, nonInteractive)

	case *ctx.ResetUsed:
		runReset(*ctx.ResetForce, nonInteractive)

	case *ctx.ServeUsed:
		if jsonOutput {
			warnJsonNotSupported("serve")
		}
		runServe(*ctx.ServePort)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
