package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/gig/internal/service"
	"github.com/amterp/ra"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check the data file and settings for consistency issues. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what fixes would be applied without making changes").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix, dryRun, jsonOutput bool) {
	// --fix and --dry-run are mutually exclusive
	if fix && dryRun {
		Fatal(fmt.Errorf("--fix and --dry-run cannot be used together"))
	}

	// Doctor reads files directly: loading through the App would seed a
	// missing file and quarantine a corrupt one before we could report it.
	doctorService := service.NewDoctorService(resolvePaths())

	report, err := doctorService.Diagnose()
	if err != nil {
		Fatal(err)
	}

	if fix && len(report.Issues) > 0 {
		report, err = doctorService.Fix(report)
		if err != nil {
			Fatal(err)
		}
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix, dryRun)
	}

	if report.HasErrors() {
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool, dryRun bool) {
	fmt.Printf("Checking %s...\n", RenderBold(report.Dataset.Path))
	fmt.Printf("  Clients: %d (%d archived)\n", report.Dataset.Clients, report.Dataset.ArchivedClients)
	fmt.Printf("  Orders: %d\n", report.Dataset.Orders)
	fmt.Println()

	fixedCount := 0
	if didFix {
		fixedCount = report.Summary.Fixed
	}

	if fixedCount > 0 {
		PrintSuccess("Fixed %s", plural(fixedCount, "issue"))
		fmt.Println()
	}

	if dryRun {
		if n := countFixable(report.Issues); n > 0 {
			PrintInfo("Dry run: %s would be fixed", plural(n, "issue"))
			fmt.Println()
		}
	}

	if len(report.Issues) == 0 {
		if fixedCount == 0 {
			PrintSuccess("No issues found")
		} else {
			PrintSuccess("All issues resolved")
		}
		return
	}

	// Errors first, then warnings
	for _, issue := range report.Issues {
		if issue.Severity == service.SeverityError {
			printIssue(issue)
		}
	}
	for _, issue := range report.Issues {
		if issue.Severity != service.SeverityError {
			printIssue(issue)
		}
	}

	fmt.Println()
	summaryParts := []string{}
	if report.Summary.Errors > 0 {
		summaryParts = append(summaryParts, StyleError.Render(plural(report.Summary.Errors, "error")))
	}
	if report.Summary.Warnings > 0 {
		summaryParts = append(summaryParts, StyleWarning.Render(plural(report.Summary.Warnings, "warning")))
	}
	if fixedCount > 0 {
		summaryParts = append(summaryParts, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixedCount)))
	}
	if report.Summary.FixFailed > 0 {
		summaryParts = append(summaryParts, StyleError.Render(fmt.Sprintf("%d fix failed", report.Summary.FixFailed)))
	}
	fmt.Printf("Summary: %s\n", strings.Join(summaryParts, ", "))

	if !didFix && countFixable(report.Issues) > 0 {
		fmt.Println()
		if dryRun {
			PrintInfo("Run 'gig doctor --fix' to apply these fixes")
		} else {
			PrintInfo("Run 'gig doctor --fix' to apply automatic fixes")
		}
	}
}

func countFixable(issues []service.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

func printIssue(issue service.Issue) {
	var icon, code string
	if issue.Severity == service.SeverityError {
		icon = StyleError.Render(IconError)
		code = StyleError.Render(fmt.Sprintf("[%s]", issue.Code))
	} else {
		icon = StyleWarning.Render(IconWarning)
		code = StyleWarning.Render(fmt.Sprintf("[%s]", issue.Code))
	}

	location := ""
	if issue.EntityID != "" {
		location = " " + RenderID(issue.EntityID)
	}

	fmt.Printf("%s %s%s %s\n", icon, code, location, issue.Message)

	if issue.FixError != "" {
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render(IconInfo), issue.FixError)
	} else if issue.FixAction != "" {
		if issue.Fixable {
			fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
		} else {
			fmt.Printf("  %s %s\n", RenderMuted(IconInfo), issue.FixAction)
		}
	}
}
