package controllers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/pubcheck/internal/domain/commands"
	"github.com/rios0rios0/pubcheck/internal/domain/entities"
)

// CheckController handles the check mode, both as root command and as the
// "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check [path]",
		Short: "Report the latest pub.dev version of every dependency",
		Long: `Scan a project tree for pubspec.yaml files, collect the dependencies
pinned to a numeric version and report the latest version published on pub.dev.

Without a path the current directory is scanned.`,
	}
}

// Execute runs a check and prints the report to the command output.
func (it *CheckController) Execute(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := entities.LoadSettings(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := commands.CheckOptions{Verbose: verbose}
	if len(args) > 0 {
		opts.Root = args[0]
	}

	report, err := it.command.Execute(cmd.Context(), settings, opts)
	if err != nil {
		return err
	}

	return PrintReport(cmd.OutOrStdout(), report)
}

// PrintReport writes one line per resolved dependency followed by the list
// of dependencies that could not be resolved, if any.
func PrintReport(w io.Writer, report *entities.Report) error {
	for _, result := range report.Resolved {
		if _, err := fmt.Fprintf(w, "The latest version of %s is: %s\n", result.Name, result.Version); err != nil {
			return err
		}
	}

	if len(report.Failed) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%d dependencies could not be resolved:\n", len(report.Failed)); err != nil {
		return err
	}
	for _, result := range report.Failed {
		reason := "unknown error"
		if result.Err != nil {
			reason = result.Err.Error()
		}
		if _, err := fmt.Fprintf(w, "  - %s: %s\n", result.Name, reason); err != nil {
			return err
		}
	}

	return nil
}
