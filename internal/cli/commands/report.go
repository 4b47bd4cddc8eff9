package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mctest/internal/report"
)

// NewReportCommand returns the `mctest report` command: re-renders a
// previously captured JSON aggregate (report.Suite) to text/junit/html,
// without re-running the suite.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <suite.json>",
		Short: "Re-render a captured JSON report to text/junit/html",
		Long:  "Reads a {suite}_report.json file previously written by `mctest run` and re-renders all four report formats (text, JSON, JUnit, HTML) into an output directory.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	cmd.Flags().String("output-dir", ".", "directory to write the re-rendered reports into")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0]) //nolint:gosec // CLI argument, operator-supplied
	if err != nil {
		return exitErr(2, fmt.Errorf("reading %s: %w", args[0], err))
	}

	var suite report.Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return exitErr(2, fmt.Errorf("parsing %s: %w", args[0], err))
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if err := report.WriteAll(outputDir, suite); err != nil {
		return exitErr(2, fmt.Errorf("writing reports: %w", err))
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "re-rendered suite %q into %s\n", suite.Name, outputDir)
	return nil
}
