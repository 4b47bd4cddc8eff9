// Package cli wires together the mctest root Cobra command and global CLI
// options, following the teacher's NewRootCommand composition: a root
// command with persistent flags plus subcommands registered as
// NewXCommand() *cobra.Command factories, in lexicographic order.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mctest/internal/cli/commands"
)

// NewRootCommand constructs the mctest root Cobra command.
func NewRootCommand() *cobra.Command {
	version := os.Getenv("MCTEST_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "mctest",
		Short:         "mctest – integration-test orchestrator for Minecraft server plugins",
		Long:          "mctest drives a live Minecraft server and simulated player clients through declarative YAML stories, then emits text/JSON/JUnit/HTML reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "path to testrunner.yml")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of mctest",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mctest version %s\n", version)
		},
	})

	cmd.AddCommand(commands.NewReportCommand())
	cmd.AddCommand(commands.NewRunCommand())
	cmd.AddCommand(commands.NewValidateCommand())

	return cmd
}
