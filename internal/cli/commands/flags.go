package commands

import (
	"github.com/spf13/cobra"

	"mctest/pkg/runnerconfig"
)

// configPath resolves the --config flag, falling back to
// runnerconfig.DefaultConfigPath().
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = runnerconfig.DefaultConfigPath()
	}
	return path
}

func verboseFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}
