// Command mctest is the CLI entrypoint for the integration-test
// orchestrator: `mctest run|validate|report`.
package main

import (
	"errors"
	"fmt"
	"os"

	"mctest/internal/cli"
	"mctest/internal/cli/commands"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
