package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"mctest/pkg/runnerconfig"
)

// NewValidateCommand returns the `mctest validate` command: parses every
// story matched by the suite without executing anything, exiting 2 on the
// first ParseError (spec §6).
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse every story in the suite without running it",
		Long:  "Parses every story file matched by the suite's storyGlobs and reports the first parse error, without contacting any backend.",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := runnerconfig.Load(configPath(cmd))
	if err != nil {
		return exitErr(2, fmt.Errorf("loading config: %w", err))
	}

	paths, err := discoverStoryFiles("", cfg.Suite.StoryGlobs)
	if err != nil {
		return exitErr(2, err)
	}
	if len(paths) == 0 {
		return exitErr(2, fmt.Errorf("no story files matched suite.storyGlobs %v", cfg.Suite.StoryGlobs))
	}

	stories, err := parseStoryFiles(paths)
	if err != nil {
		return exitErr(2, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d story files parsed successfully\n", len(stories))
	for _, s := range stories {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", s.Name, s.SourceFile)
	}
	return nil
}
