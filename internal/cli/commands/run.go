package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mctest/internal/orchestrator"
	"mctest/internal/report"
	"mctest/pkg/logging"
	"mctest/pkg/runnerconfig"
)

// NewRunCommand returns the `mctest run` command: parses the configured
// suite's story files, executes them against one shared backend, and
// writes the text/JSON/JUnit/HTML reports.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a suite of stories against a live backend",
		Long:  "Parses every story file matched by the suite's storyGlobs, runs them in order against one shared backend, and writes a report to outputDir.",
		RunE:  runRun,
	}
	cmd.Flags().String("output-dir", "", "override suite.outputDir from the config file")
	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := runnerconfig.Load(configPath(cmd))
	if err != nil {
		return exitErr(2, fmt.Errorf("loading config: %w", err))
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = cfg.Suite.OutputDir
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
		return exitErr(2, fmt.Errorf("parsing stories: %w", err))
	}

	log := logging.New(verboseFlag(cmd))
	defer func() { _ = log.Sync() }()

	b, err := buildBackend(*cfg)
	if err != nil {
		return exitErr(2, fmt.Errorf("constructing backend: %w", err))
	}
	if err := b.Initialize(ctx); err != nil {
		return exitErr(2, fmt.Errorf("initializing backend: %w", err))
	}
	defer func() { _ = b.Cleanup(ctx) }()

	ag := report.NewAggregator(cfg.Suite.Name)
	for _, s := range stories {
		log.Info("running story", logging.String("story", s.Name))
		runner := orchestrator.NewRunner(b, nil, log.With(logging.String("story", s.Name)))
		rec := runner.Run(ctx, s)
		ag.AddStory(rec)
	}
	suite := ag.Finish()

	if err := report.WriteAll(outputDir, suite); err != nil {
		return exitErr(2, fmt.Errorf("writing reports: %w", err))
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "suite %q: %d stories, passed=%v (reports written to %s)\n",
		suite.Name, len(suite.Stories), suite.Passed, outputDir)

	if !suite.Passed {
		return exitErr(1, fmt.Errorf("suite %q failed", suite.Name))
	}
	return nil
}
