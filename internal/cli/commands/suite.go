package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mctest/internal/backend"
	_ "mctest/internal/backend/consoleonly" // self-registers "console"
	_ "mctest/internal/backend/playersim"   // self-registers "playersim"
	"mctest/internal/story"
	"mctest/internal/story/parser"
	"mctest/pkg/runnerconfig"
)

// discoverStoryFiles expands every glob in globs (relative to baseDir,
// or the working directory if baseDir is empty) into a sorted, deduplicated
// list of story file paths.
func discoverStoryFiles(baseDir string, globs []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, g := range globs {
		pattern := g
		if baseDir != "" {
			pattern = filepath.Join(baseDir, g)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid story glob %q: %w", g, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// parseStoryFiles parses every file path into a *story.Story, stopping at
// the first ParseError (exit code 2 territory, per spec §6).
func parseStoryFiles(paths []string) ([]*story.Story, error) {
	stories := make([]*story.Story, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) //nolint:gosec // story paths come from configured globs, not untrusted input
		if err != nil {
			return nil, fmt.Errorf("reading story file %s: %w", p, err)
		}
		s, err := parser.Parse(data, p)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, nil
}

// buildBackend constructs the backend named by cfg.Backend.Kind from the
// registry, grounded on spec §4.2's factory contract.
func buildBackend(cfg runnerconfig.Config) (backend.Backend, error) {
	return backend.New(cfg.Backend.Kind, cfg.Backend.ToBackendConfig())
}
