package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeValidateFixture(t *testing.T, storyBody string) string {
	t.Helper()
	dir := t.TempDir()
	storiesDir := filepath.Join(dir, "stories")
	if err := os.MkdirAll(storiesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(storiesDir, "a.yml"), []byte(storyBody), 0o600); err != nil {
		t.Fatalf("WriteFile story: %v", err)
	}

	configPath := filepath.Join(dir, "testrunner.yml")
	configBody := "backend:\n" +
		"  kind: citest\n" +
		"  consoleHost: localhost\n" +
		"  consolePort: 25575\n" +
		"suite:\n" +
		"  name: validate-suite\n" +
		"  storyGlobs:\n" +
		"    - " + filepath.Join(storiesDir, "*.yml") + "\n" +
		"  outputDir: " + filepath.Join(dir, "reports") + "\n"
	if err := os.WriteFile(configPath, []byte(configBody), 0o600); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}
	return configPath
}

func TestValidateCommand_ReportsParsedStories(t *testing.T) {
	cfgPath := writeValidateFixture(t, "name: hello\nsteps:\n  - action: execute_rcon_command\n    command: list\n")

	cmd := NewValidateCommand()
	cmd.Flags().String("config", cfgPath, "")
	cmd.Flags().Bool("verbose", false, "")

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runValidate(cmd, nil); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if !strings.Contains(out.String(), "1 story files parsed successfully") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("expected story name in output: %s", out.String())
	}
}

func TestValidateCommand_FailsOnParseError(t *testing.T) {
	cfgPath := writeValidateFixture(t, "steps:\n  - action: execute_rcon_command\n    command: list\n")

	cmd := NewValidateCommand()
	cmd.Flags().String("config", cfgPath, "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.SetOut(&bytes.Buffer{})

	err := runValidate(cmd, nil)
	if err == nil {
		t.Fatal("expected an error for a story missing the required \"name\" field")
	}
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if ee.Code != 2 {
		t.Fatalf("expected exit code 2, got %d", ee.Code)
	}
}
