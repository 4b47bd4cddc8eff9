package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCommand_HasExpectedBasics(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "mctest" {
		t.Fatalf("expected Use to be 'mctest', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Fatalf("expected Short description to be non-empty")
	}

	for _, name := range []string{"version", "run", "validate", "report"} {
		if _, _, err := cmd.Find([]string{name}); err != nil {
			t.Fatalf("expected to find %q subcommand: %v", name, err)
		}
	}
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	cmd := NewRootCommand()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error executing 'version' command, got: %v", err)
	}

	if out := buf.String(); !strings.Contains(out, "mctest version") {
		t.Fatalf("expected output to contain 'mctest version', got: %q", out)
	}
}
