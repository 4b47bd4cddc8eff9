package parser

import (
	"strings"
	"testing"

	"mctest/internal/story"
)

func TestParse_MinimalStory(t *testing.T) {
	yml := `
name: list command
steps:
  - action: execute_rcon_command
    command: "list"
`
	s, err := Parse([]byte(yml), "story.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "list command" {
		t.Fatalf("Name = %q", s.Name)
	}
	if len(s.Steps) != 1 || s.Steps[0].Kind != story.ActionExecuteRconCommand {
		t.Fatalf("Steps = %#v", s.Steps)
	}
	if s.Steps[0].Command != "list" {
		t.Fatalf("Command = %q", s.Steps[0].Command)
	}
	if s.Backend != story.BackendConsole {
		t.Fatalf("default backend = %q, want console", s.Backend)
	}
}

func TestParse_KindNormalization(t *testing.T) {
	for _, tok := range []string{"SPAWN_ENTITY", "spawn-entity", "Spawn_Entity"} {
		yml := `
name: spawn
setup:
  - action: ` + tok + `
    entityType: minecraft:zombie
    location: [100, 64, 100]
`
		s, err := Parse([]byte(yml), "s.yml")
		if err != nil {
			t.Fatalf("token %q: Parse: %v", tok, err)
		}
		if s.Setup[0].Kind != story.ActionSpawnEntity {
			t.Fatalf("token %q: Kind = %q", tok, s.Setup[0].Kind)
		}
	}
}

func TestParse_UnknownKindIsError(t *testing.T) {
	yml := `
name: bad
steps:
  - action: frobnicate_widget
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Token != "frobnicate_widget" {
		t.Fatalf("Token = %q", pe.Token)
	}
}

func TestParse_MissingRequiredField(t *testing.T) {
	yml := `
name: bad
steps:
  - action: execute_rcon_command
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil || !strings.Contains(err.Error(), "command") {
		t.Fatalf("expected missing-command error, got %v", err)
	}
}

func TestParse_DurationCoercion(t *testing.T) {
	cases := map[string]int64{
		"500":   500,
		"500ms": 500,
		"5s":    5000,
		"2m":    120000,
	}
	for lit, want := range cases {
		yml := `
name: wait
steps:
  - action: wait
    duration: "` + lit + `"
`
		s, err := Parse([]byte(yml), "s.yml")
		if err != nil {
			t.Fatalf("lit %q: %v", lit, err)
		}
		if s.Steps[0].Duration != want {
			t.Fatalf("lit %q: Duration = %d, want %d", lit, s.Steps[0].Duration, want)
		}
	}
}

func TestParse_LegacyAliasNormalizes(t *testing.T) {
	yml := `
name: legacy
steps:
  - action: SERVER_COMMAND
    command: "list"
`
	s, err := Parse([]byte(yml), "s.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Steps[0].Kind != story.ActionExecuteRconCommand {
		t.Fatalf("Kind = %q", s.Steps[0].Kind)
	}
	if s.Steps[0].Raw["_legacyToken"] != "server_command" {
		t.Fatalf("Raw = %#v", s.Steps[0].Raw)
	}
}

func TestParse_UnknownTopLevelKeyIsError(t *testing.T) {
	yml := `
name: bad
bogus: true
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_UnknownActionFieldPreserved(t *testing.T) {
	yml := `
name: extra
steps:
  - action: execute_rcon_command
    command: list
    futureField: 42
`
	s, err := Parse([]byte(yml), "s.yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Steps[0].Raw["futureField"] != 42 {
		t.Fatalf("Raw = %#v", s.Steps[0].Raw)
	}
}

func TestParse_DuplicateStepIDIsError(t *testing.T) {
	yml := `
name: dup
steps:
  - action: wait
    step_id: a
  - action: wait
    step_id: a
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_CompareStatesRequiresBothStates(t *testing.T) {
	yml := `
name: cmp
steps:
  - action: compare_states
    state1: a
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil || !strings.Contains(err.Error(), "state2") {
		t.Fatalf("expected missing state2 error, got %v", err)
	}
}

func TestParse_AssertionRequiresComparatorField(t *testing.T) {
	yml := `
name: assert
assertions:
  - action: assert_response_contains
    source: "${result}"
`
	_, err := Parse([]byte(yml), "s.yml")
	if err == nil || !strings.Contains(err.Error(), "contains") {
		t.Fatalf("expected missing contains error, got %v", err)
	}
}
