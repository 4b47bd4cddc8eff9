package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mctest/internal/backend"
)

type cliFakeBackend struct{}

func (cliFakeBackend) Initialize(ctx context.Context) error { return nil }
func (cliFakeBackend) Cleanup(ctx context.Context) error    { return nil }
func (cliFakeBackend) Type() string                         { return "citest" }

func (cliFakeBackend) ExecuteConsole(ctx context.Context, cmd string, args []string) (string, error) {
	return "ok", nil
}
func (cliFakeBackend) ExecuteConsoleRaw(ctx context.Context, text string) (string, error) {
	return "ok", nil
}
func (cliFakeBackend) SpawnEntity(ctx context.Context, localName, entityType string, loc backend.Location, equipment map[string]string) error {
	return nil
}
func (cliFakeBackend) EntityExists(ctx context.Context, localName string) (bool, error) {
	return true, nil
}
func (cliFakeBackend) GetEntityHealth(ctx context.Context, localName string) (float64, error) {
	return 20, nil
}
func (cliFakeBackend) SetEntityHealth(ctx context.Context, localName string, value float64) error {
	return nil
}
func (cliFakeBackend) GiveItem(ctx context.Context, player, item string, count int) error { return nil }
func (cliFakeBackend) RemoveItem(ctx context.Context, player, item string, count int) error {
	return nil
}
func (cliFakeBackend) ClearInventory(ctx context.Context, player string) error            { return nil }
func (cliFakeBackend) MakeOperator(ctx context.Context, player string) error              { return nil }
func (cliFakeBackend) Teleport(ctx context.Context, player string, x, y, z float64) error { return nil }
func (cliFakeBackend) Gamemode(ctx context.Context, player, mode string) error            { return nil }
func (cliFakeBackend) SetWeather(ctx context.Context, kind string, seconds int) error     { return nil }
func (cliFakeBackend) SetTime(ctx context.Context, ticks int64) error                     { return nil }
func (cliFakeBackend) GetWorldTime(ctx context.Context) (int64, error)                    { return 0, nil }
func (cliFakeBackend) GetWeather(ctx context.Context) (string, error)                     { return "clear", nil }
func (cliFakeBackend) RemoveAllTestEntities(ctx context.Context) error                    { return nil }
func (cliFakeBackend) RemoveAllTestPlayers(ctx context.Context) error                     { return nil }
func (cliFakeBackend) ConnectPlayer(ctx context.Context, name string) error               { return nil }
func (cliFakeBackend) DisconnectPlayer(ctx context.Context, name string) error            { return nil }
func (cliFakeBackend) SendChat(ctx context.Context, name, message string) error           { return nil }
func (cliFakeBackend) ExecutePlayerCommand(ctx context.Context, name, cmd string) error   { return nil }
func (cliFakeBackend) Move(ctx context.Context, name string, x, y, z float64) error       { return nil }
func (cliFakeBackend) Equip(ctx context.Context, name, item, slot string) error           { return nil }
func (cliFakeBackend) Use(ctx context.Context, name, target string) error                 { return nil }
func (cliFakeBackend) GetPosition(ctx context.Context, name string) (backend.Position, error) {
	return backend.Position{}, nil
}
func (cliFakeBackend) GetHealth(ctx context.Context, name string) (backend.Health, error) {
	return backend.Health{Health: 20, MaxHealth: 20}, nil
}
func (cliFakeBackend) GetInventory(ctx context.Context, name string) (backend.Inventory, error) {
	return backend.Inventory{}, nil
}
func (cliFakeBackend) GetEntities(ctx context.Context, name string) (backend.Entities, error) {
	return backend.Entities{}, nil
}
func (cliFakeBackend) GetEquipment(ctx context.Context, name string) (backend.Equipment, error) {
	return backend.Equipment{}, nil
}

func init() {
	if !backend.DefaultRegistry.Has("citest") {
		backend.Register("citest", func(cfg backend.Config) (backend.Backend, error) {
			return cliFakeBackend{}, nil
		})
	}
}

func writeTestConfigAndStory(t *testing.T) (configFile string, outputDir string) {
	t.Helper()
	dir := t.TempDir()
	storiesDir := filepath.Join(dir, "stories")
	if err := os.MkdirAll(storiesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	storyPath := filepath.Join(storiesDir, "smoke.yml")
	storyBody := []byte(`
name: smoke
steps:
  - action: execute_rcon_command
    command: list
    storeAs: result
assertions:
  - action: assert_response_contains
    source: "${result}"
    contains: ok
`)
	if err := os.WriteFile(storyPath, storyBody, 0o600); err != nil {
		t.Fatalf("WriteFile story: %v", err)
	}

	outputDir = filepath.Join(dir, "reports")
	configPath := filepath.Join(dir, "testrunner.yml")
	configBody := []byte(`
backend:
  kind: citest
  consoleHost: localhost
  consolePort: 25575
suite:
  name: smoke-suite
  storyGlobs:
    - ` + filepath.Join(storiesDir, "*.yml") + `
  outputDir: ` + outputDir + `
`)
	if err := os.WriteFile(configPath, configBody, 0o600); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}
	return configPath, outputDir
}

func TestRunCommand_SucceedsAndWritesReports(t *testing.T) {
	cfgPath, outputDir := writeTestConfigAndStory(t)

	cmd := NewRunCommand()
	cmd.Flags().String("config", cfgPath, "")
	cmd.Flags().Bool("verbose", false, "")

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "smoke_suite_report.json")); err != nil {
		t.Fatalf("expected report.json to exist: %v", err)
	}
}
