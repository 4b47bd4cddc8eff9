package runnerconfig

import (
	"os"
	"path/filepath"
	"testing"

	_ "mctest/internal/backend/consoleonly" // self-registers "console" for validate()
	_ "mctest/internal/backend/playersim"   // self-registers "playersim" for validate()
)

func TestDefaultConfigPath(t *testing.T) {
	if got := DefaultConfigPath(); got != "testrunner.yml" {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}
}

func TestExists_ReportsCorrectly(t *testing.T) {
	tmpDir := t.TempDir()

	nonExisting := filepath.Join(tmpDir, "nope.yml")
	ok, err := Exists(nonExisting)
	if err != nil || ok {
		t.Fatalf("Exists(missing) = %v, %v", ok, err)
	}

	existing := filepath.Join(tmpDir, "testrunner.yml")
	if err := os.WriteFile(existing, []byte("suite:\n  name: x\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ok, err = Exists(existing)
	if err != nil || !ok {
		t.Fatalf("Exists(present) = %v, %v", ok, err)
	}
}

func TestLoad_ReturnsErrConfigNotFoundWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")
	if _, err := Load(path); err != ErrConfigNotFound {
		t.Fatalf("Load(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_ParsesValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrunner.yml")
	content := []byte(`
backend:
  kind: console
  consoleHost: localhost
  consolePort: 25575
  consolePassword: secret
suite:
  name: smoke
  storyGlobs:
    - stories/*.yml
  outputDir: reports
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.ConsoleHost != "localhost" || cfg.Backend.ConsolePort != 25575 {
		t.Fatalf("backend = %+v", cfg.Backend)
	}
	if cfg.Suite.Name != "smoke" || len(cfg.Suite.StoryGlobs) != 1 {
		t.Fatalf("suite = %+v", cfg.Suite)
	}
	// defaults carried through for fields absent from the YAML
	if cfg.Backend.ConsoleTimeoutMs != 5000 || cfg.Backend.ConsoleMaxRetries != 3 {
		t.Fatalf("expected defaults to survive partial overrides, got %+v", cfg.Backend)
	}
}

func TestLoad_RejectsMissingConsoleHost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrunner.yml")
	content := []byte(`
backend:
  kind: console
  consolePort: 25575
suite:
  name: smoke
  storyGlobs: [stories/*.yml]
  outputDir: reports
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing consoleHost")
	}
}

func TestLoad_RejectsPlayerSimWithoutBridgeURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrunner.yml")
	content := []byte(`
backend:
  kind: playersim
  consoleHost: localhost
  consolePort: 25575
suite:
  name: smoke
  storyGlobs: [stories/*.yml]
  outputDir: reports
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing bridgeBaseUrl")
	}
}

func TestToBackendConfig_ProjectsFields(t *testing.T) {
	bc := BackendConfig{ConsoleHost: "h", ConsolePort: 1, BridgeBaseURL: "u", UnifyWeatherReads: true}
	cfg := bc.ToBackendConfig()
	if cfg.ConsoleHost != "h" || cfg.ConsolePort != 1 || cfg.BridgeBaseURL != "u" || !cfg.UnifyWeatherReads {
		t.Fatalf("ToBackendConfig() = %+v", cfg)
	}
}
