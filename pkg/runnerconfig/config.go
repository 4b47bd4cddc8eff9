// Package runnerconfig defines the suite-level YAML configuration schema
// and load helpers, shaped after the teacher's pkg/config/config.go: a
// top-level YAML document, an ErrConfigNotFound/DefaultConfigPath idiom,
// and a validate() pass run once at load time.
package runnerconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mctest/internal/backend"
)

// ErrConfigNotFound is returned when the config file does not exist at the
// given path.
var ErrConfigNotFound = errors.New("testrunner config not found")

// Config is the top-level testrunner.yml document.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Suite   SuiteConfig   `yaml:"suite"`
}

// BackendConfig selects and configures the backend the suite drives.
type BackendConfig struct {
	Kind string `yaml:"kind"`

	ConsoleHost       string `yaml:"consoleHost"`
	ConsolePort       int    `yaml:"consolePort"`
	ConsolePassword   string `yaml:"consolePassword"`
	ConsoleTimeoutMs  int    `yaml:"consoleTimeoutMs"`
	ConsoleMaxRetries int    `yaml:"consoleMaxRetries"`

	BridgeBaseURL   string `yaml:"bridgeBaseUrl"`
	BridgeTimeoutMs int    `yaml:"bridgeTimeoutMs"`

	UnifyWeatherReads bool `yaml:"unifyWeatherReads"`
}

// SuiteConfig describes which story files make up the suite and where its
// reports are written.
type SuiteConfig struct {
	Name              string   `yaml:"name"`
	StoryGlobs        []string `yaml:"storyGlobs"`
	OutputDir         string   `yaml:"outputDir"`
	DefaultDeadlineMs int64    `yaml:"defaultDeadlineMs"`
	Verbose           bool     `yaml:"verbose"`
}

// ToBackendConfig projects the BackendConfig section into the opaque
// backend.Config shape the registry's constructors expect.
func (c BackendConfig) ToBackendConfig() backend.Config {
	return backend.Config{
		ConsoleHost:       c.ConsoleHost,
		ConsolePort:       c.ConsolePort,
		ConsolePassword:   c.ConsolePassword,
		ConsoleTimeoutMs:  c.ConsoleTimeoutMs,
		ConsoleMaxRetries: c.ConsoleMaxRetries,
		BridgeBaseURL:     c.BridgeBaseURL,
		BridgeTimeoutMs:   c.BridgeTimeoutMs,
		UnifyWeatherReads: c.UnifyWeatherReads,
	}
}

// DefaultConfigPath returns the default config path for the current
// working directory.
func DefaultConfigPath() string {
	return "testrunner.yml"
}

// Exists reports whether a config file exists at path. Returns (false,
// nil) if the file does not exist.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the config at path. Returns ErrConfigNotFound
// if the file does not exist.
func Load(path string) (*Config, error) {
	exists, err := Exists(path)
	if err != nil {
		return nil, fmt.Errorf("checking config existence: %w", err)
	}
	if !exists {
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(path) //nolint:gosec // reading a user-specified config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with the documented defaults applied (5s
// console read timeout, 3 reconnect attempts, 10s bridge timeout, 30s
// per-action deadline, console backend, ./testrunner-reports output dir).
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Kind:              string(BackendConsole),
			ConsoleTimeoutMs:  5000,
			ConsoleMaxRetries: 3,
			BridgeTimeoutMs:   10000,
		},
		Suite: SuiteConfig{
			Name:              "stories",
			StoryGlobs:        []string{"stories/*.yml", "stories/*.yaml"},
			OutputDir:         "testrunner-reports",
			DefaultDeadlineMs: 30000,
		},
	}
}

// BackendKind names the two backend kinds the registry accepts, mirrored
// here so config validation doesn't need to import internal/story.
type BackendKind string

const (
	BackendConsole   BackendKind = "console"
	BackendPlayerSim BackendKind = "playersim"
)

func validate(cfg *Config) error {
	if !backend.DefaultRegistry.Has(cfg.Backend.Kind) {
		return fmt.Errorf("config: backend.kind %q is not a registered backend (registered: %v)", cfg.Backend.Kind, backend.DefaultRegistry.Kinds())
	}
	if cfg.Backend.ConsoleHost == "" {
		return errors.New("config: backend.consoleHost must be non-empty")
	}
	if cfg.Backend.ConsolePort <= 0 {
		return errors.New("config: backend.consolePort must be positive")
	}
	if BackendKind(cfg.Backend.Kind) == BackendPlayerSim && cfg.Backend.BridgeBaseURL == "" {
		return errors.New("config: backend.bridgeBaseUrl is required when backend.kind is playersim")
	}
	if cfg.Suite.Name == "" {
		return errors.New("config: suite.name must be non-empty")
	}
	if len(cfg.Suite.StoryGlobs) == 0 {
		return errors.New("config: suite.storyGlobs must list at least one glob")
	}
	if cfg.Suite.OutputDir == "" {
		return errors.New("config: suite.outputDir must be non-empty")
	}
	return nil
}
