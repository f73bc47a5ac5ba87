package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// PortalSettings describes the portal and the federated server hosting the
// web tool. The password is intentionally absent: it is resolved from the
// environment or an interactive prompt, never from the config file.
type PortalSettings struct {
	URL       string `yaml:"url" env:"WEBTOOL_PORTAL_URL"`
	ServerURL string `yaml:"server_url" env:"WEBTOOL_SERVER_URL"`
	Username  string `yaml:"username" env:"WEBTOOL_USERNAME"`
}

// ServiceSettings describes the service to publish.
type ServiceSettings struct {
	Name          string `yaml:"name" env:"WEBTOOL_SERVICE_NAME"`
	OutputDir     string `yaml:"output_dir" env:"WEBTOOL_OUTPUT_DIR"`
	MaxRecords    int    `yaml:"max_records,omitempty" env:"WEBTOOL_MAX_RECORDS"`
	ExecutionType string `yaml:"execution_type,omitempty" env:"WEBTOOL_EXECUTION_TYPE"`
}

// ToolSettings describes the packaged tool to run and publish.
type ToolSettings struct {
	Toolbox    string `yaml:"toolbox" env:"WEBTOOL_TOOLBOX"`
	Name       string `yaml:"name" env:"WEBTOOL_TOOL_NAME"`
	InputsFile string `yaml:"inputs_file,omitempty" env:"WEBTOOL_TOOL_INPUTS_FILE"`
	// ConstantValues are tool parameter names fixed at publish time and
	// hidden from web tool consumers.
	ConstantValues []string `yaml:"constant_values,omitempty" env:"WEBTOOL_CONSTANT_VALUES" envSeparator:","`
}

// ProjectConfig is the webtool.yaml project configuration.
type ProjectConfig struct {
	Portal  PortalSettings    `yaml:"portal"`
	Service ServiceSettings   `yaml:"service"`
	Tool    ToolSettings      `yaml:"tool"`
	Inputs  map[string]string `yaml:"inputs,omitempty"`
	Timeout string            `yaml:"timeout,omitempty" env:"WEBTOOL_TIMEOUT"`
}

const ConfigFileName = "webtool.yaml"

// Load reads webtool.yaml from the project directory and applies
// environment variable overrides. Precedence is flags > environment >
// file, so Load resolves the bottom two layers and the CLI applies flags
// on top.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables alone, for
// runs without a project directory.
func FromEnv() (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to webtool.yaml in the project directory.
func Save(sourcePath string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := filepath.Join(sourcePath, ConfigFileName)
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFileName, err)
	}
	return nil
}

func applyEnv(cfg *ProjectConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}
