package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/calderanet/caldera-cli/internal/constants"
)

// ValidOverrideKeys are the config fields that may be overridden from the
// command line with -c key=value.
var ValidOverrideKeys = []string{
	"project_template_repository.url",
	"project_template_repository.branch",
	"project_template_repository.folder",
	"wasm_template_repository.url",
	"wasm_template_repository.branch",
	"wasm_template_repository.folder",
	"default_account",
}

// Config is the CLI configuration file (caldera.config.toml).
type Config struct {
	ProjectTemplateRepository TemplateRepository `toml:"project-template-repository" validate:"required"`
	WasmTemplateRepository    TemplateRepository `toml:"wasm-template-repository" validate:"required"`
	DefaultAccount            string             `toml:"default-account,omitempty"`
}

// TemplateRepository identifies a remote template source and the sub-folder
// inside it that holds the templates.
type TemplateRepository struct {
	URL    string `toml:"url" validate:"required"`
	Branch string `toml:"branch" validate:"required"`
	Folder string `toml:"folder" validate:"required"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		ProjectTemplateRepository: TemplateRepository{
			URL:    constants.DefaultTemplateRepoURL,
			Branch: constants.DefaultTemplateRepoBranch,
			Folder: constants.DefaultProjectTemplateFolder,
		},
		WasmTemplateRepository: TemplateRepository{
			URL:    constants.DefaultTemplateRepoURL,
			Branch: constants.DefaultTemplateRepoBranch,
			Folder: constants.DefaultWasmTemplateFolder,
		},
	}
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move config file into place: %w", err)
	}

	return nil
}

// LoadOrInit loads the config at path, writing the defaults first if the file
// does not exist yet. A config that exists but fails to parse is replaced with
// the defaults rather than aborting the run.
func LoadOrInit(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		if saveErr := cfg.Save(path); saveErr != nil {
			return nil, saveErr
		}
	}

	return cfg, nil
}

// IsValidOverrideKey reports whether key may be used with -e overrides.
func IsValidOverrideKey(key string) bool {
	for _, valid := range ValidOverrideKeys {
		if key == valid {
			return true
		}
	}
	return false
}

// Override applies a single key=value override to the config.
func (c *Config) Override(key, value string) error {
	if !IsValidOverrideKey(key) {
		return fmt.Errorf("invalid override key: %s", key)
	}

	switch key {
	case "project_template_repository.url":
		c.ProjectTemplateRepository.URL = value
	case "project_template_repository.branch":
		c.ProjectTemplateRepository.Branch = value
	case "project_template_repository.folder":
		c.ProjectTemplateRepository.Folder = value
	case "wasm_template_repository.url":
		c.WasmTemplateRepository.URL = value
	case "wasm_template_repository.branch":
		c.WasmTemplateRepository.Branch = value
	case "wasm_template_repository.folder":
		c.WasmTemplateRepository.Folder = value
	case "default_account":
		c.DefaultAccount = value
	}

	return nil
}

// ParseOverride parses a "key=value" override argument.
func ParseOverride(arg string) (key, value string, err error) {
	if arg == "" {
		return "", "", fmt.Errorf("override cannot be empty")
	}

	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid override %q, expected key=value", arg)
	}

	if !IsValidOverrideKey(parts[0]) {
		return "", "", fmt.Errorf("invalid override key: %s", parts[0])
	}

	return parts[0], parts[1], nil
}
