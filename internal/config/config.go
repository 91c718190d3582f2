// Package config loads process configuration for the photo-booth tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	appName   = "photobooth"
	envPrefix = "PHOTOBOOTH"
)

// Config is the process configuration. It only locates and tunes the
// registry; the registry's own values come from its definition files.
type Config struct {
	// BaseDir is the application directory relative paths resolve against.
	BaseDir string `mapstructure:"base_dir"`
	// OverrideFile is the local override document, relative to BaseDir.
	OverrideFile string `mapstructure:"override_file"`
	// DefinitionsDir replaces the bundled registry definitions when set.
	DefinitionsDir string `mapstructure:"definitions_dir"`

	Logging LoggingConfig `mapstructure:"logging"`
	Comfy   ComfyConfig   `mapstructure:"comfy"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComfyConfig holds deployment-specific image server settings.
type ComfyConfig struct {
	ServerURL string `mapstructure:"server_url"`
	InputPath string `mapstructure:"input_path"`
	ClientID  string `mapstructure:"client_id"`
}

// DefaultConfig returns the configuration used when no file or environment
// value is present.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:      ".",
		OverrideFile: "config_local.yaml",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/photobooth, or
// ~/.config/photobooth when XDG_CONFIG_HOME is unset.
func DefaultConfigDir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// SearchPaths lists the directories searched for config.yaml, in order.
func SearchPaths() []string {
	paths := []string{DefaultConfigDir()}
	if home, err := os.UserHomeDir(); err == nil {
		fallback := filepath.Join(home, ".config", appName)
		if fallback != paths[0] {
			paths = append(paths, fallback)
		}
	}
	return paths
}

// Load reads configuration from path, or from the first config.yaml found in
// SearchPaths when path is empty. PHOTOBOOTH_* environment variables win over
// file values; a missing file is only an error when path was given.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if strings.TrimSpace(cfg.Comfy.ClientID) == "" {
		cfg.Comfy.ClientID = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("base_dir", cfg.BaseDir)
	v.SetDefault("override_file", cfg.OverrideFile)
	v.SetDefault("definitions_dir", cfg.DefinitionsDir)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("comfy.server_url", cfg.Comfy.ServerURL)
	v.SetDefault("comfy.input_path", cfg.Comfy.InputPath)
	v.SetDefault("comfy.client_id", cfg.Comfy.ClientID)
}

// Validate checks the configuration for values the tools cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base_dir is required")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q: expected auto, console or json", c.Logging.Format)
	}
	if url := strings.TrimSpace(c.Comfy.ServerURL); url != "" {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("invalid comfy.server_url %q: expected http or https", url)
		}
		if err := endpoints.ValidateURL(url); err != nil {
			return fmt.Errorf("invalid comfy.server_url: %w", err)
		}
	}
	if id := c.Comfy.ClientID; id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("invalid comfy.client_id %q: %w", id, err)
		}
	}
	return nil
}

// OverridePath returns the override file location. Relative paths are
// resolved against BaseDir; an empty OverrideFile disables overrides.
func (c *Config) OverridePath() string {
	path := strings.TrimSpace(c.OverrideFile)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// DefinitionsPath returns the external definitions directory, resolved
// against BaseDir, or "" when the bundled definitions are used.
func (c *Config) DefinitionsPath() string {
	path := strings.TrimSpace(c.DefinitionsDir)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
