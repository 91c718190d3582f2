// Package cli implements the boothcfg command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opencode-ai/photobooth/internal/config"
	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/opencode-ai/photobooth/internal/logging"
	"github.com/opencode-ai/photobooth/internal/registry"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	baseDirFlag    string
	overrideFlag   string
	defsFlag       string
	logLevelFlag   string
	jsonOutput     bool
	nonInteractive bool
	noProgress     bool
	noColor        bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "boothcfg",
	Short: "Inspect the photo-booth configuration registry",
	Long: `boothcfg loads the photo-booth configuration registry exactly as the
booth does at startup and prints colors, stylesheets, prompts, endpoints and
paths from it. A load failure exits non-zero and names the offending key.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/photobooth/config.yaml)")
	flags.StringVar(&baseDirFlag, "base-dir", "", "application base directory")
	flags.StringVar(&overrideFlag, "override", "", "local override file (relative to the base directory)")
	flags.StringVar(&defsFlag, "definitions", "", "directory of registry definition files replacing the bundled ones")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never use terminal styling or prompts")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Check the config file and PHOTOBOOTH_* environment variables",
			NextStep: "boothcfg init --force",
		}
	}

	if cmd.Flags().Changed("base-dir") {
		cfg.BaseDir = baseDirFlag
	}
	if cmd.Flags().Changed("override") {
		cfg.OverrideFile = overrideFlag
	}
	if cmd.Flags().Changed("definitions") {
		cfg.DefinitionsDir = defsFlag
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(cfg.Logging); err != nil {
		return err
	}

	appConfig = cfg
	log := logging.Component("cli")
	log.Debug().
		Str("config", cfg.Source).
		Str("base_dir", cfg.BaseDir).
		Msg("configuration loaded")
	return nil
}

// GetConfig returns the loaded configuration, or nil before initConfig ran.
func GetConfig() *config.Config {
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput writes v as indented JSON.
func WriteOutput(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PreflightError is a setup problem with a suggested fix.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", e.Hint)
	}
	if e.NextStep != "" {
		fmt.Fprintf(&b, "\n  try:  %s", e.NextStep)
	}
	return b.String()
}

// registryOptions translates deployment settings into registry load options.
func registryOptions(cfg *config.Config) ([]registry.Option, error) {
	opts := []registry.Option{
		registry.WithLogger(logging.Component("registry")),
		registry.WithClientID(cfg.Comfy.ClientID),
	}

	if dir := cfg.DefinitionsPath(); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("definitions_dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("definitions_dir: %s is not a directory", dir)
		}
		opts = append(opts, registry.WithDefinitions(os.DirFS(dir)))
	}

	if server := strings.TrimSpace(cfg.Comfy.ServerURL); server != "" {
		ws, err := endpoints.WebsocketURL(server)
		if err != nil {
			return nil, fmt.Errorf("comfy.server_url: %w", err)
		}
		opts = append(opts,
			registry.WithEndpointURL("http", server),
			registry.WithEndpointURL("ws", ws),
		)
	}
	if input := strings.TrimSpace(cfg.Comfy.InputPath); input != "" {
		opts = append(opts, registry.WithPath("input_image", input))
	}
	return opts, nil
}

// loadRegistry loads the registry for cfg without the local override file.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	opts, err := registryOptions(cfg)
	if err != nil {
		return nil, err
	}
	return registry.Load(cfg.BaseDir, opts...)
}

// openRegistry loads the registry and applies the local override file.
func openRegistry() (*registry.Registry, error) {
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	if path := cfg.OverridePath(); path != "" {
		reg = reg.OverrideFromLocal(path)
	}
	return reg, nil
}
