package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencode-ai/photobooth/internal/config"
	"github.com/spf13/cobra"
)

var (
	initForce bool

	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file and verify the base directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.OutOrStdout())
	},
}

type initResult struct {
	name    string
	status  string
	message string
}

const configTemplate = `# Photo Booth Configuration File
#
# Values here locate and tune the configuration registry. Environment
# variables prefixed with PHOTOBOOTH_ take precedence, for example
# PHOTOBOOTH_COMFY_SERVER_URL or PHOTOBOOTH_LOGGING_LEVEL.

# Application directory; relative registry paths resolve against it.
base_dir: .

# Per-device override file, relative to base_dir. Empty disables it.
override_file: config_local.yaml

# Directory of registry definition files (palette.yaml, styles.yaml, ...)
# replacing the bundled ones. Empty uses the bundled definitions.
definitions_dir: ""

logging:
  level: info      # debug, info, warn, error
  format: auto     # auto, console, json

comfy:
  # Image server base URL. The websocket URL is derived from it.
  server_url: ""
  # Absolute path the captured frame is written to for the image server.
  input_path: ""
  # Client id sent to the image server; generated per run when empty.
  client_id: ""
`

func runInit(out io.Writer) error {
	results := []initResult{
		createConfigFile(),
		checkBaseDir(),
	}

	failed := false
	for _, r := range results {
		fmt.Fprintf(out, "%-12s %s  %s\n", r.name, formatCheckStatus(r.status), r.message)
		if r.status == checkFailed {
			failed = true
		}
	}
	if failed {
		return errors.New("init did not complete")
	}
	return nil
}

func createConfigFile() initResult {
	result := initResult{name: "config"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = checkSkipped
		result.message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		result.status = checkFailed
		result.message = err.Error()
		return result
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.status = checkFailed
		result.message = fmt.Sprintf("failed to create %s: %v", dir, err)
		return result
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		result.status = checkFailed
		result.message = fmt.Sprintf("failed to write %s: %v", path, err)
		return result
	}

	result.status = checkOK
	result.message = "wrote " + path
	return result
}

func checkBaseDir() initResult {
	result := initResult{name: "registry"}
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		result.status = checkFailed
		result.message = err.Error()
		return result
	}

	result.status = checkOK
	result.message = fmt.Sprintf("loaded from %s (%d workflows)", reg.BaseDir(), len(reg.WorkflowStyles()))
	return result
}
