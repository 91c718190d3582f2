package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/opencode-ai/photobooth/internal/config"
	"github.com/opencode-ai/photobooth/internal/registry"
	"github.com/spf13/cobra"
)

var checkStrict bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when the local override file cannot be applied")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the registry and report what it contains",
	Long: `Load the registry the way the booth does at startup. Every definition is
validated; the first violation is reported with its key and a non-zero exit.
The local override file is applied last and reported separately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout())
	},
}

type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type checkReport struct {
	BaseDir  string        `json:"base_dir"`
	Override string        `json:"override,omitempty"`
	Checks   []checkResult `json:"checks"`
}

func runCheck(out io.Writer) error {
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	progress := startProgress("Loading registry")
	reg, err := loadRegistry(cfg)
	if err != nil {
		progress.Fail(err)
		return err
	}
	progress.Done()

	report := checkReport{
		BaseDir:  reg.BaseDir(),
		Override: cfg.OverridePath(),
		Checks: []checkResult{
			countResult("colors", reg.Palette().Len()),
			countResult("layout", len(reg.Layout().Names())),
			countResult("styles", len(reg.StyleNames())),
			countResult("prompts", len(reg.PromptNames())),
			countResult("endpoints", len(reg.EndpointNames())),
			countResult("paths", len(reg.PathNames())),
			countResult("workflows", len(reg.WorkflowStyles())),
		},
	}

	override, overrideErr := checkOverride(reg, cfg.OverridePath())
	report.Checks = append(report.Checks, override)

	if IsJSONOutput() {
		if err := WriteOutput(out, report); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(report.Checks))
		for _, c := range report.Checks {
			rows = append(rows, []string{c.Name, formatCheckStatus(c.Status), c.Message})
		}
		fmt.Fprintf(out, "Base directory: %s\n\n", report.BaseDir)
		if err := writeTable(out, []string{"SECTION", "STATUS", "DETAILS"}, rows); err != nil {
			return err
		}
	}

	if checkStrict && overrideErr != nil {
		return fmt.Errorf("local override: %w", overrideErr)
	}
	return nil
}

func countResult(name string, n int) checkResult {
	return checkResult{Name: name, Status: checkOK, Message: strconv.Itoa(n) + " defined"}
}

func checkOverride(reg *registry.Registry, path string) (checkResult, error) {
	result := checkResult{Name: "override"}
	if path == "" {
		result.Status = checkSkipped
		result.Message = "disabled"
		return result, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		result.Status = checkSkipped
		result.Message = "no file at " + path
		return result, nil
	}

	next, err := reg.ApplyOverrides(path)
	if err != nil {
		result.Status = checkFailed
		result.Message = err.Error()
		return result, err
	}
	result.Status = checkOK
	if next == reg {
		result.Message = "empty file " + path
	} else {
		result.Message = "applied " + path
	}
	return result, nil
}
