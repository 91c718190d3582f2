package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var valuesFull bool

func init() {
	rootCmd.AddCommand(valuesCmd)
	valuesCmd.Flags().BoolVar(&valuesFull, "full", false, "do not shorten long values")
}

var valuesCmd = &cobra.Command{
	Use:   "values [prefix]",
	Short: "Print every registry value as a dotted key",
	Long: `Print the loaded registry flattened into dotted keys such as
colors.primary or layout.sleep_timer, after the local override file is
applied. A prefix limits the output to matching keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return runValues(cmd.OutOrStdout(), prefix)
	},
}

func runValues(out io.Writer, prefix string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	snapshot := reg.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return fmt.Errorf("no values match %q", prefix)
	}

	if IsJSONOutput() {
		filtered := make(map[string]string, len(keys))
		for _, key := range keys {
			filtered[key] = snapshot[key]
		}
		return WriteOutput(out, filtered)
	}

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		value := snapshot[key]
		if !valuesFull {
			value = truncate(value, 80)
		}
		rows = append(rows, []string{key, value})
	}
	return writeTable(out, []string{"KEY", "VALUE"}, rows)
}
