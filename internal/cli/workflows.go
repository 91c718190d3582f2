package cli

import (
	"io"

	"github.com/opencode-ai/photobooth/internal/prompts"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(workflowsCmd)
}

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List selectable workflow styles",
	Long: `List the workflow styles found in the workflow directory when the
registry loaded. Files named default* or containing _save are not selectable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflows(cmd.OutOrStdout())
	},
}

type workflowOutput struct {
	Style    string `json:"style"`
	Label    string `json:"label"`
	Workflow string `json:"workflow"`
	Prompt   bool   `json:"prompt"`
	Texture  string `json:"texture,omitempty"`
}

func runWorkflows(out io.Writer) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	list := make([]workflowOutput, 0)
	for _, style := range reg.WorkflowStyles() {
		path, err := reg.WorkflowPath(style)
		if err != nil {
			return err
		}
		_, promptErr := reg.Prompt(style)
		texture, _ := reg.Texture(style)
		list = append(list, workflowOutput{
			Style:    style,
			Label:    prompts.Label(style),
			Workflow: path,
			Prompt:   promptErr == nil,
			Texture:  texture,
		})
	}

	if IsJSONOutput() {
		return WriteOutput(out, list)
	}

	rows := make([][]string, 0, len(list))
	for _, w := range list {
		rows = append(rows, []string{w.Style, w.Label, formatYesNo(w.Prompt), formatYesNo(w.Texture != ""), truncate(w.Workflow, 60)})
	}
	return writeTable(out, []string{"STYLE", "LABEL", "PROMPT", "TEXTURE", "WORKFLOW"}, rows)
}
