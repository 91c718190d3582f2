package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	styleSet    map[string]string
	styleList   bool
	styleButton bool
)

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.Flags().StringToStringVar(&styleSet, "set", nil, "slot override as slot=value (repeatable)")
	styleCmd.Flags().BoolVar(&styleList, "list", false, "list style templates and their slots")
	styleCmd.Flags().BoolVar(&styleButton, "button", false, "render the style picker button for an image style")
}

var styleCmd = &cobra.Command{
	Use:   "style <name>",
	Short: "Render a stylesheet template",
	Long: `Render a stylesheet template with its slot defaults. Use --set to
override individual slots; required slots must be set.

With --button the argument is an image style (e.g. clay) and the style picker
button stylesheet is rendered, textured when the style has a texture image.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if styleList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if styleList {
			return runStyleList(cmd.OutOrStdout())
		}
		return runStyle(cmd.OutOrStdout(), args[0])
	},
}

type styleSlotOutput struct {
	Name     string `json:"name"`
	Default  string `json:"default,omitempty"`
	Ref      string `json:"ref,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type styleOutput struct {
	Name     string            `json:"name"`
	Slots    []styleSlotOutput `json:"slots"`
	Rendered string            `json:"rendered,omitempty"`
}

func runStyle(out io.Writer, name string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	var rendered string
	if styleButton {
		rendered, err = reg.StyleButton(name)
	} else {
		rendered, err = reg.RenderStyle(name, styleSet)
	}
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return WriteOutput(out, styleOutput{Name: name, Rendered: rendered})
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

func runStyleList(out io.Writer) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	list := make([]styleOutput, 0, len(reg.StyleNames()))
	for _, name := range reg.StyleNames() {
		tmpl, err := reg.Style(name)
		if err != nil {
			return err
		}
		defaults := tmpl.Defaults()
		required := make(map[string]bool)
		for _, name := range tmpl.Required() {
			required[name] = true
		}
		entry := styleOutput{Name: name, Slots: []styleSlotOutput{}}
		for _, slot := range tmpl.Slots() {
			entry.Slots = append(entry.Slots, styleSlotOutput{
				Name:     slot.Name,
				Default:  defaults[slot.Name],
				Ref:      slot.Ref,
				Required: required[slot.Name],
			})
		}
		list = append(list, entry)
	}

	if IsJSONOutput() {
		return WriteOutput(out, list)
	}

	rows := make([][]string, 0, len(list))
	for _, entry := range list {
		slots := make([]string, 0, len(entry.Slots))
		for _, slot := range entry.Slots {
			label := slot.Name
			if slot.Required {
				label += "*"
			}
			slots = append(slots, label)
		}
		rows = append(rows, []string{entry.Name, strings.Join(slots, ", ")})
	}
	return writeTable(out, []string{"STYLE", "SLOTS"}, rows)
}
