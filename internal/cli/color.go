package cli

import (
	"fmt"
	"io"

	"github.com/opencode-ai/photobooth/internal/palette"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(paletteCmd)
}

var colorCmd = &cobra.Command{
	Use:   "color <name>",
	Short: "Print a palette color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runColor(cmd.OutOrStdout(), args[0])
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List every palette color",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPalette(cmd.OutOrStdout())
	},
}

type colorOutput struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  [3]int `json:"rgb"`
}

func newColorOutput(name string, c palette.Color) colorOutput {
	r, g, b := c.RGB()
	return colorOutput{Name: name, Hex: c.String(), RGB: [3]int{int(r), int(g), int(b)}}
}

func runColor(out io.Writer, name string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	c, err := reg.Color(name)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return WriteOutput(out, newColorOutput(name, c))
	}
	_, err = fmt.Fprintln(out, c.String())
	return err
}

func runPalette(out io.Writer) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	p := reg.Palette()

	if IsJSONOutput() {
		colors := make([]colorOutput, 0, p.Len())
		for _, name := range p.Names() {
			c, _ := p.Lookup(name)
			colors = append(colors, newColorOutput(name, c))
		}
		return WriteOutput(out, colors)
	}

	if colorEnabled() {
		_, err := fmt.Fprintln(out, palette.Swatches(p))
		return err
	}

	rows := make([][]string, 0, p.Len())
	for _, name := range p.Names() {
		c, _ := p.Lookup(name)
		r, g, b := c.RGB()
		rows = append(rows, []string{name, c.String(), fmt.Sprintf("%d,%d,%d", r, g, b)})
	}
	return writeTable(out, []string{"NAME", "HEX", "RGB"}, rows)
}
