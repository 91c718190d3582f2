package cli

import (
	"fmt"
	"io"

	"github.com/opencode-ai/photobooth/internal/prompts"
	"github.com/spf13/cobra"
)

var (
	promptSeed  uint64
	promptCount int
	promptList  bool
	promptMatch string
)

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().Uint64Var(&promptSeed, "seed", 0, "seed for deterministic expansion (random when unset)")
	promptCmd.Flags().IntVar(&promptCount, "count", 1, "number of expansions to print")
	promptCmd.Flags().BoolVar(&promptList, "list", false, "list prompt styles")
	promptCmd.Flags().StringVar(&promptMatch, "match", "", "check whether the text is an expansion of the style's prompt")
}

var promptCmd = &cobra.Command{
	Use:   "prompt <style>",
	Short: "Expand an image-generation prompt",
	Long: `Expand a style's prompt template by picking one option from every
{A|B|C} group. The same --seed always yields the same prompts.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if promptList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if promptList {
			return runPromptList(cmd.OutOrStdout())
		}
		if cmd.Flags().Changed("match") {
			return runPromptMatch(cmd.OutOrStdout(), args[0], promptMatch)
		}
		return runPrompt(cmd.OutOrStdout(), args[0], cmd.Flags().Changed("seed"))
	},
}

type promptOutput struct {
	Style   string   `json:"style"`
	Label   string   `json:"label"`
	Seed    *uint64  `json:"seed,omitempty"`
	Prompts []string `json:"prompts"`
}

func runPrompt(out io.Writer, style string, seeded bool) error {
	if promptCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}

	result := promptOutput{Style: style, Label: prompts.Label(style), Prompts: []string{}}
	if seeded {
		seed := promptSeed
		result.Seed = &seed
		samples, err := reg.PromptSamples(style, seed)
		if err != nil {
			return err
		}
		for sample := range samples {
			result.Prompts = append(result.Prompts, sample)
			if len(result.Prompts) == promptCount {
				break
			}
		}
	} else {
		for range promptCount {
			text, err := reg.RenderPrompt(style, nil)
			if err != nil {
				return err
			}
			result.Prompts = append(result.Prompts, text)
		}
	}

	if IsJSONOutput() {
		return WriteOutput(out, result)
	}
	for _, text := range result.Prompts {
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
	}
	return nil
}

type promptMatchOutput struct {
	Style   string `json:"style"`
	Matches bool   `json:"matches"`
}

func runPromptMatch(out io.Writer, style, text string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	ok, err := reg.PromptMatches(style, text)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		if err := WriteOutput(out, promptMatchOutput{Style: style, Matches: ok}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, formatYesNo(ok))
	}
	if !ok {
		return fmt.Errorf("text is not an expansion of the %q prompt", style)
	}
	return nil
}

type promptInfo struct {
	Style        string `json:"style"`
	Label        string `json:"label"`
	Groups       int    `json:"groups"`
	Combinations string `json:"combinations"`
}

func runPromptList(out io.Writer) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	infos := make([]promptInfo, 0, len(reg.PromptNames()))
	for _, name := range reg.PromptNames() {
		tmpl, err := reg.Prompt(name)
		if err != nil {
			return err
		}
		infos = append(infos, promptInfo{
			Style:        name,
			Label:        prompts.Label(name),
			Groups:       tmpl.Groups(),
			Combinations: tmpl.Combinations().String(),
		})
	}

	if IsJSONOutput() {
		return WriteOutput(out, infos)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Style, info.Label, fmt.Sprint(info.Groups), info.Combinations})
	}
	return writeTable(out, []string{"STYLE", "LABEL", "GROUPS", "COMBINATIONS"}, rows)
}
