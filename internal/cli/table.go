// Package cli provides table helpers for human-readable output.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/ansi"
	reflowtruncate "github.com/muesli/reflow/truncate"
)

const tablePadding = 2

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// truncate shortens single-line previews to max display cells.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 3 || ansi.PrintableRuneWidth(s) <= max {
		return s
	}
	return reflowtruncate.StringWithTail(s, uint(max), "...")
}
