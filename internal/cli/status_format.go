// Package cli provides status formatting helpers.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorRed    = "1"
	colorGreen  = "2"
	colorYellow = "3"
	colorCyan   = "6"
)

const (
	checkOK      = "ok"
	checkFailed  = "failed"
	checkSkipped = "skipped"
)

func formatCheckStatus(status string) string {
	label, color := statusLabelForCheck(status)
	return colorize(formatStatusLabel(label, status), color)
}

func statusLabelForCheck(status string) (string, string) {
	switch status {
	case checkOK:
		return "OK", colorGreen
	case checkFailed:
		return "ERR", colorRed
	case checkSkipped:
		return "SKIP", colorCyan
	default:
		return "WARN", colorYellow
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}

func colorize(text, color string) string {
	if !colorEnabled() {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func colorEnabled() bool {
	if noColor || IsJSONOutput() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsInteractive()
}
