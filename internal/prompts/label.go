package prompts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns a style name such as "oil paint" into a button label ("Oil Paint").
func Label(name string) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.TrimSpace(name))
}
