package palette

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Swatch renders a single color as a filled block followed by its name and hex value.
func Swatch(name string, c Color) string {
	block := lipgloss.NewStyle().
		Background(lipgloss.Color(string(c))).
		Foreground(lipgloss.Color(string(TextOn(c)))).
		Padding(0, 1).
		Render(string(c))
	label := lipgloss.NewStyle().Bold(true).Render(name)
	return block + " " + label
}

// Swatches renders every color of the palette, one per line.
func Swatches(p *Palette) string {
	var b strings.Builder
	for _, name := range p.Names() {
		c, _ := p.Lookup(name)
		b.WriteString(Swatch(name, c))
		b.WriteByte('\n')
	}
	return b.String()
}
