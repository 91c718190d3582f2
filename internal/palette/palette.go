// Package palette provides the named color tokens used by the booth stylesheets.
package palette

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for values that are not #RRGGBB hex colors.
var ErrInvalidColor = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Color is a validated #RRGGBB hex color.
type Color string

// ParseColor validates a hex color string.
func ParseColor(value string) (Color, error) {
	value = strings.TrimSpace(value)
	if !hexPattern.MatchString(value) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}
	if _, err := colorful.Hex(value); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidColor, value, err)
	}
	return Color(value), nil
}

// String returns the hex form of the color.
func (c Color) String() string {
	return string(c)
}

// RGB returns the 8-bit channel values.
func (c Color) RGB() (r, g, b uint8) {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return 0, 0, 0
	}
	return col.RGB255()
}

// TextOn picks black or white text for legibility on top of c.
func TextOn(c Color) Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return "#FFFFFF"
	}
	l, _, _ := col.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}

// Palette is an immutable set of named colors.
type Palette struct {
	colors map[string]Color
	names  []string
}

// EntryError reports the palette entry that failed validation.
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("color %q: %v", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// New validates raw name/value pairs and builds a palette.
func New(raw map[string]string) (*Palette, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	colors := make(map[string]Color, len(raw))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, &EntryError{Name: name, Err: errors.New("color name is required")}
		}
		if trimmed != name {
			return nil, &EntryError{Name: name, Err: errors.New("color name has surrounding whitespace")}
		}
		c, err := ParseColor(raw[name])
		if err != nil {
			return nil, &EntryError{Name: name, Err: err}
		}
		colors[name] = c
	}

	return &Palette{colors: colors, names: names}, nil
}

// Lookup returns the named color.
func (p *Palette) Lookup(name string) (Color, bool) {
	if p == nil {
		return "", false
	}
	c, ok := p.colors[name]
	return c, ok
}

// Names returns the color names in sorted order.
func (p *Palette) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Raw returns a copy of the palette as plain strings.
func (p *Palette) Raw() map[string]string {
	out := make(map[string]string, p.Len())
	for _, name := range p.Names() {
		out[name] = string(p.colors[name])
	}
	return out
}

// Equal reports whether both palettes hold the same colors.
func (p *Palette) Equal(other *Palette) bool {
	if p.Len() != other.Len() {
		return false
	}
	for _, name := range p.Names() {
		c, ok := other.Lookup(name)
		if !ok || c != p.colors[name] {
			return false
		}
	}
	return true
}
