package palette

import (
	"errors"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	valid := []string{"#1abc9c", "#FFFFFF", "#000000", " #ff00FF "}
	for _, value := range valid {
		if _, err := ParseColor(value); err != nil {
			t.Fatalf("ParseColor(%q): %v", value, err)
		}
	}

	invalid := []string{"", "1abc9c", "#fff", "#1abc9g", "#1abc9c0", "rgba(0,0,0,1)", "transparent"}
	for _, value := range invalid {
		_, err := ParseColor(value)
		if !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("ParseColor(%q): expected ErrInvalidColor, got %v", value, err)
		}
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b := Color("#1abc9c").RGB()
	if r != 0x1a || g != 0xbc || b != 0x9c {
		t.Fatalf("unexpected rgb: %d %d %d", r, g, b)
	}
}

func TestTextOn(t *testing.T) {
	if got := TextOn("#FFFFFF"); got != "#000000" {
		t.Fatalf("expected black text on white, got %s", got)
	}
	if got := TextOn("#000000"); got != "#FFFFFF" {
		t.Fatalf("expected white text on black, got %s", got)
	}
}

func TestNew(t *testing.T) {
	p, err := New(map[string]string{
		"primary": "#1abc9c",
		"black":   "#000000",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 colors, got %d", p.Len())
	}
	if names := p.Names(); names[0] != "black" || names[1] != "primary" {
		t.Fatalf("expected sorted names, got %v", names)
	}
	if c, ok := p.Lookup("primary"); !ok || c != "#1abc9c" {
		t.Fatalf("unexpected lookup result: %q %v", c, ok)
	}
	if _, ok := p.Lookup("missing"); ok {
		t.Fatalf("expected missing color lookup to fail")
	}
}

func TestNewRejectsInvalidEntry(t *testing.T) {
	_, err := New(map[string]string{"primary": "#1abc9c", "broken": "#12"})
	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("expected EntryError, got %v", err)
	}
	if entryErr.Name != "broken" {
		t.Fatalf("expected broken entry, got %q", entryErr.Name)
	}
	if !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor in chain")
	}
}

func TestPaletteEqual(t *testing.T) {
	a, _ := New(map[string]string{"primary": "#1abc9c"})
	b, _ := New(map[string]string{"primary": "#1abc9c"})
	c, _ := New(map[string]string{"primary": "#000000"})
	if !a.Equal(b) {
		t.Fatalf("expected equal palettes")
	}
	if a.Equal(c) {
		t.Fatalf("expected palettes to differ")
	}
}

func TestSwatchesIncludeEveryName(t *testing.T) {
	p, _ := New(map[string]string{"primary": "#1abc9c", "danger": "#e74c3c"})
	out := Swatches(p)
	for _, name := range []string{"primary", "danger"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected swatches to mention %q: %q", name, out)
		}
	}
}
