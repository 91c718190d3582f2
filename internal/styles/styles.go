// Package styles compiles stylesheet templates with named slots.
//
// Template text is opaque toolkit stylesheet syntax; the only markup the
// package understands is a slot action written {{.name}}.
package styles

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks template text or slot declarations that cannot be compiled.
	ErrMalformed = errors.New("malformed style template")
	// ErrUnresolved marks a slot or reference that points at nothing.
	ErrUnresolved = errors.New("unresolved reference")
	// ErrMissingSlot marks a required slot rendered without a value.
	ErrMissingSlot = errors.New("missing slot value")
	// ErrUnknownSlot marks an override for a slot the template does not declare.
	ErrUnknownSlot = errors.New("unknown slot")
)

// Definition is the declarative form of a style template.
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Extends     string `yaml:"extends,omitempty"`
	Text        string `yaml:"text"`
	Slots       []Slot `yaml:"slots,omitempty"`
}

// Slot declares a placeholder and where its default comes from.
// Ref names a palette color ("color.primary") or layout parameter
// ("layout.button_text_size"). A slot with no ref, default or required flag
// renders as an empty string.
type Slot struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Ref         string `yaml:"ref,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}

// Error reports a failure tied to a template and, when known, a slot.
type Error struct {
	Template string
	Slot     string
	Err      error
}

func (e *Error) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("style %q slot %q: %v", e.Template, e.Slot, e.Err)
	}
	return fmt.Sprintf("style %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Key returns the dotted name of the failing template or slot.
func (e *Error) Key() string {
	if e.Slot != "" {
		return e.Template + "." + e.Slot
	}
	return e.Template
}

// ResolveFunc resolves a slot reference to its current value.
type ResolveFunc func(ref string) (string, bool)
