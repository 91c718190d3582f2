package styles

import (
	"fmt"
	"strings"
)

// Render substitutes every slot, taking overrides before declared defaults.
// Blank overrides count as absent.
func (t *Template) Render(overrides map[string]string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("template is required")
	}

	data := make(map[string]string, len(t.slots))
	for name, value := range overrides {
		if _, ok := t.index[name]; !ok {
			return "", &Error{Template: t.Name, Slot: name, Err: ErrUnknownSlot}
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		data[name] = value
	}

	for _, slot := range t.slots {
		if _, ok := data[slot.Name]; ok {
			continue
		}
		value, ok := t.defaults[slot.Name]
		if !ok {
			return "", &Error{Template: t.Name, Slot: slot.Name, Err: ErrMissingSlot}
		}
		data[slot.Name] = value
	}

	var out strings.Builder
	if err := t.tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render style %q: %w", t.Name, err)
	}
	return out.String(), nil
}

// Slots returns the declared slots, inherited ones first.
func (t *Template) Slots() []Slot {
	return append([]Slot(nil), t.slots...)
}

// Defaults returns the resolved default of every slot that has one.
func (t *Template) Defaults() map[string]string {
	out := make(map[string]string, len(t.defaults))
	for k, v := range t.defaults {
		out[k] = v
	}
	return out
}

// Required returns the names of slots that must be supplied by the caller.
func (t *Template) Required() []string {
	var names []string
	for _, slot := range t.slots {
		if _, ok := t.defaults[slot.Name]; !ok {
			names = append(names, slot.Name)
		}
	}
	return names
}
