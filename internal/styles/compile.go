package styles

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"
)

// Template is a compiled style template.
type Template struct {
	Name        string
	Description string
	Source      string

	slots    []Slot
	index    map[string]int
	defaults map[string]string
	tmpl     *template.Template
}

// CompileAll compiles every definition, resolving extends chains and slot
// references. Either all templates compile or none are returned.
func CompileAll(defs []Definition, resolve ResolveFunc) (map[string]*Template, error) {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, &Error{Template: def.Name, Err: fmt.Errorf("%w: template name is required", ErrMalformed)}
		}
		if _, exists := byName[name]; exists {
			return nil, &Error{Template: name, Err: fmt.Errorf("%w: duplicate template", ErrMalformed)}
		}
		def.Name = name
		byName[name] = def
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &compiler{
		defs:     byName,
		resolve:  resolve,
		done:     make(map[string]*Template, len(byName)),
		visiting: make(map[string]bool),
	}
	for _, name := range names {
		if _, err := c.compile(name); err != nil {
			return nil, err
		}
	}

	return c.done, nil
}

type compiler struct {
	defs     map[string]Definition
	resolve  ResolveFunc
	done     map[string]*Template
	visiting map[string]bool
}

func (c *compiler) compile(name string) (*Template, error) {
	if tmpl, ok := c.done[name]; ok {
		return tmpl, nil
	}
	if c.visiting[name] {
		return nil, &Error{Template: name, Err: fmt.Errorf("%w: extends cycle", ErrUnresolved)}
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	def := c.defs[name]
	source := def.Text
	var slots []Slot

	if parentName := strings.TrimSpace(def.Extends); parentName != "" {
		if _, ok := c.defs[parentName]; !ok {
			return nil, &Error{Template: name, Err: fmt.Errorf("%w: extends unknown template %q", ErrUnresolved, parentName)}
		}
		parent, err := c.compile(parentName)
		if err != nil {
			return nil, err
		}
		source = parent.Source + def.Text
		slots = append(slots, parent.slots...)
	}

	if strings.TrimSpace(source) == "" {
		return nil, &Error{Template: name, Err: fmt.Errorf("%w: template text is required", ErrMalformed)}
	}

	own := make(map[string]bool, len(def.Slots))
	for _, slot := range def.Slots {
		slot.Name = strings.TrimSpace(slot.Name)
		slot.Ref = strings.TrimSpace(slot.Ref)
		if err := validateSlot(name, slot); err != nil {
			return nil, err
		}
		if own[slot.Name] {
			return nil, &Error{Template: name, Slot: slot.Name, Err: fmt.Errorf("%w: duplicate slot", ErrMalformed)}
		}
		own[slot.Name] = true
		slots = replaceSlot(slots, slot)
	}

	index := make(map[string]int, len(slots))
	defaults := make(map[string]string, len(slots))
	for i, slot := range slots {
		index[slot.Name] = i
		switch {
		case slot.Ref != "":
			value, ok := c.resolve(slot.Ref)
			if !ok {
				return nil, &Error{Template: name, Slot: slot.Name, Err: fmt.Errorf("%w: %q", ErrUnresolved, slot.Ref)}
			}
			defaults[slot.Name] = value
		case !slot.Required:
			defaults[slot.Name] = slot.Default
		}
	}

	parsed, used, err := parseText(name, source)
	if err != nil {
		return nil, err
	}
	for _, slotName := range used {
		if _, ok := index[slotName]; !ok {
			return nil, &Error{Template: name, Slot: slotName, Err: fmt.Errorf("%w: slot is not declared", ErrUnresolved)}
		}
	}

	tmpl := &Template{
		Name:        name,
		Description: strings.TrimSpace(def.Description),
		Source:      source,
		slots:       slots,
		index:       index,
		defaults:    defaults,
		tmpl:        parsed,
	}
	c.done[name] = tmpl
	return tmpl, nil
}

func validateSlot(tmplName string, slot Slot) error {
	if slot.Name == "" {
		return &Error{Template: tmplName, Err: fmt.Errorf("%w: slot name is required", ErrMalformed)}
	}
	if slot.Ref != "" && slot.Default != "" {
		return &Error{Template: tmplName, Slot: slot.Name, Err: fmt.Errorf("%w: ref and default are exclusive", ErrMalformed)}
	}
	if slot.Required && (slot.Ref != "" || slot.Default != "") {
		return &Error{Template: tmplName, Slot: slot.Name, Err: fmt.Errorf("%w: required slot cannot have a default", ErrMalformed)}
	}
	return nil
}

func replaceSlot(slots []Slot, slot Slot) []Slot {
	for i := range slots {
		if slots[i].Name == slot.Name {
			out := append([]Slot(nil), slots...)
			out[i] = slot
			return out
		}
	}
	return append(slots, slot)
}

// parseText parses template text and returns the slot names it uses.
// Only literal text and {{.slot}} actions are accepted.
func parseText(name, source string) (*template.Template, []string, error) {
	parsed, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, nil, &Error{Template: name, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if parsed.Tree == nil || parsed.Tree.Root == nil {
		return parsed, nil, nil
	}

	var used []string
	seen := make(map[string]bool)
	for _, n := range parsed.Tree.Root.Nodes {
		switch node := n.(type) {
		case *parse.TextNode:
		case *parse.ActionNode:
			slot, ok := slotName(node)
			if !ok {
				return nil, nil, &Error{Template: name, Err: fmt.Errorf("%w: only {{.slot}} actions are allowed, got %s", ErrMalformed, node.String())}
			}
			if !seen[slot] {
				seen[slot] = true
				used = append(used, slot)
			}
		default:
			return nil, nil, &Error{Template: name, Err: fmt.Errorf("%w: unsupported template construct %s", ErrMalformed, n.String())}
		}
	}

	return parsed, used, nil
}

func slotName(node *parse.ActionNode) (string, bool) {
	if node.Pipe == nil || len(node.Pipe.Decl) != 0 || len(node.Pipe.Cmds) != 1 {
		return "", false
	}
	args := node.Pipe.Cmds[0].Args
	if len(args) != 1 {
		return "", false
	}
	field, ok := args[0].(*parse.FieldNode)
	if !ok || len(field.Ident) != 1 {
		return "", false
	}
	return field.Ident[0], true
}
