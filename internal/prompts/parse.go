package prompts

import (
	"fmt"
	"strings"
)

// SyntaxError describes a malformed template.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// Parse compiles source into a choice tree.
func Parse(name, source string) (*Template, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &SyntaxError{Offset: 0, Msg: "template is empty"}
	}

	p := &parser{src: source}
	root, err := p.sequence()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '}':
			return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected '}' without matching '{'"}
		case '|':
			return nil, &SyntaxError{Offset: p.pos, Msg: "'|' outside of a group"}
		}
		return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected trailing input"}
	}

	return &Template{Name: name, Source: source, root: root}, nil
}

type parser struct {
	src string
	pos int
}

// sequence reads text and groups until '|', '}' or end of input.
func (p *parser) sequence() (sequence, error) {
	var seq sequence
	start := p.pos

	flush := func() {
		if p.pos > start {
			seq = append(seq, text(p.src[start:p.pos]))
		}
	}

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			flush()
			group, err := p.group()
			if err != nil {
				return nil, err
			}
			seq = append(seq, group)
			start = p.pos
		case '|', '}':
			flush()
			return seq, nil
		default:
			p.pos++
		}
	}

	flush()
	return seq, nil
}

// group reads a '{' ... '}' alternation starting at the current '{'.
func (p *parser) group() (choice, error) {
	open := p.pos
	p.pos++

	var alts choice
	for {
		alt, err := p.sequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)

		if p.pos >= len(p.src) {
			return nil, &SyntaxError{Offset: open, Msg: "unclosed '{'"}
		}
		switch p.src[p.pos] {
		case '|':
			p.pos++
		case '}':
			p.pos++
			if len(alts) == 1 && len(alts[0]) == 0 {
				return nil, &SyntaxError{Offset: open, Msg: "empty group"}
			}
			return alts, nil
		}
	}
}
