package layout

import (
	"strconv"
	"strings"
	"time"
)

// Kind returns the kind of a named parameter.
func (l *Layout) Kind(name string) (Kind, bool) {
	k, ok := l.kinds[name]
	return k, ok
}

// Names returns every parameter name in sorted order.
func (l *Layout) Names() []string {
	return sortedKeys(l.kinds)
}

func (l *Layout) Ratio(name string) (float64, bool) {
	v, ok := l.ratios[name]
	return v, ok
}

func (l *Layout) RatioPair(name string) (RatioPair, bool) {
	v, ok := l.ratioPairs[name]
	return v, ok
}

func (l *Layout) Factor(name string) (float64, bool) {
	v, ok := l.factors[name]
	return v, ok
}

func (l *Layout) Pixels(name string) (int, bool) {
	v, ok := l.pixels[name]
	return v, ok
}

func (l *Layout) Count(name string) (int, bool) {
	v, ok := l.counts[name]
	return v, ok
}

func (l *Layout) Margins(name string) (Margins, bool) {
	v, ok := l.margins[name]
	return v, ok
}

func (l *Layout) Stretch(name string) (int, bool) {
	v, ok := l.stretches[name]
	return v, ok
}

func (l *Layout) Enum(name string) (string, bool) {
	v, ok := l.enums[name]
	return v.Value, ok
}

func (l *Layout) Text(name string) (string, bool) {
	v, ok := l.text[name]
	return v, ok
}

// List returns a copy of a named string list.
func (l *Layout) List(name string) ([]string, bool) {
	v, ok := l.lists[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), v...), true
}

func (l *Layout) Duration(name string) (time.Duration, bool) {
	v, ok := l.durations[name]
	return v, ok
}

func (l *Layout) Flag(name string) (bool, bool) {
	v, ok := l.flags[name]
	return v, ok
}

// Lookup formats any parameter as the string substituted into style slots.
// Pixel sizes carry no unit; templates append "px" themselves.
func (l *Layout) Lookup(name string) (string, bool) {
	kind, ok := l.kinds[name]
	if !ok {
		return "", false
	}

	switch kind {
	case KindRatio:
		return formatFloat(l.ratios[name]), true
	case KindRatioPair:
		pair := l.ratioPairs[name]
		return formatFloat(pair[0]) + " " + formatFloat(pair[1]), true
	case KindFactor:
		return formatFloat(l.factors[name]), true
	case KindPixels:
		return strconv.Itoa(l.pixels[name]), true
	case KindCount:
		return strconv.Itoa(l.counts[name]), true
	case KindStretch:
		return strconv.Itoa(l.stretches[name]), true
	case KindMargins:
		return l.margins[name].String(), true
	case KindEnum:
		return l.enums[name].Value, true
	case KindText:
		return l.text[name], true
	case KindList:
		return strings.Join(l.lists[name], ", "), true
	case KindDuration:
		return l.durations[name].String(), true
	case KindFlag:
		return strconv.FormatBool(l.flags[name]), true
	default:
		return "", false
	}
}

// Values returns every parameter formatted by Lookup.
func (l *Layout) Values() map[string]string {
	out := make(map[string]string, len(l.kinds))
	for name := range l.kinds {
		out[name], _ = l.Lookup(name)
	}
	return out
}

// Equal reports whether both layouts expose the same parameters.
func (l *Layout) Equal(other *Layout) bool {
	if l == nil || other == nil {
		return l == other
	}
	a, b := l.Values(), other.Values()
	if len(a) != len(b) {
		return false
	}
	for name, v := range a {
		if b[name] != v || l.kinds[name] != other.kinds[name] {
			return false
		}
	}
	return true
}

// Definition returns the declarative form of the layout.
func (l *Layout) Definition() Definition {
	def := Definition{
		Ratios:     make(map[string]float64, len(l.ratios)),
		RatioPairs: make(map[string][]float64, len(l.ratioPairs)),
		Factors:    make(map[string]float64, len(l.factors)),
		Pixels:     make(map[string]int, len(l.pixels)),
		Counts:     make(map[string]int, len(l.counts)),
		Margins:    make(map[string][]int, len(l.margins)),
		Stretches:  make(map[string]int, len(l.stretches)),
		Enums:      make(map[string]EnumDef, len(l.enums)),
		Text:       make(map[string]string, len(l.text)),
		Lists:      make(map[string][]string, len(l.lists)),
		Durations:  make(map[string]string, len(l.durations)),
		Flags:      make(map[string]bool, len(l.flags)),
	}
	for k, v := range l.ratios {
		def.Ratios[k] = v
	}
	for k, v := range l.ratioPairs {
		def.RatioPairs[k] = []float64{v[0], v[1]}
	}
	for k, v := range l.factors {
		def.Factors[k] = v
	}
	for k, v := range l.pixels {
		def.Pixels[k] = v
	}
	for k, v := range l.counts {
		def.Counts[k] = v
	}
	for k, v := range l.margins {
		def.Margins[k] = []int{v[0], v[1], v[2], v[3]}
	}
	for k, v := range l.stretches {
		def.Stretches[k] = v
	}
	for k, v := range l.enums {
		def.Enums[k] = EnumDef{Value: v.Value, Allowed: append([]string(nil), v.Allowed...)}
	}
	for k, v := range l.text {
		def.Text[k] = v
	}
	for k, v := range l.lists {
		def.Lists[k] = append([]string(nil), v...)
	}
	for k, v := range l.durations {
		def.Durations[k] = v.String()
	}
	for k, v := range l.flags {
		def.Flags[k] = v
	}
	return def
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
