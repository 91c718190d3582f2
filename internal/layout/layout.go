// Package layout holds the numeric and enumerated screen-layout parameters.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidParam is returned when a parameter violates its range or shape.
var ErrInvalidParam = errors.New("invalid layout parameter")

// Kind identifies the value shape of a parameter.
type Kind string

const (
	KindRatio     Kind = "ratio"
	KindRatioPair Kind = "ratio_pair"
	KindFactor    Kind = "factor"
	KindPixels    Kind = "pixels"
	KindCount     Kind = "count"
	KindMargins   Kind = "margins"
	KindStretch   Kind = "stretch"
	KindEnum      Kind = "enum"
	KindText      Kind = "text"
	KindList      Kind = "list"
	KindDuration  Kind = "duration"
	KindFlag      Kind = "flag"
)

// EnumDef is an enumerated value with its allowed set.
type EnumDef struct {
	Value   string   `yaml:"value"`
	Allowed []string `yaml:"allowed"`
}

// Definition is the declarative form of the layout parameters.
type Definition struct {
	Ratios     map[string]float64   `yaml:"ratios"`
	RatioPairs map[string][]float64 `yaml:"ratio_pairs"`
	Factors    map[string]float64   `yaml:"factors"`
	Pixels     map[string]int       `yaml:"pixels"`
	Counts     map[string]int       `yaml:"counts"`
	Margins    map[string][]int     `yaml:"margins"`
	Stretches  map[string]int       `yaml:"stretches"`
	Enums      map[string]EnumDef   `yaml:"enums"`
	Text       map[string]string    `yaml:"text"`
	Lists      map[string][]string  `yaml:"lists"`
	Durations  map[string]string    `yaml:"durations"`
	Flags      map[string]bool      `yaml:"flags"`
}

// Margins is a left, top, right, bottom tuple of pixel sizes.
type Margins [4]int

// String formats the margins as space-separated pixel values.
func (m Margins) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// RatioPair is a width, height pair of screen ratios.
type RatioPair [2]float64

// ParamError names the parameter that failed validation.
type ParamError struct {
	Name string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("layout %q: %v", e.Name, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

func invalid(name, format string, args ...any) error {
	return &ParamError{Name: name, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidParam}, args...)...)}
}

// Layout is an immutable, validated set of layout parameters.
type Layout struct {
	kinds      map[string]Kind
	ratios     map[string]float64
	ratioPairs map[string]RatioPair
	factors    map[string]float64
	pixels     map[string]int
	counts     map[string]int
	margins    map[string]Margins
	stretches  map[string]int
	enums      map[string]EnumDef
	text       map[string]string
	lists      map[string][]string
	durations  map[string]time.Duration
	flags      map[string]bool
}

// New validates a definition and builds the layout.
func New(def Definition) (*Layout, error) {
	l := &Layout{
		kinds:      make(map[string]Kind),
		ratios:     make(map[string]float64),
		ratioPairs: make(map[string]RatioPair),
		factors:    make(map[string]float64),
		pixels:     make(map[string]int),
		counts:     make(map[string]int),
		margins:    make(map[string]Margins),
		stretches:  make(map[string]int),
		enums:      make(map[string]EnumDef),
		text:       make(map[string]string),
		lists:      make(map[string][]string),
		durations:  make(map[string]time.Duration),
		flags:      make(map[string]bool),
	}

	for _, name := range sortedKeys(def.Ratios) {
		if err := l.claim(name, KindRatio); err != nil {
			return nil, err
		}
		if err := checkRatio(name, def.Ratios[name]); err != nil {
			return nil, err
		}
		l.ratios[name] = def.Ratios[name]
	}

	for _, name := range sortedKeys(def.RatioPairs) {
		if err := l.claim(name, KindRatioPair); err != nil {
			return nil, err
		}
		pair := def.RatioPairs[name]
		if len(pair) != 2 {
			return nil, invalid(name, "ratio pair needs 2 values, got %d", len(pair))
		}
		for _, v := range pair {
			if err := checkRatio(name, v); err != nil {
				return nil, err
			}
		}
		l.ratioPairs[name] = RatioPair{pair[0], pair[1]}
	}

	for _, name := range sortedKeys(def.Factors) {
		if err := l.claim(name, KindFactor); err != nil {
			return nil, err
		}
		v := def.Factors[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, invalid(name, "factor must be a finite non-negative number, got %v", v)
		}
		l.factors[name] = v
	}

	intKinds := []struct {
		kind   Kind
		values map[string]int
		dest   map[string]int
	}{
		{KindPixels, def.Pixels, l.pixels},
		{KindCount, def.Counts, l.counts},
		{KindStretch, def.Stretches, l.stretches},
	}
	for _, group := range intKinds {
		for _, name := range sortedKeys(group.values) {
			if err := l.claim(name, group.kind); err != nil {
				return nil, err
			}
			v := group.values[name]
			if v < 0 {
				return nil, invalid(name, "%s must be non-negative, got %d", group.kind, v)
			}
			group.dest[name] = v
		}
	}

	for _, name := range sortedKeys(def.Margins) {
		if err := l.claim(name, KindMargins); err != nil {
			return nil, err
		}
		m, err := parseMargins(name, def.Margins[name])
		if err != nil {
			return nil, err
		}
		l.margins[name] = m
	}

	for _, name := range sortedKeys(def.Enums) {
		if err := l.claim(name, KindEnum); err != nil {
			return nil, err
		}
		enum := def.Enums[name]
		if len(enum.Allowed) == 0 {
			return nil, invalid(name, "enum has no allowed values")
		}
		if !contains(enum.Allowed, enum.Value) {
			return nil, invalid(name, "%q is not one of %v", enum.Value, enum.Allowed)
		}
		l.enums[name] = EnumDef{Value: enum.Value, Allowed: append([]string(nil), enum.Allowed...)}
	}

	for _, name := range sortedKeys(def.Text) {
		if err := l.claim(name, KindText); err != nil {
			return nil, err
		}
		l.text[name] = def.Text[name]
	}

	for _, name := range sortedKeys(def.Lists) {
		if err := l.claim(name, KindList); err != nil {
			return nil, err
		}
		l.lists[name] = append([]string(nil), def.Lists[name]...)
	}

	for _, name := range sortedKeys(def.Durations) {
		if err := l.claim(name, KindDuration); err != nil {
			return nil, err
		}
		d, err := parseDuration(name, def.Durations[name])
		if err != nil {
			return nil, err
		}
		l.durations[name] = d
	}

	for _, name := range sortedKeys(def.Flags) {
		if err := l.claim(name, KindFlag); err != nil {
			return nil, err
		}
		l.flags[name] = def.Flags[name]
	}

	return l, nil
}

func (l *Layout) claim(name string, kind Kind) error {
	if strings.TrimSpace(name) == "" {
		return invalid(name, "parameter name is required")
	}
	if existing, ok := l.kinds[name]; ok {
		return invalid(name, "already defined as %s", existing)
	}
	l.kinds[name] = kind
	return nil
}

func checkRatio(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalid(name, "ratio must be within [0,1], got %v", v)
	}
	return nil
}

func parseMargins(name string, values []int) (Margins, error) {
	if len(values) != 4 {
		return Margins{}, invalid(name, "margins need 4 values, got %d", len(values))
	}
	var m Margins
	for i, v := range values {
		if v < 0 {
			return Margins{}, invalid(name, "margin must be non-negative, got %d", v)
		}
		m[i] = v
	}
	return m, nil
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, invalid(name, "%v", err)
	}
	if d <= 0 {
		return 0, invalid(name, "duration must be greater than 0")
	}
	return d, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
