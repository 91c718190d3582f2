package layout

import (
	"errors"
	"testing"
	"time"
)

func sampleDefinition() Definition {
	return Definition{
		Ratios:     map[string]float64{"label_width_ratio": 0.8},
		RatioPairs: map[string][]float64{"display_size_ratio": {0.7, 0.6}},
		Factors:    map[string]float64{"btn_style_two_size_coefficient": 1.6},
		Pixels:     map[string]int{"button_text_size": 16},
		Counts:     map[string]int{"camera_id": 0},
		Margins:    map[string][]int{"grid_layout_margins": {10, 10, 10, 10}},
		Stretches:  map[string]int{"grid_row_display": 10},
		Enums: map[string]EnumDef{
			"title_label_border_style": {Value: "dashed", Allowed: []string{"solid", "dashed"}},
		},
		Text:      map[string]string{"window_title": "Photo Booth"},
		Lists:     map[string][]string{"special_button_names": {"Save", "Print"}},
		Durations: map[string]string{"sleep_timer": "20s"},
		Flags:     map[string]bool{"debug": false},
	}
}

func TestNewAndLookup(t *testing.T) {
	l, err := New(sampleDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v, ok := l.Ratio("label_width_ratio"); !ok || v != 0.8 {
		t.Fatalf("unexpected ratio: %v %v", v, ok)
	}
	if v, ok := l.Margins("grid_layout_margins"); !ok || v != (Margins{10, 10, 10, 10}) {
		t.Fatalf("unexpected margins: %v %v", v, ok)
	}
	if v, ok := l.Duration("sleep_timer"); !ok || v != 20*time.Second {
		t.Fatalf("unexpected duration: %v %v", v, ok)
	}
	if v, ok := l.Enum("title_label_border_style"); !ok || v != "dashed" {
		t.Fatalf("unexpected enum: %v %v", v, ok)
	}

	lookups := map[string]string{
		"label_width_ratio":              "0.8",
		"display_size_ratio":             "0.7 0.6",
		"btn_style_two_size_coefficient": "1.6",
		"button_text_size":               "16",
		"grid_layout_margins":            "10 10 10 10",
		"special_button_names":           "Save, Print",
		"sleep_timer":                    "20s",
		"debug":                          "false",
		"window_title":                   "Photo Booth",
	}
	for name, want := range lookups {
		got, ok := l.Lookup(name)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}

	if _, ok := l.Lookup("missing"); ok {
		t.Fatalf("expected missing lookup to fail")
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	cases := map[string]func(*Definition){
		"ratio above one": func(d *Definition) { d.Ratios["label_width_ratio"] = 1.5 },
		"negative pixels": func(d *Definition) { d.Pixels["button_text_size"] = -1 },
		"short margins":   func(d *Definition) { d.Margins["grid_layout_margins"] = []int{1, 2, 3} },
		"negative margin": func(d *Definition) { d.Margins["grid_layout_margins"] = []int{1, 2, 3, -4} },
		"bad pair":        func(d *Definition) { d.RatioPairs["display_size_ratio"] = []float64{0.5} },
		"enum not allowed": func(d *Definition) {
			d.Enums["title_label_border_style"] = EnumDef{Value: "wavy", Allowed: []string{"solid"}}
		},
		"zero duration":       func(d *Definition) { d.Durations["sleep_timer"] = "0s" },
		"unparsed duration":   func(d *Definition) { d.Durations["sleep_timer"] = "soon" },
		"negative factor":     func(d *Definition) { d.Factors["btn_style_two_size_coefficient"] = -2 },
		"duplicate name kind": func(d *Definition) { d.Flags["button_text_size"] = true },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			def := sampleDefinition()
			mutate(&def)
			_, err := New(def)
			if !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("expected ErrInvalidParam, got %v", err)
			}
			var paramErr *ParamError
			if !errors.As(err, &paramErr) || paramErr.Name == "" {
				t.Fatalf("expected ParamError naming the parameter, got %v", err)
			}
		})
	}
}

func TestWithReplacesValue(t *testing.T) {
	l, err := New(sampleDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	updated, err := l.With("camera_id", 2)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if v, _ := updated.Count("camera_id"); v != 2 {
		t.Fatalf("expected camera_id 2, got %d", v)
	}
	if v, _ := l.Count("camera_id"); v != 0 {
		t.Fatalf("original layout mutated: camera_id %d", v)
	}

	updated, err = updated.With("grid_layout_margins", []any{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("With margins: %v", err)
	}
	if v, _ := updated.Margins("grid_layout_margins"); v != (Margins{1, 2, 3, 4}) {
		t.Fatalf("unexpected margins: %v", v)
	}

	updated, err = updated.With("debug", true)
	if err != nil {
		t.Fatalf("With flag: %v", err)
	}
	if v, _ := updated.Flag("debug"); !v {
		t.Fatalf("expected debug flag set")
	}
}

func TestWithRejectsUnknownAndInvalid(t *testing.T) {
	l, err := New(sampleDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := l.With("missing", 1); err == nil {
		t.Fatalf("expected error for unknown parameter")
	}
	if _, err := l.With("label_width_ratio", 2.0); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
	if _, err := l.With("camera_id", "front"); err == nil {
		t.Fatalf("expected error for non-numeric count")
	}
}

func TestWithDurationRequiresUnit(t *testing.T) {
	l, err := New(sampleDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, bare := range []any{3000, 2.5, "3000"} {
		if _, err := l.With("sleep_timer", bare); !errors.Is(err, ErrInvalidParam) {
			t.Fatalf("With(sleep_timer, %v): expected ErrInvalidParam, got %v", bare, err)
		}
	}

	updated, err := l.With("sleep_timer", "1500ms")
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if v, _ := updated.Duration("sleep_timer"); v != 1500*time.Millisecond {
		t.Fatalf("sleep_timer = %v, want 1.5s", v)
	}
}

func TestEqual(t *testing.T) {
	a, _ := New(sampleDefinition())
	b, _ := New(sampleDefinition())
	if !a.Equal(b) {
		t.Fatalf("expected equal layouts")
	}
	c, _ := a.With("button_text_size", 20)
	if a.Equal(c) {
		t.Fatalf("expected layouts to differ")
	}
}
