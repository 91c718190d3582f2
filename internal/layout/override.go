package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// With returns a copy of the layout with one existing parameter replaced.
// The value is converted according to the parameter's kind; values decoded
// from YAML (int, float64, bool, string, []any) are accepted.
func (l *Layout) With(name string, value any) (*Layout, error) {
	kind, ok := l.kinds[name]
	if !ok {
		return nil, &ParamError{Name: name, Err: fmt.Errorf("unknown layout parameter")}
	}

	def := l.Definition()
	switch kind {
	case KindRatio:
		v, err := toFloat(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		def.Ratios[name] = v
	case KindFactor:
		v, err := toFloat(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		def.Factors[name] = v
	case KindRatioPair:
		items, err := toSlice(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		pair := make([]float64, 0, len(items))
		for _, item := range items {
			v, err := toFloat(item)
			if err != nil {
				return nil, invalid(name, "%v", err)
			}
			pair = append(pair, v)
		}
		def.RatioPairs[name] = pair
	case KindPixels, KindCount, KindStretch:
		v, err := toInt(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		switch kind {
		case KindPixels:
			def.Pixels[name] = v
		case KindCount:
			def.Counts[name] = v
		default:
			def.Stretches[name] = v
		}
	case KindMargins:
		items, err := toSlice(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		margins := make([]int, 0, len(items))
		for _, item := range items {
			v, err := toInt(item)
			if err != nil {
				return nil, invalid(name, "%v", err)
			}
			margins = append(margins, v)
		}
		def.Margins[name] = margins
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, invalid(name, "expected string, got %T", value)
		}
		enum := def.Enums[name]
		enum.Value = s
		def.Enums[name] = enum
	case KindText:
		s, ok := value.(string)
		if !ok {
			return nil, invalid(name, "expected string, got %T", value)
		}
		def.Text[name] = s
	case KindList:
		items, err := toSlice(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(name, "expected string list item, got %T", item)
			}
			list = append(list, s)
		}
		def.Lists[name] = list
	case KindDuration:
		// Durations always carry a unit.
		s, ok := value.(string)
		if !ok {
			return nil, invalid(name, "expected duration with unit such as \"3s\" or \"500ms\", got %T", value)
		}
		def.Durations[name] = s
	case KindFlag:
		v, err := toBool(value)
		if err != nil {
			return nil, invalid(name, "%v", err)
		}
		def.Flags[name] = v
	}

	return New(def)
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("expected boolean, got %T", value)
	}
}

func toSlice(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []int:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, nil
	case []float64:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", value)
	}
}
