package registry

import (
	"errors"
	"fmt"

	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/opencode-ai/photobooth/internal/layout"
	"github.com/opencode-ai/photobooth/internal/palette"
	"github.com/opencode-ai/photobooth/internal/prompts"
	"github.com/opencode-ai/photobooth/internal/styles"
)

// Kind classifies registry failures. A Kind is itself an error so callers can
// test with errors.Is(err, registry.MalformedTemplate).
type Kind string

const (
	// MalformedTemplate: a built-in definition cannot be parsed.
	MalformedTemplate Kind = "malformed_template"
	// UnresolvedReference: a slot or reference points at an undefined key.
	UnresolvedReference Kind = "unresolved_reference"
	// InvalidPath: a filesystem path cannot be resolved.
	InvalidPath Kind = "invalid_path"
	// InvalidValue: a color, layout value or URL violates its format.
	InvalidValue Kind = "invalid_value"
	// UnknownKey: a lookup named a key the registry does not define.
	UnknownKey Kind = "unknown_key"
	// MissingSlot: a required style slot had no value.
	MissingSlot Kind = "missing_slot"
)

func (k Kind) Error() string {
	return string(k)
}

// ConfigError is a load-time failure. The registry is never partially built.
type ConfigError struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("config %s: %s", e.Kind, e.Key)
	}
	return fmt.Sprintf("config %s: %s: %v", e.Kind, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// LookupError is returned when a caller asks for something the registry
// cannot provide.
type LookupError struct {
	Kind Kind
	Key  string
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case MissingSlot:
		return fmt.Sprintf("missing value for slot %q", e.Key)
	default:
		return fmt.Sprintf("unknown key %q", e.Key)
	}
}

func (e *LookupError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

var errDuplicate = errors.New("duplicate name")

func errRequired(what string) error {
	return fmt.Errorf("%s is required", what)
}

func unknownKey(section, name string) error {
	return &LookupError{Kind: UnknownKey, Key: section + "." + name}
}

// classify turns a component validation error into a ConfigError.
func classify(section string, err error) error {
	if err == nil {
		return nil
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr
	}

	var (
		colorErr    *palette.EntryError
		paramErr    *layout.ParamError
		styleErr    *styles.Error
		endpointErr *endpoints.Error
		syntaxErr   *prompts.SyntaxError
	)
	switch {
	case errors.As(err, &colorErr):
		return &ConfigError{Kind: InvalidValue, Key: section + "." + colorErr.Name, Err: colorErr.Err}
	case errors.As(err, &paramErr):
		return &ConfigError{Kind: InvalidValue, Key: section + "." + paramErr.Name, Err: paramErr.Err}
	case errors.As(err, &styleErr):
		kind := MalformedTemplate
		if errors.Is(err, styles.ErrUnresolved) {
			kind = UnresolvedReference
		}
		return &ConfigError{Kind: kind, Key: section + "." + styleErr.Key(), Err: styleErr.Err}
	case errors.As(err, &endpointErr):
		kind := InvalidValue
		if errors.Is(err, endpoints.ErrInvalidPath) {
			kind = InvalidPath
		}
		return &ConfigError{Kind: kind, Key: section + "." + endpointErr.Name, Err: endpointErr.Err}
	case errors.As(err, &syntaxErr):
		return &ConfigError{Kind: MalformedTemplate, Key: section, Err: syntaxErr}
	}
	return &ConfigError{Kind: MalformedTemplate, Key: section, Err: err}
}
