package registry

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/opencode-ai/photobooth/internal/layout"
	"github.com/opencode-ai/photobooth/internal/styles"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinDefinitions returns the definition files bundled with the binary.
func BuiltinDefinitions() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("builtin definitions: %v", err))
	}
	return sub
}

// promptDef is the declarative form of a prompt template.
type promptDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Text        string `yaml:"text"`
}

// definitions is every declarative section the registry is built from.
type definitions struct {
	Colors    map[string]string    `yaml:"colors"`
	Layout    layout.Definition    `yaml:"layout"`
	Styles    []styles.Definition  `yaml:"styles"`
	Prompts   []promptDef          `yaml:"prompts"`
	Endpoints endpoints.Definition `yaml:"endpoints"`
}

// loadDefinitions decodes every *.yaml file at the root of fsys. Each
// top-level section may be defined by only one file.
func loadDefinitions(fsys fs.FS) (definitions, error) {
	var defs definitions

	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return defs, &ConfigError{Kind: MalformedTemplate, Key: "definitions", Err: err}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return defs, &ConfigError{Kind: MalformedTemplate, Key: "definitions", Err: errors.New("no definition files found")}
	}

	owners := make(map[string]string)
	claim := func(section, file string) error {
		if owner, exists := owners[section]; exists {
			return &ConfigError{Kind: MalformedTemplate, Key: section, Err: fmt.Errorf("defined in both %s and %s", owner, file)}
		}
		owners[section] = file
		return nil
	}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return defs, &ConfigError{Kind: MalformedTemplate, Key: file, Err: err}
		}

		var part definitions
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&part); err != nil && !errors.Is(err, io.EOF) {
			return defs, &ConfigError{Kind: MalformedTemplate, Key: file, Err: err}
		}

		if part.Colors != nil {
			if err := claim("colors", file); err != nil {
				return defs, err
			}
			defs.Colors = part.Colors
		}
		if !layoutEmpty(part.Layout) {
			if err := claim("layout", file); err != nil {
				return defs, err
			}
			defs.Layout = part.Layout
		}
		if part.Styles != nil {
			if err := claim("styles", file); err != nil {
				return defs, err
			}
			defs.Styles = part.Styles
		}
		if part.Prompts != nil {
			if err := claim("prompts", file); err != nil {
				return defs, err
			}
			defs.Prompts = part.Prompts
		}
		if part.Endpoints.URLs != nil || part.Endpoints.Paths != nil {
			if err := claim("endpoints", file); err != nil {
				return defs, err
			}
			defs.Endpoints = part.Endpoints
		}
	}

	return defs, nil
}

func layoutEmpty(def layout.Definition) bool {
	return def.Ratios == nil && def.RatioPairs == nil && def.Factors == nil &&
		def.Pixels == nil && def.Counts == nil && def.Margins == nil &&
		def.Stretches == nil && def.Enums == nil && def.Text == nil &&
		def.Lists == nil && def.Durations == nil && def.Flags == nil
}

// clone copies the mutable maps so overrides never touch the source.
func (d definitions) clone() definitions {
	out := d
	out.Colors = make(map[string]string, len(d.Colors))
	for k, v := range d.Colors {
		out.Colors[k] = v
	}
	out.Endpoints.URLs = make(map[string]string, len(d.Endpoints.URLs))
	for k, v := range d.Endpoints.URLs {
		out.Endpoints.URLs[k] = v
	}
	out.Endpoints.Paths = make(map[string]string, len(d.Endpoints.Paths))
	for k, v := range d.Endpoints.Paths {
		out.Endpoints.Paths[k] = v
	}
	return out
}
