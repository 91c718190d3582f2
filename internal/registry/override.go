package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// overrideFile is the local, per-device override document. Unknown keys are
// rejected so typos surface instead of being silently ignored.
type overrideFile struct {
	CameraID  *int              `yaml:"camera_id"`
	Colors    map[string]string `yaml:"colors"`
	Endpoints map[string]string `yaml:"endpoints"`
	Layout    map[string]any    `yaml:"layout"`
}

// OverrideFromLocal applies the override file at path. Any failure, including
// a missing file, leaves the registry unchanged; the reason is logged.
func (r *Registry) OverrideFromLocal(path string) *Registry {
	next, err := r.ApplyOverrides(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug().Str("path", path).Msg("no local override file")
		} else {
			r.logger.Warn().Err(err).Str("path", path).Msg("local override ignored")
		}
		return r
	}
	if next != r {
		r.logger.Info().Str("path", path).Msg("local override applied")
	}
	return next
}

// ApplyOverrides is the strict form of OverrideFromLocal: it reports why an
// override file could not be applied.
func (r *Registry) ApplyOverrides(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("override path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override %s: %w", path, err)
	}

	var file overrideFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return r, nil
		}
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}

	defs := r.defs.clone()

	for _, name := range sortedKeys(file.Colors) {
		if _, ok := defs.Colors[name]; !ok {
			return nil, unknownKey("colors", name)
		}
		defs.Colors[name] = file.Colors[name]
	}

	for _, name := range sortedKeys(file.Endpoints) {
		if _, ok := defs.Endpoints.URLs[name]; !ok {
			return nil, unknownKey("endpoints", name)
		}
		defs.Endpoints.URLs[name] = file.Endpoints[name]
	}

	lay := r.layout
	if file.CameraID != nil {
		if lay, err = lay.With("camera_id", *file.CameraID); err != nil {
			return nil, classify("layout", err)
		}
	}
	for _, name := range sortedKeys(file.Layout) {
		if _, ok := lay.Kind(name); !ok {
			return nil, unknownKey("layout", name)
		}
		if lay, err = lay.With(name, file.Layout[name]); err != nil {
			return nil, classify("layout", err)
		}
	}
	defs.Layout = lay.Definition()

	next, err := build(defs, r.endpoints.BaseDir(), r.logger)
	if err != nil {
		return nil, err
	}
	next.workflowStems = r.workflowStems
	next.textures = r.textures
	next.clientID = r.clientID
	return next, nil
}
