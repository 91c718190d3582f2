// Package registry builds the immutable configuration snapshot shared by the
// photo-booth GUI, image-server client and prompt generation.
//
// A Registry is created once by Load and passed explicitly to every
// collaborator. It has no setters; OverrideFromLocal returns a new value.
package registry

import (
	"io/fs"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/opencode-ai/photobooth/internal/layout"
	"github.com/opencode-ai/photobooth/internal/palette"
	"github.com/opencode-ai/photobooth/internal/prompts"
	"github.com/opencode-ai/photobooth/internal/styles"
	"github.com/rs/zerolog"
)

// Registry is an immutable, validated set of named settings.
type Registry struct {
	defs   definitions
	logger zerolog.Logger

	palette   *palette.Palette
	layout    *layout.Layout
	styles    map[string]*styles.Template
	prompts   map[string]*prompts.Template
	endpoints *endpoints.Set

	workflowStems []string
	textures      map[string]bool

	clientID string
}

type options struct {
	logger   zerolog.Logger
	fsys     fs.FS
	urls     map[string]string
	paths    map[string]string
	clientID string
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger used for load and override diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDefinitions replaces the bundled definition files.
func WithDefinitions(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithEndpointURL replaces a built-in endpoint URL before validation.
func WithEndpointURL(name, raw string) Option {
	return func(o *options) {
		if o.urls == nil {
			o.urls = make(map[string]string)
		}
		o.urls[name] = raw
	}
}

// WithClientID sets the id the booth identifies itself with to the image
// server. Load generates one when it is not set.
func WithClientID(id string) Option {
	return func(o *options) {
		o.clientID = id
	}
}

// WithPath replaces a built-in path before resolution.
func WithPath(name, path string) Option {
	return func(o *options) {
		if o.paths == nil {
			o.paths = make(map[string]string)
		}
		o.paths[name] = path
	}
}

// Load reads the definitions, resolves paths against baseDir and validates
// every invariant. It returns a *ConfigError on failure.
func Load(baseDir string, opts ...Option) (*Registry, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fsys == nil {
		o.fsys = BuiltinDefinitions()
	}

	defs, err := loadDefinitions(o.fsys)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(o.urls) {
		if _, ok := defs.Endpoints.URLs[name]; !ok {
			return nil, &ConfigError{Kind: UnresolvedReference, Key: "endpoints." + name}
		}
		defs.Endpoints.URLs[name] = o.urls[name]
	}
	for _, name := range sortedKeys(o.paths) {
		if _, ok := defs.Endpoints.Paths[name]; !ok {
			return nil, &ConfigError{Kind: UnresolvedReference, Key: "paths." + name}
		}
		defs.Endpoints.Paths[name] = o.paths[name]
	}

	r, err := build(defs, baseDir, o.logger)
	if err != nil {
		return nil, err
	}

	if r.clientID, err = resolveClientID(o.clientID); err != nil {
		return nil, err
	}

	if err := r.discover(); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("base_dir", r.endpoints.BaseDir()).
		Int("colors", r.palette.Len()).
		Int("styles", len(r.styles)).
		Int("prompts", len(r.prompts)).
		Int("workflows", len(r.workflowStems)).
		Msg("registry loaded")

	return r, nil
}

// build validates defs without touching the filesystem.
func build(defs definitions, baseDir string, logger zerolog.Logger) (*Registry, error) {
	r := &Registry{
		defs:   defs,
		logger: logger,
	}

	var err error
	if r.palette, err = palette.New(defs.Colors); err != nil {
		return nil, classify("colors", err)
	}
	if r.layout, err = layout.New(defs.Layout); err != nil {
		return nil, classify("layout", err)
	}
	if r.endpoints, err = endpoints.Resolve(defs.Endpoints, baseDir); err != nil {
		return nil, classify("endpoints", err)
	}
	if r.styles, err = styles.CompileAll(defs.Styles, r.resolveRef); err != nil {
		return nil, classify("styles", err)
	}

	r.prompts = make(map[string]*prompts.Template, len(defs.Prompts))
	for _, def := range defs.Prompts {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, &ConfigError{Kind: MalformedTemplate, Key: "prompts", Err: errRequired("prompt name")}
		}
		if _, exists := r.prompts[name]; exists {
			return nil, &ConfigError{Kind: MalformedTemplate, Key: "prompts." + name, Err: errDuplicate}
		}
		tmpl, err := prompts.Parse(name, def.Text)
		if err != nil {
			return nil, classify("prompts."+name, err)
		}
		r.prompts[name] = tmpl
	}

	return r, nil
}

// discover scans the workflow and texture directories. It runs once per Load.
func (r *Registry) discover() error {
	r.workflowStems = []string{}
	r.textures = make(map[string]bool)

	if dir, ok := r.endpoints.Path("workflow_dir"); ok {
		stems, err := endpoints.ListFiles(dir, ".json")
		if err != nil {
			return &ConfigError{Kind: InvalidPath, Key: "paths.workflow_dir", Err: err}
		}
		r.workflowStems = stems
	}

	if dir, ok := r.endpoints.Path("texture_dir"); ok {
		names, err := endpoints.ListFiles(dir, ".png")
		if err != nil {
			return &ConfigError{Kind: InvalidPath, Key: "paths.texture_dir", Err: err}
		}
		for _, name := range names {
			r.textures[name] = true
		}
	}

	return nil
}

func resolveClientID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.NewString(), nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &ConfigError{Kind: InvalidValue, Key: "client_id", Err: err}
	}
	return parsed.String(), nil
}

func (r *Registry) resolveRef(ref string) (string, bool) {
	section, name, ok := strings.Cut(ref, ".")
	if !ok {
		return "", false
	}
	switch section {
	case "color":
		c, ok := r.palette.Lookup(name)
		return string(c), ok
	case "layout":
		return r.layout.Lookup(name)
	default:
		return "", false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
