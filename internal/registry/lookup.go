package registry

import (
	"errors"
	"iter"
	"maps"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/opencode-ai/photobooth/internal/endpoints"
	"github.com/opencode-ai/photobooth/internal/layout"
	"github.com/opencode-ai/photobooth/internal/palette"
	"github.com/opencode-ai/photobooth/internal/prompts"
	"github.com/opencode-ai/photobooth/internal/styles"
)

// Color returns a palette color.
func (r *Registry) Color(name string) (palette.Color, error) {
	c, ok := r.palette.Lookup(name)
	if !ok {
		return "", unknownKey("colors", name)
	}
	return c, nil
}

// Palette returns the full color palette.
func (r *Registry) Palette() *palette.Palette {
	return r.palette
}

// Layout returns the layout parameters.
func (r *Registry) Layout() *layout.Layout {
	return r.layout
}

// StyleNames returns the style template names in sorted order.
func (r *Registry) StyleNames() []string {
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Style returns a compiled style template.
func (r *Registry) Style(name string) (*styles.Template, error) {
	tmpl, ok := r.styles[name]
	if !ok {
		return nil, unknownKey("styles", name)
	}
	return tmpl, nil
}

// RenderStyle substitutes a style's slots. Overrides win over the registry's
// defaults; a required slot with no override fails with MissingSlot.
func (r *Registry) RenderStyle(name string, overrides map[string]string) (string, error) {
	tmpl, err := r.Style(name)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Render(overrides)
	if err != nil {
		var styleErr *styles.Error
		if errors.As(err, &styleErr) {
			switch {
			case errors.Is(err, styles.ErrMissingSlot):
				return "", &LookupError{Kind: MissingSlot, Key: "styles." + styleErr.Key()}
			case errors.Is(err, styles.ErrUnknownSlot):
				return "", &LookupError{Kind: UnknownKey, Key: "styles." + styleErr.Key()}
			}
		}
		return "", err
	}
	return out, nil
}

// StyleButton renders the style picker button for an image style, using the
// style's texture when one was present at load.
func (r *Registry) StyleButton(style string) (string, error) {
	if texture, ok := r.Texture(style); ok {
		return r.RenderStyle("style_button_textured", map[string]string{"texture": filepath.ToSlash(texture)})
	}
	return r.RenderStyle("style_button", nil)
}

// Texture returns the texture image for a style if it existed at load.
func (r *Registry) Texture(style string) (string, bool) {
	if !r.textures[style] {
		return "", false
	}
	dir, ok := r.endpoints.Path("texture_dir")
	if !ok {
		return "", false
	}
	return filepath.Join(dir, style+".png"), true
}

// PromptNames returns the prompt style names in sorted order.
func (r *Registry) PromptNames() []string {
	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prompt returns a parsed prompt template.
func (r *Registry) Prompt(style string) (*prompts.Template, error) {
	tmpl, ok := r.prompts[style]
	if !ok {
		return nil, unknownKey("prompts", style)
	}
	return tmpl, nil
}

// RenderPrompt expands a style's prompt using rng. A nil rng gets a fresh,
// randomly seeded source private to this call.
func (r *Registry) RenderPrompt(style string, rng *rand.Rand) (string, error) {
	tmpl, err := r.Prompt(style)
	if err != nil {
		return "", err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return tmpl.Expand(rng), nil
}

// RenderPromptSeed expands a style's prompt deterministically.
func (r *Registry) RenderPromptSeed(style string, seed uint64) (string, error) {
	return r.RenderPrompt(style, prompts.NewRand(seed))
}

// PromptSamples returns a lazy, restartable sequence of expansions for style.
func (r *Registry) PromptSamples(style string, seed uint64) (iter.Seq[string], error) {
	tmpl, err := r.Prompt(style)
	if err != nil {
		return nil, err
	}
	return tmpl.Samples(seed), nil
}

// PromptMatches reports whether text is an expansion the style's prompt can
// produce.
func (r *Registry) PromptMatches(style, text string) (bool, error) {
	tmpl, err := r.Prompt(style)
	if err != nil {
		return false, err
	}
	return tmpl.Matches(text), nil
}

// ClientID returns the id the booth identifies itself with to the image server.
func (r *Registry) ClientID() string {
	return r.clientID
}

// SocketURL returns the websocket endpoint with the client id attached, as
// the image server expects it for progress events.
func (r *Registry) SocketURL() (string, error) {
	ws, err := r.Endpoint("ws")
	if err != nil {
		return "", err
	}
	return endpoints.WithQuery(ws, "clientId", r.clientID)
}

// Endpoint returns a validated URL by name.
func (r *Registry) Endpoint(name string) (string, error) {
	u, ok := r.endpoints.URL(name)
	if !ok {
		return "", unknownKey("endpoints", name)
	}
	return u, nil
}

// EndpointNames returns the URL names in sorted order.
func (r *Registry) EndpointNames() []string {
	return r.endpoints.URLNames()
}

// Path returns an absolute filesystem path by name.
func (r *Registry) Path(name string) (string, error) {
	p, ok := r.endpoints.Path(name)
	if !ok {
		return "", unknownKey("paths", name)
	}
	return p, nil
}

// PathNames returns the path names in sorted order.
func (r *Registry) PathNames() []string {
	return r.endpoints.PathNames()
}

// BaseDir returns the absolute base directory relative paths were resolved against.
func (r *Registry) BaseDir() string {
	return r.endpoints.BaseDir()
}

// WorkflowStyles returns the selectable workflow styles found at load.
func (r *Registry) WorkflowStyles() []string {
	return endpoints.WorkflowStyles(r.workflowStems)
}

// WorkflowPath returns the workflow file for style, falling back to
// default.json when the style has no workflow of its own.
func (r *Registry) WorkflowPath(style string) (string, error) {
	dir, err := r.Path("workflow_dir")
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{style, "default"} {
		if candidate == "" {
			continue
		}
		idx := sort.SearchStrings(r.workflowStems, candidate)
		if idx < len(r.workflowStems) && r.workflowStems[idx] == candidate {
			return filepath.Join(dir, candidate+".json"), nil
		}
	}
	return "", unknownKey("workflows", style)
}

// CameraID returns the capture device index.
func (r *Registry) CameraID() int {
	v, _ := r.layout.Count("camera_id")
	return v
}

// Debug reports whether debug mode is enabled.
func (r *Registry) Debug() bool {
	v, _ := r.layout.Flag("debug")
	return v
}

// ShareByHotspot reports whether results are shared through the hotspot URL.
func (r *Registry) ShareByHotspot() bool {
	v, _ := r.layout.Flag("share_by_hotspot")
	return v
}

// Snapshot flattens every exposed value into dotted keys.
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string)
	for name, value := range r.palette.Raw() {
		out["colors."+name] = value
	}
	for name, value := range r.layout.Values() {
		out["layout."+name] = value
	}
	for name, tmpl := range r.styles {
		out["styles."+name] = tmpl.Source
		for slot, value := range tmpl.Defaults() {
			out["styles."+name+"."+slot] = value
		}
	}
	for name, tmpl := range r.prompts {
		out["prompts."+name] = tmpl.Source
	}
	for _, name := range r.endpoints.URLNames() {
		out["endpoints."+name], _ = r.endpoints.URL(name)
	}
	for _, name := range r.endpoints.PathNames() {
		out["paths."+name], _ = r.endpoints.Path(name)
	}
	out["workflows"] = strings.Join(r.workflowStems, ",")
	textures := make([]string, 0, len(r.textures))
	for name := range r.textures {
		textures = append(textures, name)
	}
	sort.Strings(textures)
	out["textures"] = strings.Join(textures, ",")
	return out
}

// Equal reports whether two registries expose pairwise equal values. The
// client id identifies a process, not a configuration, and is not compared.
func (r *Registry) Equal(other *Registry) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.palette.Equal(other.palette) ||
		!r.layout.Equal(other.layout) ||
		!r.endpoints.Equal(other.endpoints) {
		return false
	}
	if !slices.Equal(r.workflowStems, other.workflowStems) ||
		!maps.Equal(r.textures, other.textures) {
		return false
	}

	if len(r.styles) != len(other.styles) {
		return false
	}
	for name, tmpl := range r.styles {
		o, ok := other.styles[name]
		if !ok || tmpl.Source != o.Source || !maps.Equal(tmpl.Defaults(), o.Defaults()) {
			return false
		}
	}

	if len(r.prompts) != len(other.prompts) {
		return false
	}
	for name, tmpl := range r.prompts {
		if o, ok := other.prompts[name]; !ok || tmpl.Source != o.Source {
			return false
		}
	}
	return true
}
