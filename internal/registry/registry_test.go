package registry

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func loadBuiltin(t *testing.T) *Registry {
	t.Helper()
	r, err := Load(t.TempDir())
	require.NoError(t, err)
	return r
}

func TestLoadBuiltinScenario(t *testing.T) {
	r := loadBuiltin(t)

	primary, err := r.Color("primary")
	require.NoError(t, err)
	require.Equal(t, "#1abc9c", primary.String())

	ws, err := r.Endpoint("ws")
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:8188/ws", ws)

	first, err := r.RenderPromptSeed("clay", 0)
	require.NoError(t, err)
	second, err := r.RenderPromptSeed("clay", 0)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NotContains(t, first, "{")
	require.NotContains(t, first, "}")
	require.NotContains(t, first, "|")
	require.True(t, strings.HasPrefix(first, "Change the style to Textured stop-motion claymation"))
}

func TestEveryColorIsHex(t *testing.T) {
	r := loadBuiltin(t)
	for _, name := range r.Palette().Names() {
		c, err := r.Color(name)
		require.NoError(t, err)
		require.Regexp(t, hexColor, c.String(), "color %s", name)
	}
}

func TestEveryStyleRendersWithoutSlotMarkers(t *testing.T) {
	r := loadBuiltin(t)
	require.NotEmpty(t, r.StyleNames())

	for _, name := range r.StyleNames() {
		tmpl, err := r.Style(name)
		require.NoError(t, err)

		overrides := make(map[string]string)
		for _, slot := range tmpl.Slots() {
			overrides[slot.Name] = "value-" + slot.Name
		}

		rendered, err := r.RenderStyle(name, overrides)
		require.NoError(t, err, "style %s", name)
		require.NotContains(t, rendered, "{{", "style %s", name)
		require.NotContains(t, rendered, "}}", "style %s", name)
		for _, slot := range tmpl.Slots() {
			require.Contains(t, rendered, "value-"+slot.Name, "style %s", name)
		}
	}
}

func TestRenderStyleDefaults(t *testing.T) {
	r := loadBuiltin(t)

	rendered, err := r.RenderStyle("window", nil)
	require.NoError(t, err)
	require.Contains(t, rendered, "background-color: #222222;")

	rendered, err = r.RenderStyle("title_label", map[string]string{"color": "#123456"})
	require.NoError(t, err)
	require.Contains(t, rendered, "color: #123456;")
	require.Contains(t, rendered, "font-size: 40px;")
	require.Contains(t, rendered, "border-bottom: 5px dashed #000000;")

	rendered, err = r.RenderStyle("overlay_loading_title", nil)
	require.NoError(t, err)
	require.Contains(t, rendered, "font-size: 40px;")
	require.True(t, strings.HasSuffix(rendered, "background: transparent;"))
}

func TestRenderStyleErrors(t *testing.T) {
	r := loadBuiltin(t)

	_, err := r.RenderStyle("btn_style_two", nil)
	require.ErrorIs(t, err, MissingSlot)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	require.Equal(t, "styles.btn_style_two.texture", lookupErr.Key)

	_, err = r.RenderStyle("window", map[string]string{"typo": "x"})
	require.ErrorIs(t, err, UnknownKey)

	_, err = r.RenderStyle("nope", nil)
	require.ErrorIs(t, err, UnknownKey)
}

func TestLookupErrors(t *testing.T) {
	r := loadBuiltin(t)

	_, err := r.Color("chartreuse")
	require.ErrorIs(t, err, UnknownKey)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	require.Equal(t, "colors.chartreuse", lookupErr.Key)

	_, err = r.Endpoint("ftp")
	require.ErrorIs(t, err, UnknownKey)

	_, err = r.Path("nowhere")
	require.ErrorIs(t, err, UnknownKey)

	_, err = r.RenderPromptSeed("baroque", 1)
	require.ErrorIs(t, err, UnknownKey)
}

func TestEveryPromptExpandsCleanly(t *testing.T) {
	r := loadBuiltin(t)
	require.Len(t, r.PromptNames(), 10)

	for _, name := range r.PromptNames() {
		for seed := uint64(0); seed < 50; seed++ {
			out, err := r.RenderPromptSeed(name, seed)
			require.NoError(t, err)
			require.False(t, strings.ContainsAny(out, "{}|"), "prompt %s seed %d: %q", name, seed, out)
		}
	}
}

func TestPromptSamplesRestart(t *testing.T) {
	r := loadBuiltin(t)

	samples, err := r.PromptSamples("cyberpunk", 9)
	require.NoError(t, err)

	collect := func() []string {
		var out []string
		for s := range samples {
			out = append(out, s)
			if len(out) == 3 {
				break
			}
		}
		return out
	}
	require.Equal(t, collect(), collect())
}

func TestConcurrentPromptRendering(t *testing.T) {
	r := loadBuiltin(t)
	want, err := r.RenderPromptSeed("disney", 42)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.RenderPromptSeed("disney", 42)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	base := t.TempDir()
	a, err := Load(base)
	require.NoError(t, err)
	b, err := Load(base)
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestPathsResolvedAtLoad(t *testing.T) {
	base := t.TempDir()
	r, err := Load(base)
	require.NoError(t, err)

	for _, name := range r.PathNames() {
		p, err := r.Path(name)
		require.NoError(t, err)
		require.True(t, filepath.IsAbs(p), "path %s = %s", name, p)
	}

	workflows, err := r.Path("workflow_dir")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "workflows"), workflows)

	output, err := r.Path("comfy_output")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(filepath.Dir(base), "ComfyUI", "output"), output)
}

func TestLayoutDefaults(t *testing.T) {
	r := loadBuiltin(t)
	require.Equal(t, 0, r.CameraID())
	require.False(t, r.Debug())
	require.False(t, r.ShareByHotspot())

	names, ok := r.Layout().List("special_button_names")
	require.True(t, ok)
	require.Equal(t, []string{"Apply Style", "Save", "Print", "Back to Camera"}, names)
}

func TestWorkflowAndTextureDiscovery(t *testing.T) {
	base := t.TempDir()
	workflowDir := filepath.Join(base, "workflows")
	textureDir := filepath.Join(base, "gui_template", "styles_textures")
	require.NoError(t, os.MkdirAll(workflowDir, 0755))
	require.NoError(t, os.MkdirAll(textureDir, 0755))
	for _, name := range []string{"clay.json", "default.json", "clay_save.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(workflowDir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(textureDir, "clay.png"), []byte("png"), 0644))

	r, err := Load(base)
	require.NoError(t, err)

	require.Equal(t, []string{"clay"}, r.WorkflowStyles())

	p, err := r.WorkflowPath("clay")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(workflowDir, "clay.json"), p)

	p, err = r.WorkflowPath("comic")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(workflowDir, "default.json"), p)

	textured, err := r.StyleButton("clay")
	require.NoError(t, err)
	require.Contains(t, textured, "clay.png")

	plain, err := r.StyleButton("comic")
	require.NoError(t, err)
	require.NotContains(t, plain, "background-image")
	require.Contains(t, plain, "#f7811a")
}

func TestWorkflowPathWithoutDefault(t *testing.T) {
	r := loadBuiltin(t)
	_, err := r.WorkflowPath("clay")
	require.ErrorIs(t, err, UnknownKey)
}

func TestLoadWithEndpointOverrides(t *testing.T) {
	r, err := Load(t.TempDir(),
		WithEndpointURL("http", "http://10.0.0.5:8188"),
		WithEndpointURL("ws", "ws://10.0.0.5:8188/ws"),
		WithPath("input_image", "/srv/comfy/input.png"),
	)
	require.NoError(t, err)

	u, err := r.Endpoint("http")
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.5:8188", u)

	p, err := r.Path("input_image")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/srv/comfy/input.png"), p)

	_, err = Load(t.TempDir(), WithEndpointURL("gopher", "http://x"))
	require.ErrorIs(t, err, UnresolvedReference)

	_, err = Load(t.TempDir(), WithEndpointURL("http", "not a url"))
	require.ErrorIs(t, err, InvalidValue)
}

func TestKindMatching(t *testing.T) {
	err := error(&ConfigError{Kind: InvalidPath, Key: "paths.x"})
	require.True(t, errors.Is(err, InvalidPath))
	require.False(t, errors.Is(err, MalformedTemplate))
	require.Contains(t, err.Error(), "paths.x")
}

// fixture returns a small but complete set of definition files.
func fixture() fstest.MapFS {
	return fstest.MapFS{
		"palette.yaml": {Data: []byte(`colors:
  primary: "#1abc9c"
  black: "#000000"
`)},
		"layout.yaml": {Data: []byte(`layout:
  pixels:
    button_text_size: 16
  counts:
    camera_id: 0
  flags:
    debug: false
`)},
		"styles.yaml": {Data: []byte(`styles:
  - name: button
    text: "color: {{.fg}}; font-size: {{.size}}px;"
    slots:
      - name: fg
        ref: color.primary
      - name: size
        ref: layout.button_text_size
`)},
		"prompts.yaml": {Data: []byte(`prompts:
  - name: clay
    text: "a {red|blue} thing"
`)},
		"endpoints.yaml": {Data: []byte(`endpoints:
  urls:
    ws: ws://127.0.0.1:8188/ws
  paths:
    workflow_dir: workflows
`)},
	}
}

func TestLoadFixture(t *testing.T) {
	r, err := Load(t.TempDir(), WithDefinitions(fixture()))
	require.NoError(t, err)

	rendered, err := r.RenderStyle("button", nil)
	require.NoError(t, err)
	require.Equal(t, "color: #1abc9c; font-size: 16px;", rendered)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		kind Kind
		key  string
	}{
		{
			name: "unbalanced prompt",
			file: "prompts.yaml",
			data: "prompts:\n  - name: clay\n    text: \"a {red|blue thing\"\n",
			kind: MalformedTemplate,
			key:  "prompts.clay",
		},
		{
			name: "pipe outside group",
			file: "prompts.yaml",
			data: "prompts:\n  - name: clay\n    text: \"red|blue\"\n",
			kind: MalformedTemplate,
			key:  "prompts.clay",
		},
		{
			name: "unknown color reference",
			file: "styles.yaml",
			data: "styles:\n  - name: button\n    text: \"color: {{.fg}};\"\n    slots:\n      - name: fg\n        ref: color.mauve\n",
			kind: UnresolvedReference,
			key:  "styles.button.fg",
		},
		{
			name: "undeclared slot",
			file: "styles.yaml",
			data: "styles:\n  - name: button\n    text: \"color: {{.fg}};\"\n",
			kind: UnresolvedReference,
			key:  "styles.button.fg",
		},
		{
			name: "bad hex",
			file: "palette.yaml",
			data: "colors:\n  primary: \"#1abc9\"\n  black: \"#000000\"\n",
			kind: InvalidValue,
			key:  "colors.primary",
		},
		{
			name: "bad url",
			file: "endpoints.yaml",
			data: "endpoints:\n  urls:\n    ws: 127.0.0.1\n",
			kind: InvalidValue,
			key:  "endpoints.ws",
		},
		{
			name: "empty path",
			file: "endpoints.yaml",
			data: "endpoints:\n  paths:\n    workflow_dir: \"\"\n",
			kind: InvalidPath,
			key:  "endpoints.workflow_dir",
		},
		{
			name: "unknown field",
			file: "palette.yaml",
			data: "colours:\n  primary: \"#1abc9c\"\n",
			kind: MalformedTemplate,
			key:  "palette.yaml",
		},
		{
			name: "ratio out of range",
			file: "layout.yaml",
			data: "layout:\n  ratios:\n    label_width_ratio: 1.8\n  pixels:\n    button_text_size: 16\n",
			kind: InvalidValue,
			key:  "layout.label_width_ratio",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fixture()
			fsys[tc.file] = &fstest.MapFile{Data: []byte(tc.data)}

			r, err := Load(t.TempDir(), WithDefinitions(fsys))
			require.Nil(t, r)
			require.ErrorIs(t, err, tc.kind)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tc.key, cfgErr.Key)
		})
	}
}

func TestLoadRejectsDuplicateSections(t *testing.T) {
	fsys := fixture()
	fsys["extra.yaml"] = &fstest.MapFile{Data: []byte("colors:\n  white: \"#FFFFFF\"\n")}

	_, err := Load(t.TempDir(), WithDefinitions(fsys))
	require.ErrorIs(t, err, MalformedTemplate)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "colors", cfgErr.Key)
}

func TestLoadRejectsEmptyBaseDir(t *testing.T) {
	_, err := Load("  ")
	require.ErrorIs(t, err, InvalidPath)
}

func TestDiscoveryMatchesExtensionExactly(t *testing.T) {
	base := t.TempDir()
	textureDir := filepath.Join(base, "gui_template", "styles_textures")
	require.NoError(t, os.MkdirAll(textureDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(textureDir, "Oil Paint.PNG"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(textureDir, "clay.png"), []byte("png"), 0644))

	r, err := Load(base)
	require.NoError(t, err)

	_, ok := r.Texture("Oil Paint")
	require.False(t, ok)
	button, err := r.StyleButton("Oil Paint")
	require.NoError(t, err)
	require.NotContains(t, button, "background-image")

	texture, ok := r.Texture("clay")
	require.True(t, ok)
	_, err = os.Stat(texture)
	require.NoError(t, err)
}

func TestDiscoveryFollowsSymlinkedWorkflows(t *testing.T) {
	base := t.TempDir()
	workflowDir := filepath.Join(base, "workflows")
	require.NoError(t, os.MkdirAll(workflowDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(workflowDir, "default.json"), []byte("{}"), 0644))

	shared := filepath.Join(t.TempDir(), "clay-v2.json")
	require.NoError(t, os.WriteFile(shared, []byte("{}"), 0644))
	if err := os.Symlink(shared, filepath.Join(workflowDir, "clay.json")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r, err := Load(base)
	require.NoError(t, err)
	require.Equal(t, []string{"clay"}, r.WorkflowStyles())

	p, err := r.WorkflowPath("clay")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(workflowDir, "clay.json"), p)
}

func TestBuiltinPromptsExpandToDeclaredOptions(t *testing.T) {
	r := loadBuiltin(t)

	for _, name := range r.PromptNames() {
		samples, err := r.PromptSamples(name, 11)
		require.NoError(t, err)

		n := 0
		for out := range samples {
			ok, err := r.PromptMatches(name, out)
			require.NoError(t, err)
			require.True(t, ok, "prompt %s produced %q", name, out)
			if n++; n == 25 {
				break
			}
		}
	}

	clay, err := r.RenderPromptSeed("clay", 3)
	require.NoError(t, err)
	ok, err := r.PromptMatches("comic", clay)
	require.NoError(t, err)
	require.False(t, ok)

	altered := strings.Replace(clay, "Change the style", "Change the mood", 1)
	ok, err = r.PromptMatches("clay", altered)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = r.PromptMatches("baroque", clay)
	require.ErrorIs(t, err, UnknownKey)
}

func TestClientID(t *testing.T) {
	const id = "7b0a3e6e-4d0e-4c55-8c45-0d5b1f7f4b11"

	r, err := Load(t.TempDir(), WithClientID(id))
	require.NoError(t, err)
	require.Equal(t, id, r.ClientID())

	socket, err := r.SocketURL()
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:8188/ws?clientId="+id, socket)

	generated := loadBuiltin(t)
	require.NotEmpty(t, generated.ClientID())
	require.NotEqual(t, generated.ClientID(), loadBuiltin(t).ClientID())

	path := writeOverride(t, "camera_id: 1\n")
	next, err := r.ApplyOverrides(path)
	require.NoError(t, err)
	require.Equal(t, id, next.ClientID())

	_, err = Load(t.TempDir(), WithClientID("booth-1"))
	require.ErrorIs(t, err, InvalidValue)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "client_id", cfgErr.Key)
}

func TestEqualComparesComponents(t *testing.T) {
	base := t.TempDir()
	a, err := Load(base)
	require.NoError(t, err)

	cases := map[string]string{
		"color":    "colors:\n  primary: \"#112233\"\n",
		"layout":   "layout:\n  debug: true\n",
		"endpoint": "endpoints:\n  hotspot: https://10.0.0.1:5000/share\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			next, err := a.ApplyOverrides(writeOverride(t, content))
			require.NoError(t, err)
			require.False(t, a.Equal(next))
			require.False(t, next.Equal(a))
		})
	}

	b, err := Load(base, WithPath("window_icon", "/srv/icon.png"))
	require.NoError(t, err)
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(nil))
}
