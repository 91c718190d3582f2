// Package endpoints validates service URLs and resolves filesystem paths
// against the application base directory.
package endpoints

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidURL marks a malformed or unsupported endpoint URL.
	ErrInvalidURL = errors.New("invalid endpoint url")
	// ErrInvalidPath marks a path that cannot be resolved.
	ErrInvalidPath = errors.New("invalid path")
)

var allowedSchemes = map[string]bool{
	"ws":    true,
	"wss":   true,
	"http":  true,
	"https": true,
}

// Definition is the declarative form of the endpoint set.
type Definition struct {
	URLs  map[string]string `yaml:"urls"`
	Paths map[string]string `yaml:"paths"`
}

// Error names the endpoint or path that failed validation.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("endpoint %q: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Set is an immutable collection of validated URLs and absolute paths.
type Set struct {
	baseDir string
	urls    map[string]string
	paths   map[string]string
}

// Resolve validates every URL and resolves every relative path against baseDir.
func Resolve(def Definition, baseDir string) (*Set, error) {
	base, err := ResolveBaseDir(baseDir)
	if err != nil {
		return nil, &Error{Name: "base_dir", Err: err}
	}

	s := &Set{
		baseDir: base,
		urls:    make(map[string]string, len(def.URLs)),
		paths:   make(map[string]string, len(def.Paths)),
	}

	for _, name := range sortedKeys(def.URLs) {
		if err := ValidateURL(def.URLs[name]); err != nil {
			return nil, &Error{Name: name, Err: err}
		}
		s.urls[name] = strings.TrimSpace(def.URLs[name])
	}

	for _, name := range sortedKeys(def.Paths) {
		if _, clash := s.urls[name]; clash {
			return nil, &Error{Name: name, Err: fmt.Errorf("%w: name already used by a url", ErrInvalidPath)}
		}
		resolved, err := ResolvePath(base, def.Paths[name])
		if err != nil {
			return nil, &Error{Name: name, Err: err}
		}
		s.paths[name] = resolved
	}

	return s, nil
}

// ResolveBaseDir returns the absolute, cleaned form of dir.
func ResolveBaseDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", fmt.Errorf("%w: base directory is required", ErrInvalidPath)
	}
	if strings.ContainsRune(dir, 0) {
		return "", fmt.Errorf("%w: base directory contains NUL", ErrInvalidPath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return abs, nil
}

// ResolvePath joins a relative path onto base; absolute paths are only cleaned.
func ResolvePath(base, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: path contains NUL", ErrInvalidPath)
	}
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(base, path), nil
}

// ValidateURL checks that raw is an absolute ws, wss, http or https URL with a host.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	if port := u.Port(); port == "" && strings.HasSuffix(u.Host, ":") {
		return fmt.Errorf("%w: empty port", ErrInvalidURL)
	}
	return nil
}

// WebsocketURL derives the image server's websocket endpoint from its HTTP base URL.
func WebsocketURL(httpBase string) (string, error) {
	if err := ValidateURL(httpBase); err != nil {
		return "", err
	}
	u, _ := url.Parse(strings.TrimSpace(httpBase))
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// WithQuery returns raw with the query parameter key set to value.
func WithQuery(raw, key, value string) (string, error) {
	if err := ValidateURL(raw); err != nil {
		return "", err
	}
	u, _ := url.Parse(strings.TrimSpace(raw))
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// BaseDir returns the absolute base directory paths were resolved against.
func (s *Set) BaseDir() string {
	return s.baseDir
}

// URL returns a named endpoint URL.
func (s *Set) URL(name string) (string, bool) {
	v, ok := s.urls[name]
	return v, ok
}

// Path returns a named absolute path.
func (s *Set) Path(name string) (string, bool) {
	v, ok := s.paths[name]
	return v, ok
}

// URLNames returns the endpoint names in sorted order.
func (s *Set) URLNames() []string {
	return sortedKeys(s.urls)
}

// PathNames returns the path names in sorted order.
func (s *Set) PathNames() []string {
	return sortedKeys(s.paths)
}

// Equal reports whether both sets expose the same values.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.baseDir == other.baseDir && mapsEqual(s.urls, other.urls) && mapsEqual(s.paths, other.paths)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || other != v {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
