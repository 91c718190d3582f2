package endpoints

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// ListFiles returns the base names, without extension, of the regular files
// in dir whose extension is exactly ext. Symlinks count when they resolve to a
// regular file. Subdirectories are not descended into. A missing directory
// yields an empty list.
func ListFiles(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, dir)
	}

	root := filepath.Clean(dir)

	var (
		mu    sync.Mutex
		names []string
	)
	conf := &fastwalk.Config{Follow: false}
	err = fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip the root directory itself
		if fullPath == root {
			return nil
		}
		if d.IsDir() {
			return fastwalk.SkipDir
		}
		name := d.Name()
		if filepath.Ext(name) != ext {
			return nil
		}
		if !isRegularFile(fullPath, d) {
			return nil
		}
		mu.Lock()
		names = append(names, strings.TrimSuffix(name, ext))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WorkflowStyles filters workflow file stems down to selectable styles:
// defaults and saved copies are hidden.
func WorkflowStyles(stems []string) []string {
	styles := make([]string, 0, len(stems))
	for _, stem := range stems {
		if strings.HasPrefix(stem, "default") || strings.Contains(stem, "_save") {
			continue
		}
		styles = append(styles, stem)
	}
	sort.Strings(styles)
	return styles
}
