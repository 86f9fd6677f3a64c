// Package project enumerates project structure for prompt context.
package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Skipped directories never contribute useful prompt context.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".testforge":   true,
}

// TreeOptions controls tree enumeration.
type TreeOptions struct {
	// MaxDepth limits directory nesting; 0 means unlimited.
	MaxDepth int
	// MaxEntries caps the total number of listed paths; 0 means unlimited.
	MaxEntries int
}

// DefaultTreeOptions bounds the tree so prompts stay small on big repos.
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{MaxDepth: 4, MaxEntries: 200}
}

// Tree returns an indented directory listing rooted at dir, suitable for
// embedding in a generation prompt. Entries are sorted for determinism.
func Tree(dir string, opts TreeOptions) (string, error) {
	var entries []string
	truncated := false

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
		}

		depth := strings.Count(rel, string(filepath.Separator))
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if opts.MaxEntries > 0 && len(entries) >= opts.MaxEntries {
			truncated = true
			return filepath.SkipAll
		}

		name := d.Name()
		if d.IsDir() {
			name += "/"
		}
		entries = append(entries, strings.Repeat("  ", depth)+name)
		return nil
	})
	if err != nil {
		return "", err
	}

	// WalkDir visits entries in lexical order, so no sort is needed here.
	if truncated {
		entries = append(entries, "...")
	}
	return strings.Join(entries, "\n"), nil
}

// SourceFiles returns relative paths under dir with one of the given
// extensions (e.g., ".js", ".ts"), honoring the same skip rules as Tree.
func SourceFiles(dir string, extensions []string) ([]string, error) {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if extSet[filepath.Ext(path)] {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
