// Package watch finds stylesheets under a directory and reconverts them
// when they change.
package watch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every stylesheet.
var DefaultInclude = []string{"**/*.css"}

// DefaultExclude skips dependency and build output directories.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/.next/**",
}

// Patterns selects files relative to a root directory.
type Patterns struct {
	Include []string
	Exclude []string
}

func (p Patterns) withDefaults() Patterns {
	if len(p.Include) == 0 {
		p.Include = DefaultInclude
	}
	if p.Exclude == nil {
		p.Exclude = DefaultExclude
	}
	return p
}

// Validate rejects malformed globs.
func (p Patterns) Validate() error {
	for _, pattern := range p.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range p.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// excluded reports whether the slash-separated relative path is excluded.
// Directories are also tested with a trailing slash so "dir/**" prunes them.
func (p Patterns) excluded(rel string, isDir bool) bool {
	for _, pattern := range p.Exclude {
		if m, _ := doublestar.Match(pattern, rel); m {
			return true
		}
		if isDir {
			if m, _ := doublestar.Match(pattern, rel+"/"); m {
				return true
			}
		}
	}
	return false
}

func (p Patterns) included(rel string) bool {
	for _, pattern := range p.Include {
		if m, _ := doublestar.Match(pattern, rel); m {
			return true
		}
	}
	return false
}

// Matches reports whether a file path relative to root is selected.
func (p Patterns) Matches(rel string) bool {
	p = p.withDefaults()
	rel = filepath.ToSlash(rel)
	return !p.excluded(rel, false) && p.included(rel)
}

// Discover walks root and returns the sorted absolute paths of matching files.
func Discover(root string, patterns Patterns) ([]string, error) {
	patterns = patterns.withDefaults()
	if err := patterns.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if patterns.excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !patterns.included(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
