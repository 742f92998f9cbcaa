// Package discover finds declarative documents under a base directory.
//
// Every *.qml file below the base directory is a document unless it
// matches one of the exclusion patterns. Patterns use doublestar syntax
// ("**" crosses directories) and are matched against the slash-separated
// path relative to the base directory; a pattern without a slash is also
// matched against the file name alone.
package discover

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Extension is the file extension of declarative documents.
const Extension = ".qml"

// Result contains the discovered documents.
type Result struct {
	// BaseDir is the absolute base directory.
	BaseDir string

	// Documents are slash-separated paths relative to BaseDir, sorted.
	Documents []string

	// Excluded are the documents skipped by an exclusion pattern, sorted.
	Excluded []string
}

// Find lists the documents under baseDir.
func Find(baseDir string, excludes []string) (*Result, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	if err := ValidatePatterns(excludes); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(filepath.Join(abs, "**", "*"+Extension))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", abs, err)
	}

	res := &Result{BaseDir: abs}
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(abs, m)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		if seen[rel] {
			continue
		}
		seen[rel] = true
		if Excluded(rel, excludes) {
			res.Excluded = append(res.Excluded, rel)
			continue
		}
		res.Documents = append(res.Documents, rel)
	}
	sort.Strings(res.Documents)
	sort.Strings(res.Excluded)
	return res, nil
}

// ValidatePatterns reports the first malformed exclusion pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		// Matching a pattern against itself walks every component.
		if _, err := doublestar.Match(p, p); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// Excluded reports whether the relative document path rel matches any of
// the patterns.
func Excluded(rel string, patterns []string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

// Dirs lists baseDir and every directory below it, skipping hidden ones.
// Watchers use it since change notification is not recursive.
func Dirs(baseDir string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != baseDir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
