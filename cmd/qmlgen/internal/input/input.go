// Package input holds the flags shared by the commands that load a type
// graph, and turns them into a provider and request.
package input

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/broady/qmlgen/internal/discover"
	"github.com/broady/qmlgen/provider"
)

// Options selects where the type graph comes from.
type Options struct {
	BaseDir     string   `help:"Directory to discover .qml documents in." name:"base-dir" short:"b" default:"." type:"path"`
	Snapshot    string   `help:"Read the type graph from a snapshot file (.yaml, .yml or .json)." short:"s" type:"path" xor:"source"`
	Introspect  string   `help:"Run this introspection host command line and read its snapshot from stdout." xor:"source"`
	ImportPaths []string `help:"Additional module import path." name:"import-path" short:"I" sep:"none"`
	Excludes    []string `help:"Glob patterns of documents to skip, separated by ':'." name:"exclude" short:"x" sep:":"`
	Modules     []string `help:"Additional module to introspect as Name:Major[.Minor], separated by ';'." name:"add-module" sep:";"`
	MetaClasses []string `help:"Additional native class to introspect, separated by ';'." name:"add-meta-class" sep:";"`
	NoDiscovery bool     `help:"Do not scan the base directory for documents." name:"no-discovery"`
}

// Check reports missing or malformed input flags.
func (o *Options) Check() error {
	if o.Snapshot == "" && strings.TrimSpace(o.Introspect) == "" {
		return errors.New("one of --snapshot or --introspect is required")
	}
	if err := discover.ValidatePatterns(o.Excludes); err != nil {
		return err
	}
	return nil
}

// Request discovers documents and builds the provider request.
func (o *Options) Request(logger *slog.Logger) (provider.Request, error) {
	modules, err := provider.ParseModuleSpecs(o.Modules)
	if err != nil {
		return provider.Request{}, err
	}
	req := provider.Request{
		BaseDir:     o.BaseDir,
		ImportPaths: o.ImportPaths,
		Excludes:    o.Excludes,
		Modules:     modules,
		MetaClasses: trimAll(o.MetaClasses),
	}
	if o.NoDiscovery {
		return req, nil
	}

	found, err := discover.Find(o.BaseDir, o.Excludes)
	if err != nil {
		return provider.Request{}, fmt.Errorf("discover documents: %w", err)
	}
	req.BaseDir = found.BaseDir
	req.Documents = found.Documents
	for _, x := range found.Excluded {
		logger.Debug("document excluded", "path", x)
	}
	logger.Info("documents discovered",
		"base_dir", found.BaseDir,
		"documents", len(found.Documents),
		"excluded", len(found.Excluded))
	return req, nil
}

// Provider returns the provider selected by the flags.
func (o *Options) Provider(logger *slog.Logger) provider.Provider {
	if o.Snapshot != "" {
		return &provider.SnapshotProvider{Path: o.Snapshot, Logger: logger}
	}
	return &provider.ExecProvider{Command: strings.Fields(o.Introspect), Logger: logger}
}

// WatchPaths lists the directories and files whose changes invalidate the
// graph: every directory below the base directory and the snapshot file.
func (o *Options) WatchPaths() ([]string, error) {
	var paths []string
	if !o.NoDiscovery {
		dirs, err := discover.Dirs(o.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("list watch directories: %w", err)
		}
		paths = append(paths, dirs...)
	}
	// A save by rename ends a watch on the file itself, so watch its
	// directory; Relevant narrows events to the snapshot path.
	if o.Snapshot != "" {
		if dir := filepath.Dir(filepath.Clean(o.Snapshot)); !slices.Contains(paths, dir) {
			paths = append(paths, dir)
		}
	}
	return paths, nil
}

// Relevant reports whether a change to path can affect the graph.
func (o *Options) Relevant(path string) bool {
	if o.Snapshot != "" && filepath.Clean(path) == filepath.Clean(o.Snapshot) {
		return true
	}
	if o.NoDiscovery || !strings.EqualFold(filepath.Ext(path), discover.Extension) {
		return false
	}
	rel, err := filepath.Rel(o.BaseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return !discover.Excluded(rel, o.Excludes)
}

func trimAll(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
