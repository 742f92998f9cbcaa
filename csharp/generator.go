// Package csharp generates C# proxy classes for the types of an ir.Graph.
//
// The output is a single compilation unit: one proxy class per type grouped
// by namespace, inline components nested in their enclosing class, and a
// registry mapping runtime type identity to proxy constructors.
package csharp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/qmlgen/ir"
)

const (
	// DefaultFallbackNamespace holds types that belong to no module.
	DefaultFallbackNamespace = "QmlFiles"

	// DefaultInteropNamespace is the namespace of the runtime proxy base
	// classes and of the generated registry.
	DefaultInteropNamespace = "QmlProxies.Interop"

	DefaultIndentSize = 4
)

// Config controls naming and formatting of the generated source.
type Config struct {
	// PascalCase capitalizes property, method and enum names.
	PascalCase bool

	// DocumentClassSuffix is appended to the class names of document types
	// to tell them apart from native classes of the same name.
	DocumentClassSuffix string

	FallbackNamespace string
	InteropNamespace  string

	IndentSize int
	LineEnding string // "lf" or "crlf"

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.FallbackNamespace == "" {
		c.FallbackNamespace = DefaultFallbackNamespace
	}
	if c.InteropNamespace == "" {
		c.InteropNamespace = DefaultInteropNamespace
	}
	if c.IndentSize <= 0 {
		c.IndentSize = DefaultIndentSize
	}
	if c.LineEnding == "" {
		c.LineEnding = "lf"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Result is the output of one generation run.
type Result struct {
	// Source is the generated compilation unit.
	Source []byte

	// TypesGenerated is the count of proxy classes written.
	TypesGenerated int

	// Skipped lists types left out after a failure during emission.
	Skipped []SkippedType

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// SkippedType records a type that could not be emitted.
type SkippedType struct {
	Type string
	Err  error
}

// Generator produces C# proxies from a graph.
type Generator struct {
	cfg Config
}

// New returns a Generator configured by cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg.withDefaults()}
}

// Name returns the generator's identifier.
func (*Generator) Name() string { return "csharp" }

// Generate produces the proxy source for g. Unmappable types and invalid
// graphs abort the run; failures while emitting a single type skip that
// type and are reported in Result.Skipped.
func (gen *Generator) Generate(ctx context.Context, g *ir.Graph) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	if errs := g.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGraph, errors.Join(errs...))
	}

	e := newEmitter(gen.cfg, g)
	if err := e.plan(ctx); err != nil {
		return nil, err
	}
	src, err := e.emitAll(ctx)
	if err != nil {
		return nil, err
	}

	warnings := append(e.namer.Warnings(), e.warnings...)
	for _, w := range warnings {
		gen.cfg.Logger.Warn(w.Message, "code", w.Code, "type", w.TypeName, "member", w.Member)
	}
	return &Result{
		Source:         src,
		TypesGenerated: len(e.emitted),
		Skipped:        e.skipped,
		Warnings:       warnings,
	}, nil
}
