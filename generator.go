// Package qmlgen generates C# proxy classes for the types of a QML
// application.
//
// A Generator takes a type graph, either built directly or loaded through a
// provider, and writes one C# compilation unit containing a proxy class per
// reflected type and a registry that maps runtime type identity to proxy
// constructors.
//
//	res, err := qmlgen.FromProvider(&provider.SnapshotProvider{Path: "types.yaml"}, req).
//	    PascalCase().
//	    DocumentClassSuffix("Qml").
//	    ToFile(ctx, "Generated/Proxies.cs")
package qmlgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/broady/qmlgen/csharp"
	"github.com/broady/qmlgen/ir"
	"github.com/broady/qmlgen/provider"
	"github.com/broady/qmlgen/sink"
)

// Result is the outcome of a successful run.
type Result struct {
	// Source is the generated compilation unit.
	Source []byte

	// Graph is the type graph the source was generated from.
	Graph *ir.Graph

	// TypesGenerated is the count of proxy classes written.
	TypesGenerated int

	// Skipped lists types left out after an unsupported member. Their
	// errors match ErrUnsupported.
	Skipped []csharp.SkippedType

	// Warnings holds non-fatal issues from loading and generation, in that
	// order.
	Warnings []ir.Warning
}

// Generator provides a fluent API for proxy generation. Create one with
// FromGraph or FromProvider and configure it by method chaining.
type Generator struct {
	graph    *ir.Graph
	provider provider.Provider
	req      provider.Request
	cfg      Config
}

// FromGraph returns a Generator for an already built graph.
func FromGraph(g *ir.Graph) *Generator {
	return &Generator{graph: g}
}

// FromProvider returns a Generator that loads its graph from p when run.
func FromProvider(p provider.Provider, req provider.Request) *Generator {
	return &Generator{provider: p, req: req}
}

// WithConfig replaces the configuration. Options set afterwards by the
// other methods still apply.
func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	return g
}

// PascalCase capitalizes member and enum names.
func (g *Generator) PascalCase() *Generator {
	g.cfg.PascalCase = true
	return g
}

// DocumentClassSuffix sets the suffix appended to document class names.
func (g *Generator) DocumentClassSuffix(suffix string) *Generator {
	g.cfg.DocumentClassSuffix = suffix
	return g
}

// Logger sets the logger for warnings and skipped types.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// Config returns the configuration with defaults applied.
func (g *Generator) Config() Config {
	return *applyConfigDefaults(&g.cfg)
}

// Generate runs generation in memory.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	cfg := applyConfigDefaults(&g.cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	graph, err := g.load(ctx, cfg.Logger)
	if err != nil {
		return nil, err
	}

	for _, w := range graph.Warnings {
		cfg.Logger.Warn(w.Message, "code", w.Code, "type", w.TypeName, "member", w.Member)
	}
	res, err := csharp.New(cfg.csharp()).Generate(ctx, graph)
	if err != nil {
		return nil, fmt.Errorf("generate proxies: %w", err)
	}

	return &Result{
		Source:         res.Source,
		Graph:          graph,
		TypesGenerated: res.TypesGenerated,
		Skipped:        res.Skipped,
		Warnings:       append(append([]ir.Warning(nil), graph.Warnings...), res.Warnings...),
	}, nil
}

func (g *Generator) load(ctx context.Context, logger *slog.Logger) (*ir.Graph, error) {
	switch {
	case g.graph != nil:
		return g.graph, nil
	case g.provider != nil:
		graph, err := g.provider.Load(ctx, g.req)
		if err != nil {
			return nil, fmt.Errorf("load type graph: %w", err)
		}
		logger.Debug("type graph loaded", "types", graph.Len())
		return graph, nil
	}
	return nil, errors.New("qmlgen: generator has neither a graph nor a provider")
}

// ToSink generates and writes the source to path within s. Nothing is
// written when generation fails.
func (g *Generator) ToSink(ctx context.Context, s sink.OutputSink, path string) (*Result, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.WriteFile(ctx, path, res.Source); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}

// ToFile generates and atomically writes the source to the file at path,
// creating parent directories as needed.
func (g *Generator) ToFile(ctx context.Context, path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	return g.ToSink(ctx, sink.NewFilesystemSink(filepath.Dir(abs)), filepath.Base(abs))
}
