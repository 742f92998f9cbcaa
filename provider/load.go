package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/qmlgen/ir"
)

// SnapshotProvider reads a snapshot file written by the introspection host.
type SnapshotProvider struct {
	// Path is the snapshot file. Files ending in .json are read as JSON,
	// everything else as YAML.
	Path string

	Logger *slog.Logger
}

// Load reads and converts the snapshot. Documents, modules and meta classes
// requested in req but missing from the snapshot are reported as warnings on
// the returned graph.
func (p *SnapshotProvider) Load(ctx context.Context, req Request) (*ir.Graph, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := DecodeSnapshot(data, FormatForPath(p.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return finish(snap, req, loggerOrDefault(p.Logger))
}

func finish(snap *Snapshot, req Request, logger *slog.Logger) (*ir.Graph, error) {
	g, err := snap.BuildGraph()
	if err != nil {
		return nil, err
	}
	g.Warnings = append(g.Warnings, snap.crossCheck(req)...)
	logger.Debug("type graph loaded",
		slog.Int("types", g.Len()),
		slog.Int("enums", len(g.Enums())),
		slog.Int("warnings", len(g.Warnings)))
	return g, nil
}
