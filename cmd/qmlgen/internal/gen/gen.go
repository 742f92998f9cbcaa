package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/qmlgen"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/input"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/watch"
	"github.com/broady/qmlgen/sink"
)

// StdoutName is the file name reported when writing to stdout.
const StdoutName = "Proxies.cs"

type Cmd struct {
	input.Options `embed:""`
	input.Style   `embed:""`

	Out   string `help:"Output file for the generated C# source, or '-' for stdout." short:"o" required:""`
	Watch bool   `help:"Watch documents and the snapshot, and regenerate on changes." short:"w"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	if err := c.Check(); err != nil {
		return err
	}
	if c.Watch && c.Out == "-" {
		return fmt.Errorf("--watch needs an output file")
	}

	_, err := c.generate(ctx, logger)
	if !c.Watch {
		return err
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
	}

	paths, err := c.WatchPaths()
	if err != nil {
		return err
	}
	logger.Info("watching for changes", "paths", len(paths))
	return watch.Run(ctx, watch.Config{
		Paths:    paths,
		Relevant: c.Relevant,
		Logger:   logger,
	}, func(ctx context.Context) error {
		_, err := c.generate(ctx, logger)
		return err
	})
}

func (c *Cmd) generate(ctx context.Context, logger *slog.Logger) (*qmlgen.Result, error) {
	req, err := c.Request(logger)
	if err != nil {
		return nil, err
	}
	g := qmlgen.FromProvider(c.Provider(logger), req).WithConfig(c.Config(logger))

	var res *qmlgen.Result
	if c.Out == "-" {
		res, err = g.ToSink(ctx, sink.NewWriterSink(os.Stdout), StdoutName)
	} else {
		res, err = g.ToFile(ctx, c.Out)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("proxies generated",
		"out", c.Out,
		"types", res.TypesGenerated,
		"skipped", len(res.Skipped),
		"warnings", len(res.Warnings))
	return res, nil
}
