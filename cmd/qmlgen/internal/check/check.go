package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/qmlgen"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/input"
)

type Cmd struct {
	input.Options `embed:""`
	input.Style   `embed:""`

	Strict bool `help:"Fail when any type is skipped or a warning is reported."`

	stdout io.Writer
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	if err := c.Check(); err != nil {
		return err
	}
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	req, err := c.Request(logger)
	if err != nil {
		return err
	}
	res, err := qmlgen.FromProvider(c.Provider(logger), req).
		WithConfig(c.Config(logger)).
		Generate(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %d documents, %d types loaded\n", len(req.Documents), res.Graph.Len())
	fmt.Fprintf(out, "✓ %d proxies generated\n", res.TypesGenerated)
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "✗ skipped %s: %v\n", s.Type, s.Err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "! %s\n", w)
	}

	if c.Strict && (len(res.Skipped) > 0 || len(res.Warnings) > 0) {
		return fmt.Errorf("%d types skipped, %d warnings", len(res.Skipped), len(res.Warnings))
	}
	return nil
}
