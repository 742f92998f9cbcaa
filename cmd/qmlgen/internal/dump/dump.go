package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/qmlgen/cmd/qmlgen/internal/input"
)

// Cmd prints the resolved type graph as JSON.
type Cmd struct {
	input.Options `embed:""`

	stdout io.Writer
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	if err := c.Check(); err != nil {
		return err
	}
	req, err := c.Request(logger)
	if err != nil {
		return err
	}
	g, err := c.Provider(logger).Load(ctx, req)
	if err != nil {
		return fmt.Errorf("load type graph: %w", err)
	}

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
