package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/broady/qmlgen"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/check"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/config"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/dump"
	"github.com/broady/qmlgen/cmd/qmlgen/internal/gen"
)

type CLI struct {
	Config    kong.ConfigFlag `help:"Load flag defaults from a TOML file." type:"existingfile"`
	LogLevel  string          `help:"Minimum log level." enum:"debug,info,warn,error" default:"info"`
	LogFormat string          `help:"Log output format." enum:"text,json" default:"text"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate C# proxies for a QML application."`
	Check   check.Cmd  `cmd:"" help:"Load and generate in memory, then report warnings and skipped types."`
	Dump    dump.Cmd   `cmd:"" help:"Print the resolved type graph as JSON."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

// newLogger builds the logger for the --log-level and --log-format flags.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("qmlgen"),
		kong.Description("Generate C# proxy classes from QML type introspection."),
		kong.UsageOnError(),
		kong.Configuration(config.TOML, config.DefaultPath),
	)

	logger := newLogger(os.Stderr, cli.LogLevel, cli.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(logger); err != nil {
		code := qmlgen.Classify(err)
		logger.Error("qmlgen failed", "code", string(code), "error", err)
		stop()
		os.Exit(code.ExitStatus())
	}
}
