package provider

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/broady/qmlgen/ir"
)

// ExecProvider runs the native introspection host. The host loads the
// requested documents, modules and meta classes into a live engine and
// prints a JSON snapshot on stdout.
type ExecProvider struct {
	// Command is the host executable followed by fixed arguments.
	Command []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env is appended to the host's inherited environment.
	Env []string

	Logger *slog.Logger
}

// Args returns the arguments passed to the host for req, after the fixed
// arguments of Command.
func (p *ExecProvider) Args(req Request) []string {
	args := []string{"--format", "json"}
	if req.BaseDir != "" {
		args = append(args, "--base-dir", req.BaseDir)
	}
	for _, d := range req.Documents {
		args = append(args, "--document", d)
	}
	for _, ip := range req.ImportPaths {
		args = append(args, "--import-path", ip)
	}
	for _, x := range req.Excludes {
		args = append(args, "--exclude", x)
	}
	for _, m := range req.Modules {
		args = append(args, "--module", m.String())
	}
	for _, mc := range req.MetaClasses {
		args = append(args, "--meta-class", mc)
	}
	return args
}

// Load runs the host and converts its snapshot.
func (p *ExecProvider) Load(ctx context.Context, req Request) (*ir.Graph, error) {
	if len(p.Command) == 0 {
		return nil, errors.New("introspection command is empty")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := loggerOrDefault(p.Logger)

	args := append(append([]string(nil), p.Command[1:]...), p.Args(req)...)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.Dir = p.Dir
	if len(p.Env) > 0 {
		cmd.Env = append(cmd.Environ(), p.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running introspection host", slog.String("command", p.Command[0]), slog.Any("args", args))
	runErr := cmd.Run()
	logStderr(logger, stderr.Bytes())
	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("introspection host failed: %w\n%s", runErr, msg)
		}
		return nil, fmt.Errorf("introspection host failed: %w", runErr)
	}

	snap, err := DecodeSnapshot(stdout.Bytes(), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("introspection host output: %w", err)
	}
	return finish(snap, req, logger)
}

func logStderr(logger *slog.Logger, data []byte) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			logger.Info("introspection host", slog.String("stderr", line))
		}
	}
}
