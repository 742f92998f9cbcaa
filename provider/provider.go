// Package provider implements the type graph providers that feed the proxy
// generator. A provider turns the result of native introspection into an
// ir.Graph.
//
// Two providers are available:
//   - SnapshotProvider reads a snapshot file previously written by the native
//     introspection host (YAML or JSON).
//   - ExecProvider runs the introspection host and decodes the snapshot it
//     prints on stdout.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"

	"github.com/broady/qmlgen/ir"
)

var validate = validator.New()

// ErrInvalidModuleSpec is returned for a malformed Name:Version module
// registration.
var ErrInvalidModuleSpec = errors.New("invalid module specification")

// ErrSnapshot is returned when a snapshot cannot be decoded or references
// handles and kinds it does not declare.
var ErrSnapshot = errors.New("invalid snapshot")

// Provider produces a type graph.
type Provider interface {
	Load(ctx context.Context, req Request) (*ir.Graph, error)
}

// Request describes what the native side should load before introspection.
type Request struct {
	// BaseDir is the directory declarative documents were discovered in.
	BaseDir string

	// Documents are the discovered document paths, relative to BaseDir.
	Documents []string `validate:"dive,required"`

	// ImportPaths are additional module search paths.
	ImportPaths []string `validate:"dive,required"`

	// Excludes are glob patterns of documents to skip.
	Excludes []string `validate:"dive,required"`

	// Modules are additional module registrations to introspect.
	Modules []ModuleSpec `validate:"dive"`

	// MetaClasses are additional native class names to introspect.
	MetaClasses []string `validate:"dive,required"`
}

// Validate checks the request's fields.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid provider request: %w", err)
	}
	return nil
}

// ModuleSpec is a module registration of the form Name:Major[.Minor].
type ModuleSpec struct {
	Name    string          `validate:"required"`
	Version *semver.Version `validate:"required"`
}

// ParseModuleSpec parses "Name:Major[.Minor]", e.g. "QtQuick.Controls:2.15".
func ParseModuleSpec(s string) (ModuleSpec, error) {
	name, version, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)
	if !ok || name == "" || version == "" {
		return ModuleSpec{}, fmt.Errorf("%w: %q: expected Name:Version", ErrInvalidModuleSpec, s)
	}
	v, err := parseModuleVersion(version)
	if err != nil {
		return ModuleSpec{}, fmt.Errorf("%w: %q: %w", ErrInvalidModuleSpec, s, err)
	}
	return ModuleSpec{Name: name, Version: v}, nil
}

// ParseModuleSpecs parses every entry of specs, failing on the first
// malformed one.
func ParseModuleSpecs(specs []string) ([]ModuleSpec, error) {
	out := make([]ModuleSpec, 0, len(specs))
	for _, s := range specs {
		m, err := ParseModuleSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseModuleVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	if v.Patch() != 0 || v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("module versions are Major[.Minor], got %s", s)
	}
	return v, nil
}

// Major returns the module's major version.
func (m ModuleSpec) Major() int { return int(m.Version.Major()) }

// Minor returns the module's minor version.
func (m ModuleSpec) Minor() int { return int(m.Version.Minor()) }

func (m ModuleSpec) String() string {
	if m.Version == nil {
		return m.Name
	}
	return fmt.Sprintf("%s:%d.%d", m.Name, m.Major(), m.Minor())
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
