package qmlgen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/broady/qmlgen/csharp"
	"github.com/broady/qmlgen/provider"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrUnmappable aborts generation: a member references a type the
	// mapping table cannot represent.
	ErrUnmappable = csharp.ErrUnmappable

	// ErrUnsupported is recorded per type; the type is skipped and the run
	// continues. See Result.Skipped.
	ErrUnsupported = csharp.ErrUnsupported

	// ErrInvalidGraph aborts generation: the type graph failed validation.
	ErrInvalidGraph = csharp.ErrInvalidGraph

	// ErrInvalidConfig aborts generation before any work is done.
	ErrInvalidConfig = errors.New("qmlgen: invalid configuration")
)

// ErrorCode classifies a failed run.
type ErrorCode string

const (
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeInvalidInput  ErrorCode = "invalid_input"
	CodeInvalidGraph  ErrorCode = "invalid_graph"
	CodeUnmappable    ErrorCode = "unmappable"
	CodeCanceled      ErrorCode = "canceled"
	CodeInternal      ErrorCode = "internal"
)

// ExitStatus returns the process exit status the CLI uses for c.
func (c ErrorCode) ExitStatus() int {
	switch c {
	case CodeInvalidConfig, CodeInvalidInput:
		return 2
	case CodeInvalidGraph, CodeUnmappable:
		return 3
	case CodeCanceled:
		return 130
	default:
		return 1
	}
}

// ConfigError reports the invalid fields of a Config.
type ConfigError struct {
	// Fields maps a field name to a human-readable message.
	Fields map[string]string
}

func (e *ConfigError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrInvalidConfig) true for a *ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Classify maps err to an ErrorCode. It returns "" for a nil error.
func Classify(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidConfig):
		return CodeInvalidConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.Is(err, ErrInvalidGraph):
		return CodeInvalidGraph
	case errors.Is(err, ErrUnmappable):
		return CodeUnmappable
	case errors.Is(err, provider.ErrSnapshot), errors.Is(err, provider.ErrInvalidModuleSpec):
		return CodeInvalidInput
	}
	return CodeInternal
}

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	ce := &ConfigError{Fields: make(map[string]string, len(valErrs))}
	for _, ve := range valErrs {
		ce.Fields[ve.Field()] = formatValidationError(ve)
	}
	return ce
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "csharp_namespace":
		return fmt.Sprintf("%q is not a valid namespace", ve.Value())
	case "csharp_suffix":
		return fmt.Sprintf("%q cannot be appended to a class name", ve.Value())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
