package qmlgen

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/broady/qmlgen/csharp"
)

// Config holds the configuration for proxy generation.
type Config struct {
	// PascalCase capitalizes property, method and enum names in the
	// generated proxies.
	PascalCase bool

	// DocumentClassSuffix is appended to the class names of types backed by
	// a declarative document. Empty by default.
	DocumentClassSuffix string `validate:"omitempty,csharp_suffix"`

	// FallbackNamespace holds types that belong to no module.
	// Default: "QmlFiles"
	FallbackNamespace string `validate:"csharp_namespace"`

	// InteropNamespace is the namespace of the runtime base classes the
	// proxies derive from. Default: "QmlProxies.Interop"
	InteropNamespace string `validate:"csharp_namespace"`

	// IndentSize is the number of spaces per indentation level. Default: 4
	IndentSize int `validate:"min=1,max=16"`

	// LineEnding is "lf" (default) or "crlf".
	LineEnding string `validate:"oneof=lf crlf"`

	// Logger receives warnings and per-type failures. Default: slog.Default()
	Logger *slog.Logger `validate:"-"`
}

// applyConfigDefaults applies default values to cfg.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg

	if result.FallbackNamespace == "" {
		result.FallbackNamespace = csharp.DefaultFallbackNamespace
	}
	if result.InteropNamespace == "" {
		result.InteropNamespace = csharp.DefaultInteropNamespace
	}
	if result.IndentSize == 0 {
		result.IndentSize = csharp.DefaultIndentSize
	}
	if result.LineEnding == "" {
		result.LineEnding = "lf"
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	return &result
}

func (c *Config) csharp() csharp.Config {
	return csharp.Config{
		PascalCase:          c.PascalCase,
		DocumentClassSuffix: c.DocumentClassSuffix,
		FallbackNamespace:   c.FallbackNamespace,
		InteropNamespace:    c.InteropNamespace,
		IndentSize:          c.IndentSize,
		LineEnding:          c.LineEnding,
		Logger:              c.Logger,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("csharp_namespace", func(fl validator.FieldLevel) bool {
		return csharp.IsNamespace(fl.Field().String())
	}))
	must(v.RegisterValidation("csharp_suffix", func(fl validator.FieldLevel) bool {
		return csharp.IsIdentifierSuffix(fl.Field().String())
	}))
	return v
}

// Validate applies defaults to a copy of c and checks it.
func (c *Config) Validate() error {
	return validateConfig(applyConfigDefaults(c))
}
