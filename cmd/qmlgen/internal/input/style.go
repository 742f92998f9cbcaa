package input

import (
	"log/slog"

	"github.com/broady/qmlgen"
)

// Style holds the flags that shape the generated source.
type Style struct {
	PascalCase          bool   `help:"Capitalize property, method and enum names." name:"pascal-case"`
	DocumentClassSuffix string `help:"Suffix appended to class names of .qml documents." name:"document-class-suffix"`
	FallbackNamespace   string `help:"Namespace for types outside any module." name:"fallback-namespace" placeholder:"QmlFiles"`
	InteropNamespace    string `help:"Namespace of the runtime interop classes." name:"interop-namespace" placeholder:"QmlProxies.Interop"`
	IndentSize          int    `help:"Spaces per indentation level." name:"indent-size" default:"4"`
	LineEnding          string `help:"Line ending of the generated source." name:"line-ending" enum:"lf,crlf" default:"lf"`
}

// Config converts the flags into a generator configuration.
func (s *Style) Config(logger *slog.Logger) qmlgen.Config {
	return qmlgen.Config{
		PascalCase:          s.PascalCase,
		DocumentClassSuffix: s.DocumentClassSuffix,
		FallbackNamespace:   s.FallbackNamespace,
		InteropNamespace:    s.InteropNamespace,
		IndentSize:          s.IndentSize,
		LineEnding:          s.LineEnding,
		Logger:              logger,
	}
}
