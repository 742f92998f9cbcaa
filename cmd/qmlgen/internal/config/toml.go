// Package config loads qmlgen.toml files as defaults for command-line flags.
//
// Keys are flag names with dashes or underscores. Top-level keys apply to
// every command; a table named after a command applies to that command only
// and wins over the top level:
//
//	base-dir = "ui"
//	exclude = ["**/tests/**"]
//
//	[gen]
//	pascal_case = true
//	document-class-suffix = "Qml"
//
// Flags given on the command line always win over the file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
)

// DefaultPath is read when it exists and no --config flag is given.
const DefaultPath = "qmlgen.toml"

// TOML is a kong.ConfigurationLoader for TOML files.
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var f kong.ResolverFunc = func(ctx *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := commandName(ctx); cmd != "" {
			if table, ok := values[cmd].(map[string]any); ok {
				if v, ok := lookup(table, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			if _, isTable := v.(map[string]any); !isTable {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}

func lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	v, ok := m[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}

func commandName(ctx *kong.Context) string {
	if ctx == nil {
		return ""
	}
	if cmd := ctx.Selected(); cmd != nil {
		return cmd.Name
	}
	return ""
}
