package csharp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/qmlgen/ir"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func nativeType(name string) ir.TypeDescriptor {
	return ir.TypeDescriptor{
		Kind:          ir.KindNativeObject,
		Name:          name,
		MetaClassName: name,
		MajorVersion:  ir.NoVersion,
		Enclosing:     ir.NoType,
		Base:          ir.NoType,
	}
}

func moduleType(name, module string, major, minor int) ir.TypeDescriptor {
	t := nativeType(name)
	t.Module = module
	t.MajorVersion = major
	t.MinorVersion = minor
	return t
}

func valueType(name string) ir.TypeDescriptor {
	t := nativeType(name)
	t.Kind = ir.KindNativeValueType
	return t
}

func documentType(name, url string) ir.TypeDescriptor {
	t := nativeType(name)
	t.Kind = ir.KindDocumentObject
	t.MetaClassName = ""
	t.SourceURL = url
	return t
}

func inlineType(enclosing ir.TypeID, name, inline string) ir.TypeDescriptor {
	t := documentType(name, "")
	t.Enclosing = enclosing
	t.InlineName = inline
	return t
}

func param(name string, ref ir.TypeRef) ir.ParameterDescriptor {
	return ir.ParameterDescriptor{Name: name, Type: ref}
}

func method(name string, ret ir.TypeRef, params ...ir.ParameterDescriptor) ir.MethodDescriptor {
	return ir.MethodDescriptor{Name: name, Role: ir.RoleMethod, OverloadIndex: ir.NoOverload, Return: ret, Params: params}
}

func signal(name string, params ...ir.ParameterDescriptor) ir.MethodDescriptor {
	return ir.MethodDescriptor{Name: name, Role: ir.RoleSignal, OverloadIndex: ir.NoOverload, Return: ir.Void(), Params: params}
}

func property(name string, ref ir.TypeRef, writable bool) ir.PropertyDescriptor {
	return ir.PropertyDescriptor{Name: name, Type: ref, Readable: true, Writable: writable}
}

func builtin(k ir.BuiltInKind) ir.TypeRef { return ir.BuiltIn(k) }

func mustBuild(t *testing.T, b *ir.Builder) *ir.Graph {
	t.Helper()
	for i := 0; i < b.Len(); i++ {
		ir.NumberOverloads(b.Type(ir.TypeID(i)).Methods)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func generate(t *testing.T, g *ir.Graph, cfg Config) *Result {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = discardLogger
	}
	res, err := New(cfg).Generate(context.Background(), g)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return res
}

func checkOutput(t *testing.T, output string, want, notWant []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, output)
		}
	}
	for _, nw := range notWant {
		if strings.Contains(output, nw) {
			t.Errorf("output should not contain %q\n--- output ---\n%s", nw, output)
		}
	}
}

// newTestEmitter returns a planned emitter for calling member generators
// directly.
func newTestEmitter(t *testing.T, g *ir.Graph, cfg Config) *emitter {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = discardLogger
	}
	e := newEmitter(New(cfg).cfg, g)
	if err := e.plan(context.Background()); err != nil {
		t.Fatalf("plan() error = %v", err)
	}
	return e
}

func warningCodes(ws []ir.Warning) []string {
	var codes []string
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}
