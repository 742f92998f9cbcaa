package csharp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/qmlgen/ir"
)

func signalSignatures(ms []ir.MethodDescriptor) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.Signature)
	}
	return out
}

func sig(name, signature string, arity int) ir.MethodDescriptor {
	s := signal(name)
	s.Signature = signature
	for i := 0; i < arity; i++ {
		s.Params = append(s.Params, param("", builtin(ir.BuiltInInt32)))
	}
	return s
}

func TestDedupeSignals(t *testing.T) {
	f0 := sig("f", "f()", 0)
	f1 := sig("f", "f(int)", 1)
	f2 := sig("f", "f(int,int)", 2)
	g1 := sig("g", "g(int)", 1)
	g1b := sig("g", "g(double)", 1)
	h0 := sig("h", "h()", 0)

	tests := []struct {
		name     string
		signals  []ir.MethodDescriptor
		want     []string
		warnings []string
	}{
		{"richest wins", []ir.MethodDescriptor{f0, f1, f2}, []string{"f(int,int)"}, nil},
		{"richest wins declared first", []ir.MethodDescriptor{f2, f0, f1}, []string{"f(int,int)"}, nil},
		{"richest wins declared in the middle", []ir.MethodDescriptor{f1, f2, f0}, []string{"f(int,int)"}, nil},
		{"equal arity keeps earlier", []ir.MethodDescriptor{g1, g1b}, []string{"g(int)"}, []string{"signal_ambiguous"}},
		{"equal arity below the winner is not ambiguous", []ir.MethodDescriptor{g1, g1b, sig("g", "g(int,int)", 2)}, []string{"g(int,int)"}, nil},
		{"declaration order preserved", []ir.MethodDescriptor{h0, f0, f2}, []string{"h()", "f(int,int)"}, nil},
		{"unique names untouched", []ir.MethodDescriptor{f1, h0}, []string{"f(int)", "h()"}, nil},
		{"empty", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := nativeType("T")
			typ.Signals = tt.signals
			kept, warnings := dedupeSignals(&typ, discardLogger)
			if diff := cmp.Diff(tt.want, signalSignatures(kept)); diff != "" {
				t.Errorf("kept signals mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.warnings, warningCodes(warnings)); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_DroppedSignalNotInitialized(t *testing.T) {
	b := ir.NewBuilder()
	typ := nativeType("Slider")
	typ.Signals = []ir.MethodDescriptor{
		signal("moved"),
		signal("moved", param("pos", builtin(ir.BuiltInDouble))),
	}
	b.AddType(typ)
	out := string(generate(t, mustBuild(t, b), Config{}).Source)

	checkOutput(t, out, []string{
		`FindMetaObjectMethod(metaObject, "moved(double)", out _movedSignalIndex);`,
		"public event System.Action<double> OnMoved",
		"dlgt(*(double*)args[1]);",
	}, []string{
		`"moved()"`,
		"public event System.Action OnMoved",
	})
}

func TestGenerate_MethodSignatureClash(t *testing.T) {
	b := ir.NewBuilder()
	typ := nativeType("Loader")
	typ.Methods = []ir.MethodDescriptor{
		method("open", ir.Void(), param("path", builtin(ir.BuiltInString))),
		method("open", ir.Void(), param("url", builtin(ir.BuiltInURL))),
		method("load", builtin(ir.BuiltInInt32), param("path", builtin(ir.BuiltInString))),
		method("load", ir.Void(), param("path", builtin(ir.BuiltInString)), param("", builtin(ir.BuiltInCompletion))),
		method("close", ir.Void()),
	}
	b.AddType(typ)
	res := generate(t, mustBuild(t, b), Config{})
	out := string(res.Source)

	checkOutput(t, out, []string{
		"public unsafe void open(string path)\n",
		"public unsafe int load(string path)\n",
		"public unsafe void close()\n",
		`FindMetaObjectMethod(metaObject, "open(QString)", out _openIndex0);`,
		`FindMetaObjectMethod(metaObject, "load(QString)", out _loadIndex0);`,
	}, []string{
		"open(string url)",
		"System.Threading.Tasks.Task<IntPtr> load(",
		"_openIndex1",
		"_loadIndex1",
	})
	if diff := cmp.Diff([]string{"method_signature_clash", "method_signature_clash"}, warningCodes(res.Warnings)); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if got := res.Warnings[0].Member; got != "open" {
		t.Errorf("Warnings[0].Member = %q, want open", got)
	}
}

func TestGenerate_MethodClashAfterPascalCase(t *testing.T) {
	timer := func() *ir.Graph {
		b := ir.NewBuilder()
		typ := nativeType("Timer")
		typ.Methods = []ir.MethodDescriptor{method("reset", ir.Void()), method("Reset", ir.Void())}
		b.AddType(typ)
		return mustBuild(t, b)
	}

	res := generate(t, timer(), Config{})
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none without PascalCase", res.Warnings)
	}

	res = generate(t, timer(), Config{PascalCase: true})
	if diff := cmp.Diff([]string{"method_signature_clash"}, warningCodes(res.Warnings)); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(string(res.Source), "public unsafe void Reset()"); n != 1 {
		t.Errorf("Reset emitted %d times, want 1", n)
	}
}
