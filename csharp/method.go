package csharp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/qmlgen/ir"
)

// methodIndexField returns the name of the static field caching m's index.
// Overloads get their ordinal appended.
func methodIndexField(m *ir.MethodDescriptor) string {
	if m.IsOverloaded() {
		return "_" + m.Name + "Index" + strconv.Itoa(m.OverloadIndex)
	}
	return "_" + m.Name + "Index"
}

// paramName returns the escaped name of the i-th parameter.
func paramName(p ir.ParameterDescriptor, i int) string {
	if p.Name == "" {
		return "arg" + strconv.Itoa(i+1)
	}
	return Sanitize(p.Name)
}

// dedupeMethods drops methods whose C# signature repeats an earlier one,
// such as f(QString) after f(QUrl), or an async twin of a synchronous
// overload. Each drop is reported as a method_signature_clash warning.
func (e *emitter) dedupeMethods(t *ir.TypeDescriptor) ([]*ir.MethodDescriptor, []ir.Warning) {
	var (
		kept     []*ir.MethodDescriptor
		warnings []ir.Warning
	)
	seen := make(map[string]*ir.MethodDescriptor, len(t.Methods))
	for i := range t.Methods {
		m := &t.Methods[i]
		key, ok := e.managedSignature(m)
		if !ok {
			kept = append(kept, m)
			continue
		}
		if first, dup := seen[key]; dup {
			warnings = append(warnings, ir.Warning{
				Code:     "method_signature_clash",
				Message:  fmt.Sprintf("%s and %s both map to %s, keeping %s", first.Signature, m.Signature, key, first.Signature),
				TypeName: t.DisplayName(),
				Member:   m.Name,
			})
			continue
		}
		seen[key] = m
		kept = append(kept, m)
	}
	return kept, warnings
}

// managedSignature returns the C# name and parameter types m is emitted
// with. ok is false when a parameter cannot be mapped; emission reports
// that error.
func (e *emitter) managedSignature(m *ir.MethodDescriptor) (string, bool) {
	params := m.Params
	if m.HasTrailingCompletion() {
		params = params[:len(params)-1]
	}
	types := make([]string, len(params))
	for i, p := range params {
		mp, err := e.mapper.Map(p.Type)
		if err != nil {
			return "", false
		}
		types[i] = mp.Surface
	}
	return e.namer.MemberName(m.Name) + "(" + strings.Join(types, ",") + ")", true
}

// scope hands out the identifiers of one invoker body. Names are compared
// without the verbatim '@' prefix.
type scope map[string]bool

func newScope(reserved ...string) scope {
	s := make(scope, len(reserved))
	for _, r := range reserved {
		if r != "" {
			s[r] = true
		}
	}
	return s
}

// claim returns name, or name with underscores appended when it is taken.
func (s scope) claim(name string) string {
	bare := strings.TrimPrefix(name, "@")
	key := bare
	for s[key] {
		key += "_"
	}
	s[key] = true
	if key == bare {
		return name
	}
	return key
}

// rootIdent returns the leading identifier of a type expression, the name a
// parameter would shadow.
func rootIdent(expr string) string {
	if i := strings.IndexAny(expr, ".<["); i >= 0 {
		return expr[:i]
	}
	return expr
}

// call is the marshalling plan of one method invocation.
type call struct {
	scope   scope
	argv    string
	setup   []string
	cleanup []string
	result  string // expression returned after the call, empty for void
}

// emitMethod writes the index field and the invoker of m. Parameters keep
// their reflected names; generated locals are renamed around them.
func (e *emitter) emitMethod(w *writer, t *ir.TypeDescriptor, m *ir.MethodDescriptor) error {
	async := m.HasTrailingCompletion()
	params := m.Params
	if async {
		params = params[:len(params)-1]
	}

	ret, err := e.mapper.Map(m.Return)
	if err != nil {
		return err
	}
	mps := make([]Mapping, len(params))
	for i, p := range params {
		if mps[i], err = e.mapper.Map(p.Type); err != nil {
			return err
		}
	}

	idx := methodIndexField(m)
	reserved := []string{
		"_handle", idx, "QObject_callMethod", "QObjectBase", "QtBuiltInTypeInterop",
		"QStringArg", "IntPtr", "System", rootIdent(e.cfg.InteropNamespace),
		rootIdent(ret.Surface), rootIdent(ret.Element),
	}
	for _, mp := range mps {
		reserved = append(reserved, rootIdent(mp.Surface), rootIdent(mp.Element))
	}
	c := call{scope: newScope(reserved...)}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = c.scope.claim(paramName(p, i))
	}
	c.argv = c.scope.claim("argv")
	c.setup = append(c.setup, fmt.Sprintf("void** %s = stackalloc void*[%d];", c.argv, len(m.Params)+1))

	returnType := ret.Surface
	var source string
	switch {
	case async:
		returnType = "System.Threading.Tasks.Task<IntPtr>"
		task := c.scope.claim("nativeTask")
		source = c.scope.claim("completionSource")
		c.setup = append(c.setup,
			fmt.Sprintf("var (%s, %s) = %s.NativeCompletionSource.Create<IntPtr>();", task, source, e.cfg.InteropNamespace))
		c.result = task
	default:
		if err := e.returnSetup(&c, ret); err != nil {
			return err
		}
	}

	decls := make([]string, 0, len(params))
	for i := range params {
		if err := e.paramSetup(&c, mps[i], names[i], i+1); err != nil {
			return fmt.Errorf("parameter %s: %w", names[i], err)
		}
		decls = append(decls, mps[i].Surface+" "+names[i])
	}
	if async {
		c.setup = append(c.setup, fmt.Sprintf("%s[%d] = &%s;", c.argv, len(m.Params), source))
	}

	invoke := fmt.Sprintf("QObject_callMethod(_handle, %s, %s);", idx, c.argv)

	w.linef("private static int %s = -1;", idx)
	w.openf("public unsafe %s %s(%s)", returnType, e.namer.MemberName(m.Name), strings.Join(decls, ", "))
	for _, s := range c.setup {
		w.line(s)
	}
	if len(c.cleanup) == 0 {
		w.line(invoke)
		if c.result != "" {
			w.linef("return %s;", c.result)
		}
	} else {
		w.open("try")
		w.line(invoke)
		if c.result != "" {
			w.linef("return %s;", c.result)
		}
		w.close()
		w.open("finally")
		for _, s := range c.cleanup {
			w.line(s)
		}
		w.close()
	}
	w.close()
	return nil
}

// returnSetup prepares slot 0 for the return value and records how the
// managed result is produced after the call.
func (e *emitter) returnSetup(c *call, ret Mapping) error {
	switch ret.Handling {
	case HandlingNone:
		return nil
	case HandlingPrimitive:
		result := c.scope.claim("result")
		c.setup = append(c.setup,
			ret.Native+" "+result+";",
			fmt.Sprintf("%s[0] = &%s;", c.argv, result))
		c.result = result
	case HandlingObject:
		if ret.List {
			return fmt.Errorf("%w: list return value", ErrUnsupported)
		}
		result := c.scope.claim("result")
		c.setup = append(c.setup,
			"System.IntPtr "+result+";",
			fmt.Sprintf("%s[0] = &%s;", c.argv, result))
		c.result = fmt.Sprintf("QObjectBase.GetQObjectProxy<%s>(%s)", ret.Element, result)
	case HandlingString:
		result := c.scope.claim("result")
		c.setup = append(c.setup,
			fmt.Sprintf("using var %s = new QStringArg(null);", result),
			fmt.Sprintf("%s[0] = %s.NativePointer;", c.argv, result))
		c.result = result + ".ToString()"
	case HandlingValueType:
		if ret.Gadget {
			return fmt.Errorf("%w: value type %s returned by value", ErrUnsupported, ret.Surface)
		}
		storage := c.scope.claim("resultUnmanaged")
		c.setup = append(c.setup,
			fmt.Sprintf("var %s = stackalloc byte[QtBuiltInTypeInterop.%sSize];", storage, ret.Interop),
			fmt.Sprintf("QtBuiltInTypeInterop.%s_ctor_default(%s);", ret.Interop, storage),
			fmt.Sprintf("%s[0] = %s;", c.argv, storage))
		read, err := readExpr(ret, storage)
		if err != nil {
			return err
		}
		c.result = read
		if ret.Destructor {
			c.cleanup = append(c.cleanup, fmt.Sprintf("QtBuiltInTypeInterop.%s_dtor(%s);", ret.Interop, storage))
		}
	case HandlingAsync:
		return fmt.Errorf("%w: async-completion marker as return type", ErrUnmappable)
	default:
		return fmt.Errorf("%w: return handling %s", ErrUnmappable, ret.Handling)
	}
	return nil
}

// paramSetup writes the argument slot for one parameter.
func (e *emitter) paramSetup(c *call, mp Mapping, name string, slot int) error {
	switch mp.Handling {
	case HandlingPrimitive:
		c.setup = append(c.setup, fmt.Sprintf("%s[%d] = &%s;", c.argv, slot, name))
	case HandlingString, HandlingValueType:
		if mp.Gadget {
			return fmt.Errorf("%w: value type %s passed by value", ErrUnsupported, mp.Surface)
		}
		args, err := ctorArgs(mp.BuiltIn, name)
		if err != nil {
			return err
		}
		tmp := c.scope.claim(strings.TrimPrefix(name, "@") + "Temp")
		c.setup = append(c.setup,
			fmt.Sprintf("var %s = stackalloc byte[QtBuiltInTypeInterop.%sSize];", tmp, mp.Interop),
			fmt.Sprintf("QtBuiltInTypeInterop.%s_ctor(%s, %s);", mp.Interop, tmp, args),
			fmt.Sprintf("%s[%d] = %s;", c.argv, slot, tmp))
		if mp.Destructor {
			c.cleanup = append(c.cleanup, fmt.Sprintf("QtBuiltInTypeInterop.%s_dtor(%s);", mp.Interop, tmp))
		}
	case HandlingObject:
		if mp.List {
			return fmt.Errorf("%w: list %s passed as a parameter", ErrUnsupported, mp.Surface)
		}
		tmp := c.scope.claim(strings.TrimPrefix(name, "@") + "Temp")
		c.setup = append(c.setup,
			fmt.Sprintf("var %s = %s?.NativePointer ?? IntPtr.Zero;", tmp, name),
			fmt.Sprintf("%s[%d] = &%s;", c.argv, slot, tmp))
	case HandlingAsync:
		return fmt.Errorf("%w: async-completion marker must be the last parameter of a void method", ErrUnmappable)
	default:
		return fmt.Errorf("%w: parameter handling %s", ErrUnmappable, mp.Handling)
	}
	return nil
}
