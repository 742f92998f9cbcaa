package csharp

import (
	"fmt"
	"strings"

	"github.com/broady/qmlgen/ir"
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// literal returns s as a C# string literal.
func literal(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// nullableLiteral returns s as a C# string literal, or null when empty.
func nullableLiteral(s string) string {
	if s == "" {
		return "null"
	}
	return literal(s)
}

// discovery returns the expression locating the meta object of t at run
// time. Document types need a live instance of the loaded document.
func (e *emitter) discovery(t *ir.TypeDescriptor) string {
	switch {
	case t.Kind == ir.KindDocumentObject:
		return fmt.Sprintf("QObjectBase.GetQmlMetaObject(exampleInstance, %s, %s)",
			literal(e.sourceURL(t)), nullableLiteral(t.InlineName))
	case t.HasModuleVersion():
		return fmt.Sprintf("QObjectBase.GetQmlCppMetaObject(%s, %s, %s, %d, %d)",
			literal(metaClassName(t)), literal(t.Name), literal(t.Module), t.MajorVersion, t.MinorVersion)
	default:
		return fmt.Sprintf("QObjectBase.GetCppMetaObject(%s)", literal(metaClassName(t)))
	}
}

// emitInitializer writes the cached meta object and the guarded lazy
// initializer that resolves every member index once.
func (e *emitter) emitInitializer(w *writer, p *typePlan) {
	t := p.t
	mod := ""
	if p.hasProxyBase {
		mod = "new "
	}
	param := ""
	if t.Kind == ir.KindDocumentObject {
		param = "System.IntPtr exampleInstance"
	}

	w.linef("private static %sreadonly object _metaObjectLock = new object();", mod)
	w.linef("private static %sSystem.IntPtr _metaObject;", mod)
	w.blank()
	w.openf("private static %sSystem.IntPtr LazyInitializeMetaObject(%s)", mod, param)
	w.line("var cached = System.Threading.Volatile.Read(ref _metaObject);")
	w.open("if (cached != IntPtr.Zero)")
	w.line("return cached;")
	w.close()
	w.open("lock (_metaObjectLock)")
	w.open("if (_metaObject != IntPtr.Zero)")
	w.line("return _metaObject;")
	w.close()
	w.linef("var metaObject = %s;", e.discovery(t))
	for i := range t.Properties {
		prop := &t.Properties[i]
		w.linef("FindMetaObjectProperty(metaObject, %s, out %s);", literal(prop.Name), propertyIndexField(prop.Name))
	}
	for i := range p.signals {
		s := &p.signals[i]
		w.linef("FindMetaObjectMethod(metaObject, %s, out %s);", literal(s.Signature), signalIndexField(s.Name))
	}
	for _, m := range p.methods {
		key := m.Name
		if m.IsOverloaded() {
			key = m.Signature
		}
		w.linef("FindMetaObjectMethod(metaObject, %s, out %s);", literal(key), methodIndexField(m))
	}
	w.line("System.Threading.Volatile.Write(ref _metaObject, metaObject);")
	w.line("return metaObject;")
	w.close()
	w.close()
}

func metaClassName(t *ir.TypeDescriptor) string {
	if t.MetaClassName != "" {
		return t.MetaClassName
	}
	return t.Name
}

// sourceURL returns the document URL of t. Inline components without their
// own URL share the enclosing document's.
func (e *emitter) sourceURL(t *ir.TypeDescriptor) string {
	for t.SourceURL == "" && t.IsInline() {
		t = e.g.Type(t.Enclosing)
	}
	return t.SourceURL
}
