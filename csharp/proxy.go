package csharp

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/broady/qmlgen/ir"
)

// typePlan holds the decisions made for one type before any code is
// written.
type typePlan struct {
	t            *ir.TypeDescriptor
	className    string
	qualified    string
	base         string
	hasProxyBase bool

	// signals are the retained signals after overload de-duplication.
	signals []ir.MethodDescriptor

	// methods are the methods with distinct C# signatures.
	methods []*ir.MethodDescriptor
}

// emitter is the state of one generation run.
type emitter struct {
	cfg    Config
	g      *ir.Graph
	namer  *Namer
	mapper *TypeMapper
	logger *slog.Logger

	plans    []*typePlan
	warnings []ir.Warning
	skipped  []SkippedType
	emitted  map[ir.TypeID]bool
}

func newEmitter(cfg Config, g *ir.Graph) *emitter {
	namer := NewNamer(g, cfg)
	return &emitter{
		cfg:     cfg,
		g:       g,
		namer:   namer,
		mapper:  NewTypeMapper(g, namer),
		logger:  cfg.Logger,
		plans:   make([]*typePlan, g.Len()),
		emitted: make(map[ir.TypeID]bool, g.Len()),
	}
}

// plan resolves names, de-duplicates signals and methods, and checks that
// every member type can be mapped. Any error here aborts the run.
func (e *emitter) plan(ctx context.Context) error {
	for _, t := range e.g.Types() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &typePlan{
			t:         t,
			className: e.namer.ClassName(t),
			qualified: e.namer.QualifiedName(t),
		}
		switch {
		case t.Base.Valid():
			p.base = e.namer.QualifiedName(e.g.Type(t.Base))
			p.hasProxyBase = true
		case t.Kind == ir.KindNativeValueType:
			p.base = e.cfg.InteropNamespace + ".QGadgetBase"
		default:
			p.base = e.cfg.InteropNamespace + ".QObjectBase"
		}

		if err := e.checkMembers(t); err != nil {
			return err
		}
		e.namer.checkEnumCollisions(t)

		signals, warnings := dedupeSignals(t, e.logger)
		p.signals = signals
		e.warnings = append(e.warnings, warnings...)

		methods, warnings := e.dedupeMethods(t)
		p.methods = methods
		e.warnings = append(e.warnings, warnings...)
		e.plans[t.ID] = p
	}
	return nil
}

// checkMembers maps every type reference of t and rejects misplaced
// async-completion markers and list properties on value types.
func (e *emitter) checkMembers(t *ir.TypeDescriptor) error {
	for i := range t.Properties {
		prop := &t.Properties[i]
		mp, err := e.mapper.Map(prop.Type)
		if err == nil && mp.Handling == HandlingAsync {
			err = fmt.Errorf("%w: async-completion marker as property type", ErrUnmappable)
		}
		if err == nil && mp.List && t.Kind == ir.KindNativeValueType {
			err = fmt.Errorf("%w: list property on value type", ErrUnmappable)
		}
		if err != nil {
			return memberError(t, prop.Name, err)
		}
	}
	for _, ms := range [][]ir.MethodDescriptor{t.Methods, t.Signals} {
		for i := range ms {
			if err := e.checkMethod(&ms[i]); err != nil {
				return memberError(t, ms[i].Name, err)
			}
		}
	}
	return nil
}

func (e *emitter) checkMethod(m *ir.MethodDescriptor) error {
	ret, err := e.mapper.Map(m.Return)
	if err != nil {
		return err
	}
	if ret.Handling == HandlingAsync {
		return fmt.Errorf("%w: async-completion marker as return type", ErrUnmappable)
	}
	trailing := m.Role == ir.RoleMethod && m.HasTrailingCompletion()
	for i, p := range m.Params {
		mp, err := e.mapper.Map(p.Type)
		if err != nil {
			return err
		}
		if mp.Handling == HandlingAsync && !(trailing && i == len(m.Params)-1) {
			return fmt.Errorf("%w: async-completion marker must be the last parameter of a void method", ErrUnmappable)
		}
	}
	return nil
}

// emitAll writes the whole compilation unit.
func (e *emitter) emitAll(ctx context.Context) ([]byte, error) {
	w := newWriter(e.cfg.IndentSize, e.cfg.LineEnding, 0)
	w.line("// <auto-generated/>")
	w.line("using System;")
	w.line("using System.Runtime.InteropServices;")
	w.linef("using %s;", e.cfg.InteropNamespace)
	w.blank()
	w.linef("[assembly: %[1]s.QmlTypeRegistry(typeof(%[1]s.GeneratedTypesRegistry))]", e.cfg.InteropNamespace)

	for _, ns := range e.namespaces() {
		body := w.sub()
		body.level++
		first := true
		for _, p := range ns.types {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			tw := body.sub()
			if !e.emitTypeTree(tw, p) {
				continue
			}
			if !first {
				body.blank()
			}
			first = false
			body.append(tw)
		}
		if first {
			continue
		}
		w.blank()
		w.open("namespace " + ns.name)
		w.append(body)
		w.close()
	}

	w.blank()
	e.emitRegistry(w)
	return w.Bytes(), nil
}

type namespaceGroup struct {
	name  string
	types []*typePlan
}

// namespaces groups top-level types by namespace in order of first
// appearance.
func (e *emitter) namespaces() []*namespaceGroup {
	var groups []*namespaceGroup
	index := make(map[string]*namespaceGroup)
	for _, p := range e.plans {
		if p.t.IsInline() {
			continue
		}
		name := e.namer.Namespace(p.t)
		g, ok := index[name]
		if !ok {
			g = &namespaceGroup{name: name}
			index[name] = g
			groups = append(groups, g)
		}
		g.types = append(g.types, p)
	}
	return groups
}

// emitTypeTree writes p and its inline components into w. A failure while
// emitting a type is recorded and the type is left out together with its
// inline components; it reports whether p was written.
func (e *emitter) emitTypeTree(w *writer, p *typePlan) bool {
	if err := e.safeEmitType(w, p); err != nil {
		e.skip(p.t, err)
		return false
	}
	e.emitted[p.t.ID] = true
	return true
}

func (e *emitter) skip(t *ir.TypeDescriptor, err error) {
	e.logger.Error("skipping type", "type", t.DisplayName(), "error", err)
	e.skipped = append(e.skipped, SkippedType{Type: t.DisplayName(), Err: err})
	for _, id := range e.g.InlineComponents(t.ID) {
		e.skip(e.g.Type(id), fmt.Errorf("enclosing type %s was skipped", t.DisplayName()))
	}
}

// safeEmitType converts a panic during emission into an error.
func (e *emitter) safeEmitType(w *writer, p *typePlan) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("panic while emitting type", "type", p.t.DisplayName(), "stack", string(debug.Stack()))
			err = memberError(p.t, "", fmt.Errorf("panic: %v", r))
		}
	}()
	return e.emitType(w, p)
}

func (e *emitter) emitType(w *writer, p *typePlan) error {
	t := p.t
	body := w.sub()
	body.level++

	body.openf("static %s()", p.className)
	body.linef("System.Runtime.CompilerServices.RuntimeHelpers.RunClassConstructor(typeof(%s.GeneratedTypesRegistry).TypeHandle);", e.cfg.InteropNamespace)
	body.close()
	body.blank()

	e.emitInitializer(body, p)

	for _, id := range t.Enums {
		body.blank()
		e.emitEnum(body, e.g.Enum(id))
	}

	body.blank()
	e.emitConstructors(body, p)

	for i := range t.Properties {
		prop := &t.Properties[i]
		body.blank()
		if err := e.emitProperty(body, t, prop); err != nil {
			return memberError(t, prop.Name, err)
		}
	}
	for _, m := range p.methods {
		body.blank()
		if err := e.emitMethod(body, t, m); err != nil {
			return memberError(t, m.Name, err)
		}
	}
	for i := range p.signals {
		s := &p.signals[i]
		body.blank()
		if err := e.emitSignal(body, s); err != nil {
			return memberError(t, s.Name, err)
		}
	}

	for _, id := range e.g.InlineComponents(t.ID) {
		child := body.sub()
		if !e.emitTypeTree(child, e.plans[id]) {
			continue
		}
		body.blank()
		body.append(child)
	}

	w.openf("public class %s : %s", p.className, p.base)
	w.append(body)
	w.close()
	return nil
}

// emitConstructors writes the handle constructor, and for native object
// types that can be default-constructed, a parameterless constructor that
// creates a native instance.
func (e *emitter) emitConstructors(w *writer, p *typePlan) {
	t := p.t
	init := "LazyInitializeMetaObject()"
	if t.Kind == ir.KindDocumentObject {
		init = "LazyInitializeMetaObject(handle)"
	}
	w.openf("public %s(IntPtr handle) : base(handle)", p.className)
	w.line(init + ";")
	w.close()

	if t.Kind != ir.KindNativeObject || !defaultConstructible(t) {
		return
	}
	w.blank()
	w.openf("public %s() : base(QObjectBase.CreateInstance(LazyInitializeMetaObject()))", p.className)
	w.close()
}

func defaultConstructible(t *ir.TypeDescriptor) bool {
	if t.Uncreatable {
		return false
	}
	if len(t.Constructors) == 0 {
		return true
	}
	for _, c := range t.Constructors {
		if c.Arity() == 0 {
			return true
		}
	}
	return false
}

// emitRegistry writes the registry mapping runtime type identity to proxy
// constructors. Value types are never passed by pointer and are not
// registered.
func (e *emitter) emitRegistry(w *writer) {
	w.open("namespace " + e.cfg.InteropNamespace)
	w.open("public class GeneratedTypesRegistry")
	w.open("static GeneratedTypesRegistry()")
	for _, p := range e.plans {
		if !e.emitted[p.t.ID] {
			continue
		}
		factory := fmt.Sprintf("handle => new %s(handle)", p.qualified)
		switch p.t.Kind {
		case ir.KindDocumentObject:
			w.linef("QObjectTypeRegistry.RegisterQmlFile(%s, %s, %s);",
				literal(e.sourceURL(p.t)), nullableLiteral(p.t.InlineName), factory)
		case ir.KindNativeObject:
			w.linef("QObjectTypeRegistry.RegisterMetaClass(%s, %s);", literal(metaClassName(p.t)), factory)
		}
	}
	w.close()
	w.close()
	w.close()
}
