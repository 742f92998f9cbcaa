package ir

import "strings"

// NumberOverloads assigns OverloadIndex across ms: methods whose name is
// unique get NoOverload, methods sharing a name are numbered 0, 1, ... in
// declaration order.
func NumberOverloads(ms []MethodDescriptor) {
	count := make(map[string]int, len(ms))
	for _, m := range ms {
		count[m.Name]++
	}
	next := make(map[string]int, len(ms))
	for i := range ms {
		name := ms[i].Name
		if count[name] < 2 {
			ms[i].OverloadIndex = NoOverload
			continue
		}
		ms[i].OverloadIndex = next[name]
		next[name]++
	}
}

// NativeTypeName returns the native spelling of ref as it appears in a
// normalized member signature.
func (g *Graph) NativeTypeName(ref TypeRef) string {
	switch r := ref.(type) {
	case BuiltInRef:
		return r.BuiltIn.NativeName()
	case ObjectRef:
		t := g.Type(r.Type)
		if t.Kind == KindNativeValueType {
			return t.metaName()
		}
		return t.metaName() + "*"
	case EnumRef:
		return g.Type(r.Type).metaName() + "::" + r.Name
	case ListRef:
		return "QQmlListProperty<" + g.Type(r.Element).metaName() + ">"
	default:
		return "void"
	}
}

func (t *TypeDescriptor) metaName() string {
	if t.MetaClassName != "" {
		return t.MetaClassName
	}
	return t.Name
}

// DeriveSignature builds the normalized lookup signature of m from its
// parameter types, e.g. "load(QString,int)".
func (g *Graph) DeriveSignature(m *MethodDescriptor) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(g.NativeTypeName(p.Type))
	}
	b.WriteByte(')')
	return b.String()
}

// Arity returns the number of declared parameters.
func (m *MethodDescriptor) Arity() int { return len(m.Params) }

// HasTrailingCompletion reports whether m returns void and its last declared
// parameter is the async-completion marker.
func (m *MethodDescriptor) HasTrailingCompletion() bool {
	return IsVoid(m.Return) && len(m.Params) > 0 &&
		IsBuiltIn(m.Params[len(m.Params)-1].Type, BuiltInCompletion)
}
