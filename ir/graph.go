package ir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGraph is returned by Builder.Build when the graph fails
// validation. The individual *ValidationError values are joined under it.
var ErrInvalidGraph = errors.New("invalid type graph")

// Graph is an immutable, closed set of types and enums. Types and enums are
// stored in arenas and addressed by TypeID and EnumID.
type Graph struct {
	types []TypeDescriptor
	enums []EnumDescriptor

	// inline lists the inline components of each type in declaration order.
	inline map[TypeID][]TypeID

	// Warnings contains non-fatal issues encountered while building the graph.
	Warnings []Warning
}

// Len returns the number of types in the graph.
func (g *Graph) Len() int { return len(g.types) }

// Type returns the descriptor for id. It panics if id is out of range.
func (g *Graph) Type(id TypeID) *TypeDescriptor { return &g.types[id] }

// Enum returns the descriptor for id. It panics if id is out of range.
func (g *Graph) Enum(id EnumID) *EnumDescriptor { return &g.enums[id] }

// HasType reports whether id addresses a type of g.
func (g *Graph) HasType(id TypeID) bool { return id >= 0 && int(id) < len(g.types) }

// Types returns all type descriptors in ID order.
func (g *Graph) Types() []*TypeDescriptor {
	out := make([]*TypeDescriptor, len(g.types))
	for i := range g.types {
		out[i] = &g.types[i]
	}
	return out
}

// Enums returns all enum descriptors in ID order.
func (g *Graph) Enums() []*EnumDescriptor {
	out := make([]*EnumDescriptor, len(g.enums))
	for i := range g.enums {
		out[i] = &g.enums[i]
	}
	return out
}

// InlineComponents returns the inline components declared by id.
func (g *Graph) InlineComponents(id TypeID) []TypeID { return g.inline[id] }

// LookupEnum resolves an enum by its local name on owner, falling back to
// owner's base chain.
func (g *Graph) LookupEnum(owner TypeID, name string) (*EnumDescriptor, bool) {
	seen := make(map[TypeID]bool)
	for id := owner; g.HasType(id) && !seen[id]; id = g.types[id].Base {
		seen[id] = true
		for _, eid := range g.types[id].Enums {
			if int(eid) < len(g.enums) && g.enums[eid].Name == name {
				return &g.enums[eid], true
			}
		}
	}
	return nil, false
}

// ResolveEnum resolves an EnumRef.
func (g *Graph) ResolveEnum(ref EnumRef) (*EnumDescriptor, bool) {
	return g.LookupEnum(ref.Type, ref.Name)
}

// Builder accumulates descriptors and produces a validated Graph.
// A Builder must not be used after Build.
type Builder struct {
	g *Graph
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: &Graph{}}
}

// AddType appends t to the graph and returns its assigned ID.
// Optional links (Enclosing, Base) must be set to NoType when absent.
func (b *Builder) AddType(t TypeDescriptor) TypeID {
	id := TypeID(len(b.g.types))
	t.ID = id
	b.g.types = append(b.g.types, t)
	return id
}

// Type returns the mutable descriptor for id while the graph is being built.
func (b *Builder) Type(id TypeID) *TypeDescriptor { return &b.g.types[id] }

// Len returns the number of types added so far.
func (b *Builder) Len() int { return len(b.g.types) }

// AddEnum appends e to the graph, attaches it to its owner and returns its ID.
func (b *Builder) AddEnum(e EnumDescriptor) EnumID {
	id := EnumID(len(b.g.enums))
	e.ID = id
	b.g.enums = append(b.g.enums, e)
	if b.g.HasType(e.Owner) {
		owner := &b.g.types[e.Owner]
		owner.Enums = append(owner.Enums, id)
	}
	return id
}

// AddWarning records a non-fatal issue on the graph.
func (b *Builder) AddWarning(w Warning) {
	b.g.Warnings = append(b.g.Warnings, w)
}

// Build validates the accumulated graph, fills in derived signatures and
// returns it. Validation failures are joined and wrapped in ErrInvalidGraph.
func (b *Builder) Build() (*Graph, error) {
	g := b.g
	if errs := g.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGraph, errors.Join(errs...))
	}
	for i := range g.types {
		t := &g.types[i]
		g.fillSignatures(t.Methods)
		g.fillSignatures(t.Signals)
		g.fillSignatures(t.Constructors)
	}
	g.inline = make(map[TypeID][]TypeID)
	for i := range g.types {
		if t := &g.types[i]; t.IsInline() {
			g.inline[t.Enclosing] = append(g.inline[t.Enclosing], t.ID)
		}
	}
	b.g = nil
	return g, nil
}

func (g *Graph) fillSignatures(ms []MethodDescriptor) {
	for i := range ms {
		if ms[i].Signature == "" {
			ms[i].Signature = g.DeriveSignature(&ms[i])
		}
	}
}

// ValidationError represents a graph validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the graph for structural issues.
// Returns all validation errors found (not just the first).
func (g *Graph) Validate() []error {
	var errs []*ValidationError

	for i := range g.types {
		t := &g.types[i]
		if t.ID != TypeID(i) {
			errs = append(errs, &ValidationError{
				Code:    "invalid_type_id",
				Message: fmt.Sprintf("type %s stored at index %d has id %d", t.DisplayName(), i, t.ID),
			})
		}
		if t.Name == "" {
			errs = append(errs, &ValidationError{
				Code:    "missing_type_name",
				Message: "type " + t.ID.String() + " has no name",
			})
		}
		if t.Enclosing.Valid() {
			if !g.HasType(t.Enclosing) {
				errs = append(errs, &ValidationError{
					Code:    "missing_enclosing_type",
					Message: "inline component " + t.DisplayName() + " references enclosing type " + t.Enclosing.String() + " which is not in the graph",
				})
			}
			if t.InlineName == "" {
				errs = append(errs, &ValidationError{
					Code:    "missing_inline_name",
					Message: "inline component of " + t.Enclosing.String() + " has no inline name",
				})
			}
		} else if t.Enclosing != NoType {
			errs = append(errs, &ValidationError{
				Code:    "missing_enclosing_type",
				Message: "type " + t.DisplayName() + " has invalid enclosing link " + t.Enclosing.String(),
			})
		}
		if t.Base.Valid() && !g.HasType(t.Base) {
			errs = append(errs, &ValidationError{
				Code:    "missing_base_type",
				Message: "type " + t.DisplayName() + " extends unknown type " + t.Base.String(),
			})
		}

		for _, p := range t.Properties {
			ctx := "property " + t.DisplayName() + "." + p.Name
			if IsVoid(p.Type) {
				errs = append(errs, &ValidationError{
					Code:    "void_property",
					Message: ctx + " has no type",
				})
				continue
			}
			errs = append(errs, g.validateRef(p.Type, ctx)...)
		}
		errs = append(errs, g.validateMethods(t, t.Methods)...)
		errs = append(errs, g.validateMethods(t, t.Signals)...)
		errs = append(errs, g.validateMethods(t, t.Constructors)...)

		enumNames := make(map[string]bool)
		for _, eid := range t.Enums {
			if int(eid) < 0 || int(eid) >= len(g.enums) {
				errs = append(errs, &ValidationError{
					Code:    "missing_enum",
					Message: "type " + t.DisplayName() + " references unknown enum " + eid.String(),
				})
				continue
			}
			name := g.enums[eid].Name
			if enumNames[name] {
				errs = append(errs, &ValidationError{
					Code:    "duplicate_enum",
					Message: "duplicate enum name on type " + t.DisplayName() + ": " + name,
				})
			}
			enumNames[name] = true
		}
	}

	for i := range g.enums {
		e := &g.enums[i]
		if !g.HasType(e.Owner) {
			errs = append(errs, &ValidationError{
				Code:    "missing_enum_owner",
				Message: "enum " + e.Name + " references unknown owner " + e.Owner.String(),
			})
		}
		if !e.Backing.IsIntegral() {
			errs = append(errs, &ValidationError{
				Code:    "invalid_enum_backing",
				Message: "enum " + e.Name + " has non-integral backing type " + e.Backing.String(),
			})
		}
	}

	errs = append(errs, g.detectCycles("circular_enclosing", "circular inline nesting detected: ", func(t *TypeDescriptor) TypeID { return t.Enclosing })...)
	errs = append(errs, g.detectCycles("circular_inheritance", "circular inheritance detected: ", func(t *TypeDescriptor) TypeID { return t.Base })...)

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

func (g *Graph) validateMethods(t *TypeDescriptor, ms []MethodDescriptor) []*ValidationError {
	var errs []*ValidationError
	for _, m := range ms {
		ctx := m.Role.String() + " " + t.DisplayName() + "." + m.Name
		if m.Name == "" && m.Role != RoleConstructor {
			errs = append(errs, &ValidationError{
				Code:    "missing_member_name",
				Message: m.Role.String() + " on type " + t.DisplayName() + " has no name",
			})
		}
		if m.Return != nil && !IsVoid(m.Return) {
			if m.Role != RoleMethod {
				errs = append(errs, &ValidationError{
					Code:    "unexpected_return",
					Message: ctx + " cannot return a value",
				})
			}
			errs = append(errs, g.validateRef(m.Return, ctx+" return")...)
		}
		for i, p := range m.Params {
			pctx := fmt.Sprintf("%s parameter %d", ctx, i)
			if IsVoid(p.Type) {
				errs = append(errs, &ValidationError{
					Code:    "void_parameter",
					Message: pctx + " has no type",
				})
				continue
			}
			errs = append(errs, g.validateRef(p.Type, pctx)...)
		}
	}
	return errs
}

// validateRef checks that ref resolves to a built-in kind or a type in g.
func (g *Graph) validateRef(ref TypeRef, context string) []*ValidationError {
	switch r := ref.(type) {
	case VoidRef:
	case BuiltInRef:
		if !r.BuiltIn.Valid() {
			return []*ValidationError{{
				Code:    "unknown_builtin",
				Message: context + " has unknown built-in kind " + fmt.Sprint(int(r.BuiltIn)),
			}}
		}
	case ObjectRef:
		if !g.HasType(r.Type) {
			return []*ValidationError{{
				Code:    "missing_type_reference",
				Message: context + " references unknown type " + r.Type.String(),
			}}
		}
	case ListRef:
		if !g.HasType(r.Element) {
			return []*ValidationError{{
				Code:    "missing_type_reference",
				Message: context + " lists unknown type " + r.Element.String(),
			}}
		}
	case EnumRef:
		if !g.HasType(r.Type) {
			return []*ValidationError{{
				Code:    "missing_type_reference",
				Message: context + " references enum " + r.Name + " on unknown type " + r.Type.String(),
			}}
		}
		if _, ok := g.ResolveEnum(r); !ok {
			return []*ValidationError{{
				Code:    "missing_enum_reference",
				Message: context + " references unknown enum " + g.types[r.Type].DisplayName() + "::" + r.Name,
			}}
		}
	default:
		return []*ValidationError{{
			Code:    "unknown_type_ref",
			Message: fmt.Sprintf("%s has unrecognized type ref %T", context, ref),
		}}
	}
	return nil
}

// detectCycles walks the single-parent relation given by next from every type
// and reports each cycle once.
func (g *Graph) detectCycles(code, prefix string, next func(*TypeDescriptor) TypeID) []*ValidationError {
	var errs []*ValidationError
	// 0 = unvisited, 1 = on the current path, 2 = done
	state := make([]uint8, len(g.types))

	for start := range g.types {
		if state[start] != 0 {
			continue
		}
		var path []TypeID
		id := TypeID(start)
		for g.HasType(id) && state[id] == 0 {
			state[id] = 1
			path = append(path, id)
			id = next(&g.types[id])
		}
		if g.HasType(id) && state[id] == 1 {
			var names []string
			inCycle := false
			for _, p := range path {
				if p == id {
					inCycle = true
				}
				if inCycle {
					names = append(names, g.types[p].DisplayName())
				}
			}
			names = append(names, g.types[id].DisplayName())
			errs = append(errs, &ValidationError{
				Code:    code,
				Message: prefix + strings.Join(names, " -> "),
			})
		}
		for _, p := range path {
			state[p] = 2
		}
	}
	return errs
}
