package csharp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/broady/qmlgen/ir"
)

// Namer resolves the C# names of types, enums and members for one
// generation run. Enum names are memoized per enum so every reference to an
// enum agrees with its declaration.
type Namer struct {
	g                 *ir.Graph
	pascalCase        bool
	documentSuffix    string
	fallbackNamespace string

	enumNames map[ir.EnumID]string
	warnings  []ir.Warning
}

// NewNamer returns a Namer for g configured by cfg.
func NewNamer(g *ir.Graph, cfg Config) *Namer {
	return &Namer{
		g:                 g,
		pascalCase:        cfg.PascalCase,
		documentSuffix:    cfg.DocumentClassSuffix,
		fallbackNamespace: cfg.FallbackNamespace,
		enumNames:         make(map[ir.EnumID]string),
	}
}

// Capitalize upper-cases the first letter of name.
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	return inflect.Capitalize(name)
}

// Pascalify capitalizes name when the PascalCase option is set.
func (n *Namer) Pascalify(name string) string {
	if !n.pascalCase {
		return name
	}
	return Capitalize(name)
}

// MemberName returns the escaped C# name of a property or method.
func (n *Namer) MemberName(name string) string {
	return Sanitize(n.Pascalify(name))
}

// EventName returns the event name of a signal, e.g. "OnChanged".
func (n *Namer) EventName(signal string) string {
	return Sanitize("On" + Capitalize(signal))
}

// Namespace returns the namespace a top-level type is declared in. Inline
// types live in the namespace of their outermost enclosing type.
func (n *Namer) Namespace(t *ir.TypeDescriptor) string {
	t = n.outermost(t)
	if t.Module != "" {
		return t.Module
	}
	return n.fallbackNamespace
}

func (n *Namer) outermost(t *ir.TypeDescriptor) *ir.TypeDescriptor {
	for t.IsInline() {
		t = n.g.Type(t.Enclosing)
	}
	return t
}

// ClassName returns the unqualified class name of t.
func (n *Namer) ClassName(t *ir.TypeDescriptor) string {
	if t.IsInline() {
		return Sanitize(t.InlineName)
	}
	name := t.Name
	if t.Kind == ir.KindDocumentObject {
		name += n.documentSuffix
	}
	return Sanitize(name)
}

// QualifiedName returns the fully qualified class name of t. Inline types
// are qualified through their enclosing type.
func (n *Namer) QualifiedName(t *ir.TypeDescriptor) string {
	if t.IsInline() {
		return n.QualifiedName(n.g.Type(t.Enclosing)) + "." + n.ClassName(t)
	}
	return n.Namespace(t) + "." + n.ClassName(t)
}

// EnumName returns the declared name of e. With PascalCase set, an enum
// whose name clashes with a property or method of its owner is renamed:
// "Status" becomes "Statuses", and a name that is already plural gets an
// "Enum" suffix.
func (n *Namer) EnumName(e *ir.EnumDescriptor) string {
	if name, ok := n.enumNames[e.ID]; ok {
		return name
	}
	name := Sanitize(n.Pascalify(e.Name))
	if n.pascalCase {
		owner := n.g.Type(e.Owner)
		if n.memberNames(owner)[n.Pascalify(e.Name)] {
			renamed := disambiguateEnum(n.Pascalify(e.Name))
			n.warn(ir.Warning{
				Code:     "enum_name_clash",
				Message:  fmt.Sprintf("enum %s clashes with a member of the same name, renamed to %s", e.Name, renamed),
				TypeName: owner.DisplayName(),
				Member:   e.Name,
			})
			name = Sanitize(renamed)
		}
	}
	n.enumNames[e.ID] = name
	return name
}

func disambiguateEnum(name string) string {
	lower := strings.ToLower(name)
	plural := inflect.Pluralize(lower)
	if plural == lower {
		return name + "Enum"
	}
	// Keep the original casing of the shared stem.
	i := 0
	for i < len(lower) && i < len(plural) && lower[i] == plural[i] {
		i++
	}
	return name[:i] + plural[i:]
}

// EnumQualifiedName returns the fully qualified name of e, nested in its
// owner's class.
func (n *Namer) EnumQualifiedName(e *ir.EnumDescriptor) string {
	return n.QualifiedName(n.g.Type(e.Owner)) + "." + n.EnumName(e)
}

// memberNames returns the cased property and method names of t.
func (n *Namer) memberNames(t *ir.TypeDescriptor) map[string]bool {
	names := make(map[string]bool, len(t.Properties)+len(t.Methods))
	for _, p := range t.Properties {
		names[n.Pascalify(p.Name)] = true
	}
	for _, m := range t.Methods {
		names[n.Pascalify(m.Name)] = true
	}
	return names
}

// checkEnumCollisions reports enums of t whose resolved names still collide
// with each other or with a member after disambiguation. Names are left
// unchanged.
func (n *Namer) checkEnumCollisions(t *ir.TypeDescriptor) {
	members := n.memberNames(t)
	seen := make(map[string]string, len(t.Enums))
	for _, id := range t.Enums {
		e := n.g.Enum(id)
		name := n.EnumName(e)
		if prev, ok := seen[name]; ok {
			n.warn(ir.Warning{
				Code:     "enum_name_collision",
				Message:  fmt.Sprintf("enums %s and %s both resolve to %s", prev, e.Name, name),
				TypeName: t.DisplayName(),
				Member:   e.Name,
			})
			continue
		}
		seen[name] = e.Name
		if n.pascalCase && members[name] {
			n.warn(ir.Warning{
				Code:     "enum_name_collision",
				Message:  fmt.Sprintf("enum %s still collides with a member after renaming to %s", e.Name, name),
				TypeName: t.DisplayName(),
				Member:   e.Name,
			})
		}
	}
}

func (n *Namer) warn(w ir.Warning) {
	n.warnings = append(n.warnings, w)
}

// Warnings returns the warnings recorded so far.
func (n *Namer) Warnings() []ir.Warning { return slices.Clone(n.warnings) }
