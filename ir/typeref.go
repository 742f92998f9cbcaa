package ir

// RefKind identifies the variant of a TypeRef.
type RefKind int

const (
	RefVoid    RefKind = iota // no value
	RefObject                 // reference to a reflected type
	RefEnum                   // enum declared on a reflected type
	RefBuiltIn                // built-in type
	RefList                   // homogeneous list of reflected objects
)

// String returns the string representation of the ref kind.
func (k RefKind) String() string {
	switch k {
	case RefVoid:
		return "Void"
	case RefObject:
		return "Object"
	case RefEnum:
		return "Enum"
	case RefBuiltIn:
		return "BuiltIn"
	case RefList:
		return "List"
	default:
		return "Unknown"
	}
}

// TypeRef is the type of a property, parameter or return value.
// It is a closed sum type: consumers switch over the concrete variants.
type TypeRef interface {
	// Kind returns the variant for type switching.
	Kind() RefKind

	// Ensure only types in this package can implement TypeRef.
	sealed()
}

// VoidRef is the absence of a value (method return type only).
type VoidRef struct{}

// ObjectRef references a reflected type.
type ObjectRef struct {
	Type TypeID
}

// EnumRef references an enum declared on a reflected type by its local name.
type EnumRef struct {
	Type TypeID
	Name string
}

// BuiltInRef references a built-in type.
type BuiltInRef struct {
	BuiltIn BuiltInKind
}

// ListRef is a homogeneous list of reflected objects.
type ListRef struct {
	Element TypeID
}

func (VoidRef) Kind() RefKind    { return RefVoid }
func (ObjectRef) Kind() RefKind  { return RefObject }
func (EnumRef) Kind() RefKind    { return RefEnum }
func (BuiltInRef) Kind() RefKind { return RefBuiltIn }
func (ListRef) Kind() RefKind    { return RefList }

func (VoidRef) sealed()    {}
func (ObjectRef) sealed()  {}
func (EnumRef) sealed()    {}
func (BuiltInRef) sealed() {}
func (ListRef) sealed()    {}

// Convenience constructors.

// Void returns the void ref.
func Void() TypeRef { return VoidRef{} }

// Object returns a reference to the type id.
func Object(id TypeID) TypeRef { return ObjectRef{Type: id} }

// Enum returns a reference to the enum named name declared on owner.
func Enum(owner TypeID, name string) TypeRef { return EnumRef{Type: owner, Name: name} }

// BuiltIn returns a ref to the built-in kind.
func BuiltIn(k BuiltInKind) TypeRef { return BuiltInRef{BuiltIn: k} }

// List returns a list-of-objects ref.
func List(elem TypeID) TypeRef { return ListRef{Element: elem} }

// IsVoid reports whether ref is nil or the void ref.
func IsVoid(ref TypeRef) bool {
	return ref == nil || ref.Kind() == RefVoid
}

// IsBuiltIn reports whether ref is the built-in kind k.
func IsBuiltIn(ref TypeRef, k BuiltInKind) bool {
	b, ok := ref.(BuiltInRef)
	return ok && b.BuiltIn == k
}
