package ir

// TypeKind identifies the category of an exposed type.
type TypeKind int

const (
	KindNativeObject    TypeKind = iota // native object type, passed by handle
	KindNativeValueType                 // native value type, passed by value
	KindDocumentObject                  // object type derived from a declarative document
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindNativeObject:
		return "NativeObject"
	case KindNativeValueType:
		return "NativeValueType"
	case KindDocumentObject:
		return "DocumentObject"
	default:
		return "Unknown"
	}
}

// NoVersion marks an absent module version.
const NoVersion = -1

// TypeDescriptor describes one exposed type.
type TypeDescriptor struct {
	// ID is the type's identity within its graph.
	ID TypeID

	Kind TypeKind

	// Name is the declared type name. Document types are named after their
	// document; inline components share the enclosing document's name.
	Name string

	// MetaClassName is the native class name used for lookups.
	MetaClassName string

	// Module is the declaring module, empty for types loaded directly from
	// a document or not registered with a module.
	Module       string
	MajorVersion int
	MinorVersion int

	// Uncreatable is set when the module forbids creating instances. Such
	// types get no parameterless constructor.
	Uncreatable bool

	// SourceURL identifies the declarative document (document types only).
	SourceURL string

	// Enclosing is the type whose document declares this inline component.
	// The enclosing type owns the nesting, not the lifetime.
	Enclosing TypeID

	// InlineName is the inline component's name when Enclosing is set.
	InlineName string

	// Base is the single-inheritance parent, NoType if none.
	Base TypeID

	Properties   []PropertyDescriptor
	Methods      []MethodDescriptor
	Signals      []MethodDescriptor
	Constructors []MethodDescriptor
	Enums        []EnumID
}

// IsInline reports whether t is an inline component of another type.
func (t *TypeDescriptor) IsInline() bool { return t.Enclosing.Valid() }

// HasModuleVersion reports whether t was registered through a module with a
// known version.
func (t *TypeDescriptor) HasModuleVersion() bool {
	return t.Module != "" && t.MajorVersion != NoVersion
}

// DisplayName returns a name for diagnostics.
func (t *TypeDescriptor) DisplayName() string {
	if t.IsInline() {
		return t.Name + "#" + t.InlineName
	}
	return t.Name
}

// MemberRole disambiguates methods and signals, which share a shape.
type MemberRole int

const (
	RoleMethod MemberRole = iota
	RoleSignal
	RoleConstructor
)

// String returns the string representation of the role.
func (r MemberRole) String() string {
	switch r {
	case RoleMethod:
		return "method"
	case RoleSignal:
		return "signal"
	case RoleConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// NoOverload marks a method whose name is unique on its type.
const NoOverload = -1

// ParameterDescriptor is one method or signal parameter.
type ParameterDescriptor struct {
	// Name may be empty; generators synthesize argN.
	Name string
	Type TypeRef
}

// MethodDescriptor describes a method, signal or constructor.
type MethodDescriptor struct {
	Name string
	Role MemberRole

	// Signature is the native lookup signature, e.g. "changed(int)".
	Signature string

	// OverloadIndex is NoOverload if the name is unique on the type, else the
	// ordinal among the methods sharing the name.
	OverloadIndex int

	Params []ParameterDescriptor

	// Return is VoidRef for signals and constructors.
	Return TypeRef
}

// IsOverloaded reports whether m shares its name with other methods.
func (m *MethodDescriptor) IsOverloaded() bool { return m.OverloadIndex != NoOverload }

// PropertyDescriptor describes a property.
type PropertyDescriptor struct {
	Name     string
	Type     TypeRef
	Readable bool
	Writable bool
}

// EnumDescriptor describes an enum declared on a type.
type EnumDescriptor struct {
	ID EnumID

	// Owner is the type declaring the enum.
	Owner TypeID

	Name    string
	IsFlags bool

	// Backing is the integer kind of the enum's values.
	Backing BuiltInKind

	Values []EnumValue
}

// EnumValue is a single enum member.
type EnumValue struct {
	Name  string
	Value int64
}
