package csharp

import (
	"fmt"

	"github.com/broady/qmlgen/ir"
)

// Handling is the marshalling strategy for a value crossing the boundary.
type Handling int

const (
	HandlingNone      Handling = iota // void
	HandlingPrimitive                 // blittable, passed by raw pointer
	HandlingValueType                 // constructed into caller-provided storage
	HandlingString                    // native string converted to a managed string
	HandlingObject                    // native handle wrapped in a proxy
	HandlingAsync                     // async-completion pair
)

// String returns the string representation of the handling.
func (h Handling) String() string {
	switch h {
	case HandlingNone:
		return "None"
	case HandlingPrimitive:
		return "Primitive"
	case HandlingValueType:
		return "ValueType"
	case HandlingString:
		return "String"
	case HandlingObject:
		return "Object"
	case HandlingAsync:
		return "Async"
	default:
		return "Unknown"
	}
}

// Mapping is the marshalling decision for one type reference.
type Mapping struct {
	// Surface is the managed type exposed to callers.
	Surface string

	// Native is the managed spelling of the transport value written to an
	// argument slot: the primitive type, or System.IntPtr for handles.
	Native string

	Handling Handling

	// Interop is the prefix of the QtBuiltInTypeInterop entry points
	// (QString, QColor, ...) for built-in value types.
	Interop string

	// Destructor reports whether a constructed native value must be released.
	Destructor bool

	// Gadget is set for references to native value types.
	Gadget bool

	// List is set for homogeneous lists of objects.
	List bool

	// Element is the qualified proxy name of the referenced type for object,
	// gadget and list mappings.
	Element string

	// BuiltIn is the built-in kind when IsBuiltIn is set.
	BuiltIn   ir.BuiltInKind
	IsBuiltIn bool
}

type builtInMapping struct {
	surface string
	native  string
	interop string
}

var builtInMappings = map[ir.BuiltInKind]builtInMapping{
	ir.BuiltInBool:          {"bool", "bool", ""},
	ir.BuiltInInt32:         {"int", "int", ""},
	ir.BuiltInUInt32:        {"uint", "uint", ""},
	ir.BuiltInInt64:         {"long", "long", ""},
	ir.BuiltInUInt64:        {"ulong", "ulong", ""},
	ir.BuiltInDouble:        {"double", "double", ""},
	ir.BuiltInChar:          {"char", "char", ""},
	ir.BuiltInOpaquePointer: {"System.IntPtr", "System.IntPtr", ""},
	ir.BuiltInString:        {"string", "", "QString"},
	ir.BuiltInByteArray:     {"byte[]", "", "QByteArray"},
	ir.BuiltInDateTime:      {"System.DateTime", "", "QDateTime"},
	ir.BuiltInDate:          {"System.DateTime", "", "QDate"},
	ir.BuiltInTime:          {"System.DateTime", "", "QTime"},
	ir.BuiltInColor:         {"System.Drawing.Color", "", "QColor"},
	ir.BuiltInSize:          {"System.Drawing.Size", "", "QSize"},
	ir.BuiltInSizeFloat:     {"System.Drawing.SizeF", "", "QSizeF"},
	ir.BuiltInRect:          {"System.Drawing.Rectangle", "", "QRect"},
	ir.BuiltInRectFloat:     {"System.Drawing.RectangleF", "", "QRectF"},
	ir.BuiltInPoint:         {"System.Drawing.Point", "", "QPoint"},
	ir.BuiltInPointFloat:    {"System.Drawing.PointF", "", "QPointF"},
	ir.BuiltInURL:           {"string", "", "QUrl"},
	ir.BuiltInCompletion:    {"System.Threading.Tasks.Task<IntPtr>", "", ""},
}

// enumBacking is the C# underlying type of an enum by backing kind.
var enumBacking = map[ir.BuiltInKind]string{
	ir.BuiltInInt32:  "int",
	ir.BuiltInUInt32: "uint",
	ir.BuiltInInt64:  "long",
	ir.BuiltInUInt64: "ulong",
}

// TypeMapper maps type references to marshalling decisions. The decision
// depends only on the reference, never on whether it is a parameter or a
// return value.
type TypeMapper struct {
	g     *ir.Graph
	namer *Namer
}

// NewTypeMapper returns a mapper resolving names through namer.
func NewTypeMapper(g *ir.Graph, namer *Namer) *TypeMapper {
	return &TypeMapper{g: g, namer: namer}
}

// Map returns the mapping for ref. Unknown references wrap ErrUnmappable.
func (m *TypeMapper) Map(ref ir.TypeRef) (Mapping, error) {
	switch r := ref.(type) {
	case nil, ir.VoidRef:
		return Mapping{Surface: "void", Handling: HandlingNone}, nil

	case ir.BuiltInRef:
		return m.mapBuiltIn(r.BuiltIn)

	case ir.EnumRef:
		e, ok := m.g.ResolveEnum(r)
		if !ok {
			return Mapping{}, fmt.Errorf("%w: enum %s not declared on %s", ErrUnmappable, r.Name, r.Type)
		}
		name := m.namer.EnumQualifiedName(e)
		return Mapping{Surface: name, Native: name, Handling: HandlingPrimitive}, nil

	case ir.ObjectRef:
		if !m.g.HasType(r.Type) {
			return Mapping{}, fmt.Errorf("%w: unknown %s", ErrUnmappable, r.Type)
		}
		t := m.g.Type(r.Type)
		name := m.namer.QualifiedName(t)
		if t.Kind == ir.KindNativeValueType {
			return Mapping{Surface: name, Handling: HandlingValueType, Gadget: true, Element: name}, nil
		}
		return Mapping{Surface: name, Native: "System.IntPtr", Handling: HandlingObject, Element: name}, nil

	case ir.ListRef:
		if !m.g.HasType(r.Element) {
			return Mapping{}, fmt.Errorf("%w: unknown list element %s", ErrUnmappable, r.Element)
		}
		t := m.g.Type(r.Element)
		name := m.namer.QualifiedName(t)
		if t.Kind == ir.KindNativeValueType {
			return Mapping{}, fmt.Errorf("%w: list of value type %s", ErrUnmappable, t.DisplayName())
		}
		return Mapping{
			Surface:  "QmlList<" + name + ">",
			Native:   "System.IntPtr",
			Handling: HandlingObject,
			List:     true,
			Element:  name,
		}, nil

	default:
		return Mapping{}, fmt.Errorf("%w: type reference kind %s", ErrUnmappable, ref.Kind())
	}
}

func (m *TypeMapper) mapBuiltIn(k ir.BuiltInKind) (Mapping, error) {
	bm, ok := builtInMappings[k]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: built-in kind %d", ErrUnmappable, int(k))
	}
	mp := Mapping{
		Surface:    bm.surface,
		Native:     bm.native,
		Interop:    bm.interop,
		Destructor: k.HasNativeDestructor(),
		BuiltIn:    k,
		IsBuiltIn:  true,
	}
	switch {
	case k == ir.BuiltInCompletion:
		mp.Handling = HandlingAsync
	case k.IsBlittable():
		mp.Handling = HandlingPrimitive
	case k == ir.BuiltInString:
		mp.Handling = HandlingString
	default:
		mp.Handling = HandlingValueType
	}
	return mp, nil
}

// ctorArgs returns the arguments passed after the storage pointer to the
// QtBuiltInTypeInterop constructor of k for the managed value expr.
func ctorArgs(k ir.BuiltInKind, expr string) (string, error) {
	switch k {
	case ir.BuiltInString, ir.BuiltInByteArray, ir.BuiltInURL:
		return fmt.Sprintf("%s, %s?.Length ?? 0", expr, expr), nil
	case ir.BuiltInDateTime, ir.BuiltInDate, ir.BuiltInTime:
		return expr + ".Ticks", nil
	case ir.BuiltInColor:
		return expr + ".ToArgb()", nil
	case ir.BuiltInSize, ir.BuiltInSizeFloat:
		return fmt.Sprintf("%[1]s.Width, %[1]s.Height", expr), nil
	case ir.BuiltInRect, ir.BuiltInRectFloat:
		return fmt.Sprintf("%[1]s.X, %[1]s.Y, %[1]s.Width, %[1]s.Height", expr), nil
	case ir.BuiltInPoint, ir.BuiltInPointFloat:
		return fmt.Sprintf("%[1]s.X, %[1]s.Y", expr), nil
	default:
		return "", fmt.Errorf("%w: built-in %s has no native constructor", ErrUnmappable, k)
	}
}

// readExpr converts the native value at ptr (a void* expression) into its
// managed representation. Signal thunks and method returns share it.
func readExpr(mp Mapping, ptr string) (string, error) {
	switch mp.Handling {
	case HandlingPrimitive:
		return fmt.Sprintf("*(%s*)%s", mp.Native, ptr), nil
	case HandlingString:
		return fmt.Sprintf("QtBuiltInTypeInterop.QString_read(%s)", ptr), nil
	case HandlingValueType:
		if mp.Gadget {
			return "", fmt.Errorf("%w: value type %s passed by value", ErrUnsupported, mp.Surface)
		}
		return fmt.Sprintf("QtBuiltInTypeInterop.%s_read(%s)", mp.Interop, ptr), nil
	case HandlingObject:
		if mp.List {
			return "", fmt.Errorf("%w: list %s passed by value", ErrUnsupported, mp.Surface)
		}
		return fmt.Sprintf("QObjectBase.GetQObjectProxy<%s>(*(System.IntPtr*)%s)", mp.Element, ptr), nil
	default:
		return "", fmt.Errorf("%w: %s value cannot be read", ErrUnsupported, mp.Handling)
	}
}
