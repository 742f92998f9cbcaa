package ir

// BuiltInKind identifies a built-in (non-reflected) type known to both the
// native and the managed side. The set is closed.
type BuiltInKind int

const (
	BuiltInBool BuiltInKind = iota
	BuiltInInt32
	BuiltInUInt32
	BuiltInInt64
	BuiltInUInt64
	BuiltInDouble
	BuiltInChar // single UTF-16 code unit
	BuiltInString
	BuiltInByteArray
	BuiltInDateTime
	BuiltInDate
	BuiltInTime
	BuiltInColor
	BuiltInSize
	BuiltInSizeFloat
	BuiltInRect
	BuiltInRectFloat
	BuiltInPoint
	BuiltInPointFloat
	BuiltInURL
	BuiltInOpaquePointer
	BuiltInCompletion // async-completion marker

	builtInCount
)

type builtInInfo struct {
	name       string // snapshot spelling
	nativeName string // native type name used in signatures
	blittable  bool
	destructor bool
}

var builtIns = [builtInCount]builtInInfo{
	BuiltInBool:          {"bool", "bool", true, false},
	BuiltInInt32:         {"int32", "int", true, false},
	BuiltInUInt32:        {"uint32", "uint", true, false},
	BuiltInInt64:         {"int64", "qlonglong", true, false},
	BuiltInUInt64:        {"uint64", "qulonglong", true, false},
	BuiltInDouble:        {"double", "double", true, false},
	BuiltInChar:          {"char", "QChar", true, false},
	BuiltInString:        {"string", "QString", false, true},
	BuiltInByteArray:     {"bytearray", "QByteArray", false, true},
	BuiltInDateTime:      {"datetime", "QDateTime", false, true},
	BuiltInDate:          {"date", "QDate", false, false},
	BuiltInTime:          {"time", "QTime", false, false},
	BuiltInColor:         {"color", "QColor", false, false},
	BuiltInSize:          {"size", "QSize", false, false},
	BuiltInSizeFloat:     {"sizef", "QSizeF", false, false},
	BuiltInRect:          {"rect", "QRect", false, false},
	BuiltInRectFloat:     {"rectf", "QRectF", false, false},
	BuiltInPoint:         {"point", "QPoint", false, false},
	BuiltInPointFloat:    {"pointf", "QPointF", false, false},
	BuiltInURL:           {"url", "QUrl", false, true},
	BuiltInOpaquePointer: {"pointer", "void*", true, false},
	BuiltInCompletion:    {"completion", "QObjectCompletionSource*", false, false},
}

// Valid reports whether k is a member of the closed built-in set.
func (k BuiltInKind) Valid() bool { return k >= 0 && k < builtInCount }

// String returns the snapshot spelling of the kind.
func (k BuiltInKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return builtIns[k].name
}

// NativeName returns the native type name as it appears in member signatures.
func (k BuiltInKind) NativeName() string {
	if !k.Valid() {
		return ""
	}
	return builtIns[k].nativeName
}

// IsBlittable reports whether values of this kind have the same binary layout
// on both sides of the boundary and can be passed by raw pointer.
func (k BuiltInKind) IsBlittable() bool {
	return k.Valid() && builtIns[k].blittable
}

// HasNativeDestructor reports whether a native instance of this kind owns
// resources that must be released with the paired destructor.
func (k BuiltInKind) HasNativeDestructor() bool {
	return k.Valid() && builtIns[k].destructor
}

// IsIntegral reports whether k is one of the integer kinds that may back an
// enum.
func (k BuiltInKind) IsIntegral() bool {
	switch k {
	case BuiltInInt32, BuiltInUInt32, BuiltInInt64, BuiltInUInt64:
		return true
	}
	return false
}

// BuiltInKinds returns every built-in kind in declaration order.
func BuiltInKinds() []BuiltInKind {
	kinds := make([]BuiltInKind, 0, builtInCount)
	for k := BuiltInKind(0); k < builtInCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseBuiltInKind returns the kind with the given snapshot spelling.
func ParseBuiltInKind(s string) (BuiltInKind, bool) {
	for k := BuiltInKind(0); k < builtInCount; k++ {
		if builtIns[k].name == s {
			return k, true
		}
	}
	return 0, false
}
