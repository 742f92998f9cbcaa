package csharp

import (
	"strconv"

	"github.com/broady/qmlgen/ir"
)

// emitEnum writes e as a nested C# enum. The underlying type is spelled out
// unless it is int.
func (e *emitter) emitEnum(w *writer, en *ir.EnumDescriptor) {
	if en.IsFlags {
		w.line("[Flags]")
	}
	header := "public enum " + e.namer.EnumName(en)
	if en.Backing != ir.BuiltInInt32 {
		header += " : " + enumBacking[en.Backing]
	}
	w.open(header)
	for _, v := range en.Values {
		w.linef("%s = %s,", Sanitize(v.Name), enumValue(en.Backing, v.Value))
	}
	w.close()
}

// enumValue formats v for the backing kind. Unsigned values that were
// stored as negative int64 are reinterpreted.
func enumValue(backing ir.BuiltInKind, v int64) string {
	switch backing {
	case ir.BuiltInUInt32:
		return strconv.FormatUint(uint64(uint32(v)), 10)
	case ir.BuiltInUInt64:
		return strconv.FormatUint(uint64(v), 10)
	case ir.BuiltInInt32:
		return strconv.FormatInt(int64(int32(v)), 10)
	default:
		return strconv.FormatInt(v, 10)
	}
}
