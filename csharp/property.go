package csharp

import (
	"fmt"

	"github.com/broady/qmlgen/ir"
)

func propertyIndexField(name string) string { return "_" + name + "Index" }

// emitProperty writes the index field and accessors of p.
func (e *emitter) emitProperty(w *writer, t *ir.TypeDescriptor, p *ir.PropertyDescriptor) error {
	mp, err := e.mapper.Map(p.Type)
	if err != nil {
		return err
	}
	idx := propertyIndexField(p.Name)
	name := e.namer.MemberName(p.Name)

	if mp.List {
		if t.Kind == ir.KindNativeValueType {
			return fmt.Errorf("%w: list property on value type", ErrUnmappable)
		}
		w.linef("private static int %s = -1;", idx)
		w.openf("public %s %s", mp.Surface, name)
		w.linef("get => GetPropertyQmlList<%s>(%s);", mp.Element, idx)
		w.close()
		return nil
	}

	get, set, err := propertyAccessors(mp, idx)
	if err != nil {
		return err
	}
	w.linef("private static int %s = -1;", idx)
	w.openf("public %s %s", mp.Surface, name)
	if p.Readable || !p.Writable {
		w.linef("get => %s;", get)
	}
	if p.Writable {
		w.linef("set => %s;", set)
	}
	w.close()
	return nil
}

// propertyAccessors returns the getter and setter expressions for a
// property of the given mapping.
func propertyAccessors(mp Mapping, idx string) (get, set string, err error) {
	switch mp.Handling {
	case HandlingPrimitive:
		return fmt.Sprintf("GetPropertyPrimitive<%s>(%s)", mp.Surface, idx),
			fmt.Sprintf("SetPropertyPrimitive<%s>(%s, value)", mp.Surface, idx), nil
	case HandlingString:
		return fmt.Sprintf("GetProperty%s(%s)", mp.Interop, idx),
			fmt.Sprintf("SetProperty%s(%s, value)", mp.Interop, idx), nil
	case HandlingValueType:
		if mp.Gadget {
			return fmt.Sprintf("GetPropertyQGadget<%s>(%s)", mp.Element, idx),
				fmt.Sprintf("SetPropertyQGadget<%s>(%s, value)", mp.Element, idx), nil
		}
		return fmt.Sprintf("GetProperty%s(%s)", mp.Interop, idx),
			fmt.Sprintf("SetProperty%s(%s, value)", mp.Interop, idx), nil
	case HandlingObject:
		return fmt.Sprintf("GetPropertyQObject<%s>(%s)", mp.Element, idx),
			fmt.Sprintf("SetPropertyQObject(%s, value)", idx), nil
	default:
		return "", "", fmt.Errorf("%w: property of %s handling", ErrUnmappable, mp.Handling)
	}
}
