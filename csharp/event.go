package csharp

import (
	"fmt"
	"strings"

	"github.com/broady/qmlgen/ir"
)

func signalIndexField(name string) string { return "_" + name + "SignalIndex" }

// emitSignal writes the index field, native callback thunk and event of s.
// The thunk reads arguments from args[1..n]; slot 0 is the unused return
// slot.
func (e *emitter) emitSignal(w *writer, s *ir.MethodDescriptor) error {
	types := make([]string, 0, len(s.Params))
	args := make([]string, 0, len(s.Params))
	for i, p := range s.Params {
		mp, err := e.mapper.Map(p.Type)
		if err != nil {
			return err
		}
		read, err := readExpr(mp, fmt.Sprintf("args[%d]", i+1))
		if err != nil {
			return fmt.Errorf("parameter %s: %w", paramName(p, i), err)
		}
		types = append(types, mp.Surface)
		args = append(args, read)
	}

	action := "System.Action"
	if len(types) > 0 {
		action += "<" + strings.Join(types, ", ") + ">"
	}
	idx := signalIndexField(s.Name)
	event := e.namer.EventName(s.Name)
	thunk := event + "Thunk"

	w.linef("private static int %s = -1;", idx)
	w.linef("private static readonly unsafe DelegateSlotCallback %sDelegate = %s;", thunk, thunk)
	w.openf("private static unsafe void %s(GCHandle delegateHandle, void** args)", thunk)
	w.linef("var dlgt = (%s)delegateHandle.Target;", action)
	w.linef("dlgt(%s);", strings.Join(args, ", "))
	w.close()
	w.openf("public event %s %s", action, event)
	w.linef("add => AddSignalHandler(%s, value, %sDelegate);", idx, thunk)
	w.linef("remove => RemoveSignalHandler(%s, value);", idx)
	w.close()
	return nil
}
