package csharp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/qmlgen/ir"
)

func TestTypeMapper_BuiltIns(t *testing.T) {
	want := map[ir.BuiltInKind]Handling{
		ir.BuiltInBool:          HandlingPrimitive,
		ir.BuiltInInt32:         HandlingPrimitive,
		ir.BuiltInUInt32:        HandlingPrimitive,
		ir.BuiltInInt64:         HandlingPrimitive,
		ir.BuiltInUInt64:        HandlingPrimitive,
		ir.BuiltInDouble:        HandlingPrimitive,
		ir.BuiltInChar:          HandlingPrimitive,
		ir.BuiltInOpaquePointer: HandlingPrimitive,
		ir.BuiltInString:        HandlingString,
		ir.BuiltInByteArray:     HandlingValueType,
		ir.BuiltInDateTime:      HandlingValueType,
		ir.BuiltInDate:          HandlingValueType,
		ir.BuiltInTime:          HandlingValueType,
		ir.BuiltInColor:         HandlingValueType,
		ir.BuiltInSize:          HandlingValueType,
		ir.BuiltInSizeFloat:     HandlingValueType,
		ir.BuiltInRect:          HandlingValueType,
		ir.BuiltInRectFloat:     HandlingValueType,
		ir.BuiltInPoint:         HandlingValueType,
		ir.BuiltInPointFloat:    HandlingValueType,
		ir.BuiltInURL:           HandlingValueType,
		ir.BuiltInCompletion:    HandlingAsync,
	}
	m := NewTypeMapper(nil, nil)
	for _, k := range ir.BuiltInKinds() {
		mp, err := m.Map(ir.BuiltIn(k))
		require.NoError(t, err, k.String())
		assert.Equal(t, want[k], mp.Handling, k.String())
		assert.Equal(t, k.HasNativeDestructor(), mp.Destructor, k.String())
		if mp.Handling == HandlingValueType || mp.Handling == HandlingString {
			assert.NotEmpty(t, mp.Interop, k.String())
		}
	}
}

func TestTypeMapper_SizeFloatInterop(t *testing.T) {
	mp, err := NewTypeMapper(nil, nil).Map(ir.BuiltIn(ir.BuiltInSizeFloat))
	require.NoError(t, err)
	assert.Equal(t, "QSizeF", mp.Interop)
	assert.Equal(t, "System.Drawing.SizeF", mp.Surface)
}

func TestTypeMapper_Unmappable(t *testing.T) {
	_, err := NewTypeMapper(nil, nil).Map(ir.BuiltIn(ir.BuiltInKind(99)))
	assert.True(t, errors.Is(err, ErrUnmappable), "err = %v", err)
}

// Every built-in is classified the same way as a parameter and as a return
// value: both positions either accept it or reject it.
func TestTypeMapper_SameClassificationBothPositions(t *testing.T) {
	e := &emitter{cfg: New(Config{}).cfg, mapper: NewTypeMapper(nil, nil)}
	for _, k := range ir.BuiltInKinds() {
		mp, err := e.mapper.Map(ir.BuiltIn(k))
		require.NoError(t, err)

		var ret, arg call
		retErr := e.returnSetup(&ret, mp)
		argErr := e.paramSetup(&arg, mp, "x", 1)
		assert.Equal(t, retErr == nil, argErr == nil, "%s: return err %v, parameter err %v", k, retErr, argErr)
		// String returns are released by QStringArg's Dispose.
		wantRetCleanup := mp.Destructor && mp.Handling != HandlingString
		assert.Equal(t, wantRetCleanup, len(ret.cleanup) == 1, "%s return cleanup %v", k, ret.cleanup)
		assert.Equal(t, mp.Destructor, len(arg.cleanup) == 1, "%s parameter cleanup %v", k, arg.cleanup)
	}
}

func TestTypeMapper_References(t *testing.T) {
	b := ir.NewBuilder()
	obj := b.AddType(moduleType("Item", "QtQuick", 2, 0))
	vec := b.AddType(valueType("Vec"))
	b.AddEnum(ir.EnumDescriptor{Owner: obj, Name: "Mode", Backing: ir.BuiltInInt32})
	g := mustBuild(t, b)
	m := NewTypeMapper(g, NewNamer(g, New(Config{}).cfg))

	tests := []struct {
		ref      ir.TypeRef
		surface  string
		handling Handling
	}{
		{ir.Void(), "void", HandlingNone},
		{ir.Object(obj), "QtQuick.Item", HandlingObject},
		{ir.Object(vec), "QmlFiles.Vec", HandlingValueType},
		{ir.Enum(obj, "Mode"), "QtQuick.Item.Mode", HandlingPrimitive},
		{ir.List(obj), "QmlList<QtQuick.Item>", HandlingObject},
	}
	for _, tt := range tests {
		mp, err := m.Map(tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.surface, mp.Surface)
		assert.Equal(t, tt.handling, mp.Handling)
	}

	_, err := m.Map(ir.List(vec))
	assert.ErrorIs(t, err, ErrUnmappable)
	_, err = m.Map(ir.Enum(obj, "Missing"))
	assert.ErrorIs(t, err, ErrUnmappable)
}

func cleanupGraph(t *testing.T) (*ir.Graph, ir.TypeID) {
	b := ir.NewBuilder()
	typ := nativeType("Sink")
	for _, k := range ir.BuiltInKinds() {
		if k.IsBlittable() || k == ir.BuiltInCompletion {
			continue
		}
		typ.Methods = append(typ.Methods,
			method("take_"+k.String(), ir.Void(), param("x", builtin(k))),
			method("give_"+k.String(), builtin(k)))
	}
	id := b.AddType(typ)
	return mustBuild(t, b), id
}

// For every boxed built-in with a native destructor, each constructed
// temporary is destroyed exactly once, in a finally block that also covers
// the native call.
func TestEmitMethod_CleanupPairing(t *testing.T) {
	g, id := cleanupGraph(t)
	e := newTestEmitter(t, g, Config{})
	typ := g.Type(id)

	for i := range typ.Methods {
		m := &typ.Methods[i]
		k := builtInOf(m)
		t.Run(m.Name, func(t *testing.T) {
			w := newWriter(4, "lf", 0)
			require.NoError(t, e.emitMethod(w, typ, m))
			body := w.String()

			ctors := strings.Count(body, "_ctor(") + strings.Count(body, "_ctor_default(")
			dtors := strings.Count(body, "_dtor(")
			if k == ir.BuiltInString && m.Params == nil {
				// String returns go through QStringArg, released by its Dispose.
				assert.Contains(t, body, "using var result = new QStringArg(null);")
				assert.Equal(t, 0, ctors+dtors, body)
				return
			}
			require.Equal(t, 1, ctors, body)
			if !k.HasNativeDestructor() {
				assert.Equal(t, 0, dtors, body)
				assert.NotContains(t, body, "finally")
				return
			}
			require.Equal(t, 1, dtors, body)

			try := strings.Index(body, "try\n")
			invoke := strings.Index(body, "QObject_callMethod(")
			fin := strings.Index(body, "finally\n")
			dtor := strings.Index(body, "_dtor(")
			assert.True(t, try >= 0 && try < invoke && invoke < fin && fin < dtor,
				"call must be covered by the finally block:\n%s", body)
			if ret := strings.Index(body, "return "); ret >= 0 {
				assert.Less(t, ret, fin, "value must be read before the destructor runs")
			}
		})
	}
}

func builtInOf(m *ir.MethodDescriptor) ir.BuiltInKind {
	if len(m.Params) > 0 {
		return m.Params[0].Type.(ir.BuiltInRef).BuiltIn
	}
	return m.Return.(ir.BuiltInRef).BuiltIn
}

func TestEmitMethod_Parameters(t *testing.T) {
	b := ir.NewBuilder()
	item := b.AddType(moduleType("Item", "QtQuick", 2, 0))
	typ := moduleType("View", "QtQuick", 2, 0)
	typ.Methods = []ir.MethodDescriptor{
		method("place", builtin(ir.BuiltInBool),
			param("item", ir.Object(item)),
			param("", builtin(ir.BuiltInRect)),
			param("color", builtin(ir.BuiltInColor)),
			param("when", builtin(ir.BuiltInDateTime)),
			param("mode", ir.Enum(item, "Mode"))),
		method("find", ir.Object(item), param("name", builtin(ir.BuiltInString))),
		method("find", ir.Object(item), param("index", builtin(ir.BuiltInInt32))),
	}
	b.AddType(typ)
	b.AddEnum(ir.EnumDescriptor{Owner: item, Name: "Mode", Backing: ir.BuiltInInt32})
	g := mustBuild(t, b)
	out := string(generate(t, g, Config{PascalCase: true}).Source)

	checkOutput(t, out, []string{
		"public unsafe bool Place(QtQuick.Item item, System.Drawing.Rectangle arg2, System.Drawing.Color color, System.DateTime @when, QtQuick.Item.Mode mode)",
		"void** argv = stackalloc void*[6];",
		"bool result;",
		"argv[0] = &result;",
		"var itemTemp = item?.NativePointer ?? IntPtr.Zero;",
		"argv[1] = &itemTemp;",
		"QtBuiltInTypeInterop.QRect_ctor(arg2Temp, arg2.X, arg2.Y, arg2.Width, arg2.Height);",
		"QtBuiltInTypeInterop.QColor_ctor(colorTemp, color.ToArgb());",
		"QtBuiltInTypeInterop.QDateTime_ctor(whenTemp, @when.Ticks);",
		"QtBuiltInTypeInterop.QDateTime_dtor(whenTemp);",
		"argv[5] = &mode;",
		"return result;",

		"private static int _findIndex0 = -1;",
		"private static int _findIndex1 = -1;",
		"public unsafe QtQuick.Item Find(string name)",
		"public unsafe QtQuick.Item Find(int index)",
		"System.IntPtr result;",
		"return QObjectBase.GetQObjectProxy<QtQuick.Item>(result);",
		`FindMetaObjectMethod(metaObject, "find(QString)", out _findIndex0);`,
		`FindMetaObjectMethod(metaObject, "find(int)", out _findIndex1);`,
		`FindMetaObjectMethod(metaObject, "place", out _placeIndex);`,
	}, []string{
		"QColor_dtor",
		"QRect_dtor",
	})
}

// Parameter names that match generated locals keep their names; the locals
// move out of the way.
func TestEmitMethod_ParameterNamesShadowNothing(t *testing.T) {
	b := ir.NewBuilder()
	typ := moduleType("Worker", "Jobs", 1, 0)
	typ.Methods = []ir.MethodDescriptor{
		method("compute", builtin(ir.BuiltInInt32), param("result", builtin(ir.BuiltInInt32))),
		method("load", ir.Void(),
			param("path", builtin(ir.BuiltInString)),
			param("pathTemp", builtin(ir.BuiltInString))),
		method("pick", ir.Void(), param("argv", builtin(ir.BuiltInInt32))),
		method("attach", ir.Void(), param("_handle", builtin(ir.BuiltInInt32))),
		method("start", ir.Void(),
			param("nativeTask", builtin(ir.BuiltInInt32)),
			param("", builtin(ir.BuiltInCompletion))),
		method("twice", ir.Void(),
			param("x", builtin(ir.BuiltInInt32)),
			param("x", builtin(ir.BuiltInInt32))),
	}
	b.AddType(typ)
	out := string(generate(t, mustBuild(t, b), Config{}).Source)

	checkOutput(t, out, []string{
		"public unsafe int compute(int result)\n",
		"int result_;",
		"argv[0] = &result_;",
		"argv[1] = &result;",
		"return result_;",

		"public unsafe void load(string path, string pathTemp)\n",
		"QtBuiltInTypeInterop.QString_ctor(pathTemp_, path, path?.Length ?? 0);",
		"QtBuiltInTypeInterop.QString_ctor(pathTempTemp, pathTemp, pathTemp?.Length ?? 0);",
		"argv[1] = pathTemp_;",
		"argv[2] = pathTempTemp;",

		"public unsafe void pick(int argv)\n",
		"void** argv_ = stackalloc void*[2];",
		"argv_[1] = &argv;",
		"QObject_callMethod(_handle, _pickIndex, argv_);",

		"public unsafe void attach(int _handle_)\n",
		"argv[1] = &_handle_;",
		"QObject_callMethod(_handle, _attachIndex, argv);",

		"public unsafe System.Threading.Tasks.Task<IntPtr> start(int nativeTask)\n",
		"var (nativeTask_, completionSource) = QmlProxies.Interop.NativeCompletionSource.Create<IntPtr>();",
		"argv[1] = &nativeTask;",
		"return nativeTask_;",

		"public unsafe void twice(int x, int x_)\n",
		"argv[2] = &x_;",
	}, []string{
		"int result;",
		"argv[1] = &argv;",
		"var pathTemp = ",
		"attach(int _handle)",
	})
}

func TestReadExpr(t *testing.T) {
	m := NewTypeMapper(nil, nil)
	tests := []struct {
		k    ir.BuiltInKind
		want string
	}{
		{ir.BuiltInInt32, "*(int*)args[1]"},
		{ir.BuiltInOpaquePointer, "*(System.IntPtr*)args[1]"},
		{ir.BuiltInString, "QtBuiltInTypeInterop.QString_read(args[1])"},
		{ir.BuiltInPointFloat, "QtBuiltInTypeInterop.QPointF_read(args[1])"},
	}
	for _, tt := range tests {
		mp, err := m.Map(ir.BuiltIn(tt.k))
		require.NoError(t, err)
		got, err := readExpr(mp, "args[1]")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	mp, _ := m.Map(ir.BuiltIn(ir.BuiltInCompletion))
	_, err := readExpr(mp, "args[1]")
	assert.ErrorIs(t, err, ErrUnsupported)
}
