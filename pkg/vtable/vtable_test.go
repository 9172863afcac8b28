package vtable_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vtable/examples/shapes"
	"github.com/toyz/vtable/pkg/vtable"
)

type squareOnly struct{}

func (squareOnly) Area() float64 { return 4 }

func TestVisitOrder(t *testing.T) {
	tests := []struct {
		name string
		desc vtable.Descriptor
		want []string
	}{
		{"base mirror", &shapes.ShapeMirrorVTable{}, []string{"Area", "Perimeter"}},
		{"derived mirror", &shapes.CircleMirrorVTable{}, []string{"Area", "Perimeter", "Radius"}},
		{"derived erased", &shapes.CircleErasedVTable{}, []string{"Area", "Perimeter", "Radius"}},
		{"single member", &shapes.ScalerMirrorVTable{}, []string{"Scale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vtable.Names(tt.desc))
			assert.Equal(t, len(tt.want), vtable.Count(tt.desc))
		})
	}
}

func TestVisitIsRepeatable(t *testing.T) {
	d := &shapes.CircleMirrorVTable{}
	first := vtable.Names(d)
	second := vtable.Names(d)
	assert.Equal(t, first, second)
}

func TestVisitPassesFieldAddresses(t *testing.T) {
	d := &shapes.CircleMirrorVTable{}
	slots := vtable.Slots(d)
	require.Len(t, slots, 3)

	assert.Same(t, &d.Area, slots[0])
	assert.Same(t, &d.Perimeter, slots[1])
	assert.Same(t, &d.Radius, slots[2])

	// writes through the visited slot land in the descriptor
	slots[2].(*shapes.CircleMirrorVTable_Radius).Set(func() float64 { return 7 })
	assert.Equal(t, 7.0, d.Radius.Call())
}

func TestSlotNameMatchesVisitName(t *testing.T) {
	d := &shapes.CircleErasedVTable{}
	d.Visit(vtable.VisitorFunc(func(slot vtable.Slot, name string) {
		assert.Equal(t, name, slot.Name())
	}))
}

func TestSlotTypesDifferPerDelegate(t *testing.T) {
	mirror := &shapes.ShapeMirrorVTable{}
	erased := &shapes.ShapeErasedVTable{}

	assert.NotEqual(t, reflect.TypeOf(mirror.Area), reflect.TypeOf(erased.Area))
	assert.NotEqual(t, reflect.TypeOf(mirror.Area), reflect.TypeOf(mirror.Perimeter))
}

func TestDescriptorsNotConvertible(t *testing.T) {
	shape := reflect.TypeOf(shapes.ShapeMirrorVTable{})
	circle := reflect.TypeOf(shapes.CircleMirrorVTable{})
	scaler := reflect.TypeOf(shapes.ScalerMirrorVTable{})

	assert.False(t, circle.ConvertibleTo(shape))
	assert.False(t, scaler.ConvertibleTo(shape))
}

func TestWideningSharesStorage(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}
	require.NoError(t, vtable.Bind(c, shapes.Round{R: 2}))

	var base *shapes.ShapeMirrorVTable = &c.ShapeMirrorVTable
	assert.Equal(t, []string{"Area", "Perimeter"}, vtable.Names(base))
	assert.InDelta(t, 4*math.Pi, base.Area.Call(), 1e-9)

	base.Area.Set(func() float64 { return 1 })
	assert.Equal(t, 1.0, c.Area.Call())
}

func TestInterfaceName(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}
	assert.Equal(t, "shapes.Circle", c.InterfaceName())
	assert.Equal(t, "shapes.Shape", c.ShapeMirrorVTable.InterfaceName())
}

func TestBindMirror(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}
	assert.ElementsMatch(t, []string{"Area", "Perimeter", "Radius"}, vtable.Unbound(c))

	require.NoError(t, vtable.Bind(c, shapes.Round{R: 1}))
	assert.Empty(t, vtable.Unbound(c))

	assert.InDelta(t, math.Pi, c.Area.Call(), 1e-9)
	assert.InDelta(t, 2*math.Pi, c.Perimeter.Call(), 1e-9)
	assert.Equal(t, 1.0, c.Radius.Call())
}

func TestCallUnboundMirrorSlot(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}

	assert.PanicsWithValue(t, vtable.ErrNotBound, func() { c.Radius.Call() })
	assert.PanicsWithValue(t, vtable.ErrNotBound, func() { c.Area.Call() })
}

func TestBindMissingMember(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}
	err := vtable.Bind(c, squareOnly{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vtable.ErrMissingMember)

	var be *vtable.BindError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "shapes.Shape", be.Interface)
	assert.Equal(t, "Perimeter", be.Member)
	assert.Equal(t, "vtable_test.squareOnly", be.Impl)

	// members that could be bound still are
	assert.True(t, c.Area.IsSet())
	assert.ElementsMatch(t, []string{"Perimeter", "Radius"}, vtable.Unbound(c))
}

func TestMemberOf(t *testing.T) {
	var slot shapes.CircleMirrorVTable_Radius
	fn := slot.MemberOf(shapes.Round{R: 3})
	assert.Equal(t, 3.0, fn())
	assert.Equal(t, "Radius", slot.Name())
}

func TestVariadicCall(t *testing.T) {
	s := &shapes.ScalerMirrorVTable{}
	require.NoError(t, vtable.Bind(s, shapes.Round{R: 2}))

	c, err := s.Scale.Call(1.5, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.Radius())
}

func TestErasedBindAndCall(t *testing.T) {
	s := &shapes.ScalerErasedVTable{}
	require.NoError(t, vtable.Bind(s, shapes.Round{R: 2}))

	out, err := s.Scale.Call(2.0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 4.0, out[0].(shapes.Circle).Radius())
	assert.Nil(t, out[1])

	out, err = s.Scale.Call(2.0, "x", "y")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestErasedCallErrors(t *testing.T) {
	var e vtable.Erased

	_, err := e.Call()
	assert.ErrorIs(t, err, vtable.ErrNotBound)
	assert.Nil(t, e.Type())

	assert.ErrorIs(t, e.Set(42), vtable.ErrNotFunc)
	var nilFn func()
	assert.ErrorIs(t, e.Set(nilFn), vtable.ErrNotFunc)
	assert.False(t, e.IsSet())

	require.NoError(t, e.Set(func(a int, rest ...string) int { return a + len(rest) }))
	assert.Equal(t, reflect.TypeOf(func(int, ...string) int { return 0 }), e.Type())

	_, err = e.Call()
	assert.ErrorIs(t, err, vtable.ErrArity)

	_, err = e.Call("nope")
	assert.ErrorIs(t, err, vtable.ErrArgType)

	_, err = e.Call(1, 2)
	assert.ErrorIs(t, err, vtable.ErrArgType)

	out, err := e.Call(1, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out)

	out, err = e.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, []any{0}, out)

	e.Reset()
	assert.False(t, e.IsSet())
}

func TestFunc(t *testing.T) {
	var f vtable.Func[func(int) int]
	assert.False(t, f.IsSet())
	assert.Nil(t, f.Get())
	assert.PanicsWithValue(t, vtable.ErrNotBound, func() { f.Must() })

	f.Set(func(i int) int { return i * 2 })
	require.True(t, f.IsSet())
	assert.Equal(t, 8, f.Get()(4))
	assert.Equal(t, 8, f.Must()(4))

	f.Reset()
	assert.False(t, f.IsSet())
}

func TestLookupAndAs(t *testing.T) {
	c := &shapes.CircleMirrorVTable{}

	slot, ok := vtable.Lookup(c, "Perimeter")
	require.True(t, ok)
	assert.Same(t, &c.Perimeter, slot)

	_, ok = vtable.Lookup(c, "Volume")
	assert.False(t, ok)

	r, ok := vtable.As[*shapes.CircleMirrorVTable_Radius](c, "Radius")
	require.True(t, ok)
	assert.Same(t, &c.Radius, r)

	_, ok = vtable.As[*shapes.CircleMirrorVTable_Radius](c, "Area")
	assert.False(t, ok)
}

type plainSlot struct{}

func (plainSlot) Name() string { return "Plain" }

type plainDescriptor struct{ p plainSlot }

func (*plainDescriptor) InterfaceName() string { return "test.Plain" }

func (d *plainDescriptor) Visit(v vtable.Visitor) { v.Visit(&d.p, "Plain") }

func TestBindNonBinderSlot(t *testing.T) {
	err := vtable.Bind(&plainDescriptor{}, squareOnly{})
	assert.ErrorIs(t, err, vtable.ErrNotBindable)
	assert.Empty(t, vtable.Unbound(&plainDescriptor{}))
}

func TestBindErrorMessage(t *testing.T) {
	err := vtable.NewBindError("pkg.I", "M", 3, errors.New("boom"))
	assert.Equal(t, "vtable: bind pkg.I.M to int: boom", err.Error())
}

func TestFieldVisit(t *testing.T) {
	lp := &shapes.LabeledPoint{Point: shapes.Point{X: 1, Y: 2}, Label: "origin"}
	assert.Equal(t, []string{"X", "Y", "Label"}, vtable.FieldNames(lp))

	lp.VisitFields(vtable.FieldVisitorFunc(func(field any, name string) {
		if f, ok := field.(*float64); ok {
			*f *= 10
		}
	}))
	assert.Equal(t, 10.0, lp.X)
	assert.Equal(t, 20.0, lp.Y)
}
