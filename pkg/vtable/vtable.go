// Package vtable is the runtime side of the vtable generator.
//
// The generator reads Go interfaces annotated with //vtable::interface and
// writes, per delegate, a descriptor struct holding one slot per member
// (inherited members included) plus a Visit method that walks those slots
// bases-first in declaration order. This package holds the types the
// generated code is written against: the identity marker, the slot and
// visitor contracts, the slot bases used by the built-in delegates, and
// helpers that drive a Visitor over a descriptor.
//
//	//vtable::interface
//	type Shape interface {
//		Area() float64
//		Perimeter() float64
//	}
//
//	//vtable::interface
//	type Circle interface {
//		Shape
//		Radius() float64
//	}
//
// generates ShapeMirrorVTable and CircleMirrorVTable; visiting a
// CircleMirrorVTable yields Area, Perimeter and Radius, in that order.
package vtable

// Marker is a zero-size identity guard embedded (as a blank field) in every
// generated descriptor. Two descriptors that declare identical members for
// different interfaces differ in their Marker type argument, which keeps
// them from being converted into one another.
type Marker[I any] struct{}

// Slot is implemented by every generated per-member slot type.
type Slot interface {
	// Name returns the member name exactly as declared.
	Name() string
}

// Binder is implemented by slots that can bind the matching method of a
// concrete implementation.
type Binder interface {
	Slot
	BindTo(impl any) error
}

// Visitor receives each slot of a descriptor. The dynamic type of slot is the
// generated slot type; the pointer itself addresses the field inside the
// descriptor being visited.
type Visitor interface {
	Visit(slot Slot, name string)
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(slot Slot, name string)

// Visit calls f(slot, name).
func (f VisitorFunc) Visit(slot Slot, name string) {
	f(slot, name)
}

// Descriptor is implemented by every generated descriptor.
type Descriptor interface {
	// Visit walks base descriptors in declared order, then the directly
	// declared members in declared order.
	Visit(v Visitor)

	// InterfaceName returns the package-qualified name of the interface the
	// descriptor was generated for.
	InterfaceName() string
}
