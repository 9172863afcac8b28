package vtable

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBound is returned when calling a slot that holds no function.
	ErrNotBound = errors.New("vtable: slot is not bound")

	// ErrNotFunc is returned when a non-func value is stored in an Erased slot.
	ErrNotFunc = errors.New("vtable: value is not a function")

	// ErrArity is returned when a call supplies the wrong number of arguments.
	ErrArity = errors.New("vtable: wrong number of arguments")

	// ErrArgType is returned when a call argument is not assignable to the
	// parameter type.
	ErrArgType = errors.New("vtable: argument type mismatch")

	// ErrMissingMember is wrapped by BindError when the implementation does
	// not have the member.
	ErrMissingMember = errors.New("vtable: implementation lacks member")

	// ErrNotBindable is wrapped by BindError when a visited slot does not
	// implement Binder.
	ErrNotBindable = errors.New("vtable: slot cannot bind")
)

// BindError reports a member that could not be bound to an implementation.
type BindError struct {
	Interface string // qualified interface name
	Member    string // member name as declared
	Impl      string // dynamic type of the implementation
	Err       error
}

// NewBindError returns a BindError for iface.member and the given impl.
// Generated BindTo methods use it.
func NewBindError(iface, member string, impl any, err error) *BindError {
	return &BindError{
		Interface: iface,
		Member:    member,
		Impl:      fmt.Sprintf("%T", impl),
		Err:       err,
	}
}

// MissingMember returns the BindError used when impl has no method named
// member with the declared signature.
func MissingMember(iface, member string, impl any) *BindError {
	return NewBindError(iface, member, impl, ErrMissingMember)
}

func (e *BindError) Error() string {
	return fmt.Sprintf("vtable: bind %s.%s to %s: %v", e.Interface, e.Member, e.Impl, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
