package vtable

import (
	"fmt"
	"reflect"
)

// Erased is the slot base used by the Erased delegate. It stores any func
// value and calls it with untyped arguments, checking arity and argument
// types at call time.
type Erased struct {
	fn reflect.Value
}

// Set stores fn, which must be a non-nil func value.
func (e *Erased) Set(fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: got %T", ErrNotFunc, fn)
	}
	e.fn = v
	return nil
}

// IsSet reports whether a function is stored.
func (e *Erased) IsSet() bool {
	return e.fn.IsValid()
}

// Reset clears the slot.
func (e *Erased) Reset() {
	e.fn = reflect.Value{}
}

// Type returns the func type of the stored function, or nil.
func (e *Erased) Type() reflect.Type {
	if !e.fn.IsValid() {
		return nil
	}
	return e.fn.Type()
}

// Call invokes the stored function. A nil argument stands for the zero value
// of the corresponding parameter type. For variadic functions the trailing
// arguments are passed individually, not as a slice.
func (e *Erased) Call(args ...any) ([]any, error) {
	if !e.fn.IsValid() {
		return nil, ErrNotBound
	}
	t := e.fn.Type()

	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArity, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArity, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = t.In(i)
		} else {
			want = t.In(t.NumIn() - 1).Elem()
		}
		v, err := argValue(arg, want)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}

	out := e.fn.Call(in)
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

func argValue(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: want %s, got %s", ErrArgType, want, v.Type())
}
