package vtable

import "errors"

// Names returns the member names of d in visit order.
func Names(d Descriptor) []string {
	var names []string
	d.Visit(VisitorFunc(func(_ Slot, name string) {
		names = append(names, name)
	}))
	return names
}

// Slots returns the slots of d in visit order.
func Slots(d Descriptor) []Slot {
	var slots []Slot
	d.Visit(VisitorFunc(func(slot Slot, _ string) {
		slots = append(slots, slot)
	}))
	return slots
}

// Count returns the number of slots in d, inherited ones included.
func Count(d Descriptor) int {
	n := 0
	d.Visit(VisitorFunc(func(Slot, string) { n++ }))
	return n
}

// Lookup returns the first slot of d named name.
func Lookup(d Descriptor, name string) (Slot, bool) {
	var found Slot
	d.Visit(VisitorFunc(func(slot Slot, n string) {
		if found == nil && n == name {
			found = slot
		}
	}))
	return found, found != nil
}

// As returns the slot named name as the concrete slot type S.
func As[S Slot](d Descriptor, name string) (S, bool) {
	slot, ok := Lookup(d, name)
	if !ok {
		var zero S
		return zero, false
	}
	s, ok := slot.(S)
	return s, ok
}

// Bind binds every slot of d to the matching method of impl. All members are
// attempted; the returned error joins one *BindError per failed member.
func Bind(d Descriptor, impl any) error {
	var errs []error
	d.Visit(VisitorFunc(func(slot Slot, name string) {
		b, ok := slot.(Binder)
		if !ok {
			errs = append(errs, NewBindError(d.InterfaceName(), name, impl, ErrNotBindable))
			return
		}
		if err := b.BindTo(impl); err != nil {
			errs = append(errs, err)
		}
	}))
	return errors.Join(errs...)
}

// Unbound returns the names of the slots of d that report IsSet() == false.
// Slots without an IsSet method are skipped.
func Unbound(d Descriptor) []string {
	var names []string
	d.Visit(VisitorFunc(func(slot Slot, name string) {
		if s, ok := slot.(interface{ IsSet() bool }); ok && !s.IsSet() {
			names = append(names, name)
		}
	}))
	return names
}
