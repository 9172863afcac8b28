package vtable

// Func is the slot base used by the Mirror delegate: a typed function box.
// F is always a func type; the generated slot embeds Func[F] and promotes
// its Set.
type Func[F any] struct {
	fn  F
	set bool
}

// Set stores fn in the slot.
func (f *Func[F]) Set(fn F) {
	f.fn = fn
	f.set = true
}

// Get returns the stored function, or the zero F when nothing is bound.
// Calling the zero F panics with a nil dereference; use Must or IsSet.
func (f *Func[F]) Get() F {
	return f.fn
}

// Must returns the stored function. It panics with ErrNotBound when nothing
// is bound.
func (f *Func[F]) Must() F {
	if !f.set {
		panic(ErrNotBound)
	}
	return f.fn
}

// IsSet reports whether Set has been called since the last Reset.
func (f *Func[F]) IsSet() bool {
	return f.set
}

// Reset clears the slot.
func (f *Func[F]) Reset() {
	var zero F
	f.fn = zero
	f.set = false
}
