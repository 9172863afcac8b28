package vtable

// FieldVisitor receives each reflected field of a struct annotated with
// //vtable::reflect. field is a pointer to the field inside the visited value.
type FieldVisitor interface {
	VisitField(field any, name string)
}

// FieldVisitorFunc adapts a plain function to the FieldVisitor interface.
type FieldVisitorFunc func(field any, name string)

// VisitField calls f(field, name).
func (f FieldVisitorFunc) VisitField(field any, name string) {
	f(field, name)
}

// Reflected is implemented by the pointer type of every struct annotated
// with //vtable::reflect.
type Reflected interface {
	VisitFields(v FieldVisitor)
}

// FieldNames returns the reflected field names of r in visit order.
func FieldNames(r Reflected) []string {
	var names []string
	r.VisitFields(FieldVisitorFunc(func(_ any, name string) {
		names = append(names, name)
	}))
	return names
}
