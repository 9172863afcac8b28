package models

// AnnotationType represents the kind of annotation found in source code
type AnnotationType int

const (
	AnnotationTypeInterface AnnotationType = iota
	AnnotationTypeReflect
)

// String returns the annotation keyword.
func (t AnnotationType) String() string {
	switch t {
	case AnnotationTypeInterface:
		return "interface"
	case AnnotationTypeReflect:
		return "reflect"
	default:
		return "unknown"
	}
}

// Import is a single import spec
type Import struct {
	Path  string // import path
	Alias string // explicit name, empty when the default package name is used
}
