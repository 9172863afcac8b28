package models

import "github.com/toyz/vtable/internal/annotations"

// Annotation is a parsed annotation together with where it was found
type Annotation struct {
	*annotations.ParsedAnnotation
	FileName string // file containing the annotation
	Line     int    // line of the annotation comment
}
