package parser

import (
	"fmt"
	"strings"

	"github.com/toyz/vtable/internal/errors"
)

func wrongTarget(kind, target, actual string, loc errors.SourceLocation) errors.VTableError {
	want := "an interface"
	if kind == "reflect" {
		want = "a struct"
	}
	return errors.NewValidationError(target, "",
		fmt.Sprintf("//vtable::%s must annotate %s type, '%s' is %s", kind, want, target, actual)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Move the annotation onto %s type declaration", want))
}

func duplicateAnnotation(target string, loc, previous errors.SourceLocation) errors.VTableError {
	return errors.NewSyntaxError(fmt.Sprintf("'%s' has more than one vtable annotation, first at %s", target, previous)).
		WithLocation(loc).
		WithSuggestion("Merge the parameters into a single annotation")
}

func unknownQualifier(decl, ref, qualifier string, loc errors.SourceLocation) errors.VTableError {
	return errors.NewValidationError(decl, "",
		fmt.Sprintf("'%s' refers to package '%s', which the file does not import", ref, qualifier)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Import the package that declares '%s'", ref))
}

func fieldNotDeclared(decl, field string, available []string, loc errors.SourceLocation) errors.VTableError {
	err := errors.NewValidationError(decl, field,
		fmt.Sprintf("field '%s' is not declared on '%s'", field, decl)).
		WithLocation(loc)
	if len(available) > 0 {
		err.WithSuggestion("Declared fields: " + strings.Join(available, ", "))
	}
	return err
}

func baseNotEmbedded(decl, base string, loc errors.SourceLocation) errors.VTableError {
	return errors.NewValidationError(decl, "",
		fmt.Sprintf("base '%s' is not an embedded field of '%s'", base, decl)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Embed '%s' in the struct or drop it from -Bases", base))
}
