package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vtable/internal/annotations"
)

func TestBaseErrorFormatting(t *testing.T) {
	err := New(ValidationErrorCode, "bad member").
		WithLocation(SourceLocation{File: "shapes.go", Line: 4}).
		WithContext("member", "Area").
		WithSuggestion("rename it")

	assert.Equal(t, "shapes.go:4: bad member", err.Error())
	assert.Equal(t, ValidationErrorCode, err.ErrorCode())
	assert.Equal(t, "Area", err.Context()["member"])
	assert.Equal(t, []string{"rename it"}, err.Suggestions())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapFileSystemError("write", "autogen_vtable.go", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "write", err.Context()["operation"])
}

func TestDeclarationErrors(t *testing.T) {
	loc := SourceLocation{File: "circle.go", Line: 9}

	tests := []struct {
		name     string
		err      VTableError
		code     ErrorCode
		contains string
	}{
		{"duplicate", DuplicateDeclaration("x.Shape", loc, SourceLocation{File: "shape.go", Line: 2}), RegistrationErrorCode, "already declared at shape.go:2"},
		{"undeclared", UndeclaredBase("x.Circle", "x.Shape", loc), RegistrationErrorCode, "base 'x.Shape' of 'x.Circle' is not declared"},
		{"missing delegate", MissingDelegate("x.Circle", "x.Shape", "Erased", loc), ValidationErrorCode, "no Erased descriptor"},
		{"cycle", CyclicBases([]string{"x.A", "x.B", "x.A"}, loc), ValidationErrorCode, "x.A -> x.B -> x.A"},
		{"diamond", DiamondBases("x.D", "x.A", []string{"x.D", "x.B", "x.A"}, []string{"x.D", "x.C", "x.A"}, loc), ValidationErrorCode, "x.D -> x.B -> x.A and x.D -> x.C -> x.A"},
		{"not declared", MemberNotDeclared("x.Shape", "Volume", loc), ValidationErrorCode, "'Volume' is not a method"},
		{"duplicate member", DuplicateMember("x.Shape", "Area", loc), ValidationErrorCode, "more than once"},
		{"collision", MemberCollision("x.Circle", "Area", "x.Shape", loc), ValidationErrorCode, "also declared by 'x.Shape'"},
		{"reserved", ReservedName("x.Shape", "Visit", "is reserved", loc), ValidationErrorCode, "'Visit' of 'x.Shape' is reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.ErrorCode())
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.Equal(t, loc, tt.err.Location())
		})
	}
}

func TestMultipleErrors(t *testing.T) {
	var multiple *MultipleErrors
	assert.Nil(t, multiple.ErrorOrNil())

	first := UndeclaredBase("x.Circle", "x.Shape", SourceLocation{File: "a.go", Line: 1})
	AddToMultiple(&multiple, first)
	AddToMultiple(&multiple, DuplicateMember("x.Shape", "Area", SourceLocation{File: "b.go", Line: 2}))

	require.Equal(t, 2, multiple.Count())
	assert.True(t, multiple.HasCode(ValidationErrorCode))
	assert.Len(t, multiple.GetByCode(RegistrationErrorCode), 1)
	assert.Contains(t, multiple.Error(), "multiple errors (2 total)")

	var regErr *RegistrationError
	require.ErrorAs(t, multiple.ErrorOrNil(), &regErr)
	assert.Same(t, first, regErr)
}

func TestMultipleErrorsAddError(t *testing.T) {
	multi := NewMultipleErrors()
	inner := CollectErrors(
		DuplicateMember("x.Shape", "Area", SourceLocation{File: "a.go", Line: 1}),
		DuplicateMember("x.Shape", "Radius", SourceLocation{File: "a.go", Line: 2}),
	)

	multi.AddError(inner)
	multi.AddError(nil)
	multi.AddError(NewSyntaxError("unexpected token"))
	multi.AddError(stderrors.New("disk full"))

	require.Equal(t, 4, multi.Count())
	assert.Equal(t, ValidationErrorCode, multi.Errors[0].ErrorCode())
	assert.Equal(t, SyntaxErrorCode, multi.Errors[2].ErrorCode())
	assert.Equal(t, UnknownErrorCode, multi.Errors[3].ErrorCode())
	assert.Equal(t, "disk full", multi.Errors[3].Error())
}

func TestVerificationFailed(t *testing.T) {
	err := VerificationFailed(stderrors.New("verification failed:\n  shapes.go:3: undefined: Foo"))

	assert.Equal(t, GenerationErrorCode, err.ErrorCode())
	assert.Equal(t, "verify", err.Stage)
	assert.Contains(t, err.Error(), "undefined: Foo")
}

func TestFromAnnotation(t *testing.T) {
	parser := annotations.NewDefaultParser()
	_, err := parser.ParseAnnotation("//vtable::interface -Virtual", annotations.SourceLocation{File: "a.go", Line: 3, Column: 1})
	require.Error(t, err)

	converted := FromAnnotation(err)
	require.Len(t, converted, 1)
	assert.Equal(t, ValidationErrorCode, converted[0].ErrorCode())
	assert.Equal(t, SourceLocation{File: "a.go", Line: 3, Column: 1}, converted[0].Location())
	assert.NotEmpty(t, converted[0].Suggestions())
	assert.NotContains(t, converted[0].Error(), converted[0].Suggestions()[0])

	plain := FromAnnotation(stderrors.New("boom"))
	require.Len(t, plain, 1)
	assert.Equal(t, SyntaxErrorCode, plain[0].ErrorCode())
}
