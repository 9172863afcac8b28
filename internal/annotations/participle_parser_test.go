package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *ParticipleParser {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	return NewParticipleParser(registry)
}

func TestParticipleParserBasic(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "shapes.go", Line: 12, Column: 1}

	tests := []struct {
		name       string
		input      string
		wantType   AnnotationType
		wantParams map[string]interface{}
	}{
		{
			name:       "bare interface",
			input:      "//vtable::interface",
			wantType:   InterfaceAnnotation,
			wantParams: map[string]interface{}{},
		},
		{
			name:     "interface with members",
			input:    "//vtable::interface -Members=Area,Perimeter",
			wantType: InterfaceAnnotation,
			wantParams: map[string]interface{}{
				"Members": []string{"Area", "Perimeter"},
			},
		},
		{
			name:     "qualified bases and delegates",
			input:    "//vtable::interface -Bases=Shape,io.Closer -Delegates=Mirror",
			wantType: InterfaceAnnotation,
			wantParams: map[string]interface{}{
				"Bases":     []string{"Shape", "io.Closer"},
				"Delegates": []string{"Mirror"},
			},
		},
		{
			name:     "spaces around punctuation",
			input:    "  //vtable::interface -Members = Area , Perimeter -Name=Geo",
			wantType: InterfaceAnnotation,
			wantParams: map[string]interface{}{
				"Members": []string{"Area", "Perimeter"},
				"Name":    "Geo",
			},
		},
		{
			name:     "quoted value",
			input:    `//vtable::interface -Name="Geo"`,
			wantType: InterfaceAnnotation,
			wantParams: map[string]interface{}{
				"Name": "Geo",
			},
		},
		{
			name:     "reflect fields",
			input:    "//vtable::reflect -Fields=X,Y",
			wantType: ReflectAnnotation,
			wantParams: map[string]interface{}{
				"Fields": []string{"X", "Y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, parsed.Type)
			assert.Equal(t, tt.wantParams, parsed.Parameters)
			assert.Equal(t, location, parsed.Location)
		})
	}
}

func TestParticipleParserKeepsParameterOrder(t *testing.T) {
	parser := newTestParser(t)

	parsed, err := parser.ParseAnnotation("//vtable::interface -Name=X -Bases=A -Members=m", SourceLocation{File: "a.go", Line: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Bases", "Members"}, parsed.Order)
	assert.Equal(t, "X", parsed.GetString("Name"))
	assert.Equal(t, []string{"A"}, parsed.GetStringSlice("Bases"))
	assert.Nil(t, parsed.GetStringSlice("Delegates"))
	assert.Equal(t, []string{"Mirror"}, parsed.GetStringSlice("Delegates", []string{"Mirror"}))
}

func TestParticipleParserErrors(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "shapes.go", Line: 3, Column: 1}

	tests := []struct {
		name     string
		input    string
		wantCode ErrorCode
		contains string
	}{
		{"unknown kind", "//vtable::service", SyntaxErrorCode, "unknown annotation type"},
		{"missing kind", "//vtable::", SyntaxErrorCode, "unexpected token"},
		{"missing value", "//vtable::interface -Members=", SyntaxErrorCode, "unexpected token"},
		{"trailing comma", "//vtable::interface -Members=A,", SyntaxErrorCode, "unexpected token"},
		{"stray word", "//vtable::interface Shape", SyntaxErrorCode, "unexpected token"},
		{"duplicate parameter", "//vtable::interface -Members=A -Members=B", SyntaxErrorCode, "duplicate parameter -Members"},
		{"qualified parameter", "//vtable::interface -a.b=C", SyntaxErrorCode, "invalid parameter name"},
		{"bad character", "//vtable::interface -Members=A;B", SyntaxErrorCode, ""},
		{"unknown parameter", "//vtable::interface -Virtual", ValidationErrorCode, "unknown parameter 'Virtual'"},
		{"list for string", "//vtable::interface -Name=A,B", ValidationErrorCode, "a single value"},
		{"flag for list", "//vtable::interface -Members", ValidationErrorCode, "missing value"},
		{"duplicate member", "//vtable::interface -Members=Area,Area", ValidationErrorCode, "duplicate entry 'Area'"},
		{"bad base", "//vtable::interface -Bases=a.b.C", SyntaxErrorCode, ""},
		{"reflect rejects delegates", "//vtable::reflect -Delegates=Mirror", ValidationErrorCode, "unknown parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "shapes.go:3")

			var annErr AnnotationError
			require.True(t, errors.As(err, &annErr), "error %T should be an AnnotationError", err)
			assert.Equal(t, tt.wantCode, annErr.Code())
		})
	}
}

func TestParticipleParserErrorColumn(t *testing.T) {
	parser := newTestParser(t)

	_, err := parser.ParseAnnotation("//vtable::interface -Members=A -Members=B", SourceLocation{File: "x.go", Line: 7, Column: 1})
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 7, syntaxErr.Loc.Line)
	assert.Equal(t, 32, syntaxErr.Loc.Column)
	assert.NotEmpty(t, syntaxErr.Hint)
}

func TestParticipleParserWithoutRegistry(t *testing.T) {
	parser := NewParticipleParser(nil)

	parsed, err := parser.ParseAnnotation("//vtable::interface -Anything=x -Flag", SourceLocation{File: "x.go", Line: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, parsed.Parameters["Anything"])
	assert.Equal(t, true, parsed.Parameters["Flag"])
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//vtable::interface"))
	assert.True(t, IsAnnotation("  //vtable::reflect -Fields=X"))
	assert.False(t, IsAnnotation("// vtable::interface"))
	assert.False(t, IsAnnotation("//mock::gen"))
	assert.False(t, IsAnnotation("// Shape is a shape."))
}
