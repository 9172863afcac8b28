package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorReportsEveryProblem(t *testing.T) {
	v := NewValidator()
	annotation := &ParsedAnnotation{
		Type: InterfaceAnnotation,
		Parameters: map[string]interface{}{
			"Members": []string{"Area", "1bad"},
			"Name":    []string{"A", "B"},
			"Virtual": true,
		},
		Order:    []string{"Members", "Name", "Virtual"},
		Location: SourceLocation{File: "a.go", Line: 4},
	}

	err := v.Validate(annotation, InterfaceAnnotationSchema)
	var multi *MultipleAnnotationErrors
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi.Errors, 3)

	assert.Contains(t, multi.Errors[0].Error(), "not a valid Go identifier")
	assert.Contains(t, multi.Errors[1].Error(), "expected string")
	assert.Contains(t, multi.Errors[2].Error(), "unknown parameter 'Virtual'")
	assert.Contains(t, multi.Errors[2].Suggestion(), "-Members")
	assert.True(t, multi.HasType(ValidationErrorCode))
	assert.False(t, multi.HasType(SyntaxErrorCode))
}

func TestValidatorRequiredAndCustom(t *testing.T) {
	schema := AnnotationSchema{
		Type: ReflectAnnotation,
		Parameters: map[string]ParameterSpec{
			"Fields": {Type: StringSliceType, Required: true},
		},
		Validators: []CustomValidator{
			func(a *ParsedAnnotation) error {
				if a.HasParameter("Fields") {
					return nil
				}
				return errors.New("no fields")
			},
		},
	}

	err := NewValidator().Validate(&ParsedAnnotation{Type: ReflectAnnotation, Parameters: map[string]interface{}{}}, schema)
	var multi *MultipleAnnotationErrors
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 2)
	assert.Equal(t, ValidationErrorCode, multi.Errors[0].Code())
	assert.Equal(t, SchemaErrorCode, multi.Errors[1].Code())
}

func TestValidatorApplyDefaults(t *testing.T) {
	schema := AnnotationSchema{
		Type: InterfaceAnnotation,
		Parameters: map[string]ParameterSpec{
			"Delegates": {Type: StringSliceType, DefaultValue: []string{"Mirror"}},
			"Name":      {Type: StringType},
		},
	}
	annotation := &ParsedAnnotation{Type: InterfaceAnnotation}

	require.NoError(t, NewValidator().ApplyDefaults(annotation, schema))
	assert.Equal(t, []string{"Mirror"}, annotation.GetStringSlice("Delegates"))
	assert.False(t, annotation.HasParameter("Name"))
}

func TestValidateTypeNameList(t *testing.T) {
	assert.NoError(t, ValidateTypeNameList([]string{"Shape", "io.Closer"}))
	assert.Error(t, ValidateTypeNameList([]string{".Closer"}))
	assert.Error(t, ValidateTypeNameList([]string{"io."}))
	assert.Error(t, ValidateTypeNameList([]string{"Shape", "Shape"}))
	assert.Error(t, ValidateTypeNameList("Shape"))
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("Geo"))
	assert.Error(t, ValidateIdentifier("9Geo"))
	assert.Error(t, ValidateIdentifier(3))
}
