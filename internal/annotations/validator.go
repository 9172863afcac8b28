package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaValidator defines the interface for validating annotations against their schemas
type SchemaValidator interface {
	// Validate annotation against its schema
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// ApplyDefaults applies default values for missing optional parameters
	ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error
}

type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate validates an annotation against its schema. Every problem is
// reported, in a stable order.
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	var errs []AnnotationError

	for _, paramName := range sortedKeys(schema.Parameters) {
		paramSpec := schema.Parameters[paramName]
		if paramSpec.Required && !annotation.HasParameter(paramName) {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("required parameter of type %s", paramSpec.Type),
				Actual:    "missing",
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Add -%s=<value> to the annotation", paramName),
			})
		}
	}

	for _, paramName := range parameterOrder(annotation) {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  "known parameter",
				Actual:    fmt.Sprintf("unknown parameter '%s'", paramName),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Remove -%s or use one of: %s", paramName, knownParameters(schema)),
			})
			continue
		}

		if !isParameterType(paramValue, paramSpec.Type) {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  paramSpec.Type.String(),
				Actual:    fmt.Sprintf("%T", paramValue),
				Loc:       annotation.Location,
				Hint:      typeHint(paramName, paramSpec.Type),
			})
			continue
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				errs = append(errs, &ValidationError{
					Parameter: paramName,
					Expected:  "valid value",
					Actual:    fmt.Sprintf("%v", paramValue),
					Loc:       annotation.Location,
					Hint:      err.Error(),
				})
			}
		}
	}

	for _, customValidator := range schema.Validators {
		if err := customValidator(annotation); err != nil {
			errs = append(errs, &SchemaError{
				Msg:  err.Error(),
				Loc:  annotation.Location,
				Hint: "Check annotation parameters and their combinations",
			})
		}
	}

	if len(errs) > 0 {
		return &MultipleAnnotationErrors{Errors: errs}
	}
	return nil
}

// ApplyDefaults applies default values for missing optional parameters
func (v *validator) ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	if annotation.Parameters == nil {
		annotation.Parameters = make(map[string]interface{})
	}

	for paramName, paramSpec := range schema.Parameters {
		if _, exists := annotation.Parameters[paramName]; !exists && paramSpec.DefaultValue != nil {
			annotation.Parameters[paramName] = paramSpec.DefaultValue
		}
	}
	return nil
}

func parameterOrder(annotation *ParsedAnnotation) []string {
	if len(annotation.Order) == len(annotation.Parameters) {
		return annotation.Order
	}
	return sortedKeys(annotation.Parameters)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func knownParameters(schema AnnotationSchema) string {
	names := sortedKeys(schema.Parameters)
	for i, name := range names {
		names[i] = "-" + name
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func typeHint(paramName string, paramType ParameterType) string {
	switch paramType {
	case StringType:
		return fmt.Sprintf("Provide a single value: -%s=Value", paramName)
	case BoolType:
		return fmt.Sprintf("Use -%s as a flag or -%s=true|false", paramName, paramName)
	case StringSliceType:
		return fmt.Sprintf("Provide comma-separated values: -%s=A,B", paramName)
	default:
		return "Check the parameter type"
	}
}
