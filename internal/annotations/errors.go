package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
	RegistrationErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	case RegistrationErrorCode:
		return "RegistrationError"
	default:
		return "UnknownError"
	}
}

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string         // Parameter name that failed validation
	Expected  string         // What was expected
	Actual    string         // What was provided
	Loc       SourceLocation // Where the error occurred
	Hint      string         // Suggested fix
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: parameter '%s' validation failed: expected %s, got %s",
		e.Loc, e.Parameter, e.Expected, e.Actual)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%s: syntax error: %s", e.Loc, e.Msg)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents a schema-related error
type SchemaError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: schema error: %s", e.Loc, e.Msg)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// RegistrationError represents an error during annotation type registration
type RegistrationError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred (optional)
	Hint string         // Suggested fix
}

func (e *RegistrationError) Error() string {
	if e.Loc.File != "" {
		return fmt.Sprintf("%s: registration error: %s. %s", e.Loc, e.Msg, e.Hint)
	}
	return fmt.Sprintf("registration error: %s. %s", e.Msg, e.Hint)
}

func (e *RegistrationError) Location() SourceLocation { return e.Loc }
func (e *RegistrationError) Suggestion() string       { return e.Hint }
func (e *RegistrationError) Code() ErrorCode          { return RegistrationErrorCode }

// MultipleAnnotationErrors represents multiple annotation errors collected together
type MultipleAnnotationErrors struct {
	Errors []AnnotationError
}

func (e *MultipleAnnotationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple annotation errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleAnnotationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// HasType returns true if any error of the specified type exists
func (e *MultipleAnnotationErrors) HasType(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.Code() == code {
			return true
		}
	}
	return false
}

// NewSyntaxErrorWithContext creates a syntax error with a suggestion chosen
// from the message and the annotation kind being parsed.
func NewSyntaxErrorWithContext(msg string, loc SourceLocation, kind string) *SyntaxError {
	return &SyntaxError{
		Msg:  msg,
		Loc:  loc,
		Hint: generateSyntaxSuggestion(msg, kind),
	}
}

func generateSyntaxSuggestion(msg, kind string) string {
	msg = strings.ToLower(msg)

	switch {
	case strings.Contains(msg, "unknown annotation type"):
		return "Supported annotation types: interface, reflect. Example: //vtable::interface"
	case strings.Contains(msg, "unexpected token \"<eof>\""), strings.Contains(msg, "missing value"):
		return "Parameters with '=' need at least one value. Example: -Members=Area,Perimeter"
	case strings.Contains(msg, "duplicate parameter"):
		return "Give each parameter once and list every value after a single '='"
	case strings.Contains(msg, "unexpected token"):
		switch kind {
		case "interface":
			return "Interface format: //vtable::interface [-Bases=A,B] [-Members=m1,m2] [-Delegates=Mirror,Erased] [-Name=Prefix]"
		case "reflect":
			return "Reflect format: //vtable::reflect [-Fields=F1,F2] [-Bases=Embedded]"
		}
		return "Parameters should be written as '-Name=Value' or '-Name=V1,V2'"
	default:
		return "Check annotation syntax: //vtable::<kind> -Param=Value"
	}
}
