package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/toyz/vtable/internal/annotations"
)

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	message := fmt.Sprintf("failed to parse %s", item)
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, message, cause),
	}
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to generate %s", item)
	err := &GenerationError{
		BaseError: Wrap(GenerationErrorCode, message, cause),
	}
	return err.WithTargetFile(item)
}

// VerificationFailed reports written packages that do not type-check. The
// type errors are part of the message.
func VerificationFailed(cause error) *GenerationError {
	err := &GenerationError{
		BaseError: Wrapf(GenerationErrorCode, cause, "generated packages do not type-check: %v", cause),
	}
	err.BaseError.WithSuggestion("Fix the reported errors in the annotated declarations and run again")
	return err.WithStage("verify")
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return &GenerationError{
		BaseError:  Wrap(TemplateErrorCode, message, cause),
		TargetFile: templateName,
		Stage:      operation,
	}
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// FromAnnotation converts an annotation parser error into VTableErrors,
// keeping location and suggestion. Errors of other kinds become a single
// syntax error.
func FromAnnotation(err error) []VTableError {
	var multi *annotations.MultipleAnnotationErrors
	if stderrors.As(err, &multi) {
		out := make([]VTableError, 0, len(multi.Errors))
		for _, e := range multi.Errors {
			out = append(out, fromAnnotationError(e))
		}
		return out
	}

	var annErr annotations.AnnotationError
	if stderrors.As(err, &annErr) {
		return []VTableError{fromAnnotationError(annErr)}
	}
	return []VTableError{WrapParseError("annotation", err)}
}

func fromAnnotationError(err annotations.AnnotationError) VTableError {
	loc := err.Location()
	base := Wrap(annotationCode(err.Code()), err.Error(), err).
		WithLocation(SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column})
	// location and hint are reported separately
	base.Message = bareMessage(err)
	if hint := err.Suggestion(); hint != "" {
		base.WithSuggestion(hint)
	}
	return base
}

func annotationCode(code annotations.ErrorCode) ErrorCode {
	switch code {
	case annotations.SyntaxErrorCode:
		return SyntaxErrorCode
	case annotations.ValidationErrorCode:
		return ValidationErrorCode
	case annotations.SchemaErrorCode:
		return SchemaErrorCode
	case annotations.RegistrationErrorCode:
		return RegistrationErrorCode
	default:
		return UnknownErrorCode
	}
}

func bareMessage(err annotations.AnnotationError) string {
	msg := strings.TrimPrefix(err.Error(), err.Location().String()+": ")
	if hint := err.Suggestion(); hint != "" {
		msg = strings.TrimSuffix(msg, ". "+hint)
	}
	return msg
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err VTableError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
