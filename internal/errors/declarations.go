package errors

import (
	"fmt"
	"strings"
)

// ValidationError reports a declaration that is well formed but not valid
type ValidationError struct {
	*BaseError
	Interface string // qualified interface or struct name
	Member    string // member or field involved, if any
}

// NewValidationError creates a validation error for decl
func NewValidationError(decl, member, message string) *ValidationError {
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message).
			WithContext("declaration", decl),
		Interface: decl,
		Member:    member,
	}
}

// WithLocation adds location information to the error
func (e *ValidationError) WithLocation(loc SourceLocation) *ValidationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SyntaxError represents an annotation or source parsing error
type SyntaxError struct {
	*BaseError
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// RegistrationError reports an identity registered more than once or a
// reference to an identity that was never registered
type RegistrationError struct {
	*BaseError
	Identity string // registry key involved
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(identity, message string) *RegistrationError {
	return &RegistrationError{
		BaseError: New(RegistrationErrorCode, message).
			WithContext("identity", identity),
		Identity: identity,
	}
}

// WithLocation adds location information to the error
func (e *RegistrationError) WithLocation(loc SourceLocation) *RegistrationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *RegistrationError) WithSuggestion(suggestion string) *RegistrationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// GenerationError represents an error while producing output
type GenerationError struct {
	*BaseError
	TargetFile string // file being generated
	Stage      string // stage of generation where the error occurred
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// WithTargetFile sets the target file
func (e *GenerationError) WithTargetFile(targetFile string) *GenerationError {
	e.TargetFile = targetFile
	e.BaseError.WithContext("target_file", targetFile)
	return e
}

// WithStage sets the generation stage
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	return e
}

// DuplicateDeclaration reports an identity declared twice.
func DuplicateDeclaration(identity string, loc, previous SourceLocation) *RegistrationError {
	return NewRegistrationError(identity, fmt.Sprintf("'%s' is already declared at %s", identity, previous)).
		WithLocation(loc).
		WithSuggestion("Remove one of the annotations; every interface or struct may be declared once")
}

// UndeclaredBase reports a base that has no declaration.
func UndeclaredBase(decl, base string, loc SourceLocation) *RegistrationError {
	return NewRegistrationError(base, fmt.Sprintf("base '%s' of '%s' is not declared", base, decl)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Annotate '%s' with //vtable::interface", base)).
		WithSuggestion("Cross-package bases must be declared in the same module or in a package passed to the same run")
}

// MissingDelegate reports a base that has no descriptor for a delegate its
// derived interface needs.
func MissingDelegate(decl, base, delegate string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, "",
		fmt.Sprintf("base '%s' has no %s descriptor, which '%s' embeds", base, delegate, decl)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Add %s to the -Delegates of '%s'", delegate, base))
}

// CyclicBases reports a declaration that reaches itself through its bases.
func CyclicBases(path []string, loc SourceLocation) *ValidationError {
	return NewValidationError(path[0], "",
		fmt.Sprintf("cyclic bases: %s", strings.Join(path, " -> "))).
		WithLocation(loc).
		WithSuggestion("An interface cannot be its own base")
}

// DiamondBases reports a base reached along two inheritance paths.
func DiamondBases(decl, base string, first, second []string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, "",
		fmt.Sprintf("'%s' reaches base '%s' twice: %s and %s", decl, base,
			strings.Join(first, " -> "), strings.Join(second, " -> "))).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Declare the members of '%s' on a single path", base))
}

// MemberNotDeclared reports a -Members entry the interface does not declare.
func MemberNotDeclared(decl, member string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, member,
		fmt.Sprintf("member '%s' is not a method declared on '%s'", member, decl)).
		WithLocation(loc).
		WithSuggestion("-Members may only name methods declared directly on the interface")
}

// DuplicateMember reports a member name appearing twice in one declaration.
func DuplicateMember(decl, member string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, member,
		fmt.Sprintf("member '%s' appears more than once in '%s'", member, decl)).
		WithLocation(loc).
		WithSuggestion("List each member once")
}

// MemberCollision reports a member name reachable from two declarations.
func MemberCollision(decl, member, other string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, member,
		fmt.Sprintf("member '%s' of '%s' is also declared by '%s'", member, decl, other)).
		WithLocation(loc).
		WithSuggestion("Rename the member or drop it from -Members")
}

// ReservedName reports a member whose name clashes with generated code.
func ReservedName(decl, member, reason string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, member,
		fmt.Sprintf("member '%s' of '%s' %s", member, decl, reason)).
		WithLocation(loc).
		WithSuggestion("Rename the method or pick another descriptor prefix with -Name")
}

// Unsupported reports a declaration form the generator cannot handle.
func Unsupported(decl, what string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, "", fmt.Sprintf("'%s' %s", decl, what)).
		WithLocation(loc)
}

// NotReflected reports an explicit struct base without a reflect annotation.
func NotReflected(decl, base string, loc SourceLocation) *RegistrationError {
	return NewRegistrationError(base, fmt.Sprintf("base '%s' of '%s' is not reflected", base, decl)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Annotate '%s' with //vtable::reflect", base))
}

// EmbeddedFieldClash reports two bases whose descriptors would be embedded
// under the same field name.
func EmbeddedFieldClash(decl, field, first, second string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, "",
		fmt.Sprintf("bases '%s' and '%s' of '%s' both embed a descriptor field named '%s'",
			first, second, decl, field)).
		WithLocation(loc).
		WithSuggestion(fmt.Sprintf("Give '%s' another descriptor prefix with -Name", second))
}

// GeneratedNameClash reports a generated type name that is already taken in
// the package, by another generated type or by a declared type.
func GeneratedNameClash(decl, name, other string, loc SourceLocation) *ValidationError {
	return NewValidationError(decl, "",
		fmt.Sprintf("'%s' generates type '%s', which is already %s", decl, name, other)).
		WithLocation(loc).
		WithSuggestion("Pick a unique descriptor prefix with -Name")
}
