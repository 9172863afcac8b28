package annotations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix starts every annotation comment.
const Prefix = "//vtable::"

// ParserEngine parses annotation comments
type ParserEngine interface {
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)
}

// ParticipleParser parses annotations with an alecthomas/participle grammar
// and validates them against the registered schemas
type ParticipleParser struct {
	parser    *participle.Parser[Annotation]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// Annotation is the grammar root: //vtable::<kind> -Param=Value,...
type Annotation struct {
	Pos        lexer.Position
	Comment    string       `parser:"@Comment"`
	Namespace  string       `parser:"@'vtable' Scope"`
	Kind       string       `parser:"@Ident"`
	Parameters []*Parameter `parser:"@@*"`
}

// Parameter is a single -Name or -Name=V1,V2 item
type Parameter struct {
	Pos    lexer.Position
	Name   string   `parser:"'-' @Ident"`
	Values []string `parser:"( '=' @(Ident | String) ( ',' @(Ident | String) )* )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[-=,]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// NewParticipleParser creates a parser validating against registry. A nil
// registry skips schema validation.
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[Annotation](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &ParticipleParser{
		parser:    parser,
		registry:  registry,
		validator: NewValidator(),
	}
}

// NewDefaultParser creates a parser using the built-in schemas
func NewDefaultParser() *ParticipleParser {
	return NewParticipleParser(DefaultRegistry())
}

// IsAnnotation reports whether a comment line is a vtable annotation.
func IsAnnotation(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), Prefix)
}

// ParseAnnotation parses and validates a single annotation comment
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	comment = strings.TrimSpace(comment)

	ast, err := p.parser.ParseString(location.File, comment)
	if err != nil {
		return nil, p.syntaxError(err, location, kindOf(comment))
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, NewSyntaxErrorWithContext(err.Error(), offset(location, ast.Pos), ast.Kind)
	}

	var schema AnnotationSchema
	if p.registry != nil {
		schema, err = p.registry.GetSchema(annotationType)
		if err != nil {
			return nil, &SchemaError{
				Msg:  err.Error(),
				Loc:  location,
				Hint: "Register the schema before parsing",
			}
		}
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}

	for _, param := range ast.Parameters {
		loc := offset(location, param.Pos)
		if strings.Contains(param.Name, ".") {
			return nil, NewSyntaxErrorWithContext(
				fmt.Sprintf("invalid parameter name -%s", param.Name), loc, ast.Kind)
		}
		if parsed.HasParameter(param.Name) {
			return nil, NewSyntaxErrorWithContext(
				fmt.Sprintf("duplicate parameter -%s", param.Name), loc, ast.Kind)
		}

		spec, known := schema.Parameters[param.Name]
		value, err := convertParameter(param, spec, known, loc)
		if err != nil {
			return nil, err
		}
		parsed.Parameters[param.Name] = value
		parsed.Order = append(parsed.Order, param.Name)
	}

	if p.registry != nil {
		if err := p.validator.Validate(parsed, schema); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

func convertParameter(param *Parameter, spec ParameterSpec, known bool, loc SourceLocation) (interface{}, error) {
	values := param.Values
	if !known {
		if len(values) == 0 {
			return true, nil
		}
		return values, nil
	}

	switch spec.Type {
	case StringType:
		if len(values) != 1 {
			return nil, &ValidationError{
				Parameter: param.Name,
				Expected:  "a single value",
				Actual:    fmt.Sprintf("%d values", len(values)),
				Loc:       loc,
				Hint:      typeHint(param.Name, spec.Type),
			}
		}
		return values[0], nil
	case BoolType:
		switch len(values) {
		case 0:
			return true, nil
		case 1:
			b, err := strconv.ParseBool(values[0])
			if err == nil {
				return b, nil
			}
		}
		return nil, &ValidationError{
			Parameter: param.Name,
			Expected:  "bool",
			Actual:    strings.Join(values, ","),
			Loc:       loc,
			Hint:      typeHint(param.Name, spec.Type),
		}
	case StringSliceType:
		if len(values) == 0 {
			return nil, &ValidationError{
				Parameter: param.Name,
				Expected:  "at least one value",
				Actual:    "missing value",
				Loc:       loc,
				Hint:      typeHint(param.Name, spec.Type),
			}
		}
		return append([]string(nil), values...), nil
	default:
		return values, nil
	}
}

func (p *ParticipleParser) syntaxError(err error, location SourceLocation, kind string) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return NewSyntaxErrorWithContext(perr.Message(), offset(location, perr.Position()), kind)
	}
	return NewSyntaxErrorWithContext(err.Error(), location, kind)
}

// offset moves location to pos, a position inside the annotation comment.
func offset(location SourceLocation, pos lexer.Position) SourceLocation {
	if pos.Column == 0 {
		return location
	}
	loc := location
	if loc.Column > 0 {
		loc.Column += pos.Column - 1
	} else {
		loc.Column = pos.Column
	}
	return loc
}

func kindOf(comment string) string {
	rest := strings.TrimPrefix(strings.TrimSpace(comment), Prefix)
	kind, _, _ := strings.Cut(rest, " ")
	return kind
}
