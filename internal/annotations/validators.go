package annotations

import (
	"fmt"
	"go/token"
	"strings"
)

// ValidateIdentifier checks that v is a Go identifier
func ValidateIdentifier(v interface{}) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	if !token.IsIdentifier(name) {
		return fmt.Errorf("'%s' is not a valid Go identifier", name)
	}
	return nil
}

// ValidateIdentifierList checks that v is a list of distinct Go identifiers
func ValidateIdentifierList(v interface{}) error {
	return validateList(v, func(name string) error {
		if !token.IsIdentifier(name) {
			return fmt.Errorf("'%s' is not a valid Go identifier", name)
		}
		return nil
	})
}

// ValidateTypeNameList checks that v is a list of distinct type names, each
// either Name or pkg.Name
func ValidateTypeNameList(v interface{}) error {
	return validateList(v, func(name string) error {
		pkg, typ, qualified := strings.Cut(name, ".")
		if !qualified {
			pkg, typ = "", name
		}
		if qualified && !token.IsIdentifier(pkg) || !token.IsIdentifier(typ) {
			return fmt.Errorf("'%s' is not a valid type name", name)
		}
		return nil
	})
}

func validateList(v interface{}, check func(string) error) error {
	names, ok := v.([]string)
	if !ok {
		return fmt.Errorf("expected []string, got %T", v)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := check(name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("duplicate entry '%s'", name)
		}
		seen[name] = true
	}
	return nil
}

// MembersParameterSpec returns the -Members parameter specification
func MembersParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringSliceType,
		Description: "Direct members in visit order; defaults to the methods declared on the interface",
		Validator:   ValidateIdentifierList,
	}
}

// BasesParameterSpec returns the -Bases parameter specification
func BasesParameterSpec(description string) ParameterSpec {
	return ParameterSpec{
		Type:        StringSliceType,
		Description: description,
		Validator:   ValidateTypeNameList,
	}
}

// DelegatesParameterSpec returns the -Delegates parameter specification
func DelegatesParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringSliceType,
		Description: "Delegates to generate descriptors for; defaults to the configured delegates",
		Validator:   ValidateIdentifierList,
	}
}

// NameParameterSpec returns the -Name parameter specification
func NameParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Description: "Descriptor name prefix; defaults to the interface name",
		Validator:   ValidateIdentifier,
	}
}

// FieldsParameterSpec returns the -Fields parameter specification
func FieldsParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringSliceType,
		Description: "Reflected fields in visit order; defaults to every named field",
		Validator:   ValidateIdentifierList,
	}
}
