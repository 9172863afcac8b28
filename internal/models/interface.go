package models

import (
	"fmt"
	"strings"
)

// InterfaceDecl is an interface annotated with //vtable::interface
type InterfaceDecl struct {
	Name        string    // interface type name
	PackageName string    // name of the declaring package
	PackagePath string    // import path of the declaring package
	Prefix      string    // descriptor name prefix, defaults to Name
	Bases       []BaseRef // bases in declared order
	Members     []Member  // direct members in declared order
	Methods     []Member  // every method declared directly on the interface
	Delegates   []string  // delegate names to generate descriptors for
	Imports     []Import  // imports needed by member signatures
	FileName    string
	Line        int
}

// Identity returns the registry key: import path and type name.
func (d *InterfaceDecl) Identity() string {
	return d.PackagePath + "." + d.Name
}

// QualifiedName returns the name reported by generated InterfaceName methods.
func (d *InterfaceDecl) QualifiedName() string {
	return d.PackageName + "." + d.Name
}

// DescriptorName returns the descriptor type name for delegate.
func (d *InterfaceDecl) DescriptorName(delegate string) string {
	return d.prefix() + delegate + "VTable"
}

// SlotName returns the slot type name for member under delegate.
func (d *InterfaceDecl) SlotName(delegate, member string) string {
	return d.DescriptorName(delegate) + "_" + member
}

func (d *InterfaceDecl) prefix() string {
	if d.Prefix != "" {
		return d.Prefix
	}
	return d.Name
}

// Method returns the directly declared method called name.
func (d *InterfaceDecl) Method(name string) (Member, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// BaseRef refers to a base interface or reflected struct
type BaseRef struct {
	Name        string // type name
	PackagePath string // import path of the declaring package
	PackageName string // qualifier used in source, empty for the same package
	Line        int
}

// Identity returns the registry key of the referenced declaration.
func (b BaseRef) Identity() string {
	return b.PackagePath + "." + b.Name
}

// Local reports whether the reference is to the referring package.
func (b BaseRef) Local() bool {
	return b.PackageName == ""
}

// Qualify returns name as seen from the referring package.
func (b BaseRef) Qualify(name string) string {
	if b.Local() {
		return name
	}
	return b.PackageName + "." + name
}

func (b BaseRef) String() string {
	return b.Qualify(b.Name)
}

// Member is one method of an interface
type Member struct {
	Name      string
	Signature Signature
	Line      int
}

// Param is a parameter or result of a signature. Type holds the rendered type
// expression; for the variadic parameter it holds the element type.
type Param struct {
	Name string
	Type string
}

// Signature is a rendered method signature
type Signature struct {
	Params   []Param
	Results  []Param
	Variadic bool // last parameter is variadic
}

// FuncType renders the signature as a func type literal.
func (s Signature) FuncType() string {
	return "func" + s.tail()
}

// MethodSpec renders the signature as an interface method named name.
func (s Signature) MethodSpec(name string) string {
	return name + s.tail()
}

// ParamTypes renders the parameter list without names.
func (s Signature) ParamTypes() string {
	types := make([]string, len(s.Params))
	for i, p := range s.Params {
		types[i] = s.paramType(i, p)
	}
	return strings.Join(types, ", ")
}

// ResultTypes renders the result list without names or parentheses.
func (s Signature) ResultTypes() string {
	types := make([]string, len(s.Results))
	for i, r := range s.Results {
		types[i] = r.Type
	}
	return strings.Join(types, ", ")
}

// HasResults reports whether the signature returns anything.
func (s Signature) HasResults() bool {
	return len(s.Results) > 0
}

// CallParams renders the parameter list with names that are safe to declare
// next to a receiver called recv. Blank, missing and clashing names are
// replaced by a0, a1 and so on.
func (s Signature) CallParams(recv string) string {
	names := s.callNames(recv)
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = names[i] + " " + s.paramType(i, p)
	}
	return strings.Join(parts, ", ")
}

// CallArgs renders the argument list matching CallParams.
func (s Signature) CallArgs(recv string) string {
	names := s.callNames(recv)
	if s.Variadic && len(names) > 0 {
		names[len(names)-1] += "..."
	}
	return strings.Join(names, ", ")
}

// CallResults renders the result list for a forwarding method. Names are
// dropped so a bare return is never required.
func (s Signature) CallResults() string {
	switch len(s.Results) {
	case 0:
		return ""
	case 1:
		return s.Results[0].Type
	default:
		return "(" + s.ResultTypes() + ")"
	}
}

func (s Signature) callNames(recv string) []string {
	used := map[string]bool{recv: true}
	for _, p := range s.Params {
		used[p.Name] = true
	}
	names := make([]string, len(s.Params))
	next := 0
	for i, p := range s.Params {
		if p.Name != "" && p.Name != "_" && p.Name != recv {
			names[i] = p.Name
			continue
		}
		for {
			candidate := fmt.Sprintf("a%d", next)
			next++
			if !used[candidate] {
				used[candidate] = true
				names[i] = candidate
				break
			}
		}
	}
	return names
}

func (s Signature) paramType(i int, p Param) string {
	if s.Variadic && i == len(s.Params)-1 {
		return "..." + p.Type
	}
	return p.Type
}

func (s Signature) tail() string {
	var b strings.Builder
	b.WriteString("(")
	named := len(s.Params) > 0 && s.Params[0].Name != ""
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if named {
			b.WriteString(p.Name + " ")
		}
		b.WriteString(s.paramType(i, p))
	}
	b.WriteString(")")

	switch {
	case len(s.Results) == 0:
	case len(s.Results) == 1 && s.Results[0].Name == "":
		b.WriteString(" " + s.Results[0].Type)
	default:
		b.WriteString(" (")
		for i, r := range s.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			if r.Name != "" {
				b.WriteString(r.Name + " ")
			}
			b.WriteString(r.Type)
		}
		b.WriteString(")")
	}
	return b.String()
}

// StructDecl is a struct annotated with //vtable::reflect
type StructDecl struct {
	Name          string
	PackageName   string
	PackagePath   string
	Embeds        []EmbeddedField // embedded fields in declared order
	Fields        []Field         // reflected named fields in order
	ExplicitBases bool            // Embeds came from -Bases and must all be reflected
	FileName      string
	Line          int
}

// Identity returns the registry key: import path and type name.
func (d *StructDecl) Identity() string {
	return d.PackagePath + "." + d.Name
}

// EmbeddedField is an embedded struct field that may be a reflected base
type EmbeddedField struct {
	Ref     BaseRef
	Field   string // field name, the type name
	Pointer bool
}

// Field is a named struct field
type Field struct {
	Name string
	Type string
}
