package templates

import (
	"fmt"
	"strings"
	"text/template"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]*template.Template),
	}

	registry.register("file-header", fileHeaderTemplate)
	registry.register("descriptor", descriptorTemplate)
	registry.register("slot", slotTemplate)
	registry.register("reflect", reflectTemplate)

	return registry
}

func (tr *TemplateRegistry) register(name, text string) {
	tr.templates[name] = template.Must(template.New(name).Parse(text))
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (*template.Template, bool) {
	tmpl, exists := tr.templates[name]
	return tmpl, exists
}

// Execute renders the named template with data
func (tr *TemplateRegistry) Execute(name string, data interface{}) (string, error) {
	tmpl, ok := tr.Get(name)
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DefaultTemplateRegistry is the registry used by the generator
var DefaultTemplateRegistry = NewTemplateRegistry()

const fileHeaderTemplate = `// Code generated by vtable. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}`

const descriptorTemplate = `
// {{.Name}} holds one {{.Delegate}} slot per member of {{.Interface}}.
type {{.Name}} struct {
{{- range .Bases}}
	{{.Type}}
{{- end}}
	_ vtable.Marker[{{.Interface}}]
{{- if .Members}}
{{range .Members}}
	{{.Field}} {{.Slot}}
{{- end}}
{{- end}}
}

var _ vtable.Descriptor = (*{{.Name}})(nil)

// InterfaceName returns "{{.Qualified}}".
func (*{{.Name}}) InterfaceName() string {
	return "{{.Qualified}}"
}

// Visit calls v for every slot of {{.Interface}}{{if .Bases}}, inherited slots first{{else}} in declaration order{{end}}.
func (vt *{{.Name}}) Visit(v vtable.Visitor) {
{{- range .Bases}}
	vt.{{.Field}}.Visit(v)
{{- end}}
{{- range .Members}}
	v.Visit(&vt.{{.Field}}, "{{.Field}}")
{{- end}}
}
`

const slotTemplate = `
// {{.Name}} is the {{.Delegate}} slot for {{.Interface}}.{{.Member}}.
type {{.Name}} struct {
	{{.Base}}
}

// Name returns "{{.Member}}".
func ({{.Name}}) Name() string {
	return "{{.Member}}"
}

// MemberOf returns the {{.Member}} method of impl.
func ({{.Name}}) MemberOf(impl {{.MethodIface}}) {{.FuncType}} {
	return impl.{{.Member}}
}

// BindTo stores the {{.Member}} method of impl in the slot.
func (s *{{.Name}}) BindTo(impl any) error {
	m, ok := impl.({{.MethodIface}})
	if !ok {
		return vtable.MissingMember("{{.Qualified}}", "{{.Member}}", impl)
	}
{{- if .SetErr}}
	if err := s.Set(m.{{.Member}}); err != nil {
		return vtable.NewBindError("{{.Qualified}}", "{{.Member}}", impl, err)
	}
{{- else}}
	s.Set(m.{{.Member}})
{{- end}}
	return nil
}
{{- if .Callable}}

// Call invokes the bound {{.Member}} function. It panics with
// vtable.ErrNotBound when the slot is not bound.
func (s *{{.Name}}) Call({{.CallParams}}){{if .CallResults}} {{.CallResults}}{{end}} {
	{{if .HasResults}}return {{end}}s.Must()({{.CallArgs}})
}
{{- end}}
`

const reflectTemplate = `
var _ vtable.Reflected = (*{{.Name}})(nil)

// VisitFields calls v for every reflected field of {{.Name}}{{if .Embeds}}, embedded
// reflected structs first{{end}}.
func (r *{{.Name}}) VisitFields(v vtable.FieldVisitor) {
{{- range .Embeds}}
{{- if .Pointer}}
	if r.{{.Field}} != nil {
		r.{{.Field}}.VisitFields(v)
	}
{{- else}}
	r.{{.Field}}.VisitFields(v)
{{- end}}
{{- end}}
{{- range .Fields}}
	v.VisitField(&r.{{.}}, "{{.}}")
{{- end}}
}
`
