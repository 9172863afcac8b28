package delegates

import (
	"fmt"
	"go/parser"
	"strings"
	"text/template"

	"github.com/toyz/vtable/internal/models"
	"github.com/toyz/vtable/internal/utils"
)

// TemplateConfig describes a delegate configured in .vtable.yaml
type TemplateConfig struct {
	Name     string   `yaml:"name"`
	Slot     string   `yaml:"slot"`     // text/template for the slot base type
	Imports  []string `yaml:"imports"`  // import paths the slot type refers to
	Callable bool     `yaml:"callable"` // the slot base has Must() returning the func type
	SetError bool     `yaml:"set_error"`
}

// SlotData is the data a slot template is executed with
type SlotData struct {
	Func     string // func type literal, e.g. func(x int) error
	Params   string // parameter types, e.g. int, ...string
	Results  string // result types, e.g. int, error
	Variadic bool
}

// TemplateDelegate renders the slot base type from a text/template
type TemplateDelegate struct {
	config TemplateConfig
	tmpl   *template.Template
}

// NewTemplateDelegate validates cfg and parses its slot template
func NewTemplateDelegate(cfg TemplateConfig) (*TemplateDelegate, error) {
	if err := utils.IsValidGoIdentifier("name")(cfg.Name); err != nil {
		return nil, fmt.Errorf("delegate %q: %w", cfg.Name, err)
	}
	if err := utils.NotEmpty("slot")(strings.TrimSpace(cfg.Slot)); err != nil {
		return nil, fmt.Errorf("delegate %q: %w", cfg.Name, err)
	}

	tmpl, err := template.New(cfg.Name).Option("missingkey=error").Parse(cfg.Slot)
	if err != nil {
		return nil, fmt.Errorf("delegate %q: %w", cfg.Name, err)
	}

	return &TemplateDelegate{config: cfg, tmpl: tmpl}, nil
}

// Name returns the configured name
func (d *TemplateDelegate) Name() string {
	return d.config.Name
}

// CalculateType executes the slot template for sig. The result must be a
// valid Go type expression.
func (d *TemplateDelegate) CalculateType(sig models.Signature) (models.SlotType, error) {
	var b strings.Builder
	data := SlotData{
		Func:     sig.FuncType(),
		Params:   sig.ParamTypes(),
		Results:  sig.ResultTypes(),
		Variadic: sig.Variadic,
	}
	if err := d.tmpl.Execute(&b, data); err != nil {
		return models.SlotType{}, fmt.Errorf("delegate %s: %w", d.config.Name, err)
	}

	expr := strings.TrimSpace(b.String())
	if _, err := parser.ParseExpr(expr); err != nil {
		return models.SlotType{}, fmt.Errorf("delegate %s: slot type %q is not a Go type: %w", d.config.Name, expr, err)
	}

	imports := make([]models.Import, 0, len(d.config.Imports))
	for _, path := range d.config.Imports {
		imports = append(imports, models.Import{Path: path})
	}

	return models.SlotType{
		Expr:     expr,
		Imports:  imports,
		Callable: d.config.Callable,
		SetErr:   d.config.SetError,
	}, nil
}
