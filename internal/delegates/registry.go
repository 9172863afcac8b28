package delegates

import (
	"fmt"
	"strings"

	"github.com/toyz/vtable/internal/utils"
)

// Registry holds the delegates available to a run
type Registry struct {
	delegates *utils.BaseRegistry[string, Delegate]
}

// NewRegistry creates a registry holding the built-in delegates
func NewRegistry() *Registry {
	r := &Registry{
		delegates: utils.NewBaseRegistry[string, Delegate]("delegate", "delegate"),
	}
	r.delegates.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Delegate]("delegate name"),
		utils.NoDuplicateValidator[string, Delegate]("delegate"),
	))

	for _, d := range []Delegate{Mirror{}, Erased{}} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds d under its name
func (r *Registry) Register(d Delegate) error {
	return r.delegates.Register(d.Name(), d)
}

// RegisterTemplates adds a template delegate for every config
func (r *Registry) RegisterTemplates(configs []TemplateConfig) error {
	for _, cfg := range configs {
		d, err := NewTemplateDelegate(cfg)
		if err != nil {
			return err
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the delegate called name
func (r *Registry) Get(name string) (Delegate, error) {
	d, ok := r.delegates.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown delegate '%s' (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// Has reports whether a delegate called name exists
func (r *Registry) Has(name string) bool {
	return r.delegates.Has(name)
}

// Names lists the delegate names in registration order
func (r *Registry) Names() []string {
	return r.delegates.List()
}
