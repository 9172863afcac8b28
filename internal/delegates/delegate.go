// Package delegates computes the slot type a generated slot embeds for a
// member signature.
package delegates

import "github.com/toyz/vtable/internal/models"

// RuntimeImport is the import path of the runtime package generated code uses
const RuntimeImport = "github.com/toyz/vtable/pkg/vtable"

// Delegate maps a member signature to a slot base type
type Delegate interface {
	// Name is the delegate name used in -Delegates and in descriptor names.
	Name() string
	// CalculateType returns the slot base for a member with signature sig.
	CalculateType(sig models.Signature) (models.SlotType, error)
}

var runtimeImport = models.Import{Path: RuntimeImport}

// Mirror stores the member as a typed function value
type Mirror struct{}

// Name returns "Mirror"
func (Mirror) Name() string { return "Mirror" }

// CalculateType returns vtable.Func over the member's func type
func (Mirror) CalculateType(sig models.Signature) (models.SlotType, error) {
	return models.SlotType{
		Expr:     "vtable.Func[" + sig.FuncType() + "]",
		Imports:  []models.Import{runtimeImport},
		Callable: true,
	}, nil
}

// Erased stores the member behind an untyped call interface
type Erased struct{}

// Name returns "Erased"
func (Erased) Name() string { return "Erased" }

// CalculateType returns vtable.Erased for every signature
func (Erased) CalculateType(models.Signature) (models.SlotType, error) {
	return models.SlotType{
		Expr:    "vtable.Erased",
		Imports: []models.Import{runtimeImport},
		SetErr:  true,
	}, nil
}
