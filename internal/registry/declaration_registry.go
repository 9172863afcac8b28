package registry

import (
	"sync"

	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/models"
	"github.com/toyz/vtable/internal/utils"
)

// Registry is the default DeclarationRegistry, keyed by import path and type
// name
type Registry struct {
	mu         sync.Mutex // serialises check-then-register
	interfaces *utils.BaseRegistry[string, *models.InterfaceDecl]
	structs    *utils.BaseRegistry[string, *models.StructDecl]
}

// NewRegistry creates an empty declaration registry
func NewRegistry() *Registry {
	return &Registry{
		interfaces: utils.NewBaseRegistry[string, *models.InterfaceDecl]("interface", "interface"),
		structs:    utils.NewBaseRegistry[string, *models.StructDecl]("struct", "struct"),
	}
}

// RegisterInterface records decl. Registering the same identity twice is a
// registration error naming both locations.
func (r *Registry) RegisterInterface(decl *models.InterfaceDecl) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.interfaces.Get(decl.Identity()); ok {
		return errors.DuplicateDeclaration(decl.QualifiedName(),
			declLocation(decl.FileName, decl.Line), declLocation(prev.FileName, prev.Line))
	}
	return r.interfaces.Register(decl.Identity(), decl)
}

// RegisterStruct records a reflected struct
func (r *Registry) RegisterStruct(decl *models.StructDecl) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.structs.Get(decl.Identity()); ok {
		return errors.DuplicateDeclaration(decl.PackageName+"."+decl.Name,
			declLocation(decl.FileName, decl.Line), declLocation(prev.FileName, prev.Line))
	}
	return r.structs.Register(decl.Identity(), decl)
}

// RegisterPackage records every declaration of metadata and collects the
// registration errors
func (r *Registry) RegisterPackage(metadata *models.PackageMetadata) error {
	multi := errors.NewMultipleErrors()
	for i := range metadata.Interfaces {
		if err := r.RegisterInterface(&metadata.Interfaces[i]); err != nil {
			multi.AddError(err)
		}
	}
	for i := range metadata.Structs {
		if err := r.RegisterStruct(&metadata.Structs[i]); err != nil {
			multi.AddError(err)
		}
	}
	return multi.ErrorOrNil()
}

// Interface returns the interface registered under identity
func (r *Registry) Interface(identity string) (*models.InterfaceDecl, bool) {
	return r.interfaces.Get(identity)
}

// Struct returns the struct registered under identity
func (r *Registry) Struct(identity string) (*models.StructDecl, bool) {
	return r.structs.Get(identity)
}

// Interfaces returns every interface in registration order
func (r *Registry) Interfaces() []*models.InterfaceDecl {
	return r.interfaces.Values()
}

// Structs returns every reflected struct in registration order
func (r *Registry) Structs() []*models.StructDecl {
	return r.structs.Values()
}

// Validate checks every registered declaration
func (r *Registry) Validate() error {
	multi := errors.NewMultipleErrors()
	for _, decl := range r.interfaces.Values() {
		if err := r.ValidateInterface(decl.Identity()); err != nil {
			multi.AddError(err)
		}
	}
	for _, decl := range r.structs.Values() {
		if _, err := r.ReflectedEmbeds(decl); err != nil {
			multi.AddError(err)
		}
	}
	return multi.ErrorOrNil()
}

// ValidatePackage checks the declarations of one package and that the type
// names generated for them are unique within it
func (r *Registry) ValidatePackage(metadata *models.PackageMetadata) error {
	multi := errors.NewMultipleErrors()
	multi.AddError(checkGeneratedNames(metadata))
	for i := range metadata.Interfaces {
		if err := r.ValidateInterface(metadata.Interfaces[i].Identity()); err != nil {
			multi.AddError(err)
		}
	}
	for i := range metadata.Structs {
		if _, err := r.ReflectedEmbeds(&metadata.Structs[i]); err != nil {
			multi.AddError(err)
		}
	}
	return multi.ErrorOrNil()
}

func declLocation(file string, line int) errors.SourceLocation {
	return errors.SourceLocation{File: file, Line: line}
}
