package registry

import "github.com/toyz/vtable/internal/models"

// DeclarationRegistry tracks every annotated declaration across the packages
// of a run and validates how they refer to each other
type DeclarationRegistry interface {
	RegisterInterface(decl *models.InterfaceDecl) error
	RegisterStruct(decl *models.StructDecl) error
	Interface(identity string) (*models.InterfaceDecl, bool)
	Struct(identity string) (*models.StructDecl, bool)
	RegisterPackage(metadata *models.PackageMetadata) error
	Interfaces() []*models.InterfaceDecl
	Structs() []*models.StructDecl
	ValidateInterface(identity string) error
	Linearize(identity string) ([]LinearMember, error)
	ReflectedEmbeds(decl *models.StructDecl) ([]models.EmbeddedField, error)
	ValidatePackage(metadata *models.PackageMetadata) error
	Validate() error
}

var _ DeclarationRegistry = (*Registry)(nil)

// LinearMember is one slot in visit order together with the declaration that
// owns it
type LinearMember struct {
	Owner  *models.InterfaceDecl
	Member models.Member
}
