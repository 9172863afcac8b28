package generator

import (
	"github.com/toyz/vtable/internal/delegates"
	"github.com/toyz/vtable/internal/models"
)

// CodeGenerator generates the descriptor file of one package
type CodeGenerator interface {
	GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}

// DelegateSource resolves delegate names used in annotations
type DelegateSource interface {
	Get(name string) (delegates.Delegate, error)
}

var (
	_ CodeGenerator  = (*Generator)(nil)
	_ DelegateSource = (*delegates.Registry)(nil)
)
