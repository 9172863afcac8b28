package parser

import (
	"go/ast"

	"github.com/toyz/vtable/internal/models"
)

// AnnotationParser defines the interface for parsing Go source files and extracting declarations
type AnnotationParser interface {
	ParsePackage(dir, importPath string) (*models.PackageMetadata, error)
	ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error)
	SetDefaultDelegates(delegates []string)
}
