package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/vtable/internal/utils"
)

// ModuleResolver resolves the module a run works in and the import paths of
// its package directories
type ModuleResolver struct {
	goModParser *utils.GoModParser
	workDir     string // starting point of the go.mod search, "" for the working directory
	modulePath  string
	root        string // directory holding go.mod
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return NewModuleResolverWithReader(utils.NewFileReader())
}

// NewModuleResolverWithReader creates a resolver sharing reader's cache
func NewModuleResolverWithReader(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{goModParser: utils.NewGoModParser(reader)}
}

// WithWorkDir makes the resolver search for go.mod from dir
func (r *ModuleResolver) WithWorkDir(dir string) *ModuleResolver {
	r.workDir = dir
	return r
}

// ResolveModuleName resolves the module path. customModule wins when set and
// is only checked for validity; the go.mod found from the working directory
// still anchors package paths if there is one.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	start := r.workDir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		start = wd
	}

	goModPath, findErr := r.goModParser.FindGoModFile(start)

	if customModule != "" {
		if err := utils.ValidateModulePath(customModule); err != nil {
			return "", err
		}
		r.modulePath = customModule
		r.root, _ = filepath.Abs(start)
		if findErr == nil {
			r.root = filepath.Dir(goModPath)
		}
		return customModule, nil
	}

	if findErr != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", findErr)
	}
	moduleName, err := r.goModParser.ParseModuleName(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w", err)
	}

	r.modulePath = moduleName
	r.root = filepath.Dir(goModPath)
	return moduleName, nil
}

// Root returns the directory package paths are computed from
func (r *ModuleResolver) Root() string {
	return r.root
}

// BuildPackagePath builds the import path of packageDir inside the resolved
// module
func (r *ModuleResolver) BuildPackagePath(packageDir string) (string, error) {
	if r.modulePath == "" {
		return "", fmt.Errorf("module is not resolved")
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(r.root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", fmt.Errorf("package directory %s is outside module %s (%s)", packageDir, r.modulePath, r.root)
	}

	if relPath == "." {
		return r.modulePath, nil
	}
	return path.Join(r.modulePath, relPath), nil
}

// PackageDir maps an import path inside the resolved module to its
// directory. It reports false for paths of other modules.
func (r *ModuleResolver) PackageDir(importPath string) (string, bool) {
	if r.modulePath == "" {
		return "", false
	}
	if importPath == r.modulePath {
		return r.root, true
	}
	rel, ok := strings.CutPrefix(importPath, r.modulePath+"/")
	if !ok {
		return "", false
	}
	return filepath.Join(r.root, filepath.FromSlash(rel)), true
}
