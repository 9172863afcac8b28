package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/vtable/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	self    string            // import path of the generated package, never imported
	imports map[string]string // path -> alias
}

// NewImportManager creates a new import manager for a file in package self
func NewImportManager(self string) *ImportManager {
	return &ImportManager{
		self:    self,
		imports: make(map[string]string),
	}
}

// Add records imp. Adding a path twice with different aliases is an error.
func (im *ImportManager) Add(imp models.Import) error {
	if imp.Path == "" || imp.Path == im.self {
		return nil
	}
	if alias, ok := im.imports[imp.Path]; ok && alias != imp.Alias {
		if alias == "" {
			im.imports[imp.Path] = imp.Alias
			return nil
		}
		if imp.Alias != "" {
			return fmt.Errorf("import %q is needed as both %s and %s", imp.Path, alias, imp.Alias)
		}
		return nil
	}
	im.imports[imp.Path] = imp.Alias
	return nil
}

// AddAll records every import in imports
func (im *ImportManager) AddAll(imports []models.Import) error {
	for _, imp := range imports {
		if err := im.Add(imp); err != nil {
			return err
		}
	}
	return nil
}

// Imports returns the recorded imports sorted by path
func (im *ImportManager) Imports() []models.Import {
	paths := make([]string, 0, len(im.imports))
	for path := range im.imports {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]models.Import, len(paths))
	for i, path := range paths {
		out[i] = models.Import{Path: path, Alias: im.imports[path]}
	}
	return out
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	if len(im.imports) == 0 {
		return ""
	}

	var std, other []string
	for _, imp := range im.Imports() {
		line := fmt.Sprintf("%q", imp.Path)
		if imp.Alias != "" {
			line = imp.Alias + " " + line
		}
		if isStandard(imp.Path) {
			std = append(std, line)
		} else {
			other = append(other, line)
		}
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range std {
		result.WriteString("\t" + line + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		result.WriteString("\n")
	}
	for _, line := range other {
		result.WriteString("\t" + line + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

// isStandard reports whether path looks like a standard library package
func isStandard(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
