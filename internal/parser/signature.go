package parser

import (
	"go/ast"
	"go/types"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/vtable/internal/models"
)

// fileImports maps the names a file uses for its imports to the imports.
type fileImports map[string]models.Import

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

func collectImports(file *ast.File) fileImports {
	imports := make(fileImports)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.Import{Path: importPath}
		name := defaultPackageName(importPath)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			name = spec.Name.Name
			imp.Alias = name
		}
		imports[name] = imp
	}
	return imports
}

// defaultPackageName guesses the name a package is referred to by when it is
// imported without an explicit name.
func defaultPackageName(importPath string) string {
	name := path.Base(importPath)
	if majorVersion.MatchString(name) && path.Dir(importPath) != "." {
		name = path.Base(path.Dir(importPath))
	}
	// gopkg.in/yaml.v3
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "_")
}

// renderSignature renders fn and records the imports its types refer to.
func renderSignature(fn *ast.FuncType, imports fileImports, used map[string]models.Import) models.Signature {
	var sig models.Signature
	if fn.Params != nil {
		for _, field := range fn.Params.List {
			typ := field.Type
			if ellipsis, ok := typ.(*ast.Ellipsis); ok {
				sig.Variadic = true
				typ = ellipsis.Elt
			}
			sig.Params = append(sig.Params, renderFields(field, typ, imports, used)...)
		}
	}
	if fn.Results != nil {
		for _, field := range fn.Results.List {
			sig.Results = append(sig.Results, renderFields(field, field.Type, imports, used)...)
		}
	}
	return sig
}

func renderFields(field *ast.Field, typ ast.Expr, imports fileImports, used map[string]models.Import) []models.Param {
	rendered := renderType(typ, imports, used)
	if len(field.Names) == 0 {
		return []models.Param{{Type: rendered}}
	}
	params := make([]models.Param, len(field.Names))
	for i, name := range field.Names {
		params[i] = models.Param{Name: name.Name, Type: rendered}
	}
	return params
}

// renderType renders a type expression as source and records every imported
// package it refers to.
func renderType(expr ast.Expr, imports fileImports, used map[string]models.Import) string {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok {
			if imp, ok := imports[ident.Name]; ok {
				used[imp.Path] = imp
			}
		}
		return false
	})
	return types.ExprString(expr)
}

func sortedImports(used map[string]models.Import) []models.Import {
	if len(used) == 0 {
		return nil
	}
	out := make([]models.Import, 0, len(used))
	for _, imp := range used {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func exprString(expr ast.Expr) string {
	return types.ExprString(expr)
}
