package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/toyz/vtable/internal/annotations"
	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/models"
	"github.com/toyz/vtable/internal/utils"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileProcessor    *utils.FileProcessor
	annotationParser annotations.ParserEngine
	defaultDelegates []string
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return NewParserWithProcessor(utils.NewFileProcessor())
}

// NewParserWithProcessor creates a parser sharing fp's file cache
func NewParserWithProcessor(fp *utils.FileProcessor) *Parser {
	return &Parser{
		fileProcessor:    fp,
		annotationParser: annotations.NewDefaultParser(),
		defaultDelegates: []string{DefaultDelegate},
	}
}

// SetDefaultDelegates sets the delegates used by annotations without -Delegates
func (p *Parser) SetDefaultDelegates(delegates []string) {
	if len(delegates) == 0 {
		p.defaultDelegates = []string{DefaultDelegate}
		return
	}
	p.defaultDelegates = append([]string(nil), delegates...)
}

// ParsePackage parses every non-test Go file in dir. importPath is the
// package's import path and qualifies its declarations.
func (p *Parser) ParsePackage(dir, importPath string) (*models.PackageMetadata, error) {
	files, packageName, err := p.fileProcessor.ParseDirectoryFiles(dir)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("package %s", dir), err)
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: importPath,
		Dir:         dir,
	}

	multi := errors.NewMultipleErrors()
	for _, f := range files {
		p.parseFile(f.File, f.Path, metadata, multi)
	}
	return metadata, multi.ErrorOrNil()
}

// ParseSource parses a single file held in memory, for tests
func (p *Parser) ParseSource(filename, source, importPath string) (*models.PackageMetadata, error) {
	file, err := p.fileProcessor.GetFileReader().ParseGoSource(filename, source)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: importPath,
	}

	multi := errors.NewMultipleErrors()
	p.parseFile(file, filename, metadata, multi)
	return metadata, multi.ErrorOrNil()
}

// ExtractAnnotations returns every vtable annotation attached to a type
// declaration in file
func (p *Parser) ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error) {
	var found []models.Annotation
	multi := errors.NewMultipleErrors()

	forEachTypeSpec(file, func(spec *ast.TypeSpec, doc []*ast.CommentGroup) {
		for _, group := range doc {
			for _, comment := range group.List {
				if !annotations.IsAnnotation(comment.Text) {
					continue
				}
				ann, err := p.parseComment(comment, spec.Name.Name, fileName)
				if err != nil {
					for _, e := range errors.FromAnnotation(err) {
						multi.Add(e)
					}
					continue
				}
				found = append(found, ann)
			}
		}
	})

	return found, multi.ErrorOrNil()
}

func (p *Parser) parseComment(comment *ast.Comment, target, fileName string) (models.Annotation, error) {
	pos := p.fileSet().Position(comment.Slash)
	loc := annotations.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}

	parsed, err := p.annotationParser.ParseAnnotation(comment.Text, loc)
	if err != nil {
		return models.Annotation{}, err
	}
	parsed.Target = target
	return models.Annotation{
		ParsedAnnotation: parsed,
		FileName:         fileName,
		Line:             pos.Line,
	}, nil
}

func (p *Parser) parseFile(file *ast.File, fileName string, metadata *models.PackageMetadata, multi *errors.MultipleErrors) {
	imports := collectImports(file)

	forEachTypeSpec(file, func(spec *ast.TypeSpec, doc []*ast.CommentGroup) {
		metadata.Types = append(metadata.Types, models.TypeName{
			Name:     spec.Name.Name,
			FileName: fileName,
			Line:     p.fileSet().Position(spec.Pos()).Line,
		})

		var ann *models.Annotation
		for _, group := range doc {
			for _, comment := range group.List {
				if !annotations.IsAnnotation(comment.Text) {
					continue
				}
				parsed, err := p.parseComment(comment, spec.Name.Name, fileName)
				if err != nil {
					for _, e := range errors.FromAnnotation(err) {
						multi.Add(e)
					}
					return
				}
				if ann != nil {
					multi.Add(duplicateAnnotation(spec.Name.Name,
						p.location(fileName, comment.Slash), errorLocation(ann.Location)))
					return
				}
				ann = &parsed
			}
		}
		if ann == nil {
			return
		}

		d := &declParser{
			parser:   p,
			spec:     spec,
			ann:      ann,
			fileName: fileName,
			imports:  imports,
			metadata: metadata,
			errs:     multi,
		}
		switch ann.Type {
		case annotations.InterfaceAnnotation:
			d.parseInterface()
		case annotations.ReflectAnnotation:
			d.parseStruct()
		}
	})
}

func (p *Parser) fileSet() *token.FileSet {
	return p.fileProcessor.GetFileReader().GetFileSet()
}

func (p *Parser) location(fileName string, pos token.Pos) errors.SourceLocation {
	position := p.fileSet().Position(pos)
	return errors.SourceLocation{File: fileName, Line: position.Line, Column: position.Column}
}

func errorLocation(loc annotations.SourceLocation) errors.SourceLocation {
	return errors.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

// forEachTypeSpec calls fn for every top-level type spec in file with the doc
// comments that apply to it.
func forEachTypeSpec(file *ast.File, fn func(spec *ast.TypeSpec, doc []*ast.CommentGroup)) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, s := range gen.Specs {
			spec := s.(*ast.TypeSpec)
			var doc []*ast.CommentGroup
			// a group's doc applies to its only spec
			if gen.Doc != nil && len(gen.Specs) == 1 {
				doc = append(doc, gen.Doc)
			}
			if spec.Doc != nil {
				doc = append(doc, spec.Doc)
			}
			fn(spec, doc)
		}
	}
}

// declParser extracts one annotated declaration
type declParser struct {
	parser   *Parser
	spec     *ast.TypeSpec
	ann      *models.Annotation
	fileName string
	imports  fileImports
	metadata *models.PackageMetadata
	errs     *errors.MultipleErrors
}

func (d *declParser) name() string {
	return d.metadata.PackageName + "." + d.spec.Name.Name
}

func (d *declParser) loc() errors.SourceLocation {
	return errorLocation(d.ann.Location)
}

func (d *declParser) line(pos token.Pos) int {
	return d.parser.fileSet().Position(pos).Line
}

func (d *declParser) parseInterface() {
	iface, ok := d.spec.Type.(*ast.InterfaceType)
	if !ok {
		d.errs.Add(wrongTarget("interface", d.name(), kindOf(d.spec.Type), d.loc()))
		return
	}
	if d.spec.TypeParams != nil {
		d.errs.Add(errors.Unsupported(d.name(), "is generic; generic interfaces are not supported", d.loc()))
		return
	}

	decl := models.InterfaceDecl{
		Name:        d.spec.Name.Name,
		PackageName: d.metadata.PackageName,
		PackagePath: d.metadata.PackagePath,
		Prefix:      d.ann.GetString(ParamName),
		Delegates:   d.ann.GetStringSlice(ParamDelegates, d.parser.defaultDelegates),
		FileName:    d.fileName,
		Line:        d.ann.Line,
	}

	used := make(map[string]models.Import)
	var embedded []models.BaseRef
	failed := false

	for _, field := range iface.Methods.List {
		switch typ := field.Type.(type) {
		case *ast.FuncType:
			for _, name := range field.Names {
				member := models.Member{
					Name:      name.Name,
					Signature: renderSignature(typ, d.imports, used),
					Line:      d.line(name.Pos()),
				}
				decl.Methods = append(decl.Methods, member)
			}
		case *ast.Ident, *ast.SelectorExpr:
			ref, ok := d.typeRef(typ, d.line(typ.Pos()))
			if !ok {
				failed = true
				continue
			}
			embedded = append(embedded, ref)
		default:
			d.errs.Add(errors.Unsupported(d.name(),
				fmt.Sprintf("embeds '%s'; type sets and constraint elements are not supported", renderType(typ, d.imports, used)),
				d.locAt(typ.Pos())))
			failed = true
		}
	}

	decl.Bases = embedded
	if d.ann.HasParameter(ParamBases) {
		decl.Bases = nil
		for _, name := range d.ann.GetStringSlice(ParamBases) {
			ref, ok := d.namedRef(name, d.ann.Line)
			if !ok {
				failed = true
				continue
			}
			decl.Bases = append(decl.Bases, ref)
		}
	}

	decl.Members = decl.Methods
	if d.ann.HasParameter(ParamMembers) {
		decl.Members = nil
		seen := make(map[string]bool)
		for _, name := range d.ann.GetStringSlice(ParamMembers) {
			if seen[name] {
				d.errs.Add(errors.DuplicateMember(d.name(), name, d.loc()))
				failed = true
				continue
			}
			seen[name] = true
			member, ok := decl.Method(name)
			if !ok {
				d.errs.Add(errors.MemberNotDeclared(d.name(), name, d.loc()))
				failed = true
				continue
			}
			decl.Members = append(decl.Members, member)
		}
	}

	if failed {
		return
	}

	decl.Imports = sortedImports(used)
	d.metadata.Interfaces = append(d.metadata.Interfaces, decl)
}

func (d *declParser) parseStruct() {
	st, ok := d.spec.Type.(*ast.StructType)
	if !ok {
		d.errs.Add(wrongTarget("reflect", d.name(), kindOf(d.spec.Type), d.loc()))
		return
	}
	if d.spec.TypeParams != nil {
		d.errs.Add(errors.Unsupported(d.name(), "is generic; generic structs cannot be reflected", d.loc()))
		return
	}

	decl := models.StructDecl{
		Name:        d.spec.Name.Name,
		PackageName: d.metadata.PackageName,
		PackagePath: d.metadata.PackagePath,
		FileName:    d.fileName,
		Line:        d.ann.Line,
	}

	var fields []models.Field
	var embeds []models.EmbeddedField
	used := make(map[string]models.Import)

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			typ := field.Type
			pointer := false
			if star, ok := typ.(*ast.StarExpr); ok {
				typ, pointer = star.X, true
			}
			switch typ.(type) {
			case *ast.Ident, *ast.SelectorExpr:
				ref, ok := d.typeRef(typ, d.line(typ.Pos()))
				if !ok {
					continue
				}
				embeds = append(embeds, models.EmbeddedField{Ref: ref, Field: ref.Name, Pointer: pointer})
			}
			continue
		}
		rendered := renderType(field.Type, d.imports, used)
		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			fields = append(fields, models.Field{Name: name.Name, Type: rendered})
		}
	}

	failed := false

	decl.Embeds = embeds
	if d.ann.HasParameter(ParamBases) {
		decl.ExplicitBases = true
		decl.Embeds = nil
		for _, name := range d.ann.GetStringSlice(ParamBases) {
			embed, ok := findEmbed(embeds, name)
			if !ok {
				d.errs.Add(baseNotEmbedded(d.name(), name, d.loc()))
				failed = true
				continue
			}
			decl.Embeds = append(decl.Embeds, embed)
		}
	}

	decl.Fields = fields
	if d.ann.HasParameter(ParamFields) {
		decl.Fields = nil
		for _, name := range d.ann.GetStringSlice(ParamFields) {
			field, ok := findField(fields, name)
			if !ok {
				d.errs.Add(fieldNotDeclared(d.name(), name, fieldNames(fields), d.loc()))
				failed = true
				continue
			}
			decl.Fields = append(decl.Fields, field)
		}
	}

	if failed {
		return
	}
	d.metadata.Structs = append(d.metadata.Structs, decl)
}

// typeRef resolves an identifier or qualified identifier used as a type.
func (d *declParser) typeRef(expr ast.Expr, line int) (models.BaseRef, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return models.BaseRef{Name: t.Name, PackagePath: d.metadata.PackagePath, Line: line}, true
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			break
		}
		return d.qualifiedRef(pkg.Name, t.Sel.Name, line, d.locAt(t.Pos()))
	}
	d.errs.Add(errors.Unsupported(d.name(), fmt.Sprintf("refers to '%s', which is not a type name", exprString(expr)), d.locAt(expr.Pos())))
	return models.BaseRef{}, false
}

// namedRef resolves a Name or pkg.Name written in an annotation parameter.
func (d *declParser) namedRef(name string, line int) (models.BaseRef, bool) {
	qualifier, typeName, qualified := strings.Cut(name, ".")
	if !qualified {
		return models.BaseRef{Name: name, PackagePath: d.metadata.PackagePath, Line: line}, true
	}
	return d.qualifiedRef(qualifier, typeName, line, d.loc())
}

func (d *declParser) qualifiedRef(qualifier, name string, line int, loc errors.SourceLocation) (models.BaseRef, bool) {
	imp, ok := d.imports[qualifier]
	if !ok {
		d.errs.Add(unknownQualifier(d.name(), qualifier+"."+name, qualifier, loc))
		return models.BaseRef{}, false
	}
	return models.BaseRef{
		Name:        name,
		PackagePath: imp.Path,
		PackageName: qualifier,
		Line:        line,
	}, true
}

func (d *declParser) locAt(pos token.Pos) errors.SourceLocation {
	return d.parser.location(d.fileName, pos)
}

func findEmbed(embeds []models.EmbeddedField, name string) (models.EmbeddedField, bool) {
	for _, e := range embeds {
		if e.Ref.String() == name || e.Field == name {
			return e, true
		}
	}
	return models.EmbeddedField{}, false
}

func findField(fields []models.Field, name string) (models.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return models.Field{}, false
}

func fieldNames(fields []models.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func kindOf(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.StructType:
		return "a struct"
	case *ast.InterfaceType:
		return "an interface"
	case *ast.FuncType:
		return "a func type"
	default:
		return "a defined type"
	}
}
