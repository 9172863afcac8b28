package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/toyz/vtable/internal/delegates"
	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/models"
	"github.com/toyz/vtable/internal/registry"
	"github.com/toyz/vtable/internal/templates"
)

// DefaultFileName is the name of the file written into every package
const DefaultFileName = "autogen_vtable.go"

// reserved member names and why they cannot be used
var reservedMembers = map[string]string{
	"Visit":         "clashes with the Visit method of the descriptor",
	"InterfaceName": "clashes with the InterfaceName method of the descriptor",
}

// Generator turns validated declarations into Go source
type Generator struct {
	registry  registry.DeclarationRegistry
	delegates DelegateSource
	fileName  string
}

// NewGenerator creates a generator resolving bases through reg and delegate
// names through source
func NewGenerator(reg registry.DeclarationRegistry, source DelegateSource) *Generator {
	return &Generator{
		registry:  reg,
		delegates: source,
		fileName:  DefaultFileName,
	}
}

// WithFileName sets the output file name
func (g *Generator) WithFileName(name string) *Generator {
	if name != "" {
		g.fileName = name
	}
	return g
}

// FileName returns the output file name
func (g *Generator) FileName() string {
	return g.fileName
}

// GeneratePackage validates the declarations of metadata and renders its
// descriptor file. Nothing is returned for a package with any error, and a
// package without declarations yields a nil file.
func (g *Generator) GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if metadata.IsEmpty() {
		return nil, nil
	}

	if err := g.registry.ValidatePackage(metadata); err != nil {
		return nil, err
	}

	file := &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filepath.Join(metadata.Dir, g.fileName),
	}
	im := templates.NewImportManager(metadata.PackagePath)
	if err := im.Add(models.Import{Path: delegates.RuntimeImport}); err != nil {
		return nil, err
	}

	var body strings.Builder
	multi := errors.NewMultipleErrors()

	for i := range metadata.Interfaces {
		decl := &metadata.Interfaces[i]
		if err := im.AddAll(decl.Imports); err != nil {
			multi.Add(errors.WrapGenerateError(decl.QualifiedName(), err))
			continue
		}
		for _, name := range decl.Delegates {
			delegate, err := g.delegates.Get(name)
			if err != nil {
				multi.Add(errors.NewValidationError(decl.QualifiedName(), "", err.Error()).
					WithLocation(location(decl.FileName, decl.Line)))
				continue
			}
			if err := g.checkReserved(decl, name); err != nil {
				multi.AddError(err)
				continue
			}
			code, slots, err := g.generateDescriptor(decl, delegate, im)
			if err != nil {
				multi.AddError(err)
				continue
			}
			body.WriteString(code)
			file.Descriptors++
			file.Slots += slots
		}
	}

	for i := range metadata.Structs {
		decl := &metadata.Structs[i]
		code, err := g.generateReflect(decl)
		if err != nil {
			multi.AddError(err)
			continue
		}
		body.WriteString(code)
		file.Reflectors++
	}

	if !multi.IsEmpty() {
		return nil, multi
	}

	content, err := templates.RenderFile(metadata.PackageName, im, body.String())
	if err != nil {
		return nil, errors.WrapTemplateError("file-header", "execute", err)
	}
	formatted, err := imports.Process(file.FilePath, []byte(content), nil)
	if err != nil {
		return nil, errors.WrapGenerateError(file.FilePath, err).WithStage("format")
	}
	file.Content = string(formatted)
	return file, nil
}

// checkReserved rejects members whose field would clash with a descriptor
// method or with the embedded descriptor of any base
func (g *Generator) checkReserved(decl *models.InterfaceDecl, delegate string) error {
	embedded := make(map[string]bool)
	g.collectBaseDescriptors(decl, delegate, embedded)

	multi := errors.NewMultipleErrors()
	for _, m := range decl.Members {
		loc := location(decl.FileName, m.Line)
		if reason, ok := reservedMembers[m.Name]; ok {
			multi.Add(errors.ReservedName(decl.QualifiedName(), m.Name, reason, loc))
			continue
		}
		if embedded[m.Name] {
			multi.Add(errors.ReservedName(decl.QualifiedName(), m.Name,
				"clashes with an embedded base descriptor", loc))
		}
	}
	return multi.ErrorOrNil()
}

func (g *Generator) collectBaseDescriptors(decl *models.InterfaceDecl, delegate string, out map[string]bool) {
	for _, base := range decl.Bases {
		baseDecl, ok := g.registry.Interface(base.Identity())
		if !ok {
			continue
		}
		out[baseDecl.DescriptorName(delegate)] = true
		g.collectBaseDescriptors(baseDecl, delegate, out)
	}
}

// generateDescriptor renders the descriptor of decl for delegate followed by
// its slots, and returns the number of slots written
func (g *Generator) generateDescriptor(decl *models.InterfaceDecl, delegate delegates.Delegate, im *templates.ImportManager) (string, int, error) {
	name := delegate.Name()
	data := templates.DescriptorData{
		Name:      decl.DescriptorName(name),
		Delegate:  name,
		Interface: decl.Name,
		Qualified: decl.QualifiedName(),
	}

	for _, base := range decl.Bases {
		baseDecl, ok := g.registry.Interface(base.Identity())
		if !ok {
			return "", 0, errors.UndeclaredBase(decl.QualifiedName(), base.String(), location(decl.FileName, base.Line))
		}
		if !base.Local() {
			imp := models.Import{Path: base.PackagePath}
			if base.PackageName != baseDecl.PackageName {
				imp.Alias = base.PackageName
			}
			if err := im.Add(imp); err != nil {
				return "", 0, errors.WrapGenerateError(decl.QualifiedName(), err)
			}
		}
		field := baseDecl.DescriptorName(name)
		data.Bases = append(data.Bases, templates.BaseData{
			Type:  base.Qualify(field),
			Field: field,
		})
	}

	var slots strings.Builder
	for _, member := range decl.Members {
		slot, err := delegate.CalculateType(member.Signature)
		if err != nil {
			return "", 0, errors.WrapGenerateError(decl.QualifiedName()+"."+member.Name, err).
				WithStage("delegate " + name)
		}
		if err := im.AddAll(slot.Imports); err != nil {
			return "", 0, errors.WrapGenerateError(decl.QualifiedName()+"."+member.Name, err)
		}

		slotData := templates.NewSlotData(decl, name, member, slot)
		data.Members = append(data.Members, templates.MemberData{Field: member.Name, Slot: slotData.Name})

		code, err := templates.RenderSlot(slotData)
		if err != nil {
			return "", 0, errors.WrapTemplateError("slot", "execute", err)
		}
		slots.WriteString(code)
	}

	code, err := templates.RenderDescriptor(data)
	if err != nil {
		return "", 0, errors.WrapTemplateError("descriptor", "execute", err)
	}
	return code + slots.String(), len(decl.Members), nil
}

// generateReflect renders VisitFields for a reflected struct
func (g *Generator) generateReflect(decl *models.StructDecl) (string, error) {
	qualified := decl.PackageName + "." + decl.Name
	for _, f := range decl.Fields {
		if f.Name == "VisitFields" {
			return "", errors.ReservedName(qualified, f.Name,
				"clashes with the generated VisitFields method", location(decl.FileName, decl.Line))
		}
	}

	embeds, err := g.registry.ReflectedEmbeds(decl)
	if err != nil {
		return "", err
	}

	data := templates.ReflectData{Name: decl.Name}
	for _, embed := range embeds {
		data.Embeds = append(data.Embeds, templates.EmbedData{Field: embed.Field, Pointer: embed.Pointer})
	}
	for _, f := range decl.Fields {
		data.Fields = append(data.Fields, f.Name)
	}

	code, err := templates.RenderReflect(data)
	if err != nil {
		return "", errors.WrapTemplateError("reflect", "execute", err)
	}
	return code, nil
}

func location(file string, line int) errors.SourceLocation {
	return errors.SourceLocation{File: file, Line: line}
}
