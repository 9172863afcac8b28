package registry

import (
	"fmt"

	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/models"
)

// ValidateInterface checks that every base of the interface is declared and
// generated for the same delegates, that no base is reached twice or through
// a cycle, and that no member name is reachable from two declarations.
func (r *Registry) ValidateInterface(identity string) error {
	decl, ok := r.Interface(identity)
	if !ok {
		return errors.NewRegistrationError(identity, "interface '"+identity+"' is not declared")
	}

	multi := errors.NewMultipleErrors()
	for _, base := range decl.Bases {
		loc := declLocation(decl.FileName, base.Line)
		baseDecl, ok := r.Interface(base.Identity())
		if !ok {
			multi.Add(errors.UndeclaredBase(decl.QualifiedName(), base.String(), loc))
			continue
		}
		for _, delegate := range decl.Delegates {
			if !contains(baseDecl.Delegates, delegate) {
				multi.Add(errors.MissingDelegate(decl.QualifiedName(), baseDecl.QualifiedName(), delegate, loc))
			}
		}
	}
	if !multi.IsEmpty() {
		return multi
	}

	// descriptor names of one interface differ only in the delegate
	if len(decl.Delegates) > 0 {
		fields := make(map[string]*models.InterfaceDecl)
		for _, base := range decl.Bases {
			baseDecl, _ := r.Interface(base.Identity())
			field := baseDecl.DescriptorName(decl.Delegates[0])
			if prev, ok := fields[field]; ok && prev != baseDecl {
				multi.Add(errors.EmbeddedFieldClash(decl.QualifiedName(), field,
					prev.QualifiedName(), baseDecl.QualifiedName(), declLocation(decl.FileName, base.Line)))
				continue
			}
			fields[field] = baseDecl
		}
		if !multi.IsEmpty() {
			return multi
		}
	}

	if err := r.checkGraph(decl); err != nil {
		return err
	}

	owners := make(map[string]*models.InterfaceDecl)
	for _, base := range decl.Bases {
		baseDecl, _ := r.Interface(base.Identity())
		members, err := r.Linearize(baseDecl.Identity())
		if err != nil {
			return err
		}
		for _, m := range members {
			if prev, ok := owners[m.Member.Name]; ok && prev != m.Owner {
				multi.Add(errors.MemberCollision(m.Owner.QualifiedName(), m.Member.Name, prev.QualifiedName(),
					declLocation(decl.FileName, base.Line)))
				continue
			}
			owners[m.Member.Name] = m.Owner
		}
	}
	for _, m := range decl.Members {
		if prev, ok := owners[m.Name]; ok {
			multi.Add(errors.MemberCollision(decl.QualifiedName(), m.Name, prev.QualifiedName(),
				declLocation(decl.FileName, m.Line)))
		}
	}
	return multi.ErrorOrNil()
}

// checkGeneratedNames reports generated type names of metadata that are used
// twice, or that are already taken by a type declared in the package.
func checkGeneratedNames(metadata *models.PackageMetadata) error {
	taken := make(map[string]string)
	for _, t := range metadata.Types {
		taken[t.Name] = fmt.Sprintf("declared at %s:%d", t.FileName, t.Line)
	}

	multi := errors.NewMultipleErrors()
	claim := func(decl *models.InterfaceDecl, name string) bool {
		if other, ok := taken[name]; ok {
			multi.Add(errors.GeneratedNameClash(decl.QualifiedName(), name, other,
				declLocation(decl.FileName, decl.Line)))
			return false
		}
		taken[name] = "generated for '" + decl.QualifiedName() + "'"
		return true
	}

	for i := range metadata.Interfaces {
		decl := &metadata.Interfaces[i]
		for _, delegate := range decl.Delegates {
			if !claim(decl, decl.DescriptorName(delegate)) {
				// its slots would clash the same way
				continue
			}
			for _, m := range decl.Members {
				claim(decl, decl.SlotName(delegate, m.Name))
			}
		}
	}
	return multi.ErrorOrNil()
}

// checkGraph walks the bases of decl depth first and reports the first cycle
// or the first base reached along two paths.
func (r *Registry) checkGraph(decl *models.InterfaceDecl) error {
	loc := declLocation(decl.FileName, decl.Line)
	firstPath := make(map[string][]string)

	var walk func(current *models.InterfaceDecl, path []string, onPath map[string]bool) error
	walk = func(current *models.InterfaceDecl, path []string, onPath map[string]bool) error {
		for _, base := range current.Bases {
			baseDecl, ok := r.Interface(base.Identity())
			if !ok {
				return errors.UndeclaredBase(current.QualifiedName(), base.String(),
					declLocation(current.FileName, base.Line))
			}

			next := append(append([]string(nil), path...), baseDecl.QualifiedName())
			if onPath[baseDecl.Identity()] {
				return errors.CyclicBases(next, loc)
			}
			if prev, seen := firstPath[baseDecl.Identity()]; seen {
				return errors.DiamondBases(decl.QualifiedName(), baseDecl.QualifiedName(), prev, next, loc)
			}
			firstPath[baseDecl.Identity()] = next

			onPath[baseDecl.Identity()] = true
			if err := walk(baseDecl, next, onPath); err != nil {
				return err
			}
			delete(onPath, baseDecl.Identity())
		}
		return nil
	}

	return walk(decl, []string{decl.QualifiedName()}, map[string]bool{decl.Identity(): true})
}

// Linearize returns the slots of the interface in visit order: the slots of
// each base in declared order, then the direct members.
func (r *Registry) Linearize(identity string) ([]LinearMember, error) {
	decl, ok := r.Interface(identity)
	if !ok {
		return nil, errors.NewRegistrationError(identity, "interface '"+identity+"' is not declared")
	}
	if err := r.checkGraph(decl); err != nil {
		return nil, err
	}
	return r.linearize(decl), nil
}

func (r *Registry) linearize(decl *models.InterfaceDecl) []LinearMember {
	var out []LinearMember
	for _, base := range decl.Bases {
		baseDecl, _ := r.Interface(base.Identity())
		out = append(out, r.linearize(baseDecl)...)
	}
	for _, m := range decl.Members {
		out = append(out, LinearMember{Owner: decl, Member: m})
	}
	return out
}

// ReflectedEmbeds returns the embedded fields of decl that are reflected
// structs, in declared order. Explicit bases that are not reflected are
// errors; implicit ones are skipped.
func (r *Registry) ReflectedEmbeds(decl *models.StructDecl) ([]models.EmbeddedField, error) {
	var out []models.EmbeddedField
	multi := errors.NewMultipleErrors()
	for _, embed := range decl.Embeds {
		if _, ok := r.Struct(embed.Ref.Identity()); ok {
			out = append(out, embed)
			continue
		}
		if decl.ExplicitBases {
			multi.Add(errors.NotReflected(decl.PackageName+"."+decl.Name, embed.Ref.String(),
				declLocation(decl.FileName, decl.Line)))
		}
	}
	if err := multi.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
