package models

// PackageMetadata represents all declarations found in a package
type PackageMetadata struct {
	PackageName string          // name of the Go package
	PackagePath string          // import path of the package
	Dir         string          // file system path to the package
	Interfaces  []InterfaceDecl // annotated interfaces in source order
	Structs     []StructDecl    // annotated structs in source order
	Types       []TypeName      // every top-level type declared in the package
}

// TypeName is a top-level type declaration
type TypeName struct {
	Name     string
	FileName string
	Line     int
}

// IsEmpty reports whether the package declares nothing to generate.
func (p *PackageMetadata) IsEmpty() bool {
	return len(p.Interfaces) == 0 && len(p.Structs) == 0
}
