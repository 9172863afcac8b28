package models

// GeneratedFile is the output of generating one package
type GeneratedFile struct {
	PackageName string // name of the package
	FilePath    string // path where the file should be written
	Content     string // formatted Go source
	Descriptors int    // number of descriptor types emitted
	Slots       int    // number of slot types emitted
	Reflectors  int    // number of VisitFields methods emitted
}

// SlotType is what a delegate computes for one member signature: the type a
// generated slot embeds.
type SlotType struct {
	Expr     string   // Go type expression, e.g. vtable.Func[func() int]
	Imports  []Import // imports Expr refers to
	Callable bool     // the slot base has Must() returning the member func type
	SetErr   bool     // the slot base's Set returns an error
}
