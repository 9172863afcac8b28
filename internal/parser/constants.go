package parser

const (
	// Annotation parameter names
	ParamMembers   = "Members"
	ParamBases     = "Bases"
	ParamDelegates = "Delegates"
	ParamName      = "Name"
	ParamFields    = "Fields"

	// DefaultDelegate is used when neither the annotation nor the
	// configuration names any delegate
	DefaultDelegate = "Mirror"
)
