package annotations

// InterfaceAnnotationSchema defines the schema for //vtable::interface annotations
var InterfaceAnnotationSchema = AnnotationSchema{
	Type:        InterfaceAnnotation,
	Description: "Declares an interface whose descriptors and visitor are generated",
	Parameters: map[string]ParameterSpec{
		"Members":   MembersParameterSpec(),
		"Bases":     BasesParameterSpec("Base interfaces in declared order; defaults to the embedded interfaces"),
		"Delegates": DelegatesParameterSpec(),
		"Name":      NameParameterSpec(),
	},
	Examples: []string{
		"//vtable::interface",
		"//vtable::interface -Delegates=Mirror",
		"//vtable::interface -Members=Area,Perimeter",
		"//vtable::interface -Bases=Shape,io.Closer -Delegates=Mirror,Erased",
		"//vtable::interface -Name=Geo",
	},
}

// ReflectAnnotationSchema defines the schema for //vtable::reflect annotations
var ReflectAnnotationSchema = AnnotationSchema{
	Type:        ReflectAnnotation,
	Description: "Generates a field visitor for a struct",
	Parameters: map[string]ParameterSpec{
		"Fields": FieldsParameterSpec(),
		"Bases":  BasesParameterSpec("Embedded reflected structs visited first; defaults to every embedded reflected struct"),
	},
	Examples: []string{
		"//vtable::reflect",
		"//vtable::reflect -Fields=X,Y",
		"//vtable::reflect -Bases=Point -Fields=Label",
	},
}

// RegisterBuiltinSchemas registers every built-in schema with registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		InterfaceAnnotationSchema,
		ReflectAnnotationSchema,
	}

	for _, schema := range schemas {
		if err := registry.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}
