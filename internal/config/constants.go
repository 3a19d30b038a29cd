package config

const SourceFileExt = ".kora"

// ManifestFileName is the project manifest read by the CLI.
const ManifestFileName = "kora.yaml"

// Names of the built-in prototypes registered in the type database.
const (
	IntegerTypeName  = "Integer"
	FloatTypeName    = "Float"
	StringTypeName   = "String"
	ArrayTypeName    = "Array"
	BlockTypeName    = "Block"
	TraitTypeName    = "Trait"
	ObjectTypeName   = "Object"
	NilTypeName      = "Nil"
	TrueTypeName     = "True"
	FalseTypeName    = "False"
	VoidTypeName     = "Void"
	ToplevelTypeName = "Toplevel"
)

// Names with special meaning to the type pass and later passes.
const (
	// InitMethodName is the only method in which instance attributes may
	// be defined.
	InitMethodName = "init"

	// TryBlockName and ElseBlockName name the blocks synthesized for a
	// try expression and its else branch.
	TryBlockName  = "try"
	ElseBlockName = "else"

	// ModuleGlobalName is the global under which every module registers
	// its own type.
	ModuleGlobalName = "ThisModule"

	// ModulesAttribute is the attribute on the top level holding the
	// registry of all module types by qualified name.
	ModulesAttribute = "Modules"

	// ModuleTypeAttribute is the attribute on the top level holding the
	// prototype every module type inherits from.
	ModuleTypeAttribute = "Module"

	// ObjectNameAttribute is the reserved attribute storing an object's
	// name as a string.
	ObjectNameAttribute = "$name"

	// SelfTypeName and DynamicTypeName are the type annotations producing
	// a self type and the dynamic type.
	SelfTypeName    = "Self"
	DynamicTypeName = "Dyn"
)

// ReservedConstants may not be redefined by user code.
var ReservedConstants = []string{
	SelfTypeName,
	DynamicTypeName,
	ModuleGlobalName,
}

// IsReservedConstant reports whether name is in ReservedConstants.
func IsReservedConstant(name string) bool {
	for _, reserved := range ReservedConstants {
		if reserved == name {
			return true
		}
	}
	return false
}
