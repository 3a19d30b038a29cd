// Package typedb holds the process-wide registry of built-in prototypes.
// The registry is created once, before any module is type-checked, and is
// read-only afterwards apart from module types being registered under the
// top level's Modules attribute.
package typedb

import (
	"sync"

	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/types"
)

// Database is the fixed set of named prototypes every pass shares.
type Database struct {
	ObjectType  *types.Object
	IntegerType *types.Object
	FloatType   *types.Object
	StringType  *types.Object
	ArrayType   *types.Object
	BlockType   *types.Object
	TraitType   *types.Object
	NilType     *types.Object
	TrueType    *types.Object
	FalseType   *types.Object
	VoidType    *types.Object
	Toplevel    *types.Object
	ModuleType  *types.Object
	ModulesType *types.Object

	builtins map[string]types.Type
}

var (
	defaultOnce sync.Once
	defaultDB   *Database
)

// Default returns the shared process-wide database, creating it on first
// use.
func Default() *Database {
	defaultOnce.Do(func() {
		defaultDB = New()
	})
	return defaultDB
}

// New builds a fresh database. Object is the root prototype; every other
// built-in chains to it.
func New() *Database {
	object := types.NewObject(config.ObjectTypeName, nil)

	db := &Database{
		ObjectType:  object,
		IntegerType: types.NewObject(config.IntegerTypeName, object),
		FloatType:   types.NewObject(config.FloatTypeName, object),
		StringType:  types.NewObject(config.StringTypeName, object),
		ArrayType:   types.NewObject(config.ArrayTypeName, object),
		BlockType:   types.NewObject(config.BlockTypeName, object),
		TraitType:   types.NewObject(config.TraitTypeName, object),
		NilType:     types.NewObject(config.NilTypeName, object),
		TrueType:    types.NewObject(config.TrueTypeName, object),
		FalseType:   types.NewObject(config.FalseTypeName, object),
		VoidType:    types.NewObject(config.VoidTypeName, object),
		Toplevel:    types.NewObject(config.ToplevelTypeName, object),
		ModuleType:  types.NewObject(config.ModuleTypeAttribute, object),
		ModulesType: types.NewObject(config.ModulesAttribute, object),
	}

	db.Toplevel.DefineAttribute(config.ModuleTypeAttribute, db.ModuleType, false)
	db.Toplevel.DefineAttribute(config.ModulesAttribute, db.ModulesType, false)

	// Every object responds to `new`, returning an instance of the
	// receiver. The rest argument accepts any number of arguments; they
	// are not checked against the receiver's init method.
	newMethod := types.NewBlock("new", types.MethodBlock, db.BlockType)
	newMethod.DefineSelfArgument(object)
	newMethod.DefineRestArgument("arguments", types.NewDynamic())
	newMethod.SetReturns(types.NewSelfType())
	object.DefineAttribute("new", newMethod, false)

	db.builtins = map[string]types.Type{
		config.ObjectTypeName:   db.ObjectType,
		config.IntegerTypeName:  db.IntegerType,
		config.FloatTypeName:    db.FloatType,
		config.StringTypeName:   db.StringType,
		config.ArrayTypeName:    db.ArrayType,
		config.BlockTypeName:    db.BlockType,
		config.TraitTypeName:    db.TraitType,
		config.NilTypeName:      db.NilType,
		config.TrueTypeName:     db.TrueType,
		config.FalseTypeName:    db.FalseType,
		config.VoidTypeName:     db.VoidType,
		config.ToplevelTypeName: db.Toplevel,
	}

	return db
}

// LookupBuiltin resolves a built-in prototype by name, returning nil when
// the name is not a built-in.
func (d *Database) LookupBuiltin(name string) types.Type {
	return d.builtins[name]
}

// RegisterModuleType records a module's type under the top level's Modules
// attribute, keyed by the module's qualified name.
func (d *Database) RegisterModuleType(qualifiedName string, moduleType types.Type) {
	d.ModulesType.DefineAttribute(qualifiedName, moduleType, false)
}

// LookupModuleType finds a previously registered module type by qualified
// name, returning nil when the module was never registered.
func (d *Database) LookupModuleType(qualifiedName string) types.Type {
	symbol := d.ModulesType.Attributes().Lookup(qualifiedName)
	if !symbol.Defined() {
		return nil
	}
	return symbol.Type
}
