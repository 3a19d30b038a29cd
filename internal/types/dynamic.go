package types

import (
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/symbols"
)

// Dynamic is the escape hatch type: compatible with everything in both
// directions. It is substituted for untypable expressions and missing
// bindings after a diagnostic has been emitted.
type Dynamic struct{}

var dynamicInstance = &Dynamic{}

// NewDynamic returns the shared dynamic type. Dynamic carries no state, so
// a single instance serves the whole process.
func NewDynamic() *Dynamic {
	return dynamicInstance
}

func (d *Dynamic) TypeName() string {
	return config.DynamicTypeName
}

func (d *Dynamic) String() string {
	return config.DynamicTypeName
}

func (d *Dynamic) Prototype() Type {
	return nil
}

func (d *Dynamic) SetPrototype(Type) {}

func (d *Dynamic) LookupAttribute(string) *symbols.Symbol[Type] {
	return nil
}

func (d *Dynamic) LookupMethod(string) *symbols.Symbol[Type] {
	return nil
}

func (d *Dynamic) Compatible(Type) bool {
	return true
}

// IsDynamic reports whether t is the dynamic type.
func IsDynamic(t Type) bool {
	_, ok := t.(*Dynamic)
	return ok
}
