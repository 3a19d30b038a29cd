// Package types implements the type model of the Kora compiler: objects
// with prototypes, traits with required methods, blocks with full
// signatures, optionals, self types and the dynamic escape hatch.
package types

import (
	"github.com/koralang/kora/internal/symbols"
)

// Type is implemented by every variant in the type model.
//
// Compatible implements the "A compatible-with B" relation, where the
// receiver is the supplied type and the argument is the expected one.
type Type interface {
	TypeName() string
	String() string
	Prototype() Type
	SetPrototype(proto Type)
	LookupAttribute(name string) *symbols.Symbol[Type]
	LookupMethod(name string) *symbols.Symbol[Type]
	Compatible(other Type) bool
}

// AttributeContainer is a Type that can define attributes (objects, traits
// and blocks). Methods are attributes whose type is a Block.
type AttributeContainer interface {
	Type
	Attributes() *symbols.Table[Type]
	DefineAttribute(name string, typ Type, mutable bool) *symbols.Symbol[Type]
}

// ParameterizedType is a Type carrying type parameters and their
// per-receiver instance mapping (objects and traits).
type ParameterizedType interface {
	Type
	TypeParameters() *ParameterTable
	TypeParameterInstance(name string) (Type, bool)
	SetTypeParameterInstance(name string, instance Type)
}

// TypeOfSymbol returns the type carried by a symbol, or Dynamic when the
// symbol is the absent sentinel. This keeps lookup misses chainable.
func TypeOfSymbol(symbol *symbols.Symbol[Type]) Type {
	if symbol.Defined() {
		return symbol.Type
	}
	return NewDynamic()
}

// baseCompatible handles the rules shared by every variant: reflexivity,
// the dynamic wildcard on the expected side, and optional unwrapping. The
// second return value reports whether the relation was decided.
func baseCompatible(self, other Type) (bool, bool) {
	if self == other {
		return true, true
	}

	switch expected := other.(type) {
	case *Dynamic:
		return true, true
	case *Optional:
		return optionalAccepts(self, expected), true
	}

	return false, false
}

// optionalAccepts implements acceptance into Optional[T]: the wrapped type
// itself, another optional of a compatible type, and nil-like values.
func optionalAccepts(self Type, expected *Optional) bool {
	if IsNilType(self) {
		return true
	}
	if opt, ok := self.(*Optional); ok {
		return opt.wrapped.Compatible(expected.wrapped)
	}
	return self.Compatible(expected.wrapped)
}

// lookupInPrototypes walks the prototype chain starting at proto.
func lookupInPrototypes(proto Type, name string) *symbols.Symbol[Type] {
	for current := proto; current != nil; {
		container, ok := current.(AttributeContainer)
		if !ok {
			return nil
		}
		if symbol := container.Attributes().Lookup(name); symbol.Defined() {
			return symbol
		}
		current = current.Prototype()
	}
	return nil
}

// prototypeChainContains reports whether target is reachable from start via
// prototype links.
func prototypeChainContains(start, target Type) bool {
	for current := start; current != nil; current = current.Prototype() {
		if current == target {
			return true
		}
	}
	return false
}
