package types

import (
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/symbols"
)

// Object is a named type with attributes, implemented traits and type
// parameters. Methods are attributes whose type is a Block.
type Object struct {
	name                   string
	prototype              Type
	attributes             *symbols.Table[Type]
	implementedTraits      map[*Trait]bool
	traitOrder             []*Trait
	typeParameters         *ParameterTable
	typeParameterInstances map[string]Type
}

func NewObject(name string, prototype Type) *Object {
	return &Object{
		name:                   name,
		prototype:              prototype,
		attributes:             symbols.NewTable[Type](),
		implementedTraits:      make(map[*Trait]bool),
		typeParameters:         NewParameterTable(),
		typeParameterInstances: make(map[string]Type),
	}
}

func (o *Object) TypeName() string {
	return o.name
}

func (o *Object) String() string {
	return o.name
}

func (o *Object) Prototype() Type {
	return o.prototype
}

func (o *Object) SetPrototype(proto Type) {
	o.prototype = proto
}

func (o *Object) Attributes() *symbols.Table[Type] {
	return o.attributes
}

func (o *Object) DefineAttribute(name string, typ Type, mutable bool) *symbols.Symbol[Type] {
	return o.attributes.Define(name, typ, mutable)
}

// LookupAttribute finds an attribute on the object itself or anywhere in
// its prototype chain.
func (o *Object) LookupAttribute(name string) *symbols.Symbol[Type] {
	if symbol := o.attributes.Lookup(name); symbol.Defined() {
		return symbol
	}
	return lookupInPrototypes(o.prototype, name)
}

// LookupMethod is LookupAttribute: an object's methods live in its
// attribute table.
func (o *Object) LookupMethod(name string) *symbols.Symbol[Type] {
	return o.LookupAttribute(name)
}

// RespondsTo reports whether a method lookup for name would succeed.
func (o *Object) RespondsTo(name string) bool {
	return o.LookupMethod(name).Defined()
}

// AddImplementedTrait marks the object as implementing trait. Adding the
// same trait twice is a no-op.
func (o *Object) AddImplementedTrait(trait *Trait) {
	if o.implementedTraits[trait] {
		return
	}
	o.implementedTraits[trait] = true
	o.traitOrder = append(o.traitOrder, trait)
}

// RemoveImplementedTrait drops trait from the implemented set. Used when a
// trait implementation fails verification.
func (o *Object) RemoveImplementedTrait(trait *Trait) {
	if !o.implementedTraits[trait] {
		return
	}
	delete(o.implementedTraits, trait)
	for i, t := range o.traitOrder {
		if t == trait {
			o.traitOrder = append(o.traitOrder[:i], o.traitOrder[i+1:]...)
			break
		}
	}
}

// ImplementedTraits returns the implemented traits in insertion order.
func (o *Object) ImplementedTraits() []*Trait {
	return o.traitOrder
}

// Implements reports whether the object (or a prototype of it) declares
// trait in its implemented set.
func (o *Object) Implements(trait *Trait) bool {
	if o.implementedTraits[trait] {
		return true
	}
	if proto, ok := o.prototype.(*Object); ok {
		return proto.Implements(trait)
	}
	if proto, ok := o.prototype.(*Trait); ok {
		return proto.Implements(trait)
	}
	return false
}

// ImplementsMethod reports whether the object defines a method compatible
// with the given required method.
func (o *Object) ImplementsMethod(name string, required Type) bool {
	symbol := o.LookupMethod(name)
	if !symbol.Defined() {
		return false
	}
	return symbol.Type.Compatible(required)
}

func (o *Object) TypeParameters() *ParameterTable {
	return o.typeParameters
}

func (o *Object) TypeParameterInstance(name string) (Type, bool) {
	instance, ok := o.typeParameterInstances[name]
	return instance, ok
}

func (o *Object) SetTypeParameterInstance(name string, instance Type) {
	o.typeParameterInstances[name] = instance
}

// Compatible implements "O compatible-with expected": the expected type is
// reachable through the prototype chain, is an implemented trait, or is a
// trait whose requirements O satisfies structurally.
func (o *Object) Compatible(other Type) bool {
	if done, decided := baseCompatible(o, other); decided {
		return done
	}

	switch expected := other.(type) {
	case *Object:
		return prototypeChainContains(o, expected)
	case *Trait:
		if o.Implements(expected) {
			return true
		}
		return satisfiesTraitRequirements(o, expected)
	case *Constraint:
		return expected.SatisfiedBy(o)
	}

	return false
}

// IsNilType reports whether t is the Nil prototype.
func IsNilType(t Type) bool {
	obj, ok := t.(*Object)
	return ok && obj.name == config.NilTypeName
}

// IsVoidType reports whether t is the Void prototype.
func IsVoidType(t Type) bool {
	obj, ok := t.(*Object)
	return ok && obj.name == config.VoidTypeName
}

// satisfiesTraitRequirements checks a type against a trait structurally:
// every required trait must be implemented and every required method must
// be present with a compatible signature. An empty requirement set is
// satisfied trivially.
func satisfiesTraitRequirements(t Type, trait *Trait) bool {
	implementor, isObject := t.(*Object)

	for _, required := range trait.RequiredTraits() {
		if isObject {
			if !implementor.Implements(required) && !satisfiesTraitRequirements(t, required) {
				return false
			}
			continue
		}
		if !satisfiesTraitRequirements(t, required) {
			return false
		}
	}

	for _, symbol := range trait.RequiredMethods().Symbols() {
		found := t.LookupMethod(symbol.Name)
		if !found.Defined() || !found.Type.Compatible(symbol.Type) {
			return false
		}
	}

	return true
}
