package types

import (
	"github.com/koralang/kora/internal/symbols"
)

// Trait is a named set of required methods and required sub-traits, plus
// optional default attributes. A trait with the generated flag set was
// synthesized from a type-parameter constraint; its name matches the
// parameter's name.
type Trait struct {
	name                   string
	prototype              Type
	attributes             *symbols.Table[Type]
	requiredMethods        *symbols.Table[Type]
	requiredTraits         map[*Trait]bool
	requiredTraitOrder     []*Trait
	implementedTraits      map[*Trait]bool
	traitOrder             []*Trait
	typeParameters         *ParameterTable
	typeParameterInstances map[string]Type
	generated              bool
}

func NewTrait(name string, prototype Type) *Trait {
	return &Trait{
		name:                   name,
		prototype:              prototype,
		attributes:             symbols.NewTable[Type](),
		requiredMethods:        symbols.NewTable[Type](),
		requiredTraits:         make(map[*Trait]bool),
		implementedTraits:      make(map[*Trait]bool),
		typeParameters:         NewParameterTable(),
		typeParameterInstances: make(map[string]Type),
	}
}

// NewGeneratedTrait creates a trait synthesized from a type-parameter
// constraint.
func NewGeneratedTrait(name string, prototype Type) *Trait {
	trait := NewTrait(name, prototype)
	trait.generated = true
	return trait
}

func (t *Trait) TypeName() string {
	return t.name
}

func (t *Trait) String() string {
	return t.name
}

func (t *Trait) Prototype() Type {
	return t.prototype
}

func (t *Trait) SetPrototype(proto Type) {
	t.prototype = proto
}

func (t *Trait) Generated() bool {
	return t.generated
}

func (t *Trait) Attributes() *symbols.Table[Type] {
	return t.attributes
}

func (t *Trait) DefineAttribute(name string, typ Type, mutable bool) *symbols.Symbol[Type] {
	return t.attributes.Define(name, typ, mutable)
}

func (t *Trait) RequiredMethods() *symbols.Table[Type] {
	return t.requiredMethods
}

// DefineRequiredMethod records a method every implementor must provide.
func (t *Trait) DefineRequiredMethod(name string, typ Type) *symbols.Symbol[Type] {
	return t.requiredMethods.Define(name, typ, false)
}

// AddRequiredTrait records a trait every implementor must also implement.
func (t *Trait) AddRequiredTrait(required *Trait) {
	if t.requiredTraits[required] {
		return
	}
	t.requiredTraits[required] = true
	t.requiredTraitOrder = append(t.requiredTraitOrder, required)
}

// RequiredTraits returns the required traits in insertion order.
func (t *Trait) RequiredTraits() []*Trait {
	return t.requiredTraitOrder
}

func (t *Trait) AddImplementedTrait(trait *Trait) {
	if t.implementedTraits[trait] {
		return
	}
	t.implementedTraits[trait] = true
	t.traitOrder = append(t.traitOrder, trait)
}

func (t *Trait) ImplementedTraits() []*Trait {
	return t.traitOrder
}

// Implements reports whether the trait declares other in its implemented
// set, requires it, or is other itself.
func (t *Trait) Implements(other *Trait) bool {
	if t == other {
		return true
	}
	if t.implementedTraits[other] {
		return true
	}
	for _, required := range t.requiredTraitOrder {
		if required.Implements(other) {
			return true
		}
	}
	return false
}

// LookupAttribute finds an attribute on the trait or its prototype chain.
func (t *Trait) LookupAttribute(name string) *symbols.Symbol[Type] {
	if symbol := t.attributes.Lookup(name); symbol.Defined() {
		return symbol
	}
	return lookupInPrototypes(t.prototype, name)
}

// LookupMethod finds a method in the default attributes, the required
// methods, the required traits, then the prototype chain.
func (t *Trait) LookupMethod(name string) *symbols.Symbol[Type] {
	if symbol := t.attributes.Lookup(name); symbol.Defined() {
		return symbol
	}
	if symbol := t.requiredMethods.Lookup(name); symbol.Defined() {
		return symbol
	}
	for _, required := range t.requiredTraitOrder {
		if symbol := required.LookupMethod(name); symbol.Defined() {
			return symbol
		}
	}
	return lookupInPrototypes(t.prototype, name)
}

func (t *Trait) RespondsTo(name string) bool {
	return t.LookupMethod(name).Defined()
}

func (t *Trait) TypeParameters() *ParameterTable {
	return t.typeParameters
}

func (t *Trait) TypeParameterInstance(name string) (Type, bool) {
	instance, ok := t.typeParameterInstances[name]
	return instance, ok
}

func (t *Trait) SetTypeParameterInstance(name string, instance Type) {
	t.typeParameterInstances[name] = instance
}

// Compatible implements "T compatible-with expected" for traits: the
// expected type must be the trait itself, a trait it requires or
// implements, something reachable through its prototype chain, or a trait
// whose requirements it satisfies.
func (t *Trait) Compatible(other Type) bool {
	if done, decided := baseCompatible(t, other); decided {
		return done
	}

	switch expected := other.(type) {
	case *Trait:
		if t.Implements(expected) {
			return true
		}
		return satisfiesTraitRequirements(t, expected)
	case *Object:
		return prototypeChainContains(t, expected)
	case *Constraint:
		return expected.SatisfiedBy(t)
	}

	return false
}
