package types

import (
	"github.com/koralang/kora/internal/symbols"
)

// Constraint is the inferred type of an unannotated closure argument. It
// starts empty; every message sent to the argument adds a required method,
// so the closure's callers must supply a type satisfying all of them.
type Constraint struct {
	name            string
	requiredMethods *symbols.Table[Type]
}

func NewConstraint(name string) *Constraint {
	return &Constraint{
		name:            name,
		requiredMethods: symbols.NewTable[Type](),
	}
}

func (c *Constraint) TypeName() string {
	return c.name
}

func (c *Constraint) String() string {
	return c.name
}

func (c *Constraint) Prototype() Type {
	return nil
}

func (c *Constraint) SetPrototype(Type) {}

func (c *Constraint) RequiredMethods() *symbols.Table[Type] {
	return c.requiredMethods
}

// DefineRequiredMethod records a method the constraint's eventual concrete
// type must provide.
func (c *Constraint) DefineRequiredMethod(name string, typ Type) *symbols.Symbol[Type] {
	return c.requiredMethods.Define(name, typ, false)
}

func (c *Constraint) LookupAttribute(name string) *symbols.Symbol[Type] {
	return c.requiredMethods.Lookup(name)
}

func (c *Constraint) LookupMethod(name string) *symbols.Symbol[Type] {
	return c.requiredMethods.Lookup(name)
}

// SatisfiedBy reports whether a concrete type provides every required
// method with a compatible signature.
func (c *Constraint) SatisfiedBy(t Type) bool {
	for _, symbol := range c.requiredMethods.Symbols() {
		found := t.LookupMethod(symbol.Name)
		if !found.Defined() || !found.Type.Compatible(symbol.Type) {
			return false
		}
	}
	return true
}

func (c *Constraint) Compatible(other Type) bool {
	if done, decided := baseCompatible(c, other); decided {
		return done
	}
	if constraint, ok := other.(*Constraint); ok {
		return constraint.SatisfiedBy(c)
	}
	if trait, ok := other.(*Trait); ok {
		return satisfiesTraitRequirements(c, trait)
	}
	return false
}
