package types

import (
	"strings"

	"github.com/koralang/kora/internal/symbols"
)

// BlockKind distinguishes the flavors of Block the pass creates.
type BlockKind int

const (
	ClosureBlock BlockKind = iota
	MethodBlock
	TryBlock
	ElseBlock
)

// SelfArgumentName is the name of the implicit receiver argument every
// block defines at index 0.
const SelfArgumentName = "self"

// Block is the common type of closures and methods: an ordered argument
// table (the 0th entry is always the implicit self), an optional return
// type, an optional throw type, and type parameters.
type Block struct {
	name              string
	kind              BlockKind
	prototype         Type
	attributes        *symbols.Table[Type]
	arguments         *symbols.Table[Type]
	requiredArguments int
	restArgument      bool
	returns           Type
	throws            Type
	typeParameters    *ParameterTable
	inferReturn       bool
}

func NewBlock(name string, kind BlockKind, prototype Type) *Block {
	return &Block{
		name:           name,
		kind:           kind,
		prototype:      prototype,
		attributes:     symbols.NewTable[Type](),
		arguments:      symbols.NewTable[Type](),
		typeParameters: NewParameterTable(),
	}
}

func (b *Block) TypeName() string {
	return b.name
}

func (b *Block) Kind() BlockKind {
	return b.kind
}

func (b *Block) IsClosure() bool {
	return b.kind == ClosureBlock
}

func (b *Block) IsMethod() bool {
	return b.kind == MethodBlock
}

func (b *Block) Prototype() Type {
	return b.prototype
}

func (b *Block) SetPrototype(proto Type) {
	b.prototype = proto
}

func (b *Block) Attributes() *symbols.Table[Type] {
	return b.attributes
}

func (b *Block) DefineAttribute(name string, typ Type, mutable bool) *symbols.Symbol[Type] {
	return b.attributes.Define(name, typ, mutable)
}

func (b *Block) LookupAttribute(name string) *symbols.Symbol[Type] {
	if symbol := b.attributes.Lookup(name); symbol.Defined() {
		return symbol
	}
	return lookupInPrototypes(b.prototype, name)
}

func (b *Block) LookupMethod(name string) *symbols.Symbol[Type] {
	return b.LookupAttribute(name)
}

// DefineSelfArgument installs the implicit receiver at argument index 0.
// Every block must define it before any other argument.
func (b *Block) DefineSelfArgument(selfType Type) *symbols.Symbol[Type] {
	return b.arguments.Define(SelfArgumentName, selfType, false)
}

// DefineRequiredArgument adds a positional argument without a default.
func (b *Block) DefineRequiredArgument(name string, typ Type, mutable bool) *symbols.Symbol[Type] {
	b.requiredArguments++
	return b.arguments.Define(name, typ, mutable)
}

// DefineOptionalArgument adds an argument with a default value.
func (b *Block) DefineOptionalArgument(name string, typ Type, mutable bool) *symbols.Symbol[Type] {
	return b.arguments.Define(name, typ, mutable)
}

// DefineRestArgument adds the trailing rest argument.
func (b *Block) DefineRestArgument(name string, typ Type) *symbols.Symbol[Type] {
	b.restArgument = true
	return b.arguments.Define(name, typ, false)
}

func (b *Block) Arguments() *symbols.Table[Type] {
	return b.arguments
}

// LookupArgument finds an argument by name (for keyword arguments).
func (b *Block) LookupArgument(name string) *symbols.Symbol[Type] {
	return b.arguments.Lookup(name)
}

// ArgumentAt returns the argument for the given position. Positions start
// at 1 because 0 is self. Positions past the end map to the rest argument
// when one is defined.
func (b *Block) ArgumentAt(position int) *symbols.Symbol[Type] {
	if symbol := b.arguments.At(position); symbol != nil {
		return symbol
	}
	if b.restArgument {
		return b.arguments.At(b.arguments.Len() - 1)
	}
	return nil
}

// RequiredArgumentCount is the number of explicit arguments without
// defaults, excluding self and any rest argument.
func (b *Block) RequiredArgumentCount() int {
	return b.requiredArguments
}

// MaxArgumentCount is the number of explicit arguments, excluding self.
func (b *Block) MaxArgumentCount() int {
	return b.arguments.Len() - 1
}

func (b *Block) HasRestArgument() bool {
	return b.restArgument
}

// ValidArgumentCount reports whether a call supplying the given number of
// arguments satisfies the block's arity.
func (b *Block) ValidArgumentCount(given int) bool {
	if b.restArgument {
		return given >= b.RequiredArgumentCount()
	}
	return given >= b.requiredArguments && given <= b.MaxArgumentCount()
}

func (b *Block) Returns() Type {
	return b.returns
}

// SetReturns records the block's return type, replacing any type set
// before.
func (b *Block) SetReturns(typ Type) {
	b.returns = typ
}

func (b *Block) Throws() Type {
	return b.throws
}

func (b *Block) SetThrows(typ Type) {
	b.throws = typ
}

// InferReturn reports whether the block was written without an explicit
// signature and its return type may be back-filled from its body.
func (b *Block) InferReturn() bool {
	return b.inferReturn
}

func (b *Block) SetInferReturn(infer bool) {
	b.inferReturn = infer
}

func (b *Block) TypeParameters() *ParameterTable {
	return b.typeParameters
}

// ResolvedReturn returns the declared return type, defaulting to Dynamic
// when none was declared or inferred.
func (b *Block) ResolvedReturn() Type {
	if b.returns == nil {
		return NewDynamic()
	}
	return b.returns
}

// Compatible implements block compatibility: argument counts must match
// (modulo rest arguments), argument types are checked contravariantly, and
// return and throw types covariantly. An absent throw type is compatible
// with an absent throw type only.
func (b *Block) Compatible(other Type) bool {
	if done, decided := baseCompatible(b, other); decided {
		return done
	}

	expected, ok := other.(*Block)
	if !ok {
		if trait, isTrait := other.(*Trait); isTrait {
			return satisfiesTraitRequirements(b, trait)
		}
		if constraint, isConstraint := other.(*Constraint); isConstraint {
			return constraint.SatisfiedBy(b)
		}
		return prototypeChainContains(b, other)
	}

	if !b.compatibleArguments(expected) {
		return false
	}

	if !compatibleReturns(b.returns, expected.returns) {
		return false
	}

	return compatibleThrows(b.throws, expected.throws)
}

func (b *Block) compatibleArguments(expected *Block) bool {
	if b.MaxArgumentCount() != expected.MaxArgumentCount() {
		if !b.restArgument && !expected.restArgument {
			return false
		}
	}

	count := b.MaxArgumentCount()
	if expected.MaxArgumentCount() < count {
		count = expected.MaxArgumentCount()
	}

	// Contravariant: what the expected block would receive must be
	// acceptable to this block's arguments. Position 0 is self and is
	// skipped.
	for position := 1; position <= count; position++ {
		ours := b.ArgumentAt(position)
		theirs := expected.ArgumentAt(position)
		if ours == nil || theirs == nil {
			return false
		}
		if !theirs.Type.Compatible(ours.Type) {
			return false
		}
	}

	return true
}

func compatibleReturns(ours, theirs Type) bool {
	if theirs == nil {
		return true
	}
	if ours == nil {
		return NewDynamic().Compatible(theirs)
	}
	return ours.Compatible(theirs)
}

func compatibleThrows(ours, theirs Type) bool {
	if ours == nil && theirs == nil {
		return true
	}
	if ours == nil || theirs == nil {
		return false
	}
	return ours.Compatible(theirs)
}

func (b *Block) String() string {
	var out strings.Builder

	out.WriteString("fn (")

	names := b.arguments.Symbols()
	for i, symbol := range names {
		if i == 0 {
			continue
		}
		if i > 1 {
			out.WriteString(", ")
		}
		if b.restArgument && i == len(names)-1 {
			out.WriteString("*")
		}
		out.WriteString(symbol.Type.String())
	}

	out.WriteString(")")

	if b.returns != nil {
		out.WriteString(" -> ")
		out.WriteString(b.returns.String())
	}
	if b.throws != nil {
		out.WriteString(" throws ")
		out.WriteString(b.throws.String())
	}

	return out.String()
}
