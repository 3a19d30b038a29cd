package ast

import (
	"github.com/koralang/kora/internal/types"
)

// TypeParameterDef declares a type parameter with optional required
// traits, e.g. `T: ToString`.
type TypeParameterDef struct {
	NodeBase
	Name           string
	RequiredTraits []TypeNode
}

// BlockArgument is a formal argument of a method or closure.
type BlockArgument struct {
	NodeBase
	Name           string
	TypeAnnotation TypeNode   // nil for unannotated closure arguments
	Default        Expression // nil unless the argument has a default
	Rest           bool
	Mutable        bool
}

// ObjectDefinition defines a new object type.
type ObjectDefinition struct {
	NodeBase
	Name           string
	TypeParameters []*TypeParameterDef
	Body           *Body
}

// TraitDefinition defines a new trait.
type TraitDefinition struct {
	NodeBase
	Name           string
	TypeParameters []*TypeParameterDef
	RequiredTraits []TypeNode
	Body           *Body
}

// TraitImplementation implements a trait for an object.
type TraitImplementation struct {
	NodeBase
	TraitName  *Constant
	ObjectName *Constant
	Body       *Body
}

// ReopenObject re-enters the body of an existing object type.
type ReopenObject struct {
	NodeBase
	Name *Constant
	Body *Body
}

// MethodDefinition defines a method on the enclosing self, or a required
// method when Required is set and self is a trait.
type MethodDefinition struct {
	NodeBase
	Name           string
	TypeParameters []*TypeParameterDef
	Arguments      []*BlockArgument
	Returns        TypeNode // nil defaults to Dynamic
	Throws         TypeNode // nil means the method does not throw
	Required       bool
	Body           *Body // nil for required methods

	blockType *types.Block
}

// BlockType returns the Block the pass built for this method.
func (m *MethodDefinition) BlockType() *types.Block {
	return m.blockType
}

func (m *MethodDefinition) SetBlockType(block *types.Block) {
	m.blockType = block
}

// BlockLiteral is a closure literal. Closures without an explicit
// signature have their return type back-filled from the body.
type BlockLiteral struct {
	NodeBase
	Arguments []*BlockArgument
	Returns   TypeNode // nil when the return type is inferred
	Throws    TypeNode
	Body      *Body
}

// VariableKind tells a definition or reassignment what it binds.
type VariableKind int

const (
	LocalVariable VariableKind = iota
	AttributeVariable
	ConstantVariable
)

// DefineVariable binds a new constant, attribute or local.
type DefineVariable struct {
	NodeBase
	Kind      VariableKind
	Name      string
	ValueType TypeNode // optional explicit annotation
	Value     Expression
	Mutable   bool
}

// ReassignVariable assigns a new value to an existing mutable local or
// attribute.
type ReassignVariable struct {
	NodeBase
	Kind  VariableKind
	Name  string
	Value Expression
}

// ImportSymbol selects one symbol from an imported module. An empty alias
// keeps the original name. Glob imports every exported symbol; SelfImport
// binds the source module itself under the alias.
type ImportSymbol struct {
	NodeBase
	Name       string
	Alias      string
	Glob       bool
	SelfImport bool
}

// Import brings symbols from another module into the module's globals.
type Import struct {
	NodeBase
	Path    []string // module path steps, e.g. ["std", "fs"]
	Symbols []*ImportSymbol
}

// QualifiedName joins the path steps into the module's qualified name.
func (i *Import) QualifiedName() string {
	name := ""
	for index, step := range i.Path {
		if index > 0 {
			name += "::"
		}
		name += step
	}
	return name
}
