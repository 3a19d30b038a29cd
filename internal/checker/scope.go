package checker

import (
	"github.com/koralang/kora/internal/symbols"
	"github.com/koralang/kora/internal/token"
	"github.com/koralang/kora/internal/types"
)

// Scope is the traversal frame: the current self type, the block being
// filled in, and the innermost locals table. Scopes are immutable after
// construction; entering a block builds a new one.
type Scope struct {
	SelfType  types.Type
	BlockType *types.Block
	Locals    *symbols.Table[types.Type]

	returns *[]collectedReturn
}

type collectedReturn struct {
	typ      types.Type
	location token.Location
}

// NewScope builds a scope for the given self and block. The locals table
// chains to the block's argument table so arguments resolve as locals.
func NewScope(selfType types.Type, block *types.Block) *Scope {
	return &Scope{
		SelfType:  selfType,
		BlockType: block,
		Locals:    symbols.NewEnclosedTable(block.Arguments()),
	}
}

// IsClosure reports whether the enclosing block is a closure.
func (s *Scope) IsClosure() bool {
	return s.BlockType != nil && s.BlockType.IsClosure()
}

// IsMethod reports whether the enclosing block is a method.
func (s *Scope) IsMethod() bool {
	return s.BlockType != nil && s.BlockType.IsMethod()
}

// InInit reports whether the scope is inside a method in which instance
// attributes may be defined.
func (s *Scope) InInit(initName string) bool {
	return s.IsMethod() && s.BlockType.TypeName() == initName
}

// collectReturn records a return expression's value type for the body exit
// check.
func (s *Scope) collectReturn(typ types.Type, loc token.Location) {
	if s.returns != nil {
		*s.returns = append(*s.returns, collectedReturn{typ: typ, location: loc})
	}
}
