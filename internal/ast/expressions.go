package ast

import (
	"github.com/koralang/kora/internal/types"
)

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	NodeBase
	Value int64
}

// FloatLiteral represents a floating point literal.
type FloatLiteral struct {
	NodeBase
	Value float64
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	NodeBase
	Value string
}

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	NodeBase
	Value bool
}

// NilLiteral represents the nil literal.
type NilLiteral struct {
	NodeBase
}

// Self represents the self expression.
type Self struct {
	NodeBase
}

// Identifier is a bare name: a local, a zero-argument send on self or the
// module, or a module global, in that order.
type Identifier struct {
	NodeBase
	Name string
}

// Attribute references an attribute on the enclosing self.
type Attribute struct {
	NodeBase
	Name string
}

// Constant references a (possibly qualified) constant.
type Constant struct {
	NodeBase
	Name     string
	Receiver Expression // optional qualifier
}

// Global references a module global by name.
type Global struct {
	NodeBase
	Name string
}

// KeywordArgument is a named argument inside a send.
type KeywordArgument struct {
	NodeBase
	Name  string
	Value Expression
}

// Send is a message send with an explicit or inferred receiver.
type Send struct {
	NodeBase
	Receiver  Expression // nil when the receiver is inferred
	Name      string
	Arguments []Expression

	receiverType types.Type
}

// ReceiverType returns the receiver type the pass resolved for this send.
func (s *Send) ReceiverType() types.Type {
	return s.receiverType
}

func (s *Send) SetReceiverType(typ types.Type) {
	s.receiverType = typ
}

// Return represents `return value?`.
type Return struct {
	NodeBase
	Value Expression // optional
}

// Throw represents `throw value`.
type Throw struct {
	NodeBase
	Value Expression
}

// Try represents `try expr else (err) { ... }`. The else branch and its
// argument are optional.
type Try struct {
	NodeBase
	Expression   Expression
	ElseArgument *BlockArgument // optional
	ElseBody     *Body          // optional

	tryBlockType  *types.Block
	elseBlockType *types.Block
}

// TryBlockType returns the block type synthesized for the try expression.
func (t *Try) TryBlockType() *types.Block {
	return t.tryBlockType
}

func (t *Try) SetTryBlockType(block *types.Block) {
	t.tryBlockType = block
}

// ElseBlockType returns the block type synthesized for the else branch.
func (t *Try) ElseBlockType() *types.Block {
	return t.elseBlockType
}

func (t *Try) SetElseBlockType(block *types.Block) {
	t.elseBlockType = block
}

// RawInstruction is a low-level intrinsic node with a fixed type rule.
type RawInstruction struct {
	NodeBase
	Name      string
	Arguments []Expression
}
