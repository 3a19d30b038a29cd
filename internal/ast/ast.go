// Package ast defines the tree consumed by the type pass. Nodes arrive
// from the external parser front end; the pass mutates their type slots in
// place so later passes can read them.
package ast

import (
	"github.com/koralang/kora/internal/token"
	"github.com/koralang/kora/internal/types"
)

// Node is the base interface for every AST node.
type Node interface {
	Loc() token.Location
}

// Expression is a Node with a mutable computed-type slot. Every expression
// carries a non-nil type after the pass, even on error paths.
type Expression interface {
	Node
	Type() types.Type
	SetType(typ types.Type)
}

// NodeBase carries the location and the computed-type slot shared by all
// expression nodes.
type NodeBase struct {
	Location token.Location

	typ types.Type
}

func (b *NodeBase) Loc() token.Location {
	return b.Location
}

func (b *NodeBase) Type() types.Type {
	return b.typ
}

func (b *NodeBase) SetType(typ types.Type) {
	b.typ = typ
}

// Body is an ordered sequence of expressions: a module body, a method body
// or a block body. Its type is the type of the last expression.
type Body struct {
	NodeBase
	Expressions []Expression
}

// LastExpression returns the final expression of the body, or nil for an
// empty body.
func (b *Body) LastExpression() Expression {
	if len(b.Expressions) == 0 {
		return nil
	}
	return b.Expressions[len(b.Expressions)-1]
}

// Module is the root node the pass receives for a single module.
type Module struct {
	NodeBase
	Name        string
	Imports     []*Import
	Body        *Body
	NoModuleType bool // reuse the top level instead of minting a module type
}
