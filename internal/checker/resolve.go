package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/types"
)

// resolveTypeNode resolves a type annotation. Named references search the
// enclosing block's type parameters, the self type's parameters and
// attributes, the module globals, then the built-in prototypes. Unresolved
// names are diagnosed and produce Dynamic.
func (c *Checker) resolveTypeNode(node ast.TypeNode, scope *Scope) types.Type {
	var resolved types.Type

	switch ref := node.(type) {
	case *ast.TypeName:
		resolved = c.resolveTypeName(ref, scope)
	case *ast.BlockTypeName:
		resolved = c.resolveBlockTypeName(ref, scope)
	default:
		resolved = types.NewDynamic()
	}

	if node.IsOptional() && !types.IsDynamic(resolved) {
		resolved = types.NewOptional(resolved)
	}

	return resolved
}

func (c *Checker) resolveTypeName(node *ast.TypeName, scope *Scope) types.Type {
	switch node.Name {
	case config.SelfTypeName:
		return types.NewSelfType()
	case config.DynamicTypeName:
		return types.NewDynamic()
	}

	if node.Receiver != nil {
		return c.resolveQualifiedTypeName(node, scope)
	}

	resolved := c.lookupTypeName(node.Name, scope)
	if resolved == nil {
		c.diags.Appendf(
			diagnostics.ErrUndefinedConstant,
			node.Loc(),
			"the type %q is undefined",
			node.Name,
		)
		return types.NewDynamic()
	}

	// Parameter annotations are resolved for their own diagnostics; the
	// per-receiver instances are bound at call sites.
	for _, param := range node.TypeParameters {
		c.resolveTypeNode(param, scope)
	}

	return resolved
}

func (c *Checker) resolveQualifiedTypeName(node *ast.TypeName, scope *Scope) types.Type {
	receiver := c.resolveTypeName(node.Receiver, scope)
	if types.IsDynamic(receiver) {
		return receiver
	}

	if symbol := receiver.LookupAttribute(node.Name); symbol.Defined() {
		return symbol.Type
	}

	c.diags.Appendf(
		diagnostics.ErrUndefinedConstant,
		node.Loc(),
		"%s does not define the type %q",
		receiver, node.Name,
	)

	return types.NewDynamic()
}

// lookupTypeName searches the ordered type sources, returning nil when the
// name does not resolve anywhere.
func (c *Checker) lookupTypeName(name string, scope *Scope) types.Type {
	if scope.BlockType != nil {
		if param := scope.BlockType.TypeParameters().Lookup(name); param != nil {
			return param
		}
	}

	if parameterized, ok := scope.SelfType.(types.ParameterizedType); ok {
		if param := parameterized.TypeParameters().Lookup(name); param != nil {
			return param
		}
	}

	return c.resolveConstantName(name, scope)
}

func (c *Checker) resolveBlockTypeName(node *ast.BlockTypeName, scope *Scope) types.Type {
	block := types.NewBlock("fn", types.ClosureBlock, c.db.BlockType)
	block.DefineSelfArgument(scope.SelfType)

	for i, argNode := range node.Arguments {
		block.DefineRequiredArgument(defaultArgumentName(i), c.resolveTypeNode(argNode, scope), false)
	}

	if node.Returns != nil {
		block.SetReturns(c.resolveTypeNode(node.Returns, scope))
	}
	if node.Throws != nil {
		block.SetThrows(c.resolveTypeNode(node.Throws, scope))
	}

	return block
}
