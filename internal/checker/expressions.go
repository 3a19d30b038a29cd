package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/types"
)

// checkIdentifier resolves a bare name: a local, a zero-argument send on
// self, a zero-argument send on the module, then a module global.
func (c *Checker) checkIdentifier(node *ast.Identifier, scope *Scope) types.Type {
	if symbol := scope.Locals.LookupInChain(node.Name); symbol.Defined() {
		return symbol.Type
	}

	if scope.SelfType.LookupMethod(node.Name).Defined() {
		return c.typeOfImplicitSend(node.Name, scope.SelfType)
	}

	if c.module.RespondsToMessage(node.Name) {
		return c.typeOfImplicitSend(node.Name, c.module.Type)
	}

	if symbol := c.module.LookupGlobal(node.Name); symbol.Defined() {
		return symbol.Type
	}

	c.diags.Appendf(
		diagnostics.ErrUndefinedLocal,
		node.Loc(),
		"the name %q is undefined in this scope",
		node.Name,
	)

	return types.NewDynamic()
}

// typeOfImplicitSend computes the result type of a zero-argument send used
// for identifier resolution.
func (c *Checker) typeOfImplicitSend(name string, receiver types.Type) types.Type {
	symbol := receiver.LookupMethod(name)
	typ := types.TypeOfSymbol(symbol)

	if block, ok := typ.(*types.Block); ok {
		instances := types.NewInstances(receiver)
		return instances.ResolveType(block.ResolvedReturn(), receiver)
	}

	return typ
}

// checkAttribute looks the attribute up on the current self.
func (c *Checker) checkAttribute(node *ast.Attribute, scope *Scope) types.Type {
	symbol := scope.SelfType.LookupAttribute(node.Name)
	if symbol.Defined() {
		return symbol.Type
	}

	c.diags.Appendf(
		diagnostics.ErrUndefinedAttribute,
		node.Loc(),
		"%s does not define the attribute %q",
		scope.SelfType, node.Name,
	)

	return types.NewDynamic()
}

// checkConstant resolves a possibly qualified constant through the current
// self, the module globals, and the built-in prototypes.
func (c *Checker) checkConstant(node *ast.Constant, scope *Scope) types.Type {
	if node.Receiver != nil {
		receiver := c.checkExpression(node.Receiver, scope)
		if types.IsDynamic(receiver) {
			return receiver
		}
		if symbol := receiver.LookupAttribute(node.Name); symbol.Defined() {
			return symbol.Type
		}
		c.diags.Appendf(
			diagnostics.ErrUndefinedConstant,
			node.Loc(),
			"%s does not define the constant %q",
			receiver, node.Name,
		)
		return types.NewDynamic()
	}

	if typ := c.resolveConstantName(node.Name, scope); typ != nil {
		return typ
	}

	c.diags.Appendf(
		diagnostics.ErrUndefinedConstant,
		node.Loc(),
		"the constant %q is undefined",
		node.Name,
	)

	return types.NewDynamic()
}

// resolveConstantName searches the ordered constant sources: self's
// attributes, the module's globals, then the built-in prototypes. Returns
// nil when unresolved.
func (c *Checker) resolveConstantName(name string, scope *Scope) types.Type {
	if symbol := scope.SelfType.LookupAttribute(name); symbol.Defined() {
		return symbol.Type
	}
	if symbol := c.module.LookupGlobal(name); symbol.Defined() {
		return symbol.Type
	}
	if builtin := c.db.LookupBuiltin(name); builtin != nil {
		return builtin
	}
	return nil
}

// checkGlobal resolves a module global, which requires a prior
// declaration.
func (c *Checker) checkGlobal(node *ast.Global) types.Type {
	if symbol := c.module.LookupGlobal(node.Name); symbol.Defined() {
		return symbol.Type
	}

	c.diags.Appendf(
		diagnostics.ErrUndefinedConstant,
		node.Loc(),
		"the global %q is undefined",
		node.Name,
	)

	return types.NewDynamic()
}
