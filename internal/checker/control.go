package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/types"
)

// checkReturn types a return expression: the value's type, or Nil when no
// value is given. The type is also collected for the body exit check.
func (c *Checker) checkReturn(node *ast.Return, scope *Scope) types.Type {
	var typ types.Type = c.db.NilType
	if node.Value != nil {
		typ = c.checkExpression(node.Value, scope)
	}

	scope.collectReturn(typ, node.Loc())

	return typ
}

// checkThrow types a throw expression as Void. Closures and try blocks
// without a declared throw type have it back-filled from the thrown value.
func (c *Checker) checkThrow(node *ast.Throw, scope *Scope) types.Type {
	valueType := c.checkExpression(node.Value, scope)

	if block := scope.BlockType; block != nil && block.Throws() == nil {
		switch block.Kind() {
		case types.ClosureBlock, types.TryBlock:
			block.SetThrows(valueType)
		}
	}

	return c.db.VoidType
}

// checkTry synthesizes two block types sharing the enclosing self, types
// the try expression and the else body in them, and verifies the branches
// agree when both produce physical (non-Void) types.
func (c *Checker) checkTry(node *ast.Try, scope *Scope) types.Type {
	tryBlock := types.NewBlock(config.TryBlockName, types.TryBlock, c.db.BlockType)
	tryBlock.DefineSelfArgument(scope.SelfType)
	tryBlock.Arguments().SetParent(scope.Locals)
	node.SetTryBlockType(tryBlock)

	tryType := c.checkExpression(node.Expression, NewScope(scope.SelfType, tryBlock))
	tryBlock.SetReturns(tryType)

	elseBlock := types.NewBlock(config.ElseBlockName, types.ElseBlock, c.db.BlockType)
	elseBlock.DefineSelfArgument(scope.SelfType)
	elseBlock.Arguments().SetParent(scope.Locals)
	node.SetElseBlockType(elseBlock)

	var elseType types.Type

	if node.ElseBody != nil {
		if argument := node.ElseArgument; argument != nil {
			// The else argument receives whatever the try block throws.
			argType := tryBlock.Throws()
			if argType == nil {
				argType = types.NewDynamic()
			}
			argument.SetType(argType)
			elseBlock.DefineRequiredArgument(argument.Name, argType, false)
		}

		elseType = c.checkBlockBody(elseBlock, node.ElseBody, NewScope(scope.SelfType, elseBlock))
		elseBlock.SetReturns(elseType)
	}

	if elseType != nil && !types.IsVoidType(tryType) && !types.IsVoidType(elseType) {
		if !elseType.Compatible(tryType) {
			c.diags.Appendf(
				diagnostics.ErrTypeMismatch,
				node.ElseBody.Loc(),
				"the else branch returns %s, which is incompatible with the try branch's %s",
				elseType, tryType,
			)
		}
	}

	result := tryType
	if types.IsVoidType(tryType) && elseType != nil {
		result = elseType
	}

	return result
}
