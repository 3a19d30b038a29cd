package checker

import (
	"fmt"

	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/types"
)

// checkSend types a message send: resolve the receiver, type every
// argument, verify keywords, arity and argument types, then compute the
// initialized return type through the call site's parameter instances.
func (c *Checker) checkSend(node *ast.Send, scope *Scope) types.Type {
	receiver := c.resolveReceiver(node, scope)
	node.SetReceiverType(receiver)

	// Arguments are typed first, left to right, so their nodes carry
	// types even when the send itself fails.
	argTypes := make([]types.Type, len(node.Arguments))
	for i, argument := range node.Arguments {
		argTypes[i] = c.checkExpression(argument, scope)
	}

	if types.IsDynamic(receiver) {
		return receiver
	}

	if constraint, ok := receiver.(*types.Constraint); ok {
		return c.synthesizeConstraintMethod(constraint, node, argTypes)
	}

	symbol := receiver.LookupMethod(node.Name)
	symbolType := types.TypeOfSymbol(symbol)

	block, ok := symbolType.(*types.Block)
	if !ok {
		if !symbol.Defined() {
			c.diags.Appendf(
				diagnostics.ErrUndefinedMethod,
				node.Loc(),
				"%s does not respond to the message %q",
				receiver, node.Name,
			)
		}
		return symbolType
	}

	c.verifyKeywordArguments(node, block)

	given := len(node.Arguments)
	if !block.ValidArgumentCount(given) {
		c.diags.Appendf(
			diagnostics.ErrArgumentCountMismatch,
			node.Loc(),
			"the method %q expects %s, but %d were given",
			node.Name, expectedArity(block), given,
		)
		instances := types.NewInstances(receiver)
		return instances.ResolveType(block.ResolvedReturn(), receiver)
	}

	instances := c.verifyArgumentTypes(node, block, receiver, argTypes)

	return instances.ResolveType(block.ResolvedReturn(), receiver)
}

// resolveReceiver determines the receiver type: an explicit expression,
// else self if self responds, else the module if it responds, else self.
// The final fallback keeps self-shadowing diagnostics pointed at self.
func (c *Checker) resolveReceiver(node *ast.Send, scope *Scope) types.Type {
	if node.Receiver != nil {
		return c.checkExpression(node.Receiver, scope)
	}

	if scope.SelfType.LookupMethod(node.Name).Defined() {
		return scope.SelfType
	}

	if c.module.RespondsToMessage(node.Name) {
		return c.module.Type
	}

	return scope.SelfType
}

// synthesizeConstraintMethod handles sends whose receiver is an unresolved
// closure-argument constraint: a required method is synthesized from the
// argument types and its return type is produced.
func (c *Checker) synthesizeConstraintMethod(constraint *types.Constraint, node *ast.Send, argTypes []types.Type) types.Type {
	if existing := constraint.LookupMethod(node.Name); existing.Defined() {
		if block, ok := existing.Type.(*types.Block); ok {
			return block.ResolvedReturn()
		}
		return existing.Type
	}

	method := types.NewBlock(node.Name, types.MethodBlock, c.db.BlockType)
	method.DefineSelfArgument(constraint)

	for i, argument := range node.Arguments {
		name := argumentName(argument, i)
		method.DefineRequiredArgument(name, argTypes[i], false)
	}

	// The synthesized return follows the first argument, so expressions
	// like `a + 1` give the whole closure a concrete type.
	if len(argTypes) > 0 {
		method.SetReturns(argTypes[0])
	} else {
		method.SetReturns(types.NewDynamic())
	}

	constraint.DefineRequiredMethod(node.Name, method)

	return method.ResolvedReturn()
}

func argumentName(argument ast.Expression, index int) string {
	if keyword, ok := argument.(*ast.KeywordArgument); ok {
		return keyword.Name
	}
	return defaultArgumentName(index)
}

func defaultArgumentName(index int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	if index < len(letters) {
		return string(letters[index])
	}
	return "arg"
}

// verifyKeywordArguments checks that every keyword in the send matches a
// declared argument by name.
func (c *Checker) verifyKeywordArguments(node *ast.Send, block *types.Block) {
	for _, argument := range node.Arguments {
		keyword, ok := argument.(*ast.KeywordArgument)
		if !ok {
			continue
		}
		if block.LookupArgument(keyword.Name).Defined() {
			continue
		}
		c.diags.Appendf(
			diagnostics.ErrUndefinedKeywordArgument,
			keyword.Loc(),
			"the method %q does not define the argument %q",
			node.Name, keyword.Name,
		)
	}
}

// verifyArgumentTypes checks every argument against its expected type,
// handling generated-trait inference, and returns the call site's
// parameter instances for resolving the return type.
func (c *Checker) verifyArgumentTypes(node *ast.Send, block *types.Block, receiver types.Type, argTypes []types.Type) types.Instances {
	instances := types.NewInstances(receiver)

	position := 0
	for i, argument := range node.Arguments {
		var declared types.Type

		if keyword, ok := argument.(*ast.KeywordArgument); ok {
			symbol := block.LookupArgument(keyword.Name)
			if !symbol.Defined() {
				continue
			}
			declared = symbol.Type
		} else {
			position++
			symbol := block.ArgumentAt(position)
			if symbol == nil {
				continue
			}
			declared = symbol.Type
		}

		expectedType := c.resolveExpectedArgument(node, receiver, instances, declared, argTypes[i])
		if expectedType == nil {
			continue
		}

		if !argTypes[i].Compatible(expectedType) {
			c.diags.Appendf(
				diagnostics.ErrTypeMismatch,
				argument.Loc(),
				"expected a value of type %s, got %s",
				expectedType, argTypes[i],
			)
		}
	}

	return instances
}

// resolveExpectedArgument maps a formal argument type through the call
// site's instances. Generated traits resolve to an existing instance when
// the receiver's parameter table binds one, and otherwise initialize the
// parameter from the given argument. A nil result means the argument was
// already diagnosed.
func (c *Checker) resolveExpectedArgument(node *ast.Send, receiver types.Type, instances types.Instances, expected types.Type, given types.Type) types.Type {
	if optional, ok := expected.(*types.Optional); ok {
		inner := c.resolveExpectedArgument(node, receiver, instances, optional.Wrapped(), given)
		if inner == nil {
			return nil
		}
		return types.NewOptional(inner)
	}

	generated, ok := expected.(*types.Trait)
	if !ok || !generated.Generated() {
		return instances.ResolveType(expected, receiver)
	}

	name := generated.TypeName()

	if instance, bound := instances[name]; bound {
		return instance
	}

	if !given.Compatible(generated) {
		c.diags.Appendf(
			diagnostics.ErrGeneratedTraitNotImplemented,
			node.Loc(),
			"%s does not satisfy the requirements of the type parameter %q",
			given, name,
		)
		return nil
	}

	instances[name] = given

	// Receiver-owned parameters become part of the receiver's identity:
	// the first binding fixes the parameter for this receiver going
	// forward. The current module is exempt so top-level calls do not
	// pin module-wide parameters.
	if parameterized, isParameterized := receiver.(types.ParameterizedType); isParameterized {
		if parameterized.TypeParameters().IsDefined(name) && receiver != c.module.Type {
			parameterized.SetTypeParameterInstance(name, given)
		}
	}

	return given
}

func expectedArity(block *types.Block) string {
	required := block.RequiredArgumentCount()
	max := block.MaxArgumentCount()

	switch {
	case block.HasRestArgument():
		return fmt.Sprintf("at least %d argument(s)", required)
	case required == max:
		return fmt.Sprintf("%d argument(s)", required)
	default:
		return fmt.Sprintf("%d to %d arguments", required, max)
	}
}
