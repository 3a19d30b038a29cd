package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/types"
)

// checkObjectDefinition creates an object type, registers it under the
// enclosing self, and types its body with self bound to the new object.
func (c *Checker) checkObjectDefinition(node *ast.ObjectDefinition, scope *Scope) types.Type {
	object := types.NewObject(node.Name, c.db.ObjectType)
	object.DefineAttribute(config.ObjectNameAttribute, c.db.StringType, false)

	c.defineTypeParameters(object.TypeParameters(), node.TypeParameters, scope)
	c.registerTypeDeclaration(node.Name, object, scope)

	c.checkTypeBody(node.Body, object, scope)

	return object
}

// checkTraitDefinition creates a trait type, attaches its resolved
// required traits, registers it, and types its body.
func (c *Checker) checkTraitDefinition(node *ast.TraitDefinition, scope *Scope) types.Type {
	trait := types.NewTrait(node.Name, c.db.TraitType)
	trait.DefineAttribute(config.ObjectNameAttribute, c.db.StringType, false)

	c.defineTypeParameters(trait.TypeParameters(), node.TypeParameters, scope)

	for _, requiredNode := range node.RequiredTraits {
		if required, ok := c.resolveTypeNode(requiredNode, scope).(*types.Trait); ok {
			trait.AddRequiredTrait(required)
		}
	}

	c.registerTypeDeclaration(node.Name, trait, scope)

	c.checkTypeBody(node.Body, trait, scope)

	return trait
}

// registerTypeDeclaration binds a freshly created type under the enclosing
// self, and as a module global when declared at the top level.
func (c *Checker) registerTypeDeclaration(name string, typ types.Type, scope *Scope) {
	if container, ok := scope.SelfType.(types.AttributeContainer); ok {
		container.DefineAttribute(name, typ, false)
	}
	if scope.SelfType == c.module.Type {
		c.module.Globals.Define(name, typ, false)
	}
}

// checkTypeBody types the body of an object or trait declaration with self
// rebound to the declared type.
func (c *Checker) checkTypeBody(body *ast.Body, selfType types.Type, scope *Scope) {
	if body == nil {
		return
	}

	bodyScope := &Scope{
		SelfType:  selfType,
		BlockType: scope.BlockType,
		Locals:    scope.Locals,
	}

	for _, expr := range body.Expressions {
		c.checkExpression(expr, bodyScope)
	}
	body.SetType(c.db.NilType)
}

// defineTypeParameters turns parameter declarations into generated traits
// carrying their constraints.
func (c *Checker) defineTypeParameters(table *types.ParameterTable, params []*ast.TypeParameterDef, scope *Scope) {
	for _, param := range params {
		generated := types.NewGeneratedTrait(param.Name, c.db.TraitType)
		for _, requiredNode := range param.RequiredTraits {
			if required, ok := c.resolveTypeNode(requiredNode, scope).(*types.Trait); ok {
				generated.AddRequiredTrait(required)
			}
		}
		table.Define(generated)
	}
}

// checkTraitImplementation resolves the trait and the object, types the
// implementation body, then verifies the trait's requirements. Failed
// implementations do not advertise compatibility: the trait is removed
// from the object again.
func (c *Checker) checkTraitImplementation(node *ast.TraitImplementation, scope *Scope) types.Type {
	traitType := c.checkConstant(node.TraitName, scope)
	objectType := c.checkConstant(node.ObjectName, scope)

	trait, traitOK := traitType.(*types.Trait)
	object, objectOK := objectType.(*types.Object)
	if !traitOK || !objectOK {
		// Resolution already produced a diagnostic when the name was
		// undefined.
		return types.NewDynamic()
	}

	object.AddImplementedTrait(trait)

	c.checkTypeBody(node.Body, object, scope)

	if !c.verifyTraitImplementation(node, object, trait) {
		object.RemoveImplementedTrait(trait)
	}

	return object
}

// verifyTraitImplementation checks required traits and required methods,
// recording a diagnostic per violation.
func (c *Checker) verifyTraitImplementation(node *ast.TraitImplementation, object *types.Object, trait *types.Trait) bool {
	valid := true

	for _, required := range trait.RequiredTraits() {
		if object.Implements(required) {
			continue
		}
		valid = false
		c.diags.Appendf(
			diagnostics.ErrUnimplementedTrait,
			node.Loc(),
			"%s requires the trait %s, which %s does not implement",
			trait, required, object,
		)
	}

	for _, symbol := range trait.RequiredMethods().Symbols() {
		if object.ImplementsMethod(symbol.Name, symbol.Type) {
			continue
		}
		valid = false
		c.diags.Appendf(
			diagnostics.ErrUnimplementedMethod,
			node.Loc(),
			"%s does not implement the method %q required by %s",
			object, symbol.Name, trait,
		)
	}

	return valid
}

// checkReopenObject re-enters an existing type's body.
func (c *Checker) checkReopenObject(node *ast.ReopenObject, scope *Scope) types.Type {
	resolved := c.checkConstant(node.Name, scope)

	if types.IsDynamic(resolved) {
		return resolved
	}

	c.checkTypeBody(node.Body, resolved, scope)

	return resolved
}

// checkMethodDefinition builds the method's Block and signature, then
// either attaches it as a required method (traits only) or registers it as
// an attribute of self and queues the body for phase two.
func (c *Checker) checkMethodDefinition(node *ast.MethodDefinition, scope *Scope) types.Type {
	block := types.NewBlock(node.Name, types.MethodBlock, c.db.BlockType)
	node.SetBlockType(block)

	c.defineTypeParameters(block.TypeParameters(), node.TypeParameters, scope)

	signatureScope := &Scope{
		SelfType:  scope.SelfType,
		BlockType: block,
		Locals:    scope.Locals,
	}

	c.buildSignature(block, node.Arguments, signatureScope, false)

	if node.Returns != nil {
		block.SetReturns(c.resolveTypeNode(node.Returns, signatureScope))
	} else {
		block.SetReturns(types.NewDynamic())
	}
	if node.Throws != nil {
		block.SetThrows(c.resolveTypeNode(node.Throws, signatureScope))
	}

	if node.Required {
		trait, ok := scope.SelfType.(*types.Trait)
		if !ok {
			c.diags.Appendf(
				diagnostics.ErrRequiredMethodOnNonTrait,
				node.Loc(),
				"required methods can only be defined on traits, and %s is not a trait",
				scope.SelfType,
			)
			return block
		}
		trait.DefineRequiredMethod(node.Name, block)
		return block
	}

	if container, ok := scope.SelfType.(types.AttributeContainer); ok {
		container.DefineAttribute(node.Name, block, false)
	}

	c.deferred = append(c.deferred, deferredMethod{
		node:  node,
		scope: NewScope(scope.SelfType, block),
	})

	return block
}

// checkBlockLiteral builds a closure's Block and types its body inline.
// Unannotated arguments receive constraints; a missing return type is
// back-filled from the body.
func (c *Checker) checkBlockLiteral(node *ast.BlockLiteral, scope *Scope) types.Type {
	block := types.NewBlock("fn", types.ClosureBlock, c.db.BlockType)

	signatureScope := &Scope{
		SelfType:  scope.SelfType,
		BlockType: block,
		Locals:    scope.Locals,
	}

	c.buildSignature(block, node.Arguments, signatureScope, true)

	if node.Returns != nil {
		block.SetReturns(c.resolveTypeNode(node.Returns, signatureScope))
	} else {
		block.SetInferReturn(true)
	}
	if node.Throws != nil {
		block.SetThrows(c.resolveTypeNode(node.Throws, signatureScope))
	}

	// Closures capture the enclosing scope, so the argument table chains
	// to the surrounding locals.
	block.Arguments().SetParent(scope.Locals)

	bodyType := c.checkBlockBody(block, node.Body, NewScope(scope.SelfType, block))

	if block.InferReturn() {
		block.SetReturns(bodyType)
	} else if !bodyType.Compatible(block.ResolvedReturn()) {
		c.diags.Appendf(
			diagnostics.ErrReturnTypeMismatch,
			node.Body.Loc(),
			"this block is declared to return %s, but its body returns %s",
			block.ResolvedReturn(), bodyType,
		)
	}

	return block
}

// buildSignature defines the block's self argument and every declared
// argument. In closures, unannotated arguments get a fresh constraint;
// in methods they fall back to Dynamic. Arguments with defaults take the
// default expression's type when unannotated.
func (c *Checker) buildSignature(block *types.Block, arguments []*ast.BlockArgument, scope *Scope, closure bool) {
	block.DefineSelfArgument(scope.SelfType)

	for _, argument := range arguments {
		typ := c.argumentType(argument, scope, closure)
		argument.SetType(typ)

		switch {
		case argument.Rest:
			block.DefineRestArgument(argument.Name, typ)
		case argument.Default != nil:
			block.DefineOptionalArgument(argument.Name, typ, argument.Mutable)
		default:
			block.DefineRequiredArgument(argument.Name, typ, argument.Mutable)
		}
	}
}

func (c *Checker) argumentType(argument *ast.BlockArgument, scope *Scope, closure bool) types.Type {
	if argument.TypeAnnotation != nil {
		return c.resolveTypeNode(argument.TypeAnnotation, scope)
	}
	if argument.Default != nil {
		return c.checkExpression(argument.Default, scope)
	}
	if argument.Rest {
		// A rest argument's type is checked per supplied value.
		return types.NewDynamic()
	}
	if closure {
		return types.NewConstraint(argument.Name)
	}
	return types.NewDynamic()
}

// checkDefineVariable dispatches on the binding kind: constants live on
// self (and in the globals at the top level), attributes are only legal
// inside init or when self is the module, locals go into the innermost
// table.
func (c *Checker) checkDefineVariable(node *ast.DefineVariable, scope *Scope) types.Type {
	valueType := c.checkExpression(node.Value, scope)
	staticType := valueType

	if node.ValueType != nil {
		declared := c.resolveTypeNode(node.ValueType, scope)
		if !valueType.Compatible(declared) {
			c.diags.Appendf(
				diagnostics.ErrTypeMismatch,
				node.Value.Loc(),
				"expected a value of type %s, got %s",
				declared, valueType,
			)
		}
		staticType = declared
	}

	switch node.Kind {
	case ast.ConstantVariable:
		c.defineConstant(node, staticType, scope)
	case ast.AttributeVariable:
		c.defineAttribute(node, staticType, scope)
	case ast.LocalVariable:
		scope.Locals.Define(node.Name, staticType, node.Mutable)
	}

	return staticType
}

func (c *Checker) defineConstant(node *ast.DefineVariable, typ types.Type, scope *Scope) {
	if config.IsReservedConstant(node.Name) {
		// The binding still occurs; reserving the name only makes the
		// redefinition an error.
		c.diags.Appendf(
			diagnostics.ErrRedefineReservedConstant,
			node.Loc(),
			"%q is a reserved constant and can not be redefined",
			node.Name,
		)
	}

	if container, ok := scope.SelfType.(types.AttributeContainer); ok {
		container.DefineAttribute(node.Name, typ, false)
	}

	if scope.SelfType == c.module.Type {
		c.module.Globals.Define(node.Name, typ, false)
	}
}

func (c *Checker) defineAttribute(node *ast.DefineVariable, typ types.Type, scope *Scope) {
	if !scope.InInit(config.InitMethodName) && scope.SelfType != c.module.Type {
		c.diags.Appendf(
			diagnostics.ErrAttributeOutsideInit,
			node.Loc(),
			"instance attributes can only be defined inside the %q method",
			config.InitMethodName,
		)
		return
	}

	if container, ok := scope.SelfType.(types.AttributeContainer); ok {
		container.DefineAttribute(node.Name, typ, node.Mutable)
	}
}

// checkReassignVariable verifies that the target exists, is mutable, and
// accepts the new value's type. The target keeps its static type even when
// the assignment is rejected.
func (c *Checker) checkReassignVariable(node *ast.ReassignVariable, scope *Scope) types.Type {
	valueType := c.checkExpression(node.Value, scope)

	if node.Kind == ast.AttributeVariable {
		return c.reassignAttribute(node, valueType, scope)
	}
	return c.reassignLocal(node, valueType, scope)
}

func (c *Checker) reassignLocal(node *ast.ReassignVariable, valueType types.Type, scope *Scope) types.Type {
	_, symbol := scope.Locals.LookupWithTable(node.Name)
	if !symbol.Defined() {
		c.diags.Appendf(
			diagnostics.ErrReassignUndefinedLocal,
			node.Loc(),
			"the local variable %q is undefined",
			node.Name,
		)
		return types.NewDynamic()
	}

	if !symbol.Mutable {
		c.diags.Appendf(
			diagnostics.ErrReassignImmutableLocal,
			node.Loc(),
			"the local variable %q is immutable and can not be reassigned",
			node.Name,
		)
	} else if !valueType.Compatible(symbol.Type) {
		c.diags.Appendf(
			diagnostics.ErrTypeMismatch,
			node.Value.Loc(),
			"expected a value of type %s, got %s",
			symbol.Type, valueType,
		)
	}

	return symbol.Type
}

func (c *Checker) reassignAttribute(node *ast.ReassignVariable, valueType types.Type, scope *Scope) types.Type {
	symbol := scope.SelfType.LookupAttribute(node.Name)
	if !symbol.Defined() {
		c.diags.Appendf(
			diagnostics.ErrReassignUndefinedAttribute,
			node.Loc(),
			"%s does not define the attribute %q",
			scope.SelfType, node.Name,
		)
		return types.NewDynamic()
	}

	if !symbol.Mutable {
		c.diags.Appendf(
			diagnostics.ErrReassignImmutableAttribute,
			node.Loc(),
			"the attribute %q is immutable and can not be reassigned",
			node.Name,
		)
	} else if !valueType.Compatible(symbol.Type) {
		c.diags.Appendf(
			diagnostics.ErrTypeMismatch,
			node.Value.Loc(),
			"expected a value of type %s, got %s",
			symbol.Type, valueType,
		)
	}

	return symbol.Type
}
