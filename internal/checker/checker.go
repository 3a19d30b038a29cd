// Package checker implements the type-definition and type-checking pass.
//
// The pass walks a module's AST twice: phase one types the module body and
// every declaration header while queuing method bodies, phase two re-enters
// each queued body with its recorded scope. Deferral lets methods refer to
// sibling declarations that appear later in source order.
package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/module"
	"github.com/koralang/kora/internal/typedb"
	"github.com/koralang/kora/internal/types"
)

// Checker runs the type pass for a single module.
type Checker struct {
	db       *typedb.Database
	registry *module.Registry
	module   *module.Module
	diags    *diagnostics.Collection

	deferred []deferredMethod
}

// deferredMethod is a queued (node, scope) pair whose body is typed in
// phase two.
type deferredMethod struct {
	node  *ast.MethodDefinition
	scope *Scope
}

func New(db *typedb.Database, registry *module.Registry, mod *module.Module, diags *diagnostics.Collection) *Checker {
	return &Checker{
		db:       db,
		registry: registry,
		module:   mod,
		diags:    diags,
	}
}

// Module returns the module record the checker fills in.
func (c *Checker) Module() *module.Module {
	return c.module
}

// Run types the module's AST in place and returns it. Errors never abort
// the pass; they are recorded in the diagnostics sink and the offending
// expression receives the dynamic type.
func (c *Checker) Run(node *ast.Module) *ast.Module {
	scope := c.defineModule(node)

	for _, imp := range node.Imports {
		c.processImport(imp)
	}

	if node.Body == nil {
		node.Body = &ast.Body{}
	}

	bodyType := c.checkBlockBody(c.module.Body, node.Body, scope)
	node.SetType(bodyType)

	for _, deferred := range c.deferred {
		c.checkDeferredMethod(deferred)
	}
	c.deferred = nil

	return node
}

// defineModule assigns the module type, registers it process-wide, builds
// the module body block and binds the module global.
func (c *Checker) defineModule(node *ast.Module) *Scope {
	if node.NoModuleType {
		c.module.Type = c.db.Toplevel
	} else {
		moduleType := types.NewObject(node.Name, c.db.ModuleType)
		moduleType.DefineAttribute(config.ObjectNameAttribute, c.db.StringType, false)
		c.module.Type = moduleType
		c.db.RegisterModuleType(node.Name, moduleType)
	}

	body := types.NewBlock(node.Name, types.MethodBlock, c.db.BlockType)
	body.DefineSelfArgument(c.module.Type)
	body.SetReturns(types.NewDynamic())
	c.module.Body = body

	c.module.Imports = node.Imports
	c.module.Globals.Define(config.ModuleGlobalName, c.module.Type, false)

	return NewScope(c.module.Type, body)
}

// checkDeferredMethod types a queued method body and verifies it against
// the declared return type.
func (c *Checker) checkDeferredMethod(deferred deferredMethod) {
	node := deferred.node
	block := node.BlockType()
	if block == nil || node.Body == nil {
		return
	}

	bodyType := c.checkBlockBody(block, node.Body, deferred.scope)

	declared := types.Instances{}.ResolveType(block.ResolvedReturn(), deferred.scope.SelfType)
	if !bodyType.Compatible(declared) {
		c.diags.Appendf(
			diagnostics.ErrReturnTypeMismatch,
			node.Body.Loc(),
			"method %q is declared to return %s, but its body returns %s",
			node.Name, declared, bodyType,
		)
	}
}

// checkBlockBody walks a body inside the given block, validates collected
// returns against the body's exit type, and returns that type. Empty
// bodies produce Nil.
func (c *Checker) checkBlockBody(block *types.Block, body *ast.Body, scope *Scope) types.Type {
	collected := []collectedReturn{}
	bodyScope := &Scope{
		SelfType:  scope.SelfType,
		BlockType: scope.BlockType,
		Locals:    scope.Locals,
		returns:   &collected,
	}

	var last types.Type = c.db.NilType
	for _, expr := range body.Expressions {
		last = c.checkExpression(expr, bodyScope)
	}

	body.SetType(last)

	// Every non-last return must produce something compatible with the
	// body's exit type. The last expression may itself be a return, in
	// which case it already defines the exit type.
	limit := len(collected)
	if _, ok := body.LastExpression().(*ast.Return); ok && limit > 0 {
		limit--
	}
	for _, entry := range collected[:limit] {
		if !entry.typ.Compatible(last) {
			c.diags.Appendf(
				diagnostics.ErrReturnTypeMismatch,
				entry.location,
				"this return produces %s, but the surrounding body returns %s",
				entry.typ, last,
			)
		}
	}

	return last
}

// checkExpression assigns a type to a single expression node and returns
// it. Every branch sets the node's type slot, error paths included.
func (c *Checker) checkExpression(node ast.Expression, scope *Scope) types.Type {
	var typ types.Type

	switch expr := node.(type) {
	case *ast.IntegerLiteral:
		typ = c.db.IntegerType
	case *ast.FloatLiteral:
		typ = c.db.FloatType
	case *ast.StringLiteral:
		typ = c.db.StringType
	case *ast.BooleanLiteral:
		if expr.Value {
			typ = c.db.TrueType
		} else {
			typ = c.db.FalseType
		}
	case *ast.NilLiteral:
		typ = c.db.NilType
	case *ast.Self:
		typ = scope.SelfType
	case *ast.Identifier:
		typ = c.checkIdentifier(expr, scope)
	case *ast.Attribute:
		typ = c.checkAttribute(expr, scope)
	case *ast.Constant:
		typ = c.checkConstant(expr, scope)
	case *ast.Global:
		typ = c.checkGlobal(expr)
	case *ast.Send:
		typ = c.checkSend(expr, scope)
	case *ast.KeywordArgument:
		typ = c.checkExpression(expr.Value, scope)
	case *ast.BlockLiteral:
		typ = c.checkBlockLiteral(expr, scope)
	case *ast.MethodDefinition:
		typ = c.checkMethodDefinition(expr, scope)
	case *ast.ObjectDefinition:
		typ = c.checkObjectDefinition(expr, scope)
	case *ast.TraitDefinition:
		typ = c.checkTraitDefinition(expr, scope)
	case *ast.TraitImplementation:
		typ = c.checkTraitImplementation(expr, scope)
	case *ast.ReopenObject:
		typ = c.checkReopenObject(expr, scope)
	case *ast.DefineVariable:
		typ = c.checkDefineVariable(expr, scope)
	case *ast.ReassignVariable:
		typ = c.checkReassignVariable(expr, scope)
	case *ast.Return:
		typ = c.checkReturn(expr, scope)
	case *ast.Throw:
		typ = c.checkThrow(expr, scope)
	case *ast.Try:
		typ = c.checkTry(expr, scope)
	case *ast.RawInstruction:
		typ = c.checkRawInstruction(expr, scope)
	case *ast.Body:
		typ = c.checkInlineBody(expr, scope)
	default:
		typ = types.NewDynamic()
	}

	if typ == nil {
		typ = types.NewDynamic()
	}

	node.SetType(typ)

	return typ
}

// checkInlineBody types a bare body node in the current scope.
func (c *Checker) checkInlineBody(body *ast.Body, scope *Scope) types.Type {
	var last types.Type = c.db.NilType
	for _, expr := range body.Expressions {
		last = c.checkExpression(expr, scope)
	}
	return last
}
