package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/typedb"
	"github.com/koralang/kora/internal/types"
)

// instructionRule computes the type of a raw instruction node from the
// database and the types of its arguments.
type instructionRule func(db *typedb.Database, argTypes []types.Type) types.Type

// instructionRules is the closed registry of intrinsic opcodes. Unknown
// opcodes are diagnosed and type to Nil.
var instructionRules = map[string]instructionRule{
	"get_toplevel": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.Toplevel
	},
	"get_nil": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.NilType
	},
	"integer_to_string": stringRule,
	"integer_to_float": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.FloatType
	},
	"float_to_string":   stringRule,
	"float_to_integer":  integerRule,
	"float_ceil":        integerRule,
	"float_floor":       integerRule,
	"string_to_integer": integerRule,
	"string_to_float": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.FloatType
	},
	"string_size":   integerRule,
	"string_concat": stringRule,
	"array_length":  integerRule,
	"array_at": func(_ *typedb.Database, _ []types.Type) types.Type {
		return types.NewDynamic()
	},
	"array_set": func(_ *typedb.Database, argTypes []types.Type) types.Type {
		if len(argTypes) >= 3 {
			return argTypes[2]
		}
		return types.NewDynamic()
	},
	"array_remove": func(_ *typedb.Database, _ []types.Type) types.Type {
		return types.NewDynamic()
	},
	"get_attribute": func(_ *typedb.Database, _ []types.Type) types.Type {
		return types.NewDynamic()
	},
	"set_attribute": func(_ *typedb.Database, argTypes []types.Type) types.Type {
		if len(argTypes) >= 3 {
			return argTypes[2]
		}
		return types.NewDynamic()
	},
	"stdout_write": integerRule,
	"stderr_write": integerRule,
	"stdout_flush": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.NilType
	},
	"stderr_flush": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.NilType
	},
	"stdin_read": stringRule,
	"panic": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.VoidType
	},
	"exit": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.VoidType
	},
	"platform_name": stringRule,
	"time_monotonic": func(db *typedb.Database, _ []types.Type) types.Type {
		return db.FloatType
	},
}

func stringRule(db *typedb.Database, _ []types.Type) types.Type {
	return db.StringType
}

func integerRule(db *typedb.Database, _ []types.Type) types.Type {
	return db.IntegerType
}

// checkRawInstruction types a raw instruction node through the registry.
func (c *Checker) checkRawInstruction(node *ast.RawInstruction, scope *Scope) types.Type {
	argTypes := make([]types.Type, len(node.Arguments))
	for i, argument := range node.Arguments {
		argTypes[i] = c.checkExpression(argument, scope)
	}

	rule, ok := instructionRules[node.Name]
	if !ok {
		c.diags.Appendf(
			diagnostics.ErrUnknownRawInstruction,
			node.Loc(),
			"the raw instruction %q does not exist",
			node.Name,
		)
		return c.db.NilType
	}

	return rule(c.db, argTypes)
}
