package checker

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/module"
	"github.com/koralang/kora/internal/token"
	"github.com/koralang/kora/internal/types"
)

// processImport binds the selected symbols of an already compiled module
// into the current module's globals. Imports run before any top-level
// declaration of the importing module.
func (c *Checker) processImport(node *ast.Import) {
	name := node.QualifiedName()

	source, ok := c.registry.Lookup(name)
	if !ok {
		c.diags.Appendf(
			diagnostics.ErrImportUndefinedSymbol,
			node.Loc(),
			"the module %q has not been compiled",
			name,
		)
		return
	}

	for _, symbol := range node.Symbols {
		c.importSymbol(node, source, symbol)
	}
}

func (c *Checker) importSymbol(node *ast.Import, source *module.Module, symbol *ast.ImportSymbol) {
	switch {
	case symbol.Glob:
		for _, global := range source.Globals.Symbols() {
			if global.Name == config.ModuleGlobalName {
				continue
			}
			c.bindImported(global.Name, global.Type, symbol.Loc())
		}
	case symbol.SelfImport:
		// Re-exporting self binds the alias to the source module's own
		// type.
		alias := symbol.Alias
		if alias == "" {
			alias = lastPathStep(node.Path)
		}
		c.bindImported(alias, source.Type, symbol.Loc())
	default:
		found := source.LookupGlobal(symbol.Name)
		if !found.Defined() {
			c.diags.Appendf(
				diagnostics.ErrImportUndefinedSymbol,
				symbol.Loc(),
				"the module %q does not define the symbol %q",
				source.Name, symbol.Name,
			)
			return
		}

		alias := symbol.Alias
		if alias == "" {
			alias = symbol.Name
		}
		c.bindImported(alias, found.Type, symbol.Loc())
	}
}

// bindImported adds an imported symbol to the module globals. Importing an
// already bound name is an error and leaves the previous binding intact.
func (c *Checker) bindImported(name string, typ types.Type, loc token.Location) {
	if c.module.GlobalDefined(name) {
		c.diags.Appendf(
			diagnostics.ErrImportExistingSymbol,
			loc,
			"the symbol %q is already defined in this module",
			name,
		)
		return
	}

	c.module.Globals.Define(name, typ, false)
}

func lastPathStep(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}
