// Package module holds the per-module state the type pass produces: the
// module's own object type, its body block, its imports and its globals.
package module

import (
	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/symbols"
	"github.com/koralang/kora/internal/types"
)

// Module is the record for one compiled module.
type Module struct {
	// Name is the qualified module name, e.g. "std::fs".
	Name string

	// Type is the module's own object type. Modules that do not define a
	// module type reuse the top level here.
	Type types.Type

	// Body is the Block type for the module body.
	Body *types.Block

	// Imports are the module's import nodes in source order.
	Imports []*ast.Import

	// Globals holds every imported symbol and every non-block top-level
	// declaration. Methods do not leak into globals.
	Globals *symbols.Table[types.Type]
}

func New(name string) *Module {
	return &Module{
		Name:    name,
		Globals: symbols.NewTable[types.Type](),
	}
}

// RespondsToMessage reports whether a send to the module's type would
// resolve.
func (m *Module) RespondsToMessage(name string) bool {
	if m.Type == nil {
		return false
	}
	return m.Type.LookupMethod(name).Defined()
}

// LookupGlobal finds a global by name, returning the absent sentinel when
// missing.
func (m *Module) LookupGlobal(name string) *symbols.Symbol[types.Type] {
	return m.Globals.Lookup(name)
}

// GlobalDefined reports whether name is bound in the module's globals.
func (m *Module) GlobalDefined(name string) bool {
	return m.Globals.IsDefined(name)
}

// Registry is the process-wide set of compiled modules, in registration
// order.
type Registry struct {
	mapping map[string]*Module
	order   []*Module
}

func NewRegistry() *Registry {
	return &Registry{mapping: make(map[string]*Module)}
}

// Add registers a module under its qualified name. Re-registering a name
// replaces the previous record.
func (r *Registry) Add(mod *Module) {
	if _, ok := r.mapping[mod.Name]; !ok {
		r.order = append(r.order, mod)
	} else {
		for i, existing := range r.order {
			if existing.Name == mod.Name {
				r.order[i] = mod
				break
			}
		}
	}
	r.mapping[mod.Name] = mod
}

// Lookup finds a module by qualified name.
func (r *Registry) Lookup(name string) (*Module, bool) {
	mod, ok := r.mapping[name]
	return mod, ok
}

// Modules returns every registered module in registration order.
func (r *Registry) Modules() []*Module {
	return r.order
}
