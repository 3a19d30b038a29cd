// Package pipeline drives the compile: an ordered sequence of processors
// sharing one context. Modules are type-checked in the order they appear
// in the context; they are not reordered, so imported modules must come
// before their importers.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/module"
	"github.com/koralang/kora/internal/typedb"
)

// Context carries the state shared by all processors of one compile
// session.
type Context struct {
	// Session is a unique id for this compile, recorded in the build
	// cache and surfaced in verbose output.
	Session string

	DB          *typedb.Database
	Registry    *module.Registry
	Diagnostics *diagnostics.Collection

	// Modules are the parsed modules in dependency order: imports first.
	Modules []*ast.Module

	// Checked collects the module records the type pass produced, in the
	// same order as Modules.
	Checked []*module.Module
}

// NewContext builds a context with a fresh session id.
func NewContext(db *typedb.Database, registry *module.Registry, diags *diagnostics.Collection) *Context {
	return &Context{
		Session:     uuid.NewString(),
		DB:          db,
		Registry:    registry,
		Diagnostics: diags,
	}
}

// Processor is a single compile stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Diagnostics never abort a stage; every stage
// runs so a single compile reports everything it can.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
