package pipeline

import (
	"github.com/koralang/kora/internal/checker"
	"github.com/koralang/kora/internal/module"
)

// TypeCheck runs the type pass over every module in the context, in
// order. Each module is registered before its pass runs so later modules
// can import it.
type TypeCheck struct{}

func (TypeCheck) Process(ctx *Context) *Context {
	for _, astModule := range ctx.Modules {
		record := module.New(astModule.Name)
		ctx.Registry.Add(record)

		pass := checker.New(ctx.DB, ctx.Registry, record, ctx.Diagnostics)
		pass.Run(astModule)

		ctx.Checked = append(ctx.Checked, record)
	}

	return ctx
}
