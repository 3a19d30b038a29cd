package pipeline

import (
	"testing"

	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/module"
	"github.com/koralang/kora/internal/token"
	"github.com/koralang/kora/internal/typedb"
)

func testModule(name string, imports ...*ast.Import) *ast.Module {
	return &ast.Module{
		NodeBase: ast.NodeBase{Location: token.Location{File: name + ".kora", Line: 1, Column: 1}},
		Name:     name,
		Imports:  imports,
		Body:     &ast.Body{},
	}
}

func TestTypeCheckProcessesModulesInOrder(t *testing.T) {
	ctx := NewContext(typedb.New(), module.NewRegistry(), diagnostics.NewCollection())

	imp := &ast.Import{
		Path:    []string{"lib"},
		Symbols: []*ast.ImportSymbol{{SelfImport: true, Alias: "lib"}},
	}
	ctx.Modules = []*ast.Module{testModule("lib"), testModule("app", imp)}

	New(TypeCheck{}).Run(ctx)

	if ctx.Diagnostics.HasErrors() {
		for _, entry := range ctx.Diagnostics.Entries() {
			t.Logf("diagnostic: %s", entry.Error())
		}
		t.Fatal("expected a clean compile")
	}

	if len(ctx.Checked) != 2 {
		t.Fatalf("expected 2 checked modules, got %d", len(ctx.Checked))
	}
	if ctx.Checked[0].Name != "lib" || ctx.Checked[1].Name != "app" {
		t.Error("expected modules checked in dependency order")
	}

	app, _ := ctx.Registry.Lookup("app")
	lib, _ := ctx.Registry.Lookup("lib")
	if app.LookupGlobal("lib").Type != lib.Type {
		t.Error("expected the self-import to bind the library's module type")
	}
}

func TestImportingAnUncompiledModuleIsDiagnosed(t *testing.T) {
	ctx := NewContext(typedb.New(), module.NewRegistry(), diagnostics.NewCollection())

	imp := &ast.Import{
		Path:    []string{"ghost"},
		Symbols: []*ast.ImportSymbol{{Name: "Thing"}},
	}
	ctx.Modules = []*ast.Module{testModule("app", imp)}

	New(TypeCheck{}).Run(ctx)

	if ctx.Diagnostics.FirstWithCode(diagnostics.ErrImportUndefinedSymbol) == nil {
		t.Error("expected an import diagnostic for the missing module")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewContext(typedb.New(), module.NewRegistry(), diagnostics.NewCollection())
	b := NewContext(typedb.New(), module.NewRegistry(), diagnostics.NewCollection())

	if a.Session == "" || a.Session == b.Session {
		t.Error("expected distinct non-empty session ids")
	}
}
