package astjson

import (
	"testing"

	"github.com/koralang/kora/internal/ast"
)

const sampleModule = `{
  "kind": "module",
  "name": "main",
  "location": {"file": "main.kora", "line": 1, "column": 1},
  "imports": [
    {
      "kind": "import",
      "location": {"file": "main.kora", "line": 1, "column": 1},
      "path": ["std", "shapes"],
      "symbols": [
        {"kind": "import_symbol", "name": "Circle", "alias": "Ring",
         "location": {"file": "main.kora", "line": 1, "column": 8}}
      ]
    }
  ],
  "body": {
    "kind": "body",
    "location": {"file": "main.kora", "line": 2, "column": 1},
    "expressions": [
      {
        "kind": "object",
        "name": "T",
        "location": {"file": "main.kora", "line": 2, "column": 1},
        "body": {
          "kind": "body",
          "location": {"file": "main.kora", "line": 2, "column": 10},
          "expressions": [
            {
              "kind": "method",
              "name": "m",
              "location": {"file": "main.kora", "line": 3, "column": 3},
              "returns": {"kind": "type_name", "name": "Integer",
                          "location": {"file": "main.kora", "line": 3, "column": 12}},
              "body": {
                "kind": "body",
                "location": {"file": "main.kora", "line": 3, "column": 20},
                "expressions": [
                  {"kind": "integer_literal", "value": 1,
                   "location": {"file": "main.kora", "line": 3, "column": 22}}
                ]
              }
            }
          ]
        }
      },
      {
        "kind": "define_variable",
        "target": "local",
        "name": "x",
        "location": {"file": "main.kora", "line": 6, "column": 1},
        "expression": {
          "kind": "send",
          "name": "m",
          "location": {"file": "main.kora", "line": 6, "column": 9},
          "receiver": {
            "kind": "send",
            "name": "new",
            "location": {"file": "main.kora", "line": 6, "column": 9},
            "receiver": {"kind": "constant", "name": "T",
                         "location": {"file": "main.kora", "line": 6, "column": 9}}
          }
        }
      }
    ]
  }
}`

func TestDecodeModule(t *testing.T) {
	mod, err := DecodeModule([]byte(sampleModule))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if mod.Name != "main" {
		t.Errorf("expected module main, got %q", mod.Name)
	}
	if len(mod.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(mod.Imports))
	}

	imp := mod.Imports[0]
	if imp.QualifiedName() != "std::shapes" {
		t.Errorf("expected std::shapes, got %q", imp.QualifiedName())
	}
	if len(imp.Symbols) != 1 || imp.Symbols[0].Name != "Circle" || imp.Symbols[0].Alias != "Ring" {
		t.Error("expected the Circle as Ring import symbol")
	}

	if len(mod.Body.Expressions) != 2 {
		t.Fatalf("expected 2 top-level expressions, got %d", len(mod.Body.Expressions))
	}

	object, ok := mod.Body.Expressions[0].(*ast.ObjectDefinition)
	if !ok {
		t.Fatalf("expected an object definition, got %T", mod.Body.Expressions[0])
	}
	if object.Name != "T" || len(object.Body.Expressions) != 1 {
		t.Error("expected object T with one method")
	}

	methodNode, ok := object.Body.Expressions[0].(*ast.MethodDefinition)
	if !ok {
		t.Fatalf("expected a method, got %T", object.Body.Expressions[0])
	}
	returns, ok := methodNode.Returns.(*ast.TypeName)
	if !ok || returns.Name != "Integer" {
		t.Error("expected the method to return Integer")
	}

	define, ok := mod.Body.Expressions[1].(*ast.DefineVariable)
	if !ok {
		t.Fatalf("expected a variable definition, got %T", mod.Body.Expressions[1])
	}
	if define.Kind != ast.LocalVariable || define.Name != "x" {
		t.Error("expected a local definition of x")
	}

	call, ok := define.Value.(*ast.Send)
	if !ok || call.Name != "m" {
		t.Fatal("expected the value to be a send of m")
	}
	inner, ok := call.Receiver.(*ast.Send)
	if !ok || inner.Name != "new" {
		t.Fatal("expected the receiver to be T.new")
	}

	if loc := define.Loc(); loc.File != "main.kora" || loc.Line != 6 {
		t.Errorf("expected main.kora:6, got %s", loc)
	}
}

func TestDecodeRejectsUnknownKinds(t *testing.T) {
	input := `{
	  "kind": "module",
	  "name": "main",
	  "location": {"file": "m.kora", "line": 1, "column": 1},
	  "body": {
	    "kind": "body",
	    "location": {"file": "m.kora", "line": 1, "column": 1},
	    "expressions": [
	      {"kind": "mystery", "location": {"file": "m.kora", "line": 2, "column": 1}}
	    ]
	  }
	}`

	if _, err := DecodeModule([]byte(input)); err == nil {
		t.Fatal("expected an error for an unknown node kind")
	}
}

func TestDecodeRejectsNonModuleRoot(t *testing.T) {
	if _, err := DecodeModule([]byte(`{"kind": "send", "name": "m"}`)); err == nil {
		t.Fatal("expected an error for a non-module root")
	}
}

func TestDecodeVariableTargets(t *testing.T) {
	input := `{
	  "kind": "module",
	  "name": "main",
	  "location": {"file": "m.kora", "line": 1, "column": 1},
	  "body": {
	    "kind": "body",
	    "location": {"file": "m.kora", "line": 1, "column": 1},
	    "expressions": [
	      {"kind": "define_variable", "target": "constant", "name": "VERSION",
	       "location": {"file": "m.kora", "line": 2, "column": 1},
	       "expression": {"kind": "string_literal", "value": "1.0",
	                      "location": {"file": "m.kora", "line": 2, "column": 12}}}
	    ]
	  }
	}`

	mod, err := DecodeModule([]byte(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	define := mod.Body.Expressions[0].(*ast.DefineVariable)
	if define.Kind != ast.ConstantVariable {
		t.Error("expected a constant definition")
	}
}
