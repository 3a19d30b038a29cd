package symbols

import (
	"testing"
)

func TestDefineAssignsIndexesInOrder(t *testing.T) {
	table := NewTable[string]()

	a := table.Define("a", "Integer", false)
	b := table.Define("b", "String", true)

	if a.Index != 0 || b.Index != 1 {
		t.Errorf("expected indexes 0 and 1, got %d and %d", a.Index, b.Index)
	}

	names := table.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected [a b], got %v", names)
	}
}

func TestRedefineKeepsIndex(t *testing.T) {
	table := NewTable[string]()

	table.Define("a", "Integer", false)
	table.Define("b", "String", false)
	redefined := table.Define("a", "Float", true)

	if redefined.Index != 0 {
		t.Errorf("expected the original index 0, got %d", redefined.Index)
	}
	if redefined.Type != "Float" || !redefined.Mutable {
		t.Error("expected the binding to be updated")
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 symbols, got %d", table.Len())
	}
}

func TestLookupMissIsChainableViaDefined(t *testing.T) {
	table := NewTable[string]()

	symbol := table.Lookup("missing")
	if symbol.Defined() {
		t.Error("expected the absent sentinel for a miss")
	}
}

func TestLookupInChainWalksParents(t *testing.T) {
	outer := NewTable[string]()
	outer.Define("captured", "Integer", false)

	inner := NewEnclosedTable(outer)
	inner.Define("local", "String", false)

	if symbol := inner.LookupInChain("captured"); !symbol.Defined() {
		t.Error("expected the parent binding to be visible")
	}
	if symbol := inner.Lookup("captured"); symbol.Defined() {
		t.Error("Lookup must not consult parents")
	}
	if symbol := outer.LookupInChain("local"); symbol.Defined() {
		t.Error("parents must not see child bindings")
	}
}

func TestLookupWithTableReportsDefiningScope(t *testing.T) {
	outer := NewTable[string]()
	outer.Define("x", "Integer", false)
	inner := NewEnclosedTable(outer)

	scope, symbol := inner.LookupWithTable("x")
	if scope != outer || !symbol.Defined() {
		t.Error("expected the defining table to be the outer one")
	}

	scope, symbol = inner.LookupWithTable("missing")
	if scope != nil || symbol.Defined() {
		t.Error("expected a nil table and absent symbol on a total miss")
	}
}

func TestAt(t *testing.T) {
	table := NewTable[string]()
	table.Define("a", "Integer", false)

	if got := table.At(0); got == nil || got.Name != "a" {
		t.Error("expected the symbol at index 0")
	}
	if table.At(1) != nil || table.At(-1) != nil {
		t.Error("expected nil for out-of-range indexes")
	}
}
