package diagnostics

import (
	"strings"
	"testing"

	"github.com/koralang/kora/internal/token"
)

func TestAppendPreservesEmissionOrder(t *testing.T) {
	sink := NewCollection()

	// Emission order is not source order; the sink must not reorder.
	sink.Appendf(ErrTypeMismatch, token.Location{File: "a.kora", Line: 9, Column: 1}, "later line first")
	sink.Appendf(ErrUndefinedLocal, token.Location{File: "a.kora", Line: 2, Column: 1}, "earlier line second")

	entries := sink.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Code != ErrTypeMismatch || entries[1].Code != ErrUndefinedLocal {
		t.Error("expected entries in emission order")
	}
}

func TestErrorFormatting(t *testing.T) {
	d := New(ErrUndefinedMethod, token.Location{File: "m.kora", Line: 3, Column: 7}, "no method %q", "frob")

	got := d.Error()
	for _, want := range []string{"m.kora:3:7", "T002", `"frob"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestFirstWithCode(t *testing.T) {
	sink := NewCollection()
	sink.Appendf(ErrTypeMismatch, token.Location{}, "first")
	sink.Appendf(ErrTypeMismatch, token.Location{}, "second")

	found := sink.FirstWithCode(ErrTypeMismatch)
	if found == nil || found.Message != "first" {
		t.Error("expected the first matching entry")
	}
	if sink.FirstWithCode(ErrUndefinedLocal) != nil {
		t.Error("expected nil for an absent code")
	}
}

func TestHasErrors(t *testing.T) {
	sink := NewCollection()
	if sink.HasErrors() {
		t.Error("a fresh sink has no errors")
	}
	sink.Appendf(ErrTypeMismatch, token.Location{}, "boom")
	if !sink.HasErrors() {
		t.Error("expected errors after an append")
	}
}
