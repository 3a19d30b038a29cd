package module

import (
	"testing"

	"github.com/koralang/kora/internal/types"
)

func TestRespondsToMessage(t *testing.T) {
	mod := New("main")
	moduleType := types.NewObject("main", nil)
	mod.Type = moduleType

	if mod.RespondsToMessage("helper") {
		t.Error("no methods defined yet")
	}

	helper := types.NewBlock("helper", types.MethodBlock, nil)
	helper.DefineSelfArgument(moduleType)
	moduleType.DefineAttribute("helper", helper, false)

	if !mod.RespondsToMessage("helper") {
		t.Error("expected the module to respond")
	}
}

func TestRespondsToMessageWithoutType(t *testing.T) {
	mod := New("main")
	if mod.RespondsToMessage("anything") {
		t.Error("a module without a type responds to nothing")
	}
}

func TestRegistryOrderAndReplacement(t *testing.T) {
	registry := NewRegistry()

	a := New("a")
	b := New("b")
	registry.Add(a)
	registry.Add(b)

	mods := registry.Modules()
	if len(mods) != 2 || mods[0] != a || mods[1] != b {
		t.Error("expected registration order")
	}

	replacement := New("a")
	registry.Add(replacement)

	mods = registry.Modules()
	if len(mods) != 2 || mods[0] != replacement {
		t.Error("expected in-place replacement keeping order")
	}

	if found, ok := registry.Lookup("a"); !ok || found != replacement {
		t.Error("expected the replacement under the name")
	}
}

func TestLookupGlobalMissIsChainable(t *testing.T) {
	mod := New("main")
	if mod.LookupGlobal("ghost").Defined() {
		t.Error("expected the absent sentinel")
	}
}
