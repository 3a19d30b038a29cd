package types

import (
	"github.com/koralang/kora/internal/config"
	"github.com/koralang/kora/internal/symbols"
)

// SelfType is a placeholder that resolves to the enclosing self at the
// point of use: in a return position it becomes the receiver of the call.
type SelfType struct{}

var selfInstance = &SelfType{}

func NewSelfType() *SelfType {
	return selfInstance
}

func (s *SelfType) TypeName() string {
	return config.SelfTypeName
}

func (s *SelfType) String() string {
	return config.SelfTypeName
}

func (s *SelfType) Prototype() Type {
	return nil
}

func (s *SelfType) SetPrototype(Type) {}

func (s *SelfType) LookupAttribute(string) *symbols.Symbol[Type] {
	return nil
}

func (s *SelfType) LookupMethod(string) *symbols.Symbol[Type] {
	return nil
}

// Compatible for an unresolved self type only holds against itself and the
// dynamic wildcard; callers resolve the placeholder before comparing.
func (s *SelfType) Compatible(other Type) bool {
	if done, decided := baseCompatible(s, other); decided {
		return done
	}
	_, ok := other.(*SelfType)
	return ok
}
