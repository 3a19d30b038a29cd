package types

import (
	"github.com/koralang/kora/internal/symbols"
)

// Optional wraps exactly one other type. A value of Optional[T] is either a
// T or nil.
type Optional struct {
	wrapped Type
}

func NewOptional(wrapped Type) *Optional {
	if opt, ok := wrapped.(*Optional); ok {
		return opt
	}
	return &Optional{wrapped: wrapped}
}

func (o *Optional) Wrapped() Type {
	return o.wrapped
}

func (o *Optional) TypeName() string {
	return "?" + o.wrapped.TypeName()
}

func (o *Optional) String() string {
	return "?" + o.wrapped.String()
}

func (o *Optional) Prototype() Type {
	return o.wrapped.Prototype()
}

func (o *Optional) SetPrototype(proto Type) {
	o.wrapped.SetPrototype(proto)
}

// LookupAttribute delegates to the wrapped type: message sends on an
// optional dispatch on the underlying type.
func (o *Optional) LookupAttribute(name string) *symbols.Symbol[Type] {
	return o.wrapped.LookupAttribute(name)
}

func (o *Optional) LookupMethod(name string) *symbols.Symbol[Type] {
	return o.wrapped.LookupMethod(name)
}

func (o *Optional) Compatible(other Type) bool {
	if done, decided := baseCompatible(o, other); decided {
		return done
	}
	return o.wrapped.Compatible(other)
}
