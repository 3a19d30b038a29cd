package types

// ParameterTable holds the type parameters of an object, trait or block in
// declaration order. Each parameter is represented by a generated trait
// whose name matches the parameter's name and whose required traits carry
// the parameter's constraints.
type ParameterTable struct {
	mapping map[string]*Trait
	order   []*Trait
}

func NewParameterTable() *ParameterTable {
	return &ParameterTable{mapping: make(map[string]*Trait)}
}

// Define registers a parameter. Defining an existing name overwrites it.
func (p *ParameterTable) Define(parameter *Trait) {
	name := parameter.TypeName()
	if _, ok := p.mapping[name]; !ok {
		p.order = append(p.order, parameter)
	} else {
		for i, existing := range p.order {
			if existing.TypeName() == name {
				p.order[i] = parameter
				break
			}
		}
	}
	p.mapping[name] = parameter
}

func (p *ParameterTable) Lookup(name string) *Trait {
	return p.mapping[name]
}

func (p *ParameterTable) IsDefined(name string) bool {
	_, ok := p.mapping[name]
	return ok
}

// Parameters returns the parameters in declaration order.
func (p *ParameterTable) Parameters() []*Trait {
	return p.order
}

func (p *ParameterTable) Len() int {
	return len(p.order)
}

// Instances is the fresh type-parameter mapping constructed at each method
// call site, seeded from the receiver's instance mapping and extended with
// bindings inferred from the call's arguments.
type Instances map[string]Type

// NewInstances builds a call-site mapping seeded from the receiver's
// recorded instances. Optionals seed from their wrapped type.
func NewInstances(receiver Type) Instances {
	instances := make(Instances)
	seedInstances(receiver, instances)
	return instances
}

func seedInstances(receiver Type, instances Instances) {
	switch typ := receiver.(type) {
	case *Optional:
		seedInstances(typ.wrapped, instances)
	case *Object:
		for _, parameter := range typ.typeParameters.Parameters() {
			if instance, ok := typ.typeParameterInstances[parameter.TypeName()]; ok {
				instances[parameter.TypeName()] = instance
			}
		}
	case *Trait:
		for _, parameter := range typ.typeParameters.Parameters() {
			if instance, ok := typ.typeParameterInstances[parameter.TypeName()]; ok {
				instances[parameter.TypeName()] = instance
			}
		}
	}
}

// ResolveType substitutes a type through the call-site mapping: generated
// traits resolve to their bound instance, Self resolves to the receiver,
// and optionals resolve their wrapped type. Unbound parameters and every
// other type are returned as-is.
func (i Instances) ResolveType(t Type, receiver Type) Type {
	switch typ := t.(type) {
	case *SelfType:
		return receiver
	case *Optional:
		return NewOptional(i.ResolveType(typ.wrapped, receiver))
	case *Trait:
		if typ.generated {
			if instance, ok := i[typ.TypeName()]; ok {
				return instance
			}
		}
		return typ
	default:
		return t
	}
}
