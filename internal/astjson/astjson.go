// Package astjson decodes the serialized ASTs produced by the external
// parser front end into the node types the pass consumes. Every node is a
// JSON object with a "kind" tag, a "location", and kind-specific fields.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/token"
)

type location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l *location) toToken() token.Location {
	if l == nil {
		return token.Location{}
	}
	return token.Location{File: l.File, Line: l.Line, Column: l.Column}
}

// node is the wire representation shared by every AST node kind.
type node struct {
	Kind     string    `json:"kind"`
	Location *location `json:"location"`

	Name     string          `json:"name,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Receiver *node           `json:"receiver,omitempty"`

	Arguments   []*node `json:"arguments,omitempty"`
	Expressions []*node `json:"expressions,omitempty"`
	Body        *node   `json:"body,omitempty"`

	TypeParameters []*node `json:"type_parameters,omitempty"`
	RequiredTraits []*node `json:"required_traits,omitempty"`
	Returns        *node   `json:"returns,omitempty"`
	Throws         *node   `json:"throws,omitempty"`
	ValueType      *node   `json:"value_type,omitempty"`
	Default        *node   `json:"default,omitempty"`

	TraitName  *node `json:"trait_name,omitempty"`
	ObjectName *node `json:"object_name,omitempty"`

	Expression   *node `json:"expression,omitempty"`
	ElseArgument *node `json:"else_argument,omitempty"`
	ElseBody     *node `json:"else_body,omitempty"`

	Path    []string `json:"path,omitempty"`
	Imports []*node  `json:"imports,omitempty"`
	Symbols []*node  `json:"symbols,omitempty"`
	Alias   string   `json:"alias,omitempty"`

	Target string `json:"target,omitempty"`

	Mutable    bool `json:"mutable,omitempty"`
	Required   bool `json:"required,omitempty"`
	Rest       bool `json:"rest,omitempty"`
	Optional   bool `json:"optional,omitempty"`
	Glob       bool `json:"glob,omitempty"`
	SelfImport bool `json:"self,omitempty"`

	NoModuleType bool `json:"no_module_type,omitempty"`
}

// DecodeModule parses a serialized module.
func DecodeModule(data []byte) (*ast.Module, error) {
	var root node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("malformed AST document: %w", err)
	}
	if root.Kind != "module" {
		return nil, fmt.Errorf("expected a module node, got %q", root.Kind)
	}

	mod := &ast.Module{
		NodeBase:     base(&root),
		Name:         root.Name,
		NoModuleType: root.NoModuleType,
	}

	for _, imp := range root.Imports {
		decoded, err := decodeImport(imp)
		if err != nil {
			return nil, err
		}
		mod.Imports = append(mod.Imports, decoded)
	}

	body, err := decodeBody(root.Body)
	if err != nil {
		return nil, err
	}
	mod.Body = body

	return mod, nil
}

func base(n *node) ast.NodeBase {
	return ast.NodeBase{Location: n.Location.toToken()}
}

func decodeBody(n *node) (*ast.Body, error) {
	if n == nil {
		return &ast.Body{}, nil
	}

	body := &ast.Body{NodeBase: base(n)}
	for _, child := range n.Expressions {
		expr, err := decodeExpression(child)
		if err != nil {
			return nil, err
		}
		body.Expressions = append(body.Expressions, expr)
	}
	return body, nil
}

func decodeExpression(n *node) (ast.Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("missing expression node")
	}

	switch n.Kind {
	case "integer_literal":
		var value int64
		if err := json.Unmarshal(n.Value, &value); err != nil {
			return nil, fmt.Errorf("invalid integer literal at %s: %w", n.Location.toToken(), err)
		}
		return &ast.IntegerLiteral{NodeBase: base(n), Value: value}, nil
	case "float_literal":
		var value float64
		if err := json.Unmarshal(n.Value, &value); err != nil {
			return nil, fmt.Errorf("invalid float literal at %s: %w", n.Location.toToken(), err)
		}
		return &ast.FloatLiteral{NodeBase: base(n), Value: value}, nil
	case "string_literal":
		var value string
		if err := json.Unmarshal(n.Value, &value); err != nil {
			return nil, fmt.Errorf("invalid string literal at %s: %w", n.Location.toToken(), err)
		}
		return &ast.StringLiteral{NodeBase: base(n), Value: value}, nil
	case "boolean_literal":
		var value bool
		if err := json.Unmarshal(n.Value, &value); err != nil {
			return nil, fmt.Errorf("invalid boolean literal at %s: %w", n.Location.toToken(), err)
		}
		return &ast.BooleanLiteral{NodeBase: base(n), Value: value}, nil
	case "nil_literal":
		return &ast.NilLiteral{NodeBase: base(n)}, nil
	case "self":
		return &ast.Self{NodeBase: base(n)}, nil
	case "identifier":
		return &ast.Identifier{NodeBase: base(n), Name: n.Name}, nil
	case "attribute":
		return &ast.Attribute{NodeBase: base(n), Name: n.Name}, nil
	case "global":
		return &ast.Global{NodeBase: base(n), Name: n.Name}, nil
	case "constant":
		return decodeConstant(n)
	case "send":
		return decodeSend(n)
	case "keyword_argument":
		value, err := decodeExpression(n.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.KeywordArgument{NodeBase: base(n), Name: n.Name, Value: value}, nil
	case "block":
		return decodeBlockLiteral(n)
	case "method":
		return decodeMethod(n)
	case "object":
		return decodeObject(n)
	case "trait":
		return decodeTrait(n)
	case "trait_implementation":
		return decodeTraitImplementation(n)
	case "reopen_object":
		return decodeReopenObject(n)
	case "define_variable":
		return decodeDefineVariable(n)
	case "reassign_variable":
		return decodeReassignVariable(n)
	case "return":
		return decodeReturn(n)
	case "throw":
		value, err := decodeExpression(n.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.Throw{NodeBase: base(n), Value: value}, nil
	case "try":
		return decodeTry(n)
	case "raw_instruction":
		return decodeRawInstruction(n)
	default:
		return nil, fmt.Errorf("unknown node kind %q at %s", n.Kind, n.Location.toToken())
	}
}

func decodeConstant(n *node) (*ast.Constant, error) {
	constant := &ast.Constant{NodeBase: base(n), Name: n.Name}
	if n.Receiver != nil {
		receiver, err := decodeExpression(n.Receiver)
		if err != nil {
			return nil, err
		}
		constant.Receiver = receiver
	}
	return constant, nil
}

func decodeSend(n *node) (*ast.Send, error) {
	send := &ast.Send{NodeBase: base(n), Name: n.Name}

	if n.Receiver != nil {
		receiver, err := decodeExpression(n.Receiver)
		if err != nil {
			return nil, err
		}
		send.Receiver = receiver
	}

	for _, argument := range n.Arguments {
		decoded, err := decodeExpression(argument)
		if err != nil {
			return nil, err
		}
		send.Arguments = append(send.Arguments, decoded)
	}

	return send, nil
}

func decodeBlockLiteral(n *node) (*ast.BlockLiteral, error) {
	block := &ast.BlockLiteral{NodeBase: base(n)}

	arguments, err := decodeBlockArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	block.Arguments = arguments

	if block.Returns, err = decodeOptionalTypeNode(n.Returns); err != nil {
		return nil, err
	}
	if block.Throws, err = decodeOptionalTypeNode(n.Throws); err != nil {
		return nil, err
	}
	if block.Body, err = decodeBody(n.Body); err != nil {
		return nil, err
	}

	return block, nil
}

func decodeMethod(n *node) (*ast.MethodDefinition, error) {
	method := &ast.MethodDefinition{
		NodeBase: base(n),
		Name:     n.Name,
		Required: n.Required,
	}

	params, err := decodeTypeParameters(n.TypeParameters)
	if err != nil {
		return nil, err
	}
	method.TypeParameters = params

	if method.Arguments, err = decodeBlockArguments(n.Arguments); err != nil {
		return nil, err
	}
	if method.Returns, err = decodeOptionalTypeNode(n.Returns); err != nil {
		return nil, err
	}
	if method.Throws, err = decodeOptionalTypeNode(n.Throws); err != nil {
		return nil, err
	}
	if n.Body != nil {
		if method.Body, err = decodeBody(n.Body); err != nil {
			return nil, err
		}
	}

	return method, nil
}

func decodeObject(n *node) (*ast.ObjectDefinition, error) {
	object := &ast.ObjectDefinition{NodeBase: base(n), Name: n.Name}

	params, err := decodeTypeParameters(n.TypeParameters)
	if err != nil {
		return nil, err
	}
	object.TypeParameters = params

	if object.Body, err = decodeBody(n.Body); err != nil {
		return nil, err
	}

	return object, nil
}

func decodeTrait(n *node) (*ast.TraitDefinition, error) {
	trait := &ast.TraitDefinition{NodeBase: base(n), Name: n.Name}

	params, err := decodeTypeParameters(n.TypeParameters)
	if err != nil {
		return nil, err
	}
	trait.TypeParameters = params

	for _, required := range n.RequiredTraits {
		decoded, err := decodeTypeNode(required)
		if err != nil {
			return nil, err
		}
		trait.RequiredTraits = append(trait.RequiredTraits, decoded)
	}

	if trait.Body, err = decodeBody(n.Body); err != nil {
		return nil, err
	}

	return trait, nil
}

func decodeTraitImplementation(n *node) (*ast.TraitImplementation, error) {
	if n.TraitName == nil || n.ObjectName == nil {
		return nil, fmt.Errorf("trait implementation at %s misses its names", n.Location.toToken())
	}

	traitName, err := decodeConstant(n.TraitName)
	if err != nil {
		return nil, err
	}
	objectName, err := decodeConstant(n.ObjectName)
	if err != nil {
		return nil, err
	}

	impl := &ast.TraitImplementation{
		NodeBase:   base(n),
		TraitName:  traitName,
		ObjectName: objectName,
	}

	if impl.Body, err = decodeBody(n.Body); err != nil {
		return nil, err
	}

	return impl, nil
}

func decodeReopenObject(n *node) (*ast.ReopenObject, error) {
	if n.ObjectName == nil {
		return nil, fmt.Errorf("reopen at %s misses the object name", n.Location.toToken())
	}

	name, err := decodeConstant(n.ObjectName)
	if err != nil {
		return nil, err
	}

	reopen := &ast.ReopenObject{NodeBase: base(n), Name: name}
	if reopen.Body, err = decodeBody(n.Body); err != nil {
		return nil, err
	}

	return reopen, nil
}

func decodeDefineVariable(n *node) (*ast.DefineVariable, error) {
	kind, err := variableKind(n)
	if err != nil {
		return nil, err
	}

	define := &ast.DefineVariable{
		NodeBase: base(n),
		Kind:     kind,
		Name:     n.Name,
		Mutable:  n.Mutable,
	}

	if define.ValueType, err = decodeOptionalTypeNode(n.ValueType); err != nil {
		return nil, err
	}
	if define.Value, err = decodeExpression(n.Expression); err != nil {
		return nil, err
	}

	return define, nil
}

func decodeReassignVariable(n *node) (*ast.ReassignVariable, error) {
	kind, err := variableKind(n)
	if err != nil {
		return nil, err
	}

	reassign := &ast.ReassignVariable{
		NodeBase: base(n),
		Kind:     kind,
		Name:     n.Name,
	}

	if reassign.Value, err = decodeExpression(n.Expression); err != nil {
		return nil, err
	}

	return reassign, nil
}

func variableKind(n *node) (ast.VariableKind, error) {
	switch n.Target {
	case "local":
		return ast.LocalVariable, nil
	case "attribute":
		return ast.AttributeVariable, nil
	case "constant":
		return ast.ConstantVariable, nil
	default:
		return 0, fmt.Errorf("unknown variable target %q at %s", n.Target, n.Location.toToken())
	}
}

func decodeReturn(n *node) (*ast.Return, error) {
	ret := &ast.Return{NodeBase: base(n)}
	if n.Expression != nil {
		value, err := decodeExpression(n.Expression)
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}
	return ret, nil
}

func decodeTry(n *node) (*ast.Try, error) {
	expression, err := decodeExpression(n.Expression)
	if err != nil {
		return nil, err
	}

	try := &ast.Try{NodeBase: base(n), Expression: expression}

	if n.ElseArgument != nil {
		argument, err := decodeBlockArgument(n.ElseArgument)
		if err != nil {
			return nil, err
		}
		try.ElseArgument = argument
	}
	if n.ElseBody != nil {
		if try.ElseBody, err = decodeBody(n.ElseBody); err != nil {
			return nil, err
		}
	}

	return try, nil
}

func decodeRawInstruction(n *node) (*ast.RawInstruction, error) {
	instruction := &ast.RawInstruction{NodeBase: base(n), Name: n.Name}
	for _, argument := range n.Arguments {
		decoded, err := decodeExpression(argument)
		if err != nil {
			return nil, err
		}
		instruction.Arguments = append(instruction.Arguments, decoded)
	}
	return instruction, nil
}

func decodeImport(n *node) (*ast.Import, error) {
	if n.Kind != "import" {
		return nil, fmt.Errorf("expected an import node, got %q", n.Kind)
	}

	imp := &ast.Import{NodeBase: base(n), Path: n.Path}

	for _, symbol := range n.Symbols {
		imp.Symbols = append(imp.Symbols, &ast.ImportSymbol{
			NodeBase:   base(symbol),
			Name:       symbol.Name,
			Alias:      symbol.Alias,
			Glob:       symbol.Glob,
			SelfImport: symbol.SelfImport,
		})
	}

	return imp, nil
}

func decodeTypeParameters(nodes []*node) ([]*ast.TypeParameterDef, error) {
	var params []*ast.TypeParameterDef
	for _, n := range nodes {
		param := &ast.TypeParameterDef{NodeBase: base(n), Name: n.Name}
		for _, required := range n.RequiredTraits {
			decoded, err := decodeTypeNode(required)
			if err != nil {
				return nil, err
			}
			param.RequiredTraits = append(param.RequiredTraits, decoded)
		}
		params = append(params, param)
	}
	return params, nil
}

func decodeBlockArguments(nodes []*node) ([]*ast.BlockArgument, error) {
	var arguments []*ast.BlockArgument
	for _, n := range nodes {
		argument, err := decodeBlockArgument(n)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, argument)
	}
	return arguments, nil
}

func decodeBlockArgument(n *node) (*ast.BlockArgument, error) {
	argument := &ast.BlockArgument{
		NodeBase: base(n),
		Name:     n.Name,
		Rest:     n.Rest,
		Mutable:  n.Mutable,
	}

	var err error
	if argument.TypeAnnotation, err = decodeOptionalTypeNode(n.ValueType); err != nil {
		return nil, err
	}
	if n.Default != nil {
		if argument.Default, err = decodeExpression(n.Default); err != nil {
			return nil, err
		}
	}

	return argument, nil
}

func decodeOptionalTypeNode(n *node) (ast.TypeNode, error) {
	if n == nil {
		return nil, nil
	}
	return decodeTypeNode(n)
}

func decodeTypeNode(n *node) (ast.TypeNode, error) {
	switch n.Kind {
	case "type_name":
		name := &ast.TypeName{
			NodeBase: base(n),
			Name:     n.Name,
			Optional: n.Optional,
		}
		if n.Receiver != nil {
			receiver, err := decodeTypeNode(n.Receiver)
			if err != nil {
				return nil, err
			}
			qualified, ok := receiver.(*ast.TypeName)
			if !ok {
				return nil, fmt.Errorf("type receiver at %s must be a named type", n.Location.toToken())
			}
			name.Receiver = qualified
		}
		for _, param := range n.TypeParameters {
			decoded, err := decodeTypeNode(param)
			if err != nil {
				return nil, err
			}
			name.TypeParameters = append(name.TypeParameters, decoded)
		}
		return name, nil
	case "block_type":
		block := &ast.BlockTypeName{NodeBase: base(n), Optional: n.Optional}
		for _, argument := range n.Arguments {
			decoded, err := decodeTypeNode(argument)
			if err != nil {
				return nil, err
			}
			block.Arguments = append(block.Arguments, decoded)
		}
		var err error
		if block.Returns, err = decodeOptionalTypeNode(n.Returns); err != nil {
			return nil, err
		}
		if block.Throws, err = decodeOptionalTypeNode(n.Throws); err != nil {
			return nil, err
		}
		return block, nil
	default:
		return nil, fmt.Errorf("unknown type node kind %q at %s", n.Kind, n.Location.toToken())
	}
}
