package template

import (
	"fmt"

	"github.com/kolah/swagcheck/internal/model"
)

// ParameterTemplate is a parameter fully described by its name and inline
// primitive type, such as a path or query parameter.
type ParameterTemplate struct {
	name     string
	typ      string
	in       model.ParameterLocation
	format   string
	required bool
}

// NewParameterTemplate fails when the parameter has no name or no type; both
// mean the document loader produced an invalid operation.
func NewParameterTemplate(p *model.Parameter) (*ParameterTemplate, error) {
	if p.Name == "" {
		return nil, ErrMissingName
	}
	if p.Type == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingType, p.Name)
	}
	return &ParameterTemplate{
		name:     p.Name,
		typ:      p.Type,
		in:       p.In,
		format:   p.Format,
		required: p.Required,
	}, nil
}

func (p *ParameterTemplate) Name() string { return p.name }
func (p *ParameterTemplate) Type() string { return p.typ }
func (p *ParameterTemplate) In() model.ParameterLocation { return p.in }
func (p *ParameterTemplate) Format() string { return p.format }
func (p *ParameterTemplate) Required() bool { return p.required }

func (p *ParameterTemplate) String() string {
	return fmt.Sprintf("ParameterTemplate(%s: %s)", p.name, p.typ)
}

type ParameterKind int

const (
	// ParameterPrimitive wraps a ParameterTemplate.
	ParameterPrimitive ParameterKind = iota + 1
	// ParameterStructured wraps the ModelTemplate of a parameter schema.
	ParameterStructured
)

func (k ParameterKind) String() string {
	switch k {
	case ParameterPrimitive:
		return "primitive"
	case ParameterStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Parameter is one entry of an operation's parameter map: either a
// primitive ParameterTemplate or a ModelTemplate for a parameter schema.
type Parameter struct {
	name      string
	in        model.ParameterLocation
	primitive *ParameterTemplate
	model     *ModelTemplate
}

func primitiveParameter(p *ParameterTemplate) Parameter {
	return Parameter{name: p.name, in: p.in, primitive: p}
}

func structuredParameter(name string, in model.ParameterLocation, m *ModelTemplate) Parameter {
	return Parameter{name: name, in: in, model: m}
}

func (p Parameter) Name() string {
	return p.name
}

func (p Parameter) In() model.ParameterLocation {
	return p.in
}

func (p Parameter) Kind() ParameterKind {
	if p.model != nil {
		return ParameterStructured
	}
	return ParameterPrimitive
}

// Primitive returns the ParameterTemplate of a primitive parameter.
func (p Parameter) Primitive() (*ParameterTemplate, bool) {
	return p.primitive, p.primitive != nil
}

// Model returns the ModelTemplate of a structured parameter.
func (p Parameter) Model() (*ModelTemplate, bool) {
	return p.model, p.model != nil
}

// Type is the inline type of a primitive parameter or the declared type of
// the resolved schema of a structured one.
func (p Parameter) Type() string {
	if p.model != nil {
		return string(p.model.DeclaredType())
	}
	if p.primitive != nil {
		return p.primitive.typ
	}
	return ""
}

func (p Parameter) String() string {
	if p.model != nil {
		return fmt.Sprintf("%s: %s", p.name, p.model)
	}
	if p.primitive != nil {
		return p.primitive.String()
	}
	return p.name
}
