// Package report renders a built API template for people and for tools.
package report

import (
	"github.com/kolah/swagcheck/internal/model"
	"github.com/kolah/swagcheck/internal/template"
)

type Report struct {
	Title       string     `yaml:"title"`
	Version     string     `yaml:"version,omitempty"`
	SpecVersion string     `yaml:"specVersion"`
	Endpoints   []Endpoint `yaml:"endpoints"`
	Skips       []string   `yaml:"skips,omitempty"`
}

type Endpoint struct {
	Path       string      `yaml:"path"`
	Operations []Operation `yaml:"operations"`
}

type Operation struct {
	Verb       string      `yaml:"verb"`
	ID         string      `yaml:"operationId,omitempty"`
	Parameters []Parameter `yaml:"parameters,omitempty"`
	Responses  []int       `yaml:"responses,omitempty"`
	Default    bool        `yaml:"defaultResponse,omitempty"`
}

type Parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in,omitempty"`
	Kind     string `yaml:"kind"`
	Type     string `yaml:"type,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Model    *Model `yaml:"model,omitempty"`

	// Fields is the model flattened in walk order, for line-based output.
	Fields []Field `yaml:"-"`
}

// Model mirrors one ModelTemplate position.
type Model struct {
	Kind       string     `yaml:"kind"`
	Type       string     `yaml:"type,omitempty"`
	Name       string     `yaml:"schema,omitempty"`
	Ref        string     `yaml:"ref,omitempty"`
	Leaf       string     `yaml:"leaf,omitempty"`
	Target     string     `yaml:"target,omitempty"`
	Reason     string     `yaml:"reason,omitempty"`
	Properties []Property `yaml:"properties,omitempty"`
}

type Property struct {
	Name  string `yaml:"name"`
	Model `yaml:",inline"`
}

type Field struct {
	Depth  int
	Name   string
	Kind   string
	Detail string
}

// Build summarises api, which was templated from doc.
func Build(doc *model.Document, api *template.APITemplate) *Report {
	r := &Report{
		Title:       doc.Info.Title,
		Version:     doc.Info.Version,
		SpecVersion: doc.Version,
	}

	for path, e := range api.Endpoints() {
		endpoint := Endpoint{Path: path, Operations: []Operation{}}
		for op := range e.Operations() {
			endpoint.Operations = append(endpoint.Operations, buildOperation(op))
		}
		r.Endpoints = append(r.Endpoints, endpoint)
	}

	for _, skip := range api.Skips() {
		r.Skips = append(r.Skips, skip.String())
	}
	return r
}

func buildOperation(op *template.OperationTemplate) Operation {
	o := Operation{
		Verb:      string(op.Verb()),
		ID:        op.ID(),
		Responses: op.ResponseCodes(),
		Default:   op.HasDefaultResponse(),
	}
	for name, p := range op.Parameters() {
		param := Parameter{
			Name: name,
			In:   string(p.In()),
			Kind: p.Kind().String(),
			Type: p.Type(),
		}
		if pt, ok := p.Primitive(); ok {
			param.Format = pt.Format()
			param.Required = pt.Required()
		}
		if m, ok := p.Model(); ok {
			param.Model = buildModel(m)
			param.Fields = flatten(m)
		}
		o.Parameters = append(o.Parameters, param)
	}
	return o
}

func buildModel(m *template.ModelTemplate) *Model {
	out := &Model{
		Kind: m.Kind().String(),
		Type: string(m.DeclaredType()),
		Name: m.Name(),
		Ref:  m.Ref(),
	}
	if leaf, ok := m.Leaf(); ok {
		out.Leaf = leaf.String()
	}
	if target, ok := m.Target(); ok {
		out.Target = target.Location()
	}
	if m.Kind() == template.KindUnsupported {
		out.Reason = unsupportedReason(m)
	}
	for name, child := range m.Properties() {
		out.Properties = append(out.Properties, Property{Name: name, Model: *buildModel(child)})
	}
	return out
}

func flatten(m *template.ModelTemplate) []Field {
	var fields []Field
	var visit func(*template.ModelTemplate, int)
	visit = func(m *template.ModelTemplate, depth int) {
		for name, n := range m.Properties() {
			f := Field{Depth: depth, Name: name, Kind: n.Kind().String()}
			switch n.Kind() {
			case template.KindLeaf:
				leaf, _ := n.Leaf()
				f.Detail = leaf.String()
			case template.KindRecursive:
				target, _ := n.Target()
				f.Detail = "-> " + target.Name()
			case template.KindUnsupported:
				f.Detail = unsupportedReason(n)
			}
			fields = append(fields, f)
			visit(n, depth+1)
		}
	}
	visit(m, 0)
	return fields
}

func unsupportedReason(m *template.ModelTemplate) string {
	skips := m.Skips()
	if len(skips) == 0 {
		return ""
	}
	return skips[0].Reason
}
