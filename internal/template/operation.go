package template

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/pb33f/libopenapi/orderedmap"
)

// OperationTemplate is the template for one verb on one path.
type OperationTemplate struct {
	operation       *model.Operation
	verb            Verb
	path            string
	params          *orderedmap.Map[string, Parameter]
	responseCodes   []int
	defaultResponse bool
	skips           []Skip
}

// NewOperationTemplate builds the template of a single operation. The verb
// and path are taken from the operation itself.
func NewOperationTemplate(r Resolver, op *model.Operation, opts ...Option) (*OperationTemplate, error) {
	return newOperationTemplate(r, Verb(op.Method), op.Path, op, newSettings(opts))
}

func newOperationTemplate(r Resolver, verb Verb, path string, op *model.Operation, s *settings) (*OperationTemplate, error) {
	t := &OperationTemplate{
		operation:       op,
		verb:            verb,
		path:            path,
		params:          orderedmap.New[string, Parameter](),
		defaultResponse: op.DefaultResponse,
	}
	logger := s.logger.With("verb", verb, "path", path)

	for _, resp := range op.Responses {
		code, err := strconv.Atoi(resp.StatusCode)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidResponseCode, resp.StatusCode)
		}
		t.responseCodes = append(t.responseCodes, code)
	}

	for i := range op.Parameters {
		p := &op.Parameters[i]

		if p.Name == "" {
			return nil, fmt.Errorf("parameter %d: %w", i, ErrMissingName)
		}

		reason := ""
		switch {
		case s.isReserved(p.Name):
			reason = "reserved parameter not implemented"
		case p.In == model.LocationFormData && p.Type == "file":
			reason = "file upload parameter not implemented"
		default:
			if _, ok := t.params.Get(p.Name); ok {
				reason = "duplicate parameter name"
			}
		}
		if reason != "" {
			logger.Warn("skipping parameter", "parameter", p.Name, "in", p.In, "reason", reason)
			t.skips = append(t.skips, Skip{Path: path, Verb: verb, Location: p.Name, Reason: reason})
			continue
		}

		if p.Schema != nil {
			m, err := newModelTemplate(r, p.Schema, p.Name, s)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			for _, skip := range m.Skips() {
				skip.Path, skip.Verb = path, verb
				t.skips = append(t.skips, skip)
			}
			t.params.Set(p.Name, structuredParameter(p.Name, p.In, m))
			continue
		}

		pt, err := NewParameterTemplate(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		t.params.Set(p.Name, primitiveParameter(pt))
	}

	logger.Debug("templated operation", "parameters", t.params.Len(), "responses", len(t.responseCodes))
	return t, nil
}

// Operation returns the operation this template was built from.
func (t *OperationTemplate) Operation() *model.Operation {
	return t.operation
}

func (t *OperationTemplate) Verb() Verb {
	return t.verb
}

func (t *OperationTemplate) Path() string {
	return t.path
}

func (t *OperationTemplate) ID() string {
	return t.operation.ID
}

// Parameters iterates the templated parameters in declaration order.
func (t *OperationTemplate) Parameters() iter.Seq2[string, Parameter] {
	return func(yield func(string, Parameter) bool) {
		for name, p := range t.params.FromOldest() {
			if !yield(name, p) {
				return
			}
		}
	}
}

func (t *OperationTemplate) Parameter(name string) (Parameter, bool) {
	return t.params.Get(name)
}

func (t *OperationTemplate) ParameterNames() []string {
	names := make([]string, 0, t.params.Len())
	for name := range t.params.FromOldest() {
		names = append(names, name)
	}
	return names
}

// ResponseCodes returns the declared numeric response codes in document order.
func (t *OperationTemplate) ResponseCodes() []int {
	return append([]int(nil), t.responseCodes...)
}

// HasDefaultResponse reports whether the operation declares a "default" response.
func (t *OperationTemplate) HasDefaultResponse() bool {
	return t.defaultResponse
}

// Skips lists the parameters and schema positions left out of the template.
func (t *OperationTemplate) Skips() []Skip {
	return append([]Skip(nil), t.skips...)
}

func (t *OperationTemplate) String() string {
	return fmt.Sprintf("%s %s params=%v responses=%v", t.verb.Upper(), t.path, t.ParameterNames(), t.responseCodes)
}
