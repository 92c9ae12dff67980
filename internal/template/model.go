package template

import (
	"fmt"
	"iter"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/pb33f/libopenapi/orderedmap"
)

// Kind classifies one schema position of a ModelTemplate.
type Kind int

const (
	// KindFreeform is an object without declared properties.
	KindFreeform Kind = iota + 1
	// KindLeaf is a scalar: integer, string, number or boolean.
	KindLeaf
	// KindStructured is an object with declared properties.
	KindStructured
	// KindUnsupported is a schema type that is not templated.
	KindUnsupported
	// KindRecursive points back at an ancestor instead of expanding it again.
	KindRecursive
)

func (k Kind) String() string {
	switch k {
	case KindFreeform:
		return "freeform"
	case KindLeaf:
		return "leaf"
	case KindStructured:
		return "structured"
	case KindUnsupported:
		return "unsupported"
	case KindRecursive:
		return "recursive"
	default:
		return "unknown"
	}
}

type modelNode struct {
	kind     Kind
	leaf     Leaf
	name     string
	ref      string
	declared model.SchemaType
	schema   *model.Schema
	location string
	reason   string
	parent   int
	target   int
	props    *orderedmap.Map[string, int]
}

// modelArena owns every node of one template tree. Nodes refer to each
// other by index and are never modified once construction returns.
type modelArena struct {
	nodes []modelNode
}

// ModelTemplate is the template for one schema position. It is a handle
// onto an immutable tree; child templates share the same tree.
type ModelTemplate struct {
	arena *modelArena
	index int
}

// NewModelTemplate resolves and classifies schema and everything reachable
// through its properties.
func NewModelTemplate(r Resolver, schema *model.Schema, opts ...Option) (*ModelTemplate, error) {
	return newModelTemplate(r, schema, "", newSettings(opts))
}

func newModelTemplate(r Resolver, schema *model.Schema, location string, s *settings) (*ModelTemplate, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	a := &modelArena{
		nodes: []modelNode{{parent: -1, target: -1, location: location}},
	}

	type task struct {
		index  int
		schema *model.Schema
	}
	work := []task{{index: 0, schema: schema}}

	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]

		loc := a.nodes[next.index].location

		if next.schema == nil {
			a.unsupported(next.index, "no schema declared", s)
			continue
		}

		resolved, err := ResolveSchema(r, next.schema)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("resolved schema", "location", loc, "ref", next.schema.Ref, "name", resolved.Name, "type", resolved.Type)

		n := &a.nodes[next.index]
		n.ref = next.schema.Ref
		n.schema = resolved
		n.name = resolved.Name
		n.declared = resolved.Type
		if n.name == "" {
			n.name = next.schema.Name
		}

		if ancestor, ok := a.ancestor(next.index, resolved); ok {
			n.kind = KindRecursive
			n.target = ancestor
			s.logger.Debug("schema refers back to an ancestor", "location", loc, "ref", n.ref)
			continue
		}

		if leaf, ok := leafFor(resolved.Type); ok {
			n.kind = KindLeaf
			n.leaf = leaf
			continue
		}

		if resolved.Type != model.TypeObject {
			a.unsupported(next.index, fmt.Sprintf("schema type %q not implemented", resolved.Type), s)
			continue
		}

		if len(resolved.Properties) == 0 {
			n.kind = KindFreeform
			continue
		}

		n.kind = KindStructured
		props := orderedmap.New[string, int]()
		children := make([]task, 0, len(resolved.Properties))
		for _, prop := range resolved.Properties {
			child := len(a.nodes)
			a.nodes = append(a.nodes, modelNode{
				parent:   next.index,
				target:   -1,
				location: joinLocation(loc, prop.Name),
			})
			props.Set(prop.Name, child)
			children = append(children, task{index: child, schema: prop.Schema})
		}
		a.nodes[next.index].props = props

		// Reverse so properties are visited in declaration order.
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, children[i])
		}
	}

	return &ModelTemplate{arena: a}, nil
}

func (a *modelArena) unsupported(index int, reason string, s *settings) {
	n := &a.nodes[index]
	n.kind = KindUnsupported
	n.reason = reason
	s.logger.Warn("skipping schema, not implemented", "location", n.location, "reason", reason)
}

// ancestor finds the nearest ancestor of index built from the same schema.
func (a *modelArena) ancestor(index int, schema *model.Schema) (int, bool) {
	for p := a.nodes[index].parent; p >= 0; p = a.nodes[p].parent {
		if a.nodes[p].schema == schema {
			return p, true
		}
	}
	return -1, false
}

func (a *modelArena) depth(index int) int {
	d := 0
	for p := a.nodes[index].parent; p >= 0; p = a.nodes[p].parent {
		d++
	}
	return d
}

func joinLocation(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func (m *ModelTemplate) node() *modelNode {
	return &m.arena.nodes[m.index]
}

func (m *ModelTemplate) at(index int) *ModelTemplate {
	return &ModelTemplate{arena: m.arena, index: index}
}

func (m *ModelTemplate) Kind() Kind {
	return m.node().kind
}

// Leaf returns the scalar template of a KindLeaf position.
func (m *ModelTemplate) Leaf() (Leaf, bool) {
	n := m.node()
	return n.leaf, n.kind == KindLeaf
}

// Name is the display name of the resolved schema.
func (m *ModelTemplate) Name() string {
	return m.node().name
}

// Ref is the pointer through which this position was reached, if any.
func (m *ModelTemplate) Ref() string {
	return m.node().ref
}

func (m *ModelTemplate) DeclaredType() model.SchemaType {
	return m.node().declared
}

// Schema returns the resolved schema, for constraint lookups.
func (m *ModelTemplate) Schema() *model.Schema {
	return m.node().schema
}

// Location is the dotted property path of this position.
func (m *ModelTemplate) Location() string {
	return m.node().location
}

// Len returns the number of properties of a structured position.
func (m *ModelTemplate) Len() int {
	props := m.node().props
	if props == nil {
		return 0
	}
	return props.Len()
}

// Properties iterates child templates in declaration order.
func (m *ModelTemplate) Properties() iter.Seq2[string, *ModelTemplate] {
	return func(yield func(string, *ModelTemplate) bool) {
		props := m.node().props
		if props == nil {
			return
		}
		for name, index := range props.FromOldest() {
			if !yield(name, m.at(index)) {
				return
			}
		}
	}
}

func (m *ModelTemplate) Property(name string) (*ModelTemplate, bool) {
	props := m.node().props
	if props == nil {
		return nil, false
	}
	index, ok := props.Get(name)
	if !ok {
		return nil, false
	}
	return m.at(index), true
}

func (m *ModelTemplate) PropertyNames() []string {
	var names []string
	for name := range m.Properties() {
		names = append(names, name)
	}
	return names
}

// Target returns the ancestor a KindRecursive position refers to.
func (m *ModelTemplate) Target() (*ModelTemplate, bool) {
	n := m.node()
	if n.kind != KindRecursive {
		return nil, false
	}
	return m.at(n.target), true
}

// Walk visits this position and its descendants depth-first in declaration
// order until fn returns false. Recursive positions are not followed.
func (m *ModelTemplate) Walk(fn func(*ModelTemplate) bool) {
	stack := []int{m.index}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t := m.at(index)
		if !fn(t) {
			return
		}

		props := t.node().props
		if props == nil {
			continue
		}
		var children []int
		for _, child := range props.FromOldest() {
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Skips lists the unsupported positions under this one.
func (m *ModelTemplate) Skips() []Skip {
	var skips []Skip
	m.Walk(func(t *ModelTemplate) bool {
		if n := t.node(); n.kind == KindUnsupported {
			skips = append(skips, Skip{Location: n.location, Reason: n.reason})
		}
		return true
	})
	return skips
}

// Equal reports whether two templates have the same shape: kinds, leaves,
// declared types, property names in order, and recursion targets. The
// pointers used to reach positions are ignored.
func (m *ModelTemplate) Equal(other *ModelTemplate) bool {
	if m == nil || other == nil {
		return m == other
	}

	type pair struct{ a, b *ModelTemplate }
	stack := []pair{{m, other}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.a.node(), p.b.node()
		if x.kind != y.kind || x.leaf != y.leaf || x.declared != y.declared {
			return false
		}

		switch x.kind {
		case KindRecursive:
			if p.a.arena.depth(p.a.index)-p.a.arena.depth(x.target) !=
				p.b.arena.depth(p.b.index)-p.b.arena.depth(y.target) {
				return false
			}
		case KindStructured:
			if x.props.Len() != y.props.Len() {
				return false
			}
			var left, right []string
			for name := range x.props.FromOldest() {
				left = append(left, name)
			}
			for name := range y.props.FromOldest() {
				right = append(right, name)
			}
			for i := range left {
				if left[i] != right[i] {
					return false
				}
				a, _ := p.a.Property(left[i])
				b, _ := p.b.Property(right[i])
				stack = append(stack, pair{a, b})
			}
		}
	}
	return true
}

func (m *ModelTemplate) String() string {
	n := m.node()
	switch n.kind {
	case KindLeaf:
		return fmt.Sprintf("ModelTemplate(%s)", n.leaf)
	case KindStructured:
		return fmt.Sprintf("ModelTemplate(%s, properties=%v)", n.kind, m.PropertyNames())
	default:
		return fmt.Sprintf("ModelTemplate(%s)", n.kind)
	}
}
