package template

import "github.com/kolah/swagcheck/internal/model"

type LeafKind int

const (
	LeafInteger LeafKind = iota + 1
	LeafString
	LeafFloat
	LeafBool
)

func (k LeafKind) String() string {
	switch k {
	case LeafInteger:
		return "integer"
	case LeafString:
		return "string"
	case LeafFloat:
		return "float"
	case LeafBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Leaf is a terminal scalar slot. It carries no constraints yet; value
// generation reads those from the resolved schema.
type Leaf struct {
	kind LeafKind
}

var (
	IntegerLeaf = Leaf{kind: LeafInteger}
	StringLeaf  = Leaf{kind: LeafString}
	FloatLeaf   = Leaf{kind: LeafFloat}
	BoolLeaf    = Leaf{kind: LeafBool}
)

func (l Leaf) Kind() LeafKind {
	return l.kind
}

func (l Leaf) String() string {
	return l.kind.String()
}

func leafFor(t model.SchemaType) (Leaf, bool) {
	switch t {
	case model.TypeInteger:
		return IntegerLeaf, true
	case model.TypeString:
		return StringLeaf, true
	case model.TypeNumber:
		return FloatLeaf, true
	case model.TypeBoolean:
		return BoolLeaf, true
	default:
		return Leaf{}, false
	}
}
