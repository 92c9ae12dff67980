package model

type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Nullable    bool

	// Object properties, in declaration order
	Properties []Property
	Required   []string

	// Array items
	Items *Schema

	// Enum values
	Enum []any

	// Reference. A schema carrying Ref has no other content.
	Ref string

	// Constraints, consumed by value generation
	Minimum   *float64
	Maximum   *float64
	MinLength *int64
	MaxLength *int64
	Pattern   string
}

// IsReference reports whether the schema is only a pointer to another schema.
func (s *Schema) IsReference() bool {
	return s != nil && s.Ref != ""
}

// Property returns the named property schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return s.Properties[i].Schema, true
		}
	}
	return nil, false
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}
