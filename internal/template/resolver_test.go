package template

import (
	"errors"
	"testing"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(string) (*model.Schema, error)

func (f resolverFunc) Resolve(ref string) (*model.Schema, error) {
	return f(ref)
}

func ref(r string) *model.Schema {
	return &model.Schema{Ref: r}
}

func object(props ...model.Property) *model.Schema {
	return &model.Schema{Type: model.TypeObject, Properties: props}
}

func prop(name string, s *model.Schema) model.Property {
	return model.Property{Name: name, Schema: s}
}

func scalar(t model.SchemaType) *model.Schema {
	return &model.Schema{Type: t}
}

func document(schemas map[string]*model.Schema, paths ...model.PathItem) *model.Document {
	return &model.Document{Version: "2.0", Schemas: schemas, Paths: paths}
}

func TestResolveSchema(t *testing.T) {
	pet := &model.Schema{Name: "Pet", Type: model.TypeObject}
	doc := document(map[string]*model.Schema{
		"#/definitions/Pet":   pet,
		"#/definitions/Alias": ref("#/definitions/Pet"),
		"#/definitions/A":     ref("#/definitions/B"),
		"#/definitions/B":     ref("#/definitions/A"),
		"#/definitions/Self":  ref("#/definitions/Self"),
	})

	tests := []struct {
		name    string
		schema  *model.Schema
		want    *model.Schema
		wantErr error
	}{
		{name: "direct schema unchanged", schema: pet, want: pet},
		{name: "pointer", schema: ref("#/definitions/Pet"), want: pet},
		{name: "pointer to pointer", schema: ref("#/definitions/Alias"), want: pet},
		{name: "pointer loop", schema: ref("#/definitions/A"), wantErr: ErrReferenceLoop},
		{name: "self pointer", schema: ref("#/definitions/Self"), wantErr: ErrReferenceLoop},
		{name: "unknown pointer", schema: ref("#/definitions/Missing"), wantErr: model.ErrUnresolvedRef},
		{name: "nil schema", schema: nil, wantErr: ErrNilSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSchema(doc, tt.schema)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Same(t, tt.want, got)
		})
	}
}

func TestResolveSchemaPropagatesResolverError(t *testing.T) {
	boom := errors.New("boom")
	r := resolverFunc(func(string) (*model.Schema, error) { return nil, boom })

	_, err := ResolveSchema(r, ref("#/definitions/X"))
	require.Same(t, boom, err)
}

func TestResolveSchemaNilTarget(t *testing.T) {
	r := resolverFunc(func(string) (*model.Schema, error) { return nil, nil })

	_, err := ResolveSchema(r, ref("#/definitions/X"))
	require.ErrorIs(t, err, ErrNilSchema)
}

func TestLeafFor(t *testing.T) {
	tests := []struct {
		typ  model.SchemaType
		want Leaf
		ok   bool
	}{
		{model.TypeInteger, IntegerLeaf, true},
		{model.TypeString, StringLeaf, true},
		{model.TypeNumber, FloatLeaf, true},
		{model.TypeBoolean, BoolLeaf, true},
		{model.TypeArray, Leaf{}, false},
		{model.TypeObject, Leaf{}, false},
		{"", Leaf{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, ok := leafFor(tt.typ)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}

	require.Equal(t, "float", FloatLeaf.String())
	require.Equal(t, LeafBool, BoolLeaf.Kind())
}
