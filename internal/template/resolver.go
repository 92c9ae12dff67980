package template

import (
	"fmt"

	"github.com/kolah/swagcheck/internal/model"
)

// Resolver dereferences $ref pointers against the root document.
type Resolver interface {
	Resolve(ref string) (*model.Schema, error)
}

// ResolveSchema returns the concrete schema behind a possibly indirect one.
// A schema without a pointer is returned unchanged. Pointers to pointers are
// followed; a chain that revisits a pointer fails with ErrReferenceLoop.
// Errors from the Resolver are returned as is.
func ResolveSchema(r Resolver, schema *model.Schema) (*model.Schema, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	var seen map[string]struct{}
	for schema.IsReference() {
		ref := schema.Ref
		if _, ok := seen[ref]; ok {
			return nil, fmt.Errorf("%w: %s", ErrReferenceLoop, ref)
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		seen[ref] = struct{}{}

		target, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilSchema, ref)
		}
		schema = target
	}

	return schema, nil
}
