package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

const (
	definitionsPrefix = "#/definitions/"
	componentsPrefix  = "#/components/schemas/"
	bodyParameterName = "body"
)

// transformer converts libopenapi high-level models into the document model.
// References are never inlined: a referencing schema keeps only its pointer
// and the target is registered once in schemas, so cyclic definitions
// terminate here and are left to the template layer.
type transformer struct {
	schemas map[string]*model.Schema
}

func Transform(result *Result) (*model.Document, error) {
	t := &transformer{
		schemas: make(map[string]*model.Schema),
	}

	switch {
	case result.Swagger != nil:
		return t.transformSwagger(result)
	case result.OpenAPI != nil:
		return t.transformOpenAPI(result)
	default:
		return nil, errors.New("no document model loaded")
	}
}

func (t *transformer) transformSwagger(result *Result) (*model.Document, error) {
	doc := result.Swagger.Model

	out := &model.Document{
		Version: result.Version,
		Info:    transformInfo(doc.Info),
		Schemas: t.schemas,
	}

	if doc.Definitions != nil && doc.Definitions.Definitions != nil {
		for name, proxy := range doc.Definitions.Definitions.FromOldest() {
			if err := t.register(definitionsPrefix+name, name, proxy); err != nil {
				return nil, err
			}
		}
	}

	if doc.Paths != nil && doc.Paths.PathItems != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			path, err := t.transformSwaggerPath(pathStr, pathItem)
			if err != nil {
				return nil, err
			}
			out.Paths = append(out.Paths, path)
		}
	}

	return out, nil
}

func (t *transformer) transformSwaggerPath(pathStr string, pathItem *v2.PathItem) (model.PathItem, error) {
	path := model.PathItem{Path: pathStr}

	shared, err := t.transformSwaggerParameters(pathItem.Parameters)
	if err != nil {
		return path, fmt.Errorf("path %s: %w", pathStr, err)
	}

	// Use a slice for deterministic ordering
	methods := []struct {
		method model.Method
		op     *v2.Operation
		slot   **model.Operation
	}{
		{model.MethodGet, pathItem.Get, &path.Get},
		{model.MethodPut, pathItem.Put, &path.Put},
		{model.MethodPost, pathItem.Post, &path.Post},
		{model.MethodDelete, pathItem.Delete, &path.Delete},
		{model.MethodPatch, pathItem.Patch, &path.Patch},
		{model.MethodHead, pathItem.Head, &path.Head},
		{model.MethodOptions, pathItem.Options, &path.Options},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		operation, err := t.transformSwaggerOperation(m.method, pathStr, shared, m.op)
		if err != nil {
			return path, fmt.Errorf("%s %s: %w", m.method, pathStr, err)
		}
		*m.slot = operation
	}

	return path, nil
}

func (t *transformer) transformSwaggerOperation(method model.Method, path string, shared []model.Parameter, op *v2.Operation) (*model.Operation, error) {
	operation := &model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
	}

	own, err := t.transformSwaggerParameters(op.Parameters)
	if err != nil {
		return nil, err
	}
	operation.Parameters = mergeParameters(shared, own)

	if op.Responses != nil {
		if op.Responses.Codes != nil {
			for code, resp := range op.Responses.Codes.FromOldest() {
				addResponse(operation, code, resp.Description)
			}
		}
		if op.Responses.Default != nil {
			operation.DefaultResponse = true
		}
	}

	return operation, nil
}

func (t *transformer) transformSwaggerParameters(params []*v2.Parameter) ([]model.Parameter, error) {
	var result []model.Parameter
	for _, p := range params {
		if p == nil {
			continue
		}
		param := model.Parameter{
			Name:        p.Name,
			In:          model.ParameterLocation(p.In),
			Description: p.Description,
			Required:    boolPtr(p.Required),
			Type:        p.Type,
			Format:      p.Format,
		}
		if p.Schema != nil {
			schema, err := t.transformSchemaProxy("", p.Schema)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			param.Schema = schema
		}
		result = append(result, param)
	}
	return result, nil
}

func (t *transformer) transformOpenAPI(result *Result) (*model.Document, error) {
	doc := result.OpenAPI.Model

	out := &model.Document{
		Version: result.Version,
		Info:    transformInfo(doc.Info),
		Schemas: t.schemas,
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, proxy := range doc.Components.Schemas.FromOldest() {
			if err := t.register(componentsPrefix+name, name, proxy); err != nil {
				return nil, err
			}
		}
	}

	if doc.Paths != nil && doc.Paths.PathItems != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			path, err := t.transformOpenAPIPath(pathStr, pathItem)
			if err != nil {
				return nil, err
			}
			out.Paths = append(out.Paths, path)
		}
	}

	return out, nil
}

func (t *transformer) transformOpenAPIPath(pathStr string, pathItem *v3.PathItem) (model.PathItem, error) {
	path := model.PathItem{Path: pathStr}

	shared, err := t.transformOpenAPIParameters(pathItem.Parameters)
	if err != nil {
		return path, fmt.Errorf("path %s: %w", pathStr, err)
	}

	methods := []struct {
		method model.Method
		op     *v3.Operation
		slot   **model.Operation
	}{
		{model.MethodGet, pathItem.Get, &path.Get},
		{model.MethodPut, pathItem.Put, &path.Put},
		{model.MethodPost, pathItem.Post, &path.Post},
		{model.MethodDelete, pathItem.Delete, &path.Delete},
		{model.MethodPatch, pathItem.Patch, &path.Patch},
		{model.MethodHead, pathItem.Head, &path.Head},
		{model.MethodOptions, pathItem.Options, &path.Options},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		operation, err := t.transformOpenAPIOperation(m.method, pathStr, shared, m.op)
		if err != nil {
			return path, fmt.Errorf("%s %s: %w", m.method, pathStr, err)
		}
		*m.slot = operation
	}

	return path, nil
}

func (t *transformer) transformOpenAPIOperation(method model.Method, path string, shared []model.Parameter, op *v3.Operation) (*model.Operation, error) {
	operation := &model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
	}

	own, err := t.transformOpenAPIParameters(op.Parameters)
	if err != nil {
		return nil, err
	}
	operation.Parameters = mergeParameters(shared, own)

	if op.RequestBody != nil {
		body, err := t.transformRequestBody(op.RequestBody)
		if err != nil {
			return nil, err
		}
		if body != nil {
			operation.Parameters = append(operation.Parameters, *body)
		}
	}

	if op.Responses != nil {
		if op.Responses.Codes != nil {
			for code, resp := range op.Responses.Codes.FromOldest() {
				addResponse(operation, code, resp.Description)
			}
		}
		if op.Responses.Default != nil {
			operation.DefaultResponse = true
		}
	}

	return operation, nil
}

func (t *transformer) transformOpenAPIParameters(params []*v3.Parameter) ([]model.Parameter, error) {
	var result []model.Parameter
	for _, p := range params {
		if p == nil {
			continue
		}
		param := model.Parameter{
			Name:        p.Name,
			In:          model.ParameterLocation(strings.ToLower(p.In)),
			Description: p.Description,
			Required:    boolPtr(p.Required),
		}

		proxy := p.Schema
		if proxy == nil {
			proxy = mediaTypeSchema(p.Content)
		}
		if proxy != nil {
			// Scalar parameter schemas, inline or referenced, are lowered to
			// the inline form so they template the same way as Swagger 2.0
			// parameters.
			if inline := proxy.Schema(); isInline(inline) {
				param.Type = inline.Type[0]
				param.Format = inline.Format
			} else {
				schema, err := t.transformSchemaProxy("", proxy)
				if err != nil {
					return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
				}
				param.Schema = schema
			}
		}

		result = append(result, param)
	}
	return result, nil
}

// transformRequestBody turns a request body into the lone body parameter,
// preferring a JSON media type.
func (t *transformer) transformRequestBody(rb *v3.RequestBody) (*model.Parameter, error) {
	chosen := mediaTypeSchema(rb.Content)
	if chosen == nil {
		return nil, nil
	}

	schema, err := t.transformSchemaProxy("", chosen)
	if err != nil {
		return nil, fmt.Errorf("request body: %w", err)
	}

	return &model.Parameter{
		Name:        bodyParameterName,
		In:          model.LocationBody,
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
		Schema:      schema,
	}, nil
}

// mediaTypeSchema picks the schema of the first JSON media type, falling
// back to the first media type that has a schema.
func mediaTypeSchema(content *orderedmap.Map[string, *v3.MediaType]) *base.SchemaProxy {
	if content == nil {
		return nil
	}

	var chosen *base.SchemaProxy
	for mediaType, media := range content.FromOldest() {
		if media == nil || media.Schema == nil {
			continue
		}
		if strings.Contains(mediaType, "json") {
			return media.Schema
		}
		if chosen == nil {
			chosen = media.Schema
		}
	}
	return chosen
}

// register records the target of ref once. The entry is reserved before the
// target is transformed so self-referencing definitions stop here.
func (t *transformer) register(ref, name string, proxy *base.SchemaProxy) error {
	if _, ok := t.schemas[ref]; ok {
		return nil
	}

	s := proxy.Schema()
	if s == nil {
		if err := proxy.GetBuildError(); err != nil {
			return fmt.Errorf("building schema %s: %w", ref, err)
		}
		// Left unregistered; resolving ref reports it.
		return nil
	}

	target := &model.Schema{}
	t.schemas[ref] = target

	built, err := t.transformSchema(name, s)
	if err != nil {
		delete(t.schemas, ref)
		return err
	}
	*target = *built
	return nil
}

func (t *transformer) transformSchemaProxy(name string, proxy *base.SchemaProxy) (*model.Schema, error) {
	if proxy == nil {
		return nil, nil
	}

	if ref := proxy.GetReference(); ref != "" {
		if err := t.register(ref, model.SchemaName(ref), proxy); err != nil {
			return nil, err
		}
		return &model.Schema{Name: name, Ref: ref}, nil
	}

	s := proxy.Schema()
	if s == nil {
		if err := proxy.GetBuildError(); err != nil {
			return nil, fmt.Errorf("building schema %q: %w", name, err)
		}
		return nil, nil
	}
	return t.transformSchema(name, s)
}

func (t *transformer) transformSchema(name string, s *base.Schema) (*model.Schema, error) {
	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Pattern:     s.Pattern,
		Required:    s.Required,
	}

	if schema.Name == "" {
		schema.Name = s.Title
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
	}

	for _, e := range s.Enum {
		schema.Enum = append(schema.Enum, e.Value)
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema, err := t.transformSchemaProxy(propName, propProxy)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", propName, err)
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	if s.Items != nil && s.Items.IsA() {
		items, err := t.transformSchemaProxy("", s.Items.A)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		schema.Items = items
	}

	if s.Minimum != nil {
		v := float64(*s.Minimum)
		schema.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		schema.Maximum = &v
	}
	if s.MinLength != nil {
		v := int64(*s.MinLength)
		schema.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int64(*s.MaxLength)
		schema.MaxLength = &v
	}

	return schema, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

// mergeParameters applies operation parameters over path-level ones; the
// operation wins on the same location and name.
func mergeParameters(shared, own []model.Parameter) []model.Parameter {
	result := append([]model.Parameter(nil), shared...)
	for _, p := range own {
		replaced := false
		for i := range result {
			if result[i].In == p.In && result[i].Name == p.Name {
				result[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, p)
		}
	}
	return result
}

func addResponse(operation *model.Operation, code, description string) {
	if code == "default" {
		operation.DefaultResponse = true
		return
	}
	operation.Responses = append(operation.Responses, model.Response{
		StatusCode:  code,
		Description: description,
	})
}

func isInline(s *base.Schema) bool {
	if s == nil || len(s.Type) == 0 {
		return false
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		return false
	}
	switch model.SchemaType(s.Type[0]) {
	case model.TypeString, model.TypeInteger, model.TypeNumber, model.TypeBoolean, model.TypeArray:
		return true
	default:
		return false
	}
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
