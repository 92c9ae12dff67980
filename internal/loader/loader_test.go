package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/stretchr/testify/require"
)

const swaggerSpec = `swagger: "2.0"
info:
  title: Apps API
  version: "1.0"
basePath: /api
paths:
  /schema:
    get:
      responses:
        "200":
          description: the schema
  /apps:
    get:
      parameters:
        - name: X-Fields
          in: header
          type: string
          format: mask
      responses:
        "200":
          description: all apps
          schema:
            type: array
            items:
              $ref: '#/definitions/App'
    post:
      parameters:
        - name: payload
          in: body
          required: true
          schema:
            $ref: '#/definitions/App'
      responses:
        "201":
          description: created
        default:
          description: error
  /apps/{appid}:
    parameters:
      - name: appid
        in: path
        required: true
        type: string
    get:
      responses:
        "200":
          description: one app
        "404":
          description: missing
    put:
      parameters:
        - name: appid
          in: path
          required: true
          type: string
          format: uuid
        - name: payload
          in: body
          schema:
            $ref: '#/definitions/App'
      responses:
        "204":
          description: updated
    patch:
      responses:
        "204":
          description: patched
definitions:
  App:
    type: object
    properties:
      id:
        type: integer
      name:
        type: string
      owner:
        $ref: '#/definitions/User'
  User:
    type: object
    properties:
      name:
        type: string
      manager:
        $ref: '#/definitions/User'
`

const openAPISpec = `openapi: 3.0.3
info:
  title: Apps API
  version: "1.0"
paths:
  /schema:
    get:
      responses:
        "200":
          description: the schema
  /apps:
    post:
      requestBody:
        required: true
        content:
          text/plain:
            schema:
              type: string
          application/json:
            schema:
              $ref: '#/components/schemas/App'
      responses:
        "201":
          description: created
  /apps/{appid}:
    parameters:
      - name: appid
        in: path
        required: true
        schema:
          type: string
    get:
      parameters:
        - name: filter
          in: query
          schema:
            $ref: '#/components/schemas/Filter'
      responses:
        "200":
          description: one app
        default:
          description: error
components:
  schemas:
    App:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
    Filter:
      type: object
      properties:
        tag:
          type: string
`

func loadDocument(t *testing.T, spec string, opts ...Option) *model.Document {
	t.Helper()
	result, err := Load([]byte(spec), opts...)
	require.NoError(t, err)
	doc, err := Transform(result)
	require.NoError(t, err)
	return doc
}

func TestLoadSwagger(t *testing.T) {
	result, err := Load([]byte(swaggerSpec))
	require.NoError(t, err)
	require.True(t, result.IsSwagger())
	require.Equal(t, "2.0", result.Version)
	require.Nil(t, result.OpenAPI)
}

func TestLoadOpenAPI(t *testing.T) {
	result, err := Load([]byte(openAPISpec))
	require.NoError(t, err)
	require.False(t, result.IsSwagger())
	require.NotNil(t, result.OpenAPI)
	require.Equal(t, "3.0.3", result.Version)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(swaggerSpec), 0644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, result.IsSwagger())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading spec file")
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	_, err := Load([]byte("openapi: 4.0.0\ninfo:\n  title: x\n  version: \"1\"\npaths: {}\n"))
	require.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load([]byte(openAPISpec), WithValidation(true))
	require.NoError(t, err)

	result, err := Load([]byte(swaggerSpec), WithValidation(true))
	require.NoError(t, err)
	require.Contains(t, result.Warnings, "document validation is only available for OpenAPI 3.x; skipped")
}

func TestTransformSwaggerPaths(t *testing.T) {
	doc := loadDocument(t, swaggerSpec)

	require.Equal(t, "Apps API", doc.Info.Title)

	var paths []string
	for p := range doc.PathItems() {
		paths = append(paths, p)
	}
	require.Equal(t, []string{"/schema", "/apps", "/apps/{appid}"}, paths)

	apps, ok := doc.PathItem("/apps")
	require.True(t, ok)
	require.NotNil(t, apps.Get)
	require.NotNil(t, apps.Post)
	require.Nil(t, apps.Put)
	require.Nil(t, apps.Delete)

	item, ok := doc.PathItem("/apps/{appid}")
	require.True(t, ok)
	require.NotNil(t, item.Patch)
	require.Equal(t, model.MethodGet, item.Get.Method)
	require.Equal(t, "/apps/{appid}", item.Get.Path)
}

func TestTransformSwaggerParameters(t *testing.T) {
	doc := loadDocument(t, swaggerSpec)
	item, _ := doc.PathItem("/apps/{appid}")

	// Path-level parameter is inherited.
	require.Len(t, item.Get.Parameters, 1)
	appid := item.Get.Parameters[0]
	require.Equal(t, "appid", appid.Name)
	require.Equal(t, model.LocationPath, appid.In)
	require.Equal(t, "string", appid.Type)
	require.True(t, appid.Required)
	require.Nil(t, appid.Schema)

	// Operation-level parameter overrides it.
	require.Len(t, item.Put.Parameters, 2)
	require.Equal(t, "uuid", item.Put.Parameters[0].Format)
	body := item.Put.Parameters[1]
	require.Equal(t, "payload", body.Name)
	require.Equal(t, model.LocationBody, body.In)
	require.NotNil(t, body.Schema)
	require.Equal(t, "#/definitions/App", body.Schema.Ref)
}

func TestTransformSwaggerResponses(t *testing.T) {
	doc := loadDocument(t, swaggerSpec)

	apps, _ := doc.PathItem("/apps")
	require.Equal(t, []model.Response{{StatusCode: "201", Description: "created"}}, apps.Post.Responses)
	require.True(t, apps.Post.DefaultResponse)

	item, _ := doc.PathItem("/apps/{appid}")
	require.Len(t, item.Get.Responses, 2)
	require.Equal(t, "200", item.Get.Responses[0].StatusCode)
	require.Equal(t, "404", item.Get.Responses[1].StatusCode)
	require.False(t, item.Get.DefaultResponse)
}

func TestTransformSwaggerDefinitions(t *testing.T) {
	doc := loadDocument(t, swaggerSpec)

	app, err := doc.Resolve("#/definitions/App")
	require.NoError(t, err)
	require.Equal(t, "App", app.Name)
	require.Equal(t, model.TypeObject, app.Type)
	require.Len(t, app.Properties, 3)
	require.Equal(t, "id", app.Properties[0].Name)
	require.Equal(t, model.TypeInteger, app.Properties[0].Schema.Type)

	owner, ok := app.Property("owner")
	require.True(t, ok)
	require.Equal(t, "#/definitions/User", owner.Ref)

	// Self-referencing definitions keep the pointer instead of inlining.
	user, err := doc.Resolve(owner.Ref)
	require.NoError(t, err)
	manager, ok := user.Property("manager")
	require.True(t, ok)
	require.True(t, manager.IsReference())
	require.Equal(t, "#/definitions/User", manager.Ref)
}

func TestTransformOpenAPI(t *testing.T) {
	doc := loadDocument(t, openAPISpec)

	var paths []string
	for p := range doc.PathItems() {
		paths = append(paths, p)
	}
	require.Equal(t, []string{"/schema", "/apps", "/apps/{appid}"}, paths)

	apps, _ := doc.PathItem("/apps")
	require.Len(t, apps.Post.Parameters, 1)
	body := apps.Post.Parameters[0]
	require.Equal(t, "body", body.Name)
	require.Equal(t, model.LocationBody, body.In)
	require.True(t, body.Required)
	require.Equal(t, "#/components/schemas/App", body.Schema.Ref)

	item, _ := doc.PathItem("/apps/{appid}")
	require.Len(t, item.Get.Parameters, 2)
	appid := item.Get.Parameters[0]
	require.Equal(t, "appid", appid.Name)
	require.Equal(t, "string", appid.Type)
	require.Nil(t, appid.Schema)

	filter := item.Get.Parameters[1]
	require.Equal(t, "filter", filter.Name)
	require.Empty(t, filter.Type)
	require.Equal(t, "#/components/schemas/Filter", filter.Schema.Ref)

	require.True(t, item.Get.DefaultResponse)
	require.Equal(t, []model.Response{{StatusCode: "200", Description: "one app"}}, item.Get.Responses)

	app, err := doc.Resolve("#/components/schemas/App")
	require.NoError(t, err)
	require.Len(t, app.Properties, 2)
}

func TestMergeParameters(t *testing.T) {
	shared := []model.Parameter{
		{Name: "id", In: model.LocationPath, Type: "string"},
		{Name: "limit", In: model.LocationQuery, Type: "integer"},
	}
	own := []model.Parameter{
		{Name: "limit", In: model.LocationQuery, Type: "number"},
		{Name: "id", In: model.LocationQuery, Type: "string"},
	}

	got := mergeParameters(shared, own)
	require.Equal(t, []model.Parameter{
		{Name: "id", In: model.LocationPath, Type: "string"},
		{Name: "limit", In: model.LocationQuery, Type: "number"},
		{Name: "id", In: model.LocationQuery, Type: "string"},
	}, got)
	require.Len(t, shared, 2)
	require.Equal(t, "integer", shared[1].Type)
}

const parameterShapesSpec = `openapi: 3.0.3
info:
  title: Shapes
  version: "1.0"
paths:
  /items/{itemid}:
    get:
      parameters:
        - name: itemid
          in: path
          required: true
          schema:
            $ref: '#/components/schemas/ItemID'
        - name: filter
          in: query
          content:
            text/plain:
              schema:
                type: string
            application/json:
              schema:
                type: object
                properties:
                  tag:
                    type: string
        - name: sort
          in: query
          content:
            text/plain:
              schema:
                type: string
        - name: owner
          in: query
          schema:
            $ref: '#/components/schemas/Owner'
      responses:
        "200":
          description: one item
components:
  schemas:
    ItemID:
      type: string
      format: uuid
    Owner:
      type: object
      properties:
        name:
          type: string
`

func TestTransformOpenAPIParameterShapes(t *testing.T) {
	doc := loadDocument(t, parameterShapesSpec)
	item, ok := doc.PathItem("/items/{itemid}")
	require.True(t, ok)
	require.Len(t, item.Get.Parameters, 4)

	tests := []struct {
		name       string
		wantType   string
		wantFormat string
		wantSchema model.SchemaType
		wantRef    string
	}{
		{name: "itemid", wantType: "string", wantFormat: "uuid"},
		{name: "filter", wantSchema: model.TypeObject},
		{name: "sort", wantType: "string"},
		{name: "owner", wantRef: "#/components/schemas/Owner"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := item.Get.Parameters[i]
			require.Equal(t, tt.name, param.Name)
			require.Equal(t, tt.wantType, param.Type)
			require.Equal(t, tt.wantFormat, param.Format)

			if tt.wantSchema == "" && tt.wantRef == "" {
				require.Nil(t, param.Schema)
				return
			}
			require.NotNil(t, param.Schema)
			require.Equal(t, tt.wantRef, param.Schema.Ref)
			if tt.wantSchema != "" {
				require.Equal(t, tt.wantSchema, param.Schema.Type)
				tag, ok := param.Schema.Property("tag")
				require.True(t, ok)
				require.Equal(t, model.TypeString, tag.Type)
			}
		})
	}
}
