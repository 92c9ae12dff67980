package model

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	Responses   []Response
	// DefaultResponse is set when the operation declares a "default" response.
	DefaultResponse bool
	Deprecated      bool
}

type Method string

const (
	MethodGet     Method = "get"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodPatch   Method = "patch"
	MethodHead    Method = "head"
	MethodOptions Method = "options"
)

type ParameterLocation string

const (
	LocationPath     ParameterLocation = "path"
	LocationQuery    ParameterLocation = "query"
	LocationHeader   ParameterLocation = "header"
	LocationCookie   ParameterLocation = "cookie"
	LocationBody     ParameterLocation = "body"
	LocationFormData ParameterLocation = "formData"
)

// Parameter is either fully described inline by Type (path, query, header,
// form parameters) or carries a Schema (the body parameter).
type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Type        string
	Format      string
	Schema      *Schema
}

type Response struct {
	StatusCode  string
	Description string
}
