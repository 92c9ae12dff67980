package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"github.com/pb33f/libopenapi/datamodel"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

type Result struct {
	Swagger  *libopenapi.DocumentModel[v2.Swagger]
	OpenAPI  *libopenapi.DocumentModel[v3.Document]
	Version  string
	Warnings []string
}

// IsSwagger reports whether the loaded document is a Swagger 2.0 document.
func (r *Result) IsSwagger() bool {
	return r.Swagger != nil
}

type options struct {
	validate bool
	config   *datamodel.DocumentConfiguration
}

type Option func(*options)

// WithValidation validates the document against the OpenAPI specification
// before building the model. Only OpenAPI 3.x documents can be validated.
func WithValidation(validate bool) Option {
	return func(o *options) { o.validate = validate }
}

func LoadFile(path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return load(data, append([]Option{withConfig(config)}, opts...)...)
}

// Load parses an in-memory Swagger 2.0 or OpenAPI 3.x document.
func Load(data []byte, opts ...Option) (*Result, error) {
	return load(data, opts...)
}

func withConfig(config *datamodel.DocumentConfiguration) Option {
	return func(o *options) { o.config = config }
}

func load(data []byte, opts ...Option) (*Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var doc libopenapi.Document
	var err error

	if o.config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, o.config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	result := &Result{Version: version}

	switch {
	case strings.HasPrefix(version, "2."):
		if o.validate {
			result.Warnings = append(result.Warnings, "document validation is only available for OpenAPI 3.x; skipped")
		}
		model, err := doc.BuildV2Model()
		if model == nil {
			return nil, fmt.Errorf("building Swagger model: %w", err)
		}
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
		result.Swagger = model

	case strings.HasPrefix(version, "3."):
		if o.validate {
			if err := validate(doc); err != nil {
				return nil, err
			}
		}
		model, err := doc.BuildV3Model()
		if model == nil {
			return nil, fmt.Errorf("building OpenAPI model: %w", err)
		}
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
		result.OpenAPI = model

	default:
		return nil, fmt.Errorf("unsupported OpenAPI version: %q (only 2.x and 3.x supported)", version)
	}

	return result, nil
}

// ValidationError lists the problems found while validating a document.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid OpenAPI document: " + strings.Join(e.Messages, "; ")
}

func validate(doc libopenapi.Document) error {
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return fmt.Errorf("creating validator: %w", errs[0])
	}

	valid, validationErrs := v.ValidateDocument()
	if valid {
		return nil
	}

	verr := &ValidationError{}
	for _, e := range validationErrs {
		msg := e.Message
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		verr.Messages = append(verr.Messages, msg)
	}
	return verr
}
