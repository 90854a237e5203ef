package openapi

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Endpoint describes a single API operation for the convenience helpers
// [Get], [Post], [Put], [Patch], and [Delete].
type Endpoint struct {
	Summary     string
	Description string
	// Request is a single request body: a Go value, *openapi3.Schema or
	// *openapi3.SchemaRef.
	Request any
	// Requests are alternative request bodies, combined with oneOf.
	Requests []any
	// MediaTypes lists the content types the body is declared under.
	// Default application/json.
	MediaTypes []string
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(vs ...any) *openapi3.RequestBodyRef {
	o, err := NewRequest(nil, vs...)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest builds a request body from the given values. More than one
// value yields a oneOf wrapper schema. The body is declared under every
// media type in mediaTypes (application/json when empty).
func NewRequest(mediaTypes []string, vs ...any) (*openapi3.RequestBodyRef, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}
	if len(mediaTypes) == 0 {
		mediaTypes = []string{"application/json"}
	}

	refs := make(openapi3.SchemaRefs, 0, len(vs))
	for _, v := range vs {
		ref, err := schemaRef(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	schema := refs[0]
	if len(refs) > 1 {
		schema = &openapi3.SchemaRef{Value: &openapi3.Schema{OneOf: refs}}
	}

	content := openapi3.Content{}
	for _, mt := range mediaTypes {
		content[mt] = &openapi3.MediaType{Schema: schema}
	}
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{Content: content},
	}, nil
}

func schemaRef(v any) (*openapi3.SchemaRef, error) {
	switch s := v.(type) {
	case *openapi3.SchemaRef:
		return s, nil
	case *openapi3.Schema:
		return &openapi3.SchemaRef{Value: s}, nil
	default:
		return NewSchemaRefForValue(v)
	}
}

// DocBase returns a basic OpenAPI 3.0.3 document structure.
func DocBase(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths:      &openapi3.Paths{},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
}

// AddSchema registers s under #/components/schemas/name and returns a
// reference to it.
func AddSchema(doc *openapi3.T, name string, s *openapi3.Schema) *openapi3.SchemaRef {
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	doc.Components.Schemas[name] = &openapi3.SchemaRef{Value: s}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
}

// AddPath adds an operation to the OpenAPI spec at the given path and method.
func AddPath(path, method string, s *openapi3.T, op *openapi3.Operation) {
	p := s.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}
	p.SetOperation(method, op)
	s.Paths.Set(path, p)
}

// addEndpoint builds an [openapi3.Operation] from ep and registers it at path+method.
func addEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Responses:   openapi3.NewResponses(),
	}

	var (
		body *openapi3.RequestBodyRef
		err  error
	)
	switch {
	case len(ep.Requests) > 0:
		body, err = NewRequest(ep.MediaTypes, ep.Requests...)
	case ep.Request != nil:
		body, err = NewRequest(ep.MediaTypes, ep.Request)
	}
	if err != nil {
		panic(err)
	}
	op.RequestBody = body

	AddPath(path, method, doc, op)
}

// Get registers a GET endpoint on doc.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodGet, operationID, ep)
}

// Post registers a POST endpoint on doc.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPost, operationID, ep)
}

// Put registers a PUT endpoint on doc.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPut, operationID, ep)
}

// Patch registers a PATCH endpoint on doc.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPatch, operationID, ep)
}

// Delete registers a DELETE endpoint on doc.
func Delete(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodDelete, operationID, ep)
}
