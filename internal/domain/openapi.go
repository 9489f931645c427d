// Package domain provides the core models of the API explorer: the loaded
// schema document, its tag grouping and the disclosure registers.
package domain

import "strings"

// Recognised HTTP method tokens, in the order operations are usually listed.
var KnownMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// SchemaDocument represents a loaded Swagger 2.0 or OpenAPI 3.x document.
// It is never mutated after loading; a reload replaces it.
type SchemaDocument struct {
	Version  string // value of "swagger" or "openapi"
	Info     Info
	Host     string
	BasePath string
	Tags     []Tag
	Paths    []PathItem // document order
}

// Info holds the document metadata.
type Info struct {
	Title          string
	Description    string
	Version        string
	TermsOfService string
	Contact        *Contact
	License        *License
}

// Contact holds the API contact details.
type Contact struct {
	Name  string
	URL   string
	Email string
}

// License holds the API license. URL comes from fetched content and is untrusted.
type License struct {
	Name string
	URL  string
}

// Tag represents a document-level tag declaration.
type Tag struct {
	Name        string
	Description string
}

// PathItem represents one path and its operations in document order.
type PathItem struct {
	Path       string
	Operations []Operation
}

// Operation looks up the operation for a method token, case-insensitively.
func (p *PathItem) Operation(method string) (*Operation, bool) {
	method = strings.ToLower(method)
	for i := range p.Operations {
		if p.Operations[i].Method == method {
			return &p.Operations[i], true
		}
	}

	return nil, false
}

// Operation represents an HTTP operation on a path.
type Operation struct {
	Method      string // lower case; may be a token outside KnownMethods
	Summary     string
	Description string
	OperationID string
	Deprecated  bool
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
}

// Parameter represents a request parameter. (Name, In) is its key.
type Parameter struct {
	Name        string
	In          string // query, path, header, body, formData, cookie
	Description string
	Required    bool
	Type        string
}

// Key returns the (name, in) identity of the parameter.
func (p Parameter) Key() string {
	return p.In + ":" + p.Name
}

// RequestBody represents an OpenAPI 3 request body.
type RequestBody struct {
	Description  string
	Required     bool
	ContentTypes []string
}

// Response represents a response keyed by status code.
type Response struct {
	StatusCode  string
	Description string
	Schema      any // opaque payload, displayed as-is
}

// IsKnownMethod reports whether method is one of the recognised HTTP tokens.
func IsKnownMethod(method string) bool {
	method = strings.ToLower(method)
	for _, m := range KnownMethods {
		if m == method {
			return true
		}
	}

	return false
}

// MergeParameters returns the path-level parameters overlaid with the
// operation-level ones. An operation parameter replaces a path parameter
// with the same (name, in) key and keeps the path parameter's position.
func MergeParameters(pathParams, opParams []Parameter) []Parameter {
	if len(pathParams) == 0 {
		return opParams
	}

	merged := make([]Parameter, 0, len(pathParams)+len(opParams))
	position := make(map[string]int, len(pathParams)+len(opParams))

	for _, p := range pathParams {
		if i, ok := position[p.Key()]; ok {
			merged[i] = p
			continue
		}
		position[p.Key()] = len(merged)
		merged = append(merged, p)
	}

	for _, p := range opParams {
		if i, ok := position[p.Key()]; ok {
			merged[i] = p
			continue
		}
		position[p.Key()] = len(merged)
		merged = append(merged, p)
	}

	return merged
}
