package loader

import (
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"gopkg.in/yaml.v3"
)

// maxRefDepth bounds chains of local $ref indirections.
const maxRefDepth = 16

// pathFields are path item keys that never hold an operation.
var pathFields = map[string]struct{}{
	"parameters":  {},
	"$ref":        {},
	"servers":     {},
	"summary":     {},
	"description": {},
}

type rawInfo struct {
	Title          string      `yaml:"title"`
	Description    string      `yaml:"description"`
	Version        string      `yaml:"version"`
	TermsOfService string      `yaml:"termsOfService"`
	Contact        *rawContact `yaml:"contact"`
	License        *rawLicense `yaml:"license"`
}

type rawContact struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Email string `yaml:"email"`
}

type rawLicense struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type rawTag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type rawOperation struct {
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	OperationID string   `yaml:"operationId"`
	Deprecated  bool     `yaml:"deprecated"`
	Tags        []string `yaml:"tags"`
}

type rawSchema struct {
	Ref   string     `yaml:"$ref"`
	Type  any        `yaml:"type"` // string, or a list in OpenAPI 3.1
	Items *rawSchema `yaml:"items"`
}

type rawParameter struct {
	Name        string     `yaml:"name"`
	In          string     `yaml:"in"`
	Description string     `yaml:"description"`
	Required    bool       `yaml:"required"`
	Type        string     `yaml:"type"`
	Items       *rawSchema `yaml:"items"`
	Schema      *rawSchema `yaml:"schema"`
}

type rawResponse struct {
	Description string `yaml:"description"`
}

// walker reads the document tree in order.
type walker struct {
	root *yaml.Node
}

func (w *walker) document() (*domain.SchemaDocument, error) {
	doc := &domain.SchemaDocument{}

	if v := lookup(w.root, "swagger"); v != nil {
		doc.Version = v.Value
	}
	if v := lookup(w.root, "openapi"); v != nil {
		doc.Version = v.Value
	}
	if v := lookup(w.root, "host"); v != nil {
		doc.Host = v.Value
	}
	if v := lookup(w.root, "basePath"); v != nil {
		doc.BasePath = v.Value
	}

	if n := lookup(w.root, "info"); n != nil && !isNull(n) {
		var info rawInfo
		if err := n.Decode(&info); err != nil {
			return nil, decodeError("invalid info: %w", err)
		}

		doc.Info = convertInfo(info)
	}

	if n := lookup(w.root, "tags"); n != nil && !isNull(n) {
		var tags []rawTag
		if err := n.Decode(&tags); err != nil {
			return nil, decodeError("invalid tags: %w", err)
		}

		for _, t := range tags {
			doc.Tags = append(doc.Tags, domain.Tag{Name: t.Name, Description: t.Description})
		}
	}

	paths := lookup(w.root, "paths")
	if paths == nil || isNull(paths) {
		return doc, nil
	}

	if paths.Kind != yaml.MappingNode {
		return nil, decodeError("paths is not an object")
	}

	for i := 0; i+1 < len(paths.Content); i += 2 {
		key := paths.Content[i]
		if strings.HasPrefix(key.Value, "x-") {
			continue
		}

		value, err := w.resolve(paths.Content[i+1])
		if err != nil {
			return nil, decodeError("path %q: %w", key.Value, err)
		}

		if value.Kind != yaml.MappingNode {
			return nil, decodeError("path %q is not an object", key.Value)
		}

		item, err := w.pathItem(key.Value, value)
		if err != nil {
			return nil, err
		}

		doc.Paths = append(doc.Paths, item)
	}

	return doc, nil
}

func convertInfo(info rawInfo) domain.Info {
	result := domain.Info{
		Title:          info.Title,
		Description:    info.Description,
		Version:        info.Version,
		TermsOfService: info.TermsOfService,
	}

	if info.Contact != nil {
		result.Contact = &domain.Contact{
			Name:  info.Contact.Name,
			URL:   info.Contact.URL,
			Email: info.Contact.Email,
		}
	}

	if info.License != nil {
		result.License = &domain.License{
			Name: info.License.Name,
			URL:  info.License.URL,
		}
	}

	return result
}

func (w *walker) pathItem(path string, n *yaml.Node) (domain.PathItem, error) {
	item := domain.PathItem{Path: path}

	var shared []domain.Parameter
	if p := lookup(n, "parameters"); p != nil {
		params, err := w.parameters(p)
		if err != nil {
			return item, decodeError("path %q: %w", path, err)
		}

		shared = params
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		method := strings.ToLower(n.Content[i].Value)
		if _, skip := pathFields[method]; skip || strings.HasPrefix(method, "x-") {
			continue
		}

		value := deref(n.Content[i+1])
		if value.Kind != yaml.MappingNode {
			if domain.IsKnownMethod(method) && !isNull(value) {
				return item, decodeError("path %q: %s operation is not an object", path, method)
			}

			continue
		}

		op, err := w.operation(method, value, shared)
		if err != nil {
			return item, decodeError("path %q: %s: %w", path, method, err)
		}

		item.Operations = append(item.Operations, op)
	}

	return item, nil
}

func (w *walker) operation(method string, n *yaml.Node, shared []domain.Parameter) (domain.Operation, error) {
	var raw rawOperation
	if err := n.Decode(&raw); err != nil {
		return domain.Operation{}, err
	}

	op := domain.Operation{
		Method:      method,
		Summary:     raw.Summary,
		Description: raw.Description,
		OperationID: raw.OperationID,
		Deprecated:  raw.Deprecated,
		Tags:        raw.Tags,
	}

	var params []domain.Parameter
	if p := lookup(n, "parameters"); p != nil {
		var err error
		if params, err = w.parameters(p); err != nil {
			return op, err
		}
	}
	op.Parameters = domain.MergeParameters(shared, params)

	if r := lookup(n, "responses"); r != nil {
		responses, err := w.responses(r)
		if err != nil {
			return op, err
		}

		op.Responses = responses
	}

	return op, nil
}

func (w *walker) parameters(n *yaml.Node) ([]domain.Parameter, error) {
	if isNull(n) {
		return nil, nil
	}

	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parameters is not a list")
	}

	params := make([]domain.Parameter, 0, len(n.Content))

	for _, item := range n.Content {
		resolved, err := w.resolve(item)
		if err != nil {
			return nil, err
		}

		var raw rawParameter
		if err := resolved.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid parameter: %w", err)
		}

		params = append(params, domain.Parameter{
			Name:        raw.Name,
			In:          raw.In,
			Description: raw.Description,
			Required:    raw.Required,
			Type:        parameterType(raw),
		})
	}

	return params, nil
}

func parameterType(p rawParameter) string {
	if p.Type != "" {
		if p.Type == "array" && p.Items != nil {
			return fmt.Sprintf("array[%s]", schemaType(p.Items))
		}

		return p.Type
	}

	if p.Schema != nil {
		return schemaType(p.Schema)
	}

	return ""
}

func schemaType(s *rawSchema) string {
	if s.Ref != "" {
		return extractRefName(s.Ref)
	}

	var t string
	switch v := s.Type.(type) {
	case string:
		t = v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		t = strings.Join(parts, "|")
	}

	if t == "array" && s.Items != nil {
		return fmt.Sprintf("array[%s]", schemaType(s.Items))
	}

	return t
}

func (w *walker) responses(n *yaml.Node) ([]domain.Response, error) {
	if isNull(n) {
		return nil, nil
	}

	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("responses is not an object")
	}

	responses := make([]domain.Response, 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		code := n.Content[i].Value
		if strings.HasPrefix(code, "x-") {
			continue
		}

		resolved, err := w.resolve(n.Content[i+1])
		if err != nil {
			return nil, err
		}

		var raw rawResponse
		if err := resolved.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid response %s: %w", code, err)
		}

		resp := domain.Response{StatusCode: code, Description: raw.Description}

		if s := lookup(resolved, "schema"); s != nil && !isNull(s) {
			var payload any
			if err := s.Decode(&payload); err != nil {
				return nil, fmt.Errorf("invalid response %s schema: %w", code, err)
			}

			resp.Schema = payload
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// resolve follows local "#/..." references on n.
func (w *walker) resolve(n *yaml.Node) (*yaml.Node, error) {
	n = deref(n)

	for depth := 0; depth < maxRefDepth; depth++ {
		if n.Kind != yaml.MappingNode {
			return n, nil
		}

		ref := lookup(n, "$ref")
		if ref == nil {
			return n, nil
		}

		if !strings.HasPrefix(ref.Value, "#/") {
			return nil, fmt.Errorf("unsupported reference %q", ref.Value)
		}

		target := pointer(w.root, ref.Value)
		if target == nil {
			return nil, fmt.Errorf("unresolved reference %q", ref.Value)
		}

		n = target
	}

	return nil, fmt.Errorf("reference chain too deep")
}

// pointer evaluates a local JSON pointer such as "#/parameters/limit".
func pointer(root *yaml.Node, ref string) *yaml.Node {
	current := root

	for _, token := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")

		current = lookup(current, token)
		if current == nil {
			return nil
		}
	}

	return current
}

// lookup returns the value for key in a mapping node, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1])
		}
	}

	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func extractRefName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}
