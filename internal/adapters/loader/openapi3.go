package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// enrichOpenAPI3 replaces the walked operation details of an OpenAPI 3
// document with the ones resolved by kin-openapi: component references,
// schema types and request bodies. Document order is kept from the walk.
func enrichOpenAPI3(data []byte, doc *domain.SchemaDocument) error {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return err
	}

	if spec.Paths == nil {
		return nil
	}

	for i := range doc.Paths {
		pathItem := spec.Paths.Value(doc.Paths[i].Path)
		if pathItem == nil {
			continue
		}

		shared := convertParameters(pathItem.Parameters)
		operations := pathItem.Operations()

		for j := range doc.Paths[i].Operations {
			op := &doc.Paths[i].Operations[j]

			typed, ok := operations[strings.ToUpper(op.Method)]
			if !ok || typed == nil {
				continue
			}

			op.Parameters = domain.MergeParameters(shared, convertParameters(typed.Parameters))
			op.RequestBody = convertRequestBody(typed.RequestBody)
			op.Responses = convertResponses(op.Responses, typed.Responses)
		}
	}

	return nil
}

func convertParameters(params openapi3.Parameters) []domain.Parameter {
	var result []domain.Parameter

	for _, param := range params {
		if param == nil || param.Value == nil {
			continue
		}

		result = append(result, domain.Parameter{
			Name:        param.Value.Name,
			In:          param.Value.In,
			Description: param.Value.Description,
			Required:    param.Value.Required,
			Type:        convertSchemaType(param.Value.Schema),
		})
	}

	return result
}

func convertSchemaType(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}

	if ref.Ref != "" {
		return extractRefName(ref.Ref)
	}

	if ref.Value == nil {
		return ""
	}

	types := ref.Value.Type.Slice()
	if len(types) == 0 {
		return ""
	}

	schemaType := strings.Join(types, "|")
	if schemaType == "array" && ref.Value.Items != nil {
		return fmt.Sprintf("array[%s]", convertSchemaType(ref.Value.Items))
	}

	return schemaType
}

func convertRequestBody(body *openapi3.RequestBodyRef) *domain.RequestBody {
	if body == nil || body.Value == nil {
		return nil
	}

	return &domain.RequestBody{
		Description:  body.Value.Description,
		Required:     body.Value.Required,
		ContentTypes: contentTypes(body.Value.Content),
	}
}

// convertResponses fills the walked responses, which carry document order,
// with the resolved descriptions and schemas.
func convertResponses(walked []domain.Response, responses *openapi3.Responses) []domain.Response {
	if responses == nil {
		return walked
	}

	result := make([]domain.Response, 0, len(walked))

	for _, resp := range walked {
		typed := responses.Value(resp.StatusCode)
		if typed == nil || typed.Value == nil {
			result = append(result, resp)
			continue
		}

		if typed.Value.Description != nil {
			resp.Description = *typed.Value.Description
		}

		if media := preferredMedia(typed.Value.Content); media != nil && media.Schema != nil {
			resp.Schema = media.Schema
		}

		result = append(result, resp)
	}

	return result
}

func contentTypes(content openapi3.Content) []string {
	types := make([]string, 0, len(content))
	for mediaType := range content {
		types = append(types, mediaType)
	}
	sort.Strings(types)

	return types
}

func preferredMedia(content openapi3.Content) *openapi3.MediaType {
	if len(content) == 0 {
		return nil
	}

	if media := content.Get("application/json"); media != nil {
		return media
	}

	return content[contentTypes(content)[0]]
}
