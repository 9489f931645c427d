package loader

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(data string) (*domain.SchemaDocument, error) {
	return New(logger.NewConsoleLogger(io.Discard)).Load([]byte(data))
}

const swaggerJSON = `{
  "swagger": "2.0",
  "info": {
    "title": "Enclave API",
    "description": "Runs isolated tasks",
    "version": "1.2.0",
    "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"}
  },
  "host": "api.example.com",
  "basePath": "/v1",
  "tags": [{"name": "Users", "description": "User management"}],
  "parameters": {
    "limit": {"name": "limit", "in": "query", "type": "integer", "description": "page size"}
  },
  "responses": {
    "NotFound": {"description": "resource not found"}
  },
  "paths": {
    "/users": {
      "get": {
        "summary": "List users",
        "tags": ["Users"],
        "parameters": [{"$ref": "#/parameters/limit"}],
        "responses": {
          "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}},
          "404": {"$ref": "#/responses/NotFound"}
        }
      },
      "post": {
        "summary": "Create user",
        "parameters": [
          {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/User"}}
        ],
        "responses": {"201": {"description": "Created"}}
      }
    },
    "/users/{id}": {
      "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
      "delete": {
        "tags": ["Users", "Admin"],
        "parameters": [{"name": "ids", "in": "query", "type": "array", "items": {"type": "string"}}],
        "responses": {"204": {"description": "Deleted"}}
      },
      "purge": {"summary": "Custom verb"}
    }
  }
}`

func TestLoad_Swagger2(t *testing.T) {
	doc, err := load(swaggerJSON)
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, "Enclave API", doc.Info.Title)
	assert.Equal(t, "1.2.0", doc.Info.Version)
	require.NotNil(t, doc.Info.License)
	assert.Equal(t, "MIT", doc.Info.License.Name)
	assert.Equal(t, "api.example.com", doc.Host)
	assert.Equal(t, "/v1", doc.BasePath)
	assert.Equal(t, []domain.Tag{{Name: "Users", Description: "User management"}}, doc.Tags)

	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/users", doc.Paths[0].Path)
	assert.Equal(t, "/users/{id}", doc.Paths[1].Path)

	users := doc.Paths[0]
	require.Len(t, users.Operations, 2)
	assert.Equal(t, "get", users.Operations[0].Method)
	assert.Equal(t, "post", users.Operations[1].Method)
	assert.Empty(t, users.Operations[1].Tags)

	list := users.Operations[0]
	require.Len(t, list.Parameters, 1)
	assert.Equal(t, domain.Parameter{Name: "limit", In: "query", Type: "integer", Description: "page size"}, list.Parameters[0])

	require.Len(t, list.Responses, 2)
	assert.Equal(t, "200", list.Responses[0].StatusCode)
	assert.NotNil(t, list.Responses[0].Schema)
	assert.Equal(t, "404", list.Responses[1].StatusCode)
	assert.Equal(t, "resource not found", list.Responses[1].Description)

	create := users.Operations[1]
	require.Len(t, create.Parameters, 1)
	assert.Equal(t, "User", create.Parameters[0].Type)
	assert.True(t, create.Parameters[0].Required)
}

func TestLoad_PathLevelParametersAndOpaqueMethods(t *testing.T) {
	doc, err := load(swaggerJSON)
	require.NoError(t, err)

	item := doc.Paths[1]
	require.Len(t, item.Operations, 2)

	del, ok := item.Operation("delete")
	require.True(t, ok)
	require.Len(t, del.Parameters, 2)
	assert.Equal(t, "id", del.Parameters[0].Name)
	assert.Equal(t, "path", del.Parameters[0].In)
	assert.Equal(t, "array[string]", del.Parameters[1].Type)
	assert.Equal(t, []string{"Users", "Admin"}, del.Tags)

	purge, ok := item.Operation("purge")
	require.True(t, ok)
	assert.Equal(t, "Custom verb", purge.Summary)
	require.Len(t, purge.Parameters, 1)
}

func TestLoad_YAML(t *testing.T) {
	data := `
swagger: "2.0"
info:
  title: YAML API
  version: "0.1"
paths:
  /b:
    post:
      tags: [b]
  /a:
    get:
      tags: [a]
`
	doc, err := load(data)
	require.NoError(t, err)

	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/b", doc.Paths[0].Path)
	assert.Equal(t, "/a", doc.Paths[1].Path)
}

func TestLoad_EmptyPaths(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty object", data: `{"swagger":"2.0","info":{"title":"x"},"paths":{}}`},
		{name: "null", data: `{"swagger":"2.0","paths":null}`},
		{name: "missing", data: `{"swagger":"2.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := load(tt.data)
			require.NoError(t, err)
			assert.Empty(t, doc.Paths)
		})
	}
}

func TestLoad_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{"swagger": `},
		{name: "empty", data: ``},
		{name: "root is a list", data: `[1, 2]`},
		{name: "paths is a list", data: `{"paths": []}`},
		{name: "path entry is not an object", data: `{"paths": {"/users": "nope"}}`},
		{name: "known method is not an object", data: `{"paths": {"/users": {"get": 5}}}`},
		{name: "tags is not a list", data: `{"paths": {"/users": {"get": {"tags": {"a": 1}}}}}`},
		{name: "unresolved reference", data: `{"paths": {"/u": {"get": {"parameters": [{"$ref": "#/parameters/nope"}]}}}}`},
		{name: "external reference", data: `{"paths": {"/u": {"get": {"parameters": [{"$ref": "other.json#/p"}]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := load(tt.data)
			assert.Nil(t, doc)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "expected DecodeError, got %v", err)
		})
	}
}

func TestLoad_ReferenceCycle(t *testing.T) {
	data := `{
  "parameters": {"a": {"$ref": "#/parameters/b"}, "b": {"$ref": "#/parameters/a"}},
  "paths": {"/u": {"get": {"parameters": [{"$ref": "#/parameters/a"}]}}}
}`
	_, err := load(data)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

const openAPI3YAML = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets/{id}:
    parameters:
      - $ref: '#/components/parameters/PetID'
    get:
      summary: Get a pet
      tags: [pets]
      responses:
        '200':
          $ref: '#/components/responses/Pet'
        default:
          description: error
    put:
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '204':
          description: updated
components:
  parameters:
    PetID:
      name: id
      in: path
      required: true
      schema:
        type: integer
  responses:
    Pet:
      description: a pet
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func TestLoad_OpenAPI3(t *testing.T) {
	doc, err := load(openAPI3YAML)
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", doc.Version)
	require.Len(t, doc.Paths, 1)

	item := doc.Paths[0]
	require.Len(t, item.Operations, 2)

	get := item.Operations[0]
	assert.Equal(t, "get", get.Method)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, domain.Parameter{Name: "id", In: "path", Required: true, Type: "integer"}, get.Parameters[0])

	require.Len(t, get.Responses, 2)
	assert.Equal(t, "200", get.Responses[0].StatusCode)
	assert.Equal(t, "a pet", get.Responses[0].Description)
	assert.NotNil(t, get.Responses[0].Schema)
	assert.Equal(t, "default", get.Responses[1].StatusCode)

	put := item.Operations[1]
	require.NotNil(t, put.RequestBody)
	assert.True(t, put.RequestBody.Required)
	assert.Equal(t, []string{"application/json"}, put.RequestBody.ContentTypes)
}

func TestLoad_JSONEscapes(t *testing.T) {
	longPath := "/" + strings.Repeat("a", 1100)

	tests := []struct {
		name  string
		data  string
		title string
		path  string
	}{
		{
			name:  "escaped solidus",
			data:  `{"swagger":"2.0","info":{"title":"Users"},"paths":{"\/users":{"get":{}}}}`,
			title: "Users",
			path:  "/users",
		},
		{
			name:  "surrogate pair",
			data:  `{"swagger":"2.0","info":{"title":"rocket \ud83d\ude80"},"paths":{"/launch":{"post":{}}}}`,
			title: "rocket \U0001F680",
			path:  "/launch",
		},
		{
			name:  "long key",
			data:  `{"swagger":"2.0","info":{"title":"Long"},"paths":{"` + longPath + `":{"get":{}}}}`,
			title: "Long",
			path:  longPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := load(tt.data)
			require.NoError(t, err)

			assert.Equal(t, tt.title, doc.Info.Title)
			require.Len(t, doc.Paths, 1)
			assert.Equal(t, tt.path, doc.Paths[0].Path)
			assert.Len(t, doc.Paths[0].Operations, 1)
		})
	}
}

func TestLoad_JSONKeepsOrderAndLastDuplicate(t *testing.T) {
	doc, err := load(`{
  "info": {"title": "first", "title": "second"},
  "paths": {"/b": {"post": {}, "get": {}}, "/a": {"get": {"deprecated": true}}}
}`)
	require.NoError(t, err)

	assert.Equal(t, "second", doc.Info.Title)
	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/b", doc.Paths[0].Path)
	assert.Equal(t, "post", doc.Paths[0].Operations[0].Method)
	assert.Equal(t, "get", doc.Paths[0].Operations[1].Method)
	assert.True(t, doc.Paths[1].Operations[0].Deprecated)
}

func TestLoad_JSONTrailingData(t *testing.T) {
	_, err := load(`{"paths":{}} {"paths":{}}`)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestLoad_PathReference(t *testing.T) {
	doc, err := load(`{
  "x-items": {"p": {"get": {"summary": "shared"}, "delete": {}}},
  "paths": {"/a": {"$ref": "#/x-items/p"}}
}`)
	require.NoError(t, err)

	require.Len(t, doc.Paths, 1)
	ops := doc.Paths[0].Operations
	require.Len(t, ops, 2)
	assert.Equal(t, "shared", ops[0].Summary)
	assert.Equal(t, "delete", ops[1].Method)

	_, err = load(`{"paths": {"/a": {"$ref": "#/x-items/missing"}}}`)
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestLoad_OpenAPI3EnrichmentFailureIsLogged(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "3.1 numeric exclusiveMinimum",
			data: `{
  "openapi": "3.1.0",
  "info": {"title": "Ranges", "version": "1"},
  "paths": {"/n": {"get": {
    "parameters": [{"name": "n", "in": "query", "schema": {"type": "integer", "exclusiveMinimum": 0}}],
    "responses": {"200": {"description": "OK"}}
  }}}
}`,
		},
		{
			name: "broken reference in unused component",
			data: `{
  "openapi": "3.0.3",
  "info": {"title": "Ranges", "version": "1"},
  "paths": {"/n": {"get": {"responses": {"200": {"description": "OK"}}}}},
  "components": {"schemas": {"Unused": {"$ref": "#/components/schemas/Missing"}}}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			doc, err := New(logger.NewConsoleLogger(&out)).Load([]byte(tt.data))
			require.NoError(t, err)

			require.Len(t, doc.Paths, 1)
			require.Len(t, doc.Paths[0].Operations, 1)
			assert.Equal(t, "get", doc.Paths[0].Operations[0].Method)
			assert.Equal(t, "OK", doc.Paths[0].Operations[0].Responses[0].Description)
			assert.Contains(t, out.String(), "without OpenAPI 3 details")
		})
	}
}
