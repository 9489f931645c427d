// Package loader decodes Swagger 2.0 and OpenAPI 3.x documents into the
// explorer's domain model, keeping the document order of paths, methods and
// responses.
package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/go-libs/logger"
	"gopkg.in/yaml.v3"
)

// DecodeError reports a payload that was received but could not be read as
// a schema document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode API docs: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(format string, args ...any) *DecodeError {
	return &DecodeError{Err: fmt.Errorf(format, args...)}
}

// Loader decodes fetched payloads.
type Loader struct {
	log logger.ILogger
}

// New creates a Loader that reports recoverable problems to log.
func New(log logger.ILogger) *Loader {
	return &Loader{log: log}
}

// Load decodes data, which may be JSON or YAML. Any failure is a *DecodeError.
// OpenAPI 3 documents are enriched through kin-openapi; when that fails the
// walked document is kept and a warning is logged.
func (l *Loader) Load(data []byte) (*domain.SchemaDocument, error) {
	root, err := parse(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &DecodeError{Err: errors.New("empty document")}
	}

	top := deref(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, &DecodeError{Err: errors.New("document root is not an object")}
	}

	w := &walker{root: top}

	doc, err := w.document()
	if err != nil {
		return nil, err
	}

	if isOpenAPI3(doc.Version) {
		if err := enrichOpenAPI3(data, doc); err != nil {
			l.log.Warningf("Showing %q without OpenAPI 3 details: %v", doc.Info.Title, err)
		}
	}

	return doc, nil
}

// parse reads JSON objects with encoding/json and everything else as YAML.
func parse(data []byte) (*yaml.Node, error) {
	if isJSON(data) {
		return decodeJSON(data)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	return &root, nil
}

func isOpenAPI3(version string) bool {
	return strings.HasPrefix(version, "3.")
}
