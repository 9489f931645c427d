package converters

import (
	"embed"
	"fmt"
	"hash/fnv"
	"html/template"
	"io"
	"net/url"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
)

const htmlFormat = "html"

// Paths the interactive page issues toggle requests to.
const (
	GroupTogglePath    = "/toggle/group"
	EndpointTogglePath = "/toggle/endpoint"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLConverter renders the explorer page as HTML. When interactive, group and
// endpoint headers carry htmx toggle requests that swap the affected fragment.
type HTMLConverter struct {
	interactive bool
	tmpl        *template.Template
}

// NewHTMLConverter creates a new HTMLConverter.
func NewHTMLConverter(interactive bool) *HTMLConverter {
	c := &HTMLConverter{interactive: interactive}

	funcs := template.FuncMap{
		"interactive": func() bool { return c.interactive },
		"domID":       DomID,
		"marker":      disclosureMarker,
		"groupURL":    GroupToggleURL,
		"endpointURL": func(ep view.Endpoint) string { return EndpointToggleURL(ep.Tag, ep.Path, ep.Method) },
		"requestBody": formatRequestBody,
	}

	c.tmpl = template.Must(template.New("explorer").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))

	return c
}

// Format returns the output format name.
func (c *HTMLConverter) Format() string {
	return htmlFormat
}

// Convert writes the full HTML document for state.
func (c *HTMLConverter) Convert(state view.State, output io.Writer) error {
	return c.execute(output, "page", state)
}

// RenderContent writes the page body without the surrounding document.
func (c *HTMLConverter) RenderContent(state view.State, output io.Writer) error {
	return c.execute(output, "content", state)
}

// RenderGroup writes the fragment of a single group.
func (c *HTMLConverter) RenderGroup(group view.Group, output io.Writer) error {
	return c.execute(output, "group", group)
}

// RenderEndpoint writes the fragment of a single endpoint card.
func (c *HTMLConverter) RenderEndpoint(endpoint view.Endpoint, output io.Writer) error {
	return c.execute(output, "endpoint", endpoint)
}

func (c *HTMLConverter) execute(output io.Writer, name string, data any) error {
	if err := c.tmpl.ExecuteTemplate(output, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	return nil
}

// GroupToggleURL returns the request path that toggles a group.
func GroupToggleURL(tag string) string {
	return GroupTogglePath + "?" + url.Values{"tag": {tag}}.Encode()
}

// EndpointToggleURL returns the request path that toggles an endpoint.
func EndpointToggleURL(tag, path, method string) string {
	return EndpointTogglePath + "?" + url.Values{
		"tag":    {tag},
		"path":   {path},
		"method": {method},
	}.Encode()
}

// DomID returns a stable element id for a disclosure key. Keys contain
// characters that are not valid in CSS selectors, so they are hashed.
func DomID(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))

	prefix := "e"
	if _, _, _, ok := domain.SplitEndpointKey(key); !ok {
		prefix = "g"
	}

	return fmt.Sprintf("%s-%x", prefix, h.Sum64())
}

func disclosureMarker(expanded bool) string {
	if expanded {
		return "▼"
	}

	return "▶"
}
