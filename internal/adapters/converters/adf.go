package converters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
)

const adfFormat = "confluence"

// ADFConverter renders the explorer page to Atlassian Document Format (ADF)
// for Confluence.
type ADFConverter struct{}

// NewADFConverter creates a new ADF converter.
func NewADFConverter() *ADFConverter {
	return &ADFConverter{}
}

// Format returns the output format name.
func (c *ADFConverter) Format() string {
	return adfFormat
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level    int    `json:"level,omitempty"`
	Language string `json:"language,omitempty"`
}

type adfMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Convert writes state as ADF JSON.
func (c *ADFConverter) Convert(state view.State, output io.Writer) error {
	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{},
	}

	if page := state.Page; page != nil {
		adf.Content = append(adf.Content, c.pageNodes(page)...)
	} else {
		adf.Content = append(adf.Content, c.paragraph(statusLine(state)))
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (c *ADFConverter) pageNodes(page *view.Page) []adfNode {
	nodes := []adfNode{
		c.heading(page.Title, 1),
		c.paragraph(fmt.Sprintf("Version: %s", page.Version)),
	}

	if page.Description != "" {
		nodes = append(nodes, c.heading("Description", 2), c.paragraph(stripHTML(page.Description)))
	}

	if page.License != nil {
		text, href := formatLicense(page.License)
		nodes = append(nodes, adfNode{
			Type:    "paragraph",
			Content: []adfNode{c.boldText("License: "), c.linkText(text, href)},
		})
	}

	nodes = append(nodes, c.heading("Endpoints", 2))

	if page.Empty {
		return append(nodes, c.paragraph("No endpoints"))
	}

	for _, g := range page.Groups {
		nodes = append(nodes, c.heading(formatGroupTitle(g), 3))

		if g.Description != "" {
			nodes = append(nodes, c.paragraph(stripHTML(g.Description)))
		}

		for _, ep := range g.Endpoints {
			nodes = append(nodes, c.endpointNodes(ep)...)
		}
	}

	return nodes
}

func (c *ADFConverter) heading(text string, level int) adfNode {
	return adfNode{
		Type:  "heading",
		Attrs: &adfAttrs{Level: level},
		Content: []adfNode{
			{Type: "text", Text: text},
		},
	}
}

func (c *ADFConverter) paragraph(text string) adfNode {
	return adfNode{
		Type: "paragraph",
		Content: []adfNode{
			{Type: "text", Text: text},
		},
	}
}

func (c *ADFConverter) boldText(text string) adfNode {
	return adfNode{
		Type: "text",
		Text: text,
		Marks: []adfMark{
			{Type: "strong"},
		},
	}
}

func (c *ADFConverter) codeText(text string) adfNode {
	return adfNode{
		Type: "text",
		Text: text,
		Marks: []adfMark{
			{Type: "code"},
		},
	}
}

// linkText returns plain text when href is empty.
func (c *ADFConverter) linkText(text, href string) adfNode {
	node := adfNode{Type: "text", Text: text}
	if href != "" {
		node.Marks = []adfMark{{Type: "link", Attrs: map[string]any{"href": href}}}
	}

	return node
}

func (c *ADFConverter) endpointNodes(ep view.Endpoint) []adfNode {
	nodes := []adfNode{c.heading(fmt.Sprintf("%s %s", formatMethod(ep.Method), ep.Path), 4)}

	if ep.Summary != "" {
		nodes = append(nodes, adfNode{
			Type:    "paragraph",
			Content: []adfNode{c.boldText(ep.Summary)},
		})
	}

	if ep.Deprecated {
		nodes = append(nodes, c.paragraph("Deprecated"))
	}

	if d := ep.Detail; d != nil {
		if d.OperationID != "" {
			nodes = append(nodes, adfNode{
				Type:    "paragraph",
				Content: []adfNode{{Type: "text", Text: "Operation ID: "}, c.codeText(d.OperationID)},
			})
		}

		if d.Description != "" {
			nodes = append(nodes, c.paragraph(stripHTML(d.Description)))
		}

		if len(d.Parameters) > 0 {
			nodes = append(nodes, c.heading("Parameters", 5), c.parameterList(d.Parameters))
		}

		if d.RequestBody != nil {
			nodes = append(nodes, c.heading("Request Body", 5), c.paragraph(formatRequestBody(d.RequestBody)))
		}

		if len(d.Responses) > 0 {
			nodes = append(nodes, c.heading("Responses", 5), c.responseList(d.Responses))
			for _, resp := range d.Responses {
				if resp.Schema != "" {
					nodes = append(nodes, c.codeBlock(resp.Schema))
				}
			}
		}
	}

	// Divider between endpoints
	return append(nodes, adfNode{Type: "rule"})
}

func (c *ADFConverter) codeBlock(text string) adfNode {
	return adfNode{
		Type:    "codeBlock",
		Attrs:   &adfAttrs{Language: "json"},
		Content: []adfNode{{Type: "text", Text: text}},
	}
}

func (c *ADFConverter) parameterList(params []domain.Parameter) adfNode {
	items := make([]adfNode, 0, len(params))

	for _, param := range params {
		required := ""
		if param.Required {
			required = " (required)"
		}

		text := fmt.Sprintf(" (%s)%s", param.In, required)
		if param.Type != "" {
			text += " " + param.Type
		}
		if param.Description != "" {
			text += ": " + stripHTML(param.Description)
		}

		items = append(items, adfNode{
			Type: "listItem",
			Content: []adfNode{
				{
					Type:    "paragraph",
					Content: []adfNode{c.codeText(param.Name), {Type: "text", Text: text}},
				},
			},
		})
	}

	return adfNode{
		Type:    "bulletList",
		Content: items,
	}
}

func (c *ADFConverter) responseList(responses []view.Response) adfNode {
	items := make([]adfNode, 0, len(responses))

	for _, resp := range responses {
		items = append(items, adfNode{
			Type: "listItem",
			Content: []adfNode{
				{
					Type: "paragraph",
					Content: []adfNode{
						c.codeText(resp.StatusCode),
						{Type: "text", Text: fmt.Sprintf(": %s", stripHTML(resp.Description))},
					},
				},
			},
		})
	}

	return adfNode{
		Type:    "bulletList",
		Content: items,
	}
}
