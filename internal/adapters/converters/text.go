package converters

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/view"
)

const textFormat = "text"

// TextConverter renders the explorer page as an indented terminal tree.
type TextConverter struct{}

// NewTextConverter creates a new text converter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Format returns the output format name.
func (c *TextConverter) Format() string {
	return textFormat
}

// Convert writes state as plain text.
func (c *TextConverter) Convert(state view.State, output io.Writer) error {
	w := bufio.NewWriter(output)

	if state.Page == nil {
		fmt.Fprintln(w, statusLine(state))
	} else {
		c.writePage(w, state.Page)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}

	return nil
}

func (c *TextConverter) writePage(w *bufio.Writer, page *view.Page) {
	fmt.Fprintf(w, "%s (v%s)\n", page.Title, page.Version)

	if page.Description != "" {
		fmt.Fprintln(w, stripHTML(page.Description))
	}

	if page.Host != "" {
		fmt.Fprintf(w, "Host: %s%s\n", page.Host, page.BasePath)
	}

	if page.License != nil {
		text, href := formatLicense(page.License)
		if href != "" {
			text = fmt.Sprintf("%s <%s>", text, href)
		}
		fmt.Fprintf(w, "License: %s\n", text)
	}

	fmt.Fprintln(w)

	if page.Empty {
		fmt.Fprintln(w, "No endpoints")
		return
	}

	for _, g := range page.Groups {
		fmt.Fprintf(w, "%s %s\n", disclosureMarker(g.Expanded), formatGroupTitle(g))

		for _, ep := range g.Endpoints {
			c.writeEndpoint(w, ep)
		}
	}
}

func (c *TextConverter) writeEndpoint(w *bufio.Writer, ep view.Endpoint) {
	line := fmt.Sprintf("    %s %s %s", disclosureMarker(ep.Expanded), formatMethod(ep.Method), ep.Path)
	if ep.Summary != "" {
		line += "  " + stripHTML(ep.Summary)
	}
	if ep.Deprecated {
		line += " [deprecated]"
	}
	fmt.Fprintln(w, line)

	d := ep.Detail
	if d == nil {
		return
	}

	const indent = "        "

	if d.OperationID != "" {
		fmt.Fprintf(w, "%sOperation ID: %s\n", indent, d.OperationID)
	}

	if d.Description != "" {
		fmt.Fprintln(w, indent+stripHTML(d.Description))
	}

	if len(d.Parameters) > 0 {
		fmt.Fprintln(w, indent+"Parameters:")
		for _, p := range d.Parameters {
			fmt.Fprintf(w, "%s  - %s\n", indent, formatParameter(p))
		}
	}

	if d.RequestBody != nil {
		fmt.Fprintf(w, "%sRequest body: %s\n", indent, formatRequestBody(d.RequestBody))
	}

	if len(d.Responses) > 0 {
		fmt.Fprintln(w, indent+"Responses:")
		for _, r := range d.Responses {
			fmt.Fprintf(w, "%s  - %s\n", indent, formatResponse(r))
			if r.Schema != "" {
				for _, l := range strings.Split(r.Schema, "\n") {
					fmt.Fprintf(w, "%s      %s\n", indent, l)
				}
			}
		}
	}
}
