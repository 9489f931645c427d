package converters

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const docxFormat = "docx"

// DocxConverter renders the explorer page to Word (DOCX) format.
type DocxConverter struct{}

// NewDocxConverter creates a new DOCX converter.
func NewDocxConverter() *DocxConverter {
	return &DocxConverter{}
}

// Format returns the output format name.
func (c *DocxConverter) Format() string {
	return docxFormat
}

// Convert writes state as a DOCX document.
func (c *DocxConverter) Convert(state view.State, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	if page := state.Page; page != nil {
		c.addTitle(document, page)
		c.addOverview(document, page)
		c.addGroups(document, page)
	} else {
		document.AddParagraph(statusLine(state))
	}

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (c *DocxConverter) addTitle(document *docx.RootDoc, page *view.Page) {
	_, _ = document.AddHeading(page.Title, 0)
	document.AddParagraph(fmt.Sprintf("Version: %s", page.Version))
	document.AddEmptyParagraph()
}

func (c *DocxConverter) addOverview(document *docx.RootDoc, page *view.Page) {
	if page.Description != "" {
		_, _ = document.AddHeading("Description", 1)
		document.AddParagraph(stripHTML(page.Description))
	}

	if page.Host != "" {
		document.AddParagraph(fmt.Sprintf("Host: %s%s", page.Host, page.BasePath))
	}

	if page.License != nil {
		text, href := formatLicense(page.License)
		if href != "" {
			text = fmt.Sprintf("%s (%s)", text, href)
		}
		document.AddParagraph("License: " + text)
	}

	if page.Contact != nil {
		contact := page.Contact.Name
		if page.Contact.Email != "" {
			contact += " <" + page.Contact.Email + ">"
		}
		document.AddParagraph("Contact: " + contact)
	}

	document.AddEmptyParagraph()
}

func (c *DocxConverter) addGroups(document *docx.RootDoc, page *view.Page) {
	_, _ = document.AddHeading("Endpoints", 1)

	if page.Empty {
		document.AddParagraph("No endpoints")
		return
	}

	for _, g := range page.Groups {
		_, _ = document.AddHeading(formatGroupTitle(g), 2)

		if g.Description != "" {
			document.AddParagraph(stripHTML(g.Description))
		}

		for _, ep := range g.Endpoints {
			c.addEndpoint(document, ep)
		}
	}
}

func (c *DocxConverter) addEndpoint(document *docx.RootDoc, ep view.Endpoint) {
	_, _ = document.AddHeading(fmt.Sprintf("%s %s", formatMethod(ep.Method), ep.Path), 3)

	if ep.Summary != "" {
		document.AddParagraph(ep.Summary)
	}

	if ep.Deprecated {
		document.AddParagraph("Deprecated")
	}

	if d := ep.Detail; d != nil {
		if d.OperationID != "" {
			document.AddParagraph(fmt.Sprintf("Operation ID: %s", d.OperationID))
		}

		if d.Description != "" {
			document.AddParagraph(stripHTML(d.Description))
		}

		if len(d.Parameters) > 0 {
			_, _ = document.AddHeading("Parameters", 4)
			for _, param := range d.Parameters {
				document.AddParagraph(fmt.Sprintf("• %s", formatParameter(param)))
			}
		}

		if d.RequestBody != nil {
			_, _ = document.AddHeading("Request Body", 4)
			document.AddParagraph(formatRequestBody(d.RequestBody))
		}

		if len(d.Responses) > 0 {
			_, _ = document.AddHeading("Responses", 4)
			for _, resp := range d.Responses {
				document.AddParagraph(fmt.Sprintf("• %s", formatResponse(resp)))
				if resp.Schema != "" {
					document.AddParagraph(resp.Schema)
				}
			}
		}
	}

	document.AddEmptyParagraph()
}
