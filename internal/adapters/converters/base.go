// Package converters renders the explorer's display tree to the supported
// output formats.
package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
)

// Converter renders a view state to an output format.
type Converter interface {
	// Convert writes state to output.
	Convert(state view.State, output io.Writer) error

	// Format returns the output format name (e.g., "pdf", "html").
	Format() string
}

// Formats lists the names accepted by New.
var Formats = []string{htmlFormat, textFormat, pdfFormat, docxFormat, adfFormat}

// New returns the converter for a format name.
func New(format string) (Converter, error) {
	switch strings.ToLower(format) {
	case "html":
		return NewHTMLConverter(false), nil
	case "text", "txt":
		return NewTextConverter(), nil
	case "pdf":
		return NewPDFConverter(), nil
	case "docx", "word":
		return NewDocxConverter(), nil
	case "confluence", "adf":
		return NewADFConverter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// formatMethod returns a styled method string.
func formatMethod(method string) string {
	return strings.ToUpper(method)
}

// formatParameter returns a one-line parameter description.
func formatParameter(p domain.Parameter) string {
	var b strings.Builder

	b.WriteString(p.Name)
	if p.Required {
		b.WriteString(" *")
	}
	b.WriteString(fmt.Sprintf(" (%s)", p.In))
	if p.Type != "" {
		b.WriteString(fmt.Sprintf(" Type: %s", p.Type))
	}
	if p.Description != "" {
		b.WriteString(" " + stripHTML(p.Description))
	}

	return b.String()
}

// formatResponse returns a one-line response description.
func formatResponse(r view.Response) string {
	return fmt.Sprintf("%s: %s", r.StatusCode, stripHTML(r.Description))
}

// formatRequestBody returns a one-line request body description.
func formatRequestBody(rb *domain.RequestBody) string {
	parts := make([]string, 0, 3)
	if rb.Required {
		parts = append(parts, "required")
	}
	if len(rb.ContentTypes) > 0 {
		parts = append(parts, strings.Join(rb.ContentTypes, ", "))
	}
	if rb.Description != "" {
		parts = append(parts, stripHTML(rb.Description))
	}

	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " - ")
}

// formatGroupTitle returns the group heading with its endpoint count.
func formatGroupTitle(g view.Group) string {
	return fmt.Sprintf("%s (%d)", g.Label, g.Count)
}

// formatLicense returns the license text and the URL to link to, which is
// empty when the URL is not safe to link.
func formatLicense(l *view.Link) (text, href string) {
	if l.Safe {
		return l.Text, l.URL
	}

	if l.URL != "" && l.URL != l.Text {
		return fmt.Sprintf("%s (%s)", l.Text, l.URL), ""
	}

	return l.Text, ""
}

// statusLine returns the single line shown instead of a page.
func statusLine(state view.State) string {
	switch state.Status {
	case view.StatusLoading:
		return "Loading API documentation..."
	case view.StatusError:
		return "Error: " + state.Message
	default:
		return ""
	}
}

// truncate shortens s to at most limit runes, ending it with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-3]) + "..."
}

func stripHTML(s string) string {
	// Simple HTML tag removal
	result := s
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	// Clean up common HTML entities
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = strings.ReplaceAll(result, "\n\n", "\n")
	return strings.TrimSpace(result)
}
