package converters

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFormat      = "pdf"
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

// pdfBadgeColors maps badge variants to fill colors.
var pdfBadgeColors = map[string][3]int{
	"success":   {0, 164, 0},
	"info":      {46, 140, 255},
	"danger":    {250, 56, 62},
	"secondary": {128, 128, 128},
}

// PDFConverter renders the explorer page to PDF. Only what is expanded in the
// state is printed, so the document mirrors what the page shows.
type PDFConverter struct {
	pdf      *gofpdf.Fpdf
	tocItems []tocItem
	tocIndex int
}

type tocItem struct {
	title  string
	level  int
	linkID int
}

// NewPDFConverter creates a new PDF converter.
func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

// Format returns the output format name.
func (c *PDFConverter) Format() string {
	return pdfFormat
}

// Convert writes state as a PDF document.
func (c *PDFConverter) Convert(state view.State, output io.Writer) error {
	c.pdf = gofpdf.New("P", "mm", "A4", "")
	c.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	c.pdf.SetDrawColor(180, 180, 180)
	c.tocItems = nil
	c.tocIndex = 0

	page := state.Page
	if page == nil {
		c.addStatusPage(state)
		return c.pdf.Output(output)
	}

	c.collectTOC(page)
	c.addTitlePage(page)
	c.addTableOfContents()
	c.addContent(page)

	return c.pdf.Output(output)
}

func (c *PDFConverter) addStatusPage(state view.State) {
	c.pdf.AddPage()
	c.pdf.SetFont("Arial", "B", 14)
	if state.IsError() {
		c.pdf.SetTextColor(250, 56, 62)
	}
	c.pdf.MultiCell(pdfPageWidth, 8, statusLine(state), "", "", false)
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) collectTOC(page *view.Page) {
	c.tocItems = append(c.tocItems, tocItem{title: "Overview", level: 1, linkID: c.pdf.AddLink()})
	c.tocItems = append(c.tocItems, tocItem{title: "Endpoints", level: 1, linkID: c.pdf.AddLink()})

	for _, g := range page.Groups {
		c.tocItems = append(c.tocItems, tocItem{title: formatGroupTitle(g), level: 2, linkID: c.pdf.AddLink()})

		for _, ep := range g.Endpoints {
			title := fmt.Sprintf("%s %s", formatMethod(ep.Method), ep.Path)
			c.tocItems = append(c.tocItems, tocItem{title: title, level: 3, linkID: c.pdf.AddLink()})
		}
	}
}

func (c *PDFConverter) addTitlePage(page *view.Page) {
	c.pdf.AddPage()

	c.pdf.SetFont("Arial", "B", 28)
	c.pdf.Ln(40)
	c.pdf.CellFormat(pdfPageWidth, 15, page.Title, "", 1, "C", false, 0, "")
	c.pdf.Ln(5)

	c.pdf.SetFont("Arial", "", 14)
	c.pdf.SetTextColor(100, 100, 100)
	c.pdf.CellFormat(pdfPageWidth, 8, fmt.Sprintf("Version %s", page.Version), "", 1, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Ln(20)

	if page.Description != "" {
		c.pdf.SetFont("Arial", "", 11)
		c.pdf.MultiCell(pdfPageWidth, 6, stripHTML(page.Description), "", "C", false)
	}

	c.pdf.Ln(30)

	c.pdf.SetFont("Arial", "", 10)
	c.pdf.SetTextColor(128, 128, 128)
	c.pdf.CellFormat(pdfPageWidth, 6, "API Reference", "", 1, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) addTableOfContents() {
	c.pdf.AddPage()

	c.pdf.SetFont("Arial", "B", 20)
	c.pdf.CellFormat(pdfPageWidth, 10, "Table of Contents", "", 1, "", false, 0, "")
	c.pdf.Ln(8)

	for _, item := range c.tocItems {
		indent := float64(item.level-1) * 8

		switch item.level {
		case 1:
			c.pdf.SetFont("Arial", "B", 12)
		case 2:
			c.pdf.SetFont("Arial", "B", 10)
		default:
			c.pdf.SetFont("Arial", "", 9)
		}

		c.pdf.SetX(pdfMarginLeft + indent)
		title := truncate(item.title, 60)
		c.pdf.CellFormat(pdfPageWidth-indent, pdfLineHeight, title, "", 1, "", false, item.linkID, "")
	}
}

func (c *PDFConverter) addContent(page *view.Page) {
	c.pdf.AddPage()
	c.setNextLinkDest()
	c.addSectionHeader("Overview")
	c.addOverview(page)

	c.pdf.AddPage()
	c.setNextLinkDest()
	c.addSectionHeader("Endpoints")

	if page.Empty {
		c.pdf.SetFont("Arial", "I", 10)
		c.pdf.CellFormat(pdfPageWidth, 6, "No endpoints", "", 1, "", false, 0, "")
		return
	}

	for _, g := range page.Groups {
		c.addGroup(g)
	}
}

func (c *PDFConverter) addOverview(page *view.Page) {
	c.pdf.SetFont("Arial", "", 10)

	if page.Description != "" {
		c.pdf.MultiCell(pdfPageWidth, 5, stripHTML(page.Description), "", "", false)
		c.pdf.Ln(4)
	}

	c.addField("Version", page.Version, "")

	if page.Host != "" {
		c.addField("Host", page.Host+page.BasePath, "")
	}

	if page.License != nil {
		text, href := formatLicense(page.License)
		c.addField("License", text, href)
	}

	if page.Contact != nil {
		contact := page.Contact.Name
		if page.Contact.Email != "" {
			contact += " <" + page.Contact.Email + ">"
		}
		href := ""
		if page.Contact.URL != nil && page.Contact.URL.Safe {
			href = page.Contact.URL.URL
		}
		c.addField("Contact", contact, href)
	}

	if page.TermsOfService != "" {
		c.addField("Terms of service", page.TermsOfService, "")
	}
}

// addField prints "label: value", as an external link when href is set.
func (c *PDFConverter) addField(label, value, href string) {
	c.pdf.SetFont("Arial", "B", 10)
	labelWidth := c.pdf.GetStringWidth(label+": ") + 2
	c.pdf.CellFormat(labelWidth, 6, label+":", "", 0, "", false, 0, "")

	c.pdf.SetFont("Arial", "", 10)
	if href != "" {
		c.pdf.SetTextColor(0, 102, 204)
	}
	c.pdf.CellFormat(pdfPageWidth-labelWidth, 6, value, "", 1, "", false, 0, href)
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) addGroup(g view.Group) {
	c.checkPageBreak(30)
	c.setNextLinkDest()

	c.pdf.SetFont("Arial", "B", 14)
	c.pdf.SetFillColor(240, 240, 240)
	c.pdf.CellFormat(pdfPageWidth, 8, pdfMarker(g.Expanded)+" "+formatGroupTitle(g), "", 1, "", true, 0, "")
	c.pdf.Ln(2)

	if g.Description != "" {
		c.pdf.SetFont("Arial", "", 10)
		c.pdf.MultiCell(pdfPageWidth, 5, stripHTML(g.Description), "", "", false)
		c.pdf.Ln(2)
	}

	if !g.Expanded {
		c.pdf.Ln(4)
		return
	}

	c.addEndpointsSummary(g.Endpoints)
	c.pdf.Ln(6)

	for _, ep := range g.Endpoints {
		c.checkPageBreak(30)
		c.setNextLinkDest()
		c.addEndpoint(ep)
	}

	c.pdf.Ln(4)
}

func (c *PDFConverter) addEndpointsSummary(endpoints []view.Endpoint) {
	c.pdf.SetFont("Arial", "B", 9)
	c.pdf.SetFillColor(245, 245, 245)

	colWidths := []float64{20, 75, 95}
	headers := []string{"Method", "Path", "Summary"}

	for i, header := range headers {
		c.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	c.pdf.Ln(-1)

	c.pdf.SetFont("Arial", "", 9)
	for i, ep := range endpoints {
		summary := truncate(stripHTML(ep.Summary), 60)

		var linkIDs []int
		if idx := c.tocIndex + i; idx < len(c.tocItems) {
			linkID := c.tocItems[idx].linkID
			linkIDs = []int{linkID, linkID, linkID}
		}

		contents := []string{formatMethod(ep.Method), ep.Path, summary}
		aligns := []string{"C", "L", "L"}
		c.addTableRow(colWidths, contents, aligns, linkIDs)
	}
}

func (c *PDFConverter) addEndpoint(ep view.Endpoint) {
	c.pdf.SetFont("Arial", "B", 11)

	color, ok := pdfBadgeColors[ep.Badge]
	if !ok {
		color = pdfBadgeColors["secondary"]
	}

	method := formatMethod(ep.Method)
	c.pdf.SetFillColor(color[0], color[1], color[2])
	c.pdf.SetTextColor(255, 255, 255)
	methodWidth := float64(len(method)*3) + 8
	c.pdf.CellFormat(methodWidth, 7, method, "", 0, "C", true, 0, "")

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(pdfPageWidth-methodWidth-10, 7, " "+ep.Path, "", 0, "", false, 0, "")
	c.pdf.CellFormat(10, 7, pdfMarker(ep.Expanded), "", 1, "R", false, 0, "")
	c.pdf.Ln(2)

	if ep.Summary != "" {
		c.pdf.SetFont("Arial", "B", 10)
		c.pdf.MultiCell(pdfPageWidth, 5, stripHTML(ep.Summary), "", "", false)
	}

	if ep.Deprecated {
		c.pdf.SetFont("Arial", "I", 9)
		c.pdf.SetTextColor(230, 167, 0)
		c.pdf.CellFormat(pdfPageWidth, 5, "Deprecated", "", 1, "", false, 0, "")
		c.pdf.SetTextColor(0, 0, 0)
	}

	if ep.Detail != nil {
		c.addDetail(ep.Detail)
	}

	c.pdf.Ln(2)
	c.pdf.SetDrawColor(220, 220, 220)
	c.pdf.Line(pdfMarginLeft, c.pdf.GetY(), pdfMarginLeft+pdfPageWidth, c.pdf.GetY())
	c.pdf.SetDrawColor(180, 180, 180)
	c.pdf.Ln(6)
}

func (c *PDFConverter) addDetail(d *view.Detail) {
	if d.OperationID != "" {
		c.pdf.SetFont("Arial", "", 8)
		c.pdf.SetTextColor(128, 128, 128)
		c.pdf.CellFormat(pdfPageWidth, 4, fmt.Sprintf("Operation ID: %s", d.OperationID), "", 1, "", false, 0, "")
		c.pdf.SetTextColor(0, 0, 0)
	}

	if d.Description != "" {
		c.pdf.SetFont("Arial", "", 9)
		c.pdf.MultiCell(pdfPageWidth, 4, stripHTML(d.Description), "", "", false)
	}
	c.pdf.Ln(2)

	if len(d.Parameters) > 0 {
		c.addSubHeader("Parameters")
		c.addParameterTable(d)
	}

	if d.RequestBody != nil {
		c.addSubHeader("Request Body")
		c.pdf.SetFont("Arial", "", 9)
		c.pdf.MultiCell(pdfPageWidth, 4, formatRequestBody(d.RequestBody), "", "", false)
		c.pdf.Ln(2)
	}

	if len(d.Responses) > 0 {
		c.addSubHeader("Responses")
		c.addResponseTable(d.Responses)
	}
}

func (c *PDFConverter) addSubHeader(title string) {
	c.pdf.SetFont("Arial", "B", 10)
	c.pdf.SetTextColor(60, 60, 60)
	c.pdf.CellFormat(pdfPageWidth, 6, title, "", 1, "", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) addParameterTable(d *view.Detail) {
	c.pdf.SetFont("Arial", "B", 8)
	c.pdf.SetFillColor(245, 245, 245)

	colWidths := []float64{35, 20, 15, 45, 75}
	headers := []string{"Name", "In", "Required", "Type", "Description"}

	for i, header := range headers {
		c.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	c.pdf.Ln(-1)

	c.pdf.SetFont("Arial", "", 8)
	for _, param := range d.Parameters {
		required := "No"
		if param.Required {
			required = "Yes"
		}

		contents := []string{param.Name, param.In, required, param.Type, stripHTML(param.Description)}
		aligns := []string{"L", "L", "C", "L", "L"}
		c.addTableRow(colWidths, contents, aligns, nil)
	}
	c.pdf.Ln(3)
}

func (c *PDFConverter) addResponseTable(responses []view.Response) {
	c.pdf.SetFont("Arial", "B", 8)
	c.pdf.SetFillColor(245, 245, 245)

	colWidths := []float64{25, 165}
	headers := []string{"Status", "Description"}

	for i, header := range headers {
		c.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	c.pdf.Ln(-1)

	c.pdf.SetFont("Arial", "", 8)
	for _, resp := range responses {
		contents := []string{resp.StatusCode, stripHTML(resp.Description)}
		aligns := []string{"C", "L"}
		c.addTableRow(colWidths, contents, aligns, nil)
	}

	for _, resp := range responses {
		if resp.Schema != "" {
			c.addSchema(resp.StatusCode, resp.Schema)
		}
	}

	c.pdf.Ln(3)
}

func (c *PDFConverter) addSchema(status, schema string) {
	c.pdf.Ln(2)
	c.checkPageBreak(30)

	c.pdf.SetFont("Arial", "I", 9)
	c.pdf.SetTextColor(60, 60, 60)
	c.pdf.CellFormat(pdfPageWidth, 6, "Schema ("+status+"):", "", 1, "", false, 0, "")

	c.pdf.SetFont("Courier", "", 8)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetFillColor(250, 250, 250)
	c.pdf.MultiCell(pdfPageWidth, 4, schema, "1", "", true)
}

func (c *PDFConverter) addSectionHeader(title string) {
	c.pdf.SetFont("Arial", "B", 18)
	c.pdf.CellFormat(pdfPageWidth, 10, title, "", 1, "", false, 0, "")
	c.pdf.Ln(4)
}

// setNextLinkDest anchors the next TOC entry at the current position.
func (c *PDFConverter) setNextLinkDest() {
	if c.tocIndex < len(c.tocItems) {
		c.pdf.SetLink(c.tocItems[c.tocIndex].linkID, -1, -1)
	}
	c.tocIndex++
}

func (c *PDFConverter) checkPageBreak(height float64) {
	_, pageHeight := c.pdf.GetPageSize()
	_, _, _, bottomMargin := c.pdf.GetMargins()

	if c.pdf.GetY()+height > pageHeight-bottomMargin-10 {
		c.pdf.AddPage()
	}
}

func (c *PDFConverter) addTableRow(colWidths []float64, contents []string, aligns []string, linkIDs []int) {
	maxLines := 1
	for i, content := range contents {
		lines := c.pdf.SplitLines([]byte(content), colWidths[i])
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	rowHeight := float64(maxLines) * pdfLineHeight
	c.checkPageBreak(rowHeight)

	startX := c.pdf.GetX()
	startY := c.pdf.GetY()

	for i, content := range contents {
		width := colWidths[i]

		align := ""
		if len(aligns) > i {
			align = aligns[i]
		}

		linkID := 0
		if len(linkIDs) > i {
			linkID = linkIDs[i]
		}

		if linkID > 0 {
			c.pdf.SetTextColor(0, 102, 204)
		}

		c.pdf.SetXY(startX, startY)
		c.pdf.MultiCell(width, pdfLineHeight, content, "0", align, false)
		if linkID > 0 {
			c.pdf.Link(startX, startY, width, rowHeight, linkID)
			c.pdf.SetTextColor(0, 0, 0)
		}

		c.pdf.Rect(startX, startY, width, rowHeight, "D")
		startX += width
	}

	c.pdf.SetXY(pdfMarginLeft, startY+rowHeight)
}

// pdfMarker is the disclosure marker; the core fonts have no triangle glyphs.
func pdfMarker(expanded bool) string {
	if expanded {
		return "[-]"
	}

	return "[+]"
}
