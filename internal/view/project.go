package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultUntaggedLabel is shown for the synthetic untagged group.
const DefaultUntaggedLabel = "Other"

// Options tune the projection.
type Options struct {
	UntaggedLabel string
}

// Registers is read-only access to a disclosure register.
type Registers interface {
	IsExpanded(key string) bool
}

// Project builds the page for doc and its grouping. A group lists its
// endpoints only when its group key is expanded; an endpoint carries its
// detail only when its endpoint key is expanded.
func Project(doc *domain.SchemaDocument, grouping *domain.Grouping, groups, endpoints Registers, opts Options) *Page {
	if opts.UntaggedLabel == "" {
		opts.UntaggedLabel = DefaultUntaggedLabel
	}

	page := &Page{
		Title:          doc.Info.Title,
		Description:    doc.Info.Description,
		Version:        doc.Info.Version,
		TermsOfService: doc.Info.TermsOfService,
		Host:           doc.Host,
		BasePath:       doc.BasePath,
		Empty:          grouping.Empty(),
	}

	if l := doc.Info.License; l != nil {
		page.License = NewLink(l.Name, l.URL)
	}

	if c := doc.Info.Contact; c != nil {
		page.Contact = &Contact{Name: c.Name, Email: c.Email}
		if c.URL != "" {
			page.Contact.URL = NewLink(c.URL, c.URL)
		}
	}

	tagDescs := make(map[string]string, len(doc.Tags))
	for _, t := range doc.Tags {
		tagDescs[t.Name] = t.Description
	}

	for _, g := range grouping.Groups() {
		group := Group{
			Key:         domain.GroupKey(g.Tag),
			Tag:         g.Tag,
			Label:       TagLabel(g.Tag, opts.UntaggedLabel),
			Description: tagDescs[g.Tag],
			Count:       g.Len(),
			Expanded:    groups.IsExpanded(domain.GroupKey(g.Tag)),
		}

		if group.Expanded {
			for _, ep := range grouping.Endpoints(g) {
				group.Endpoints = append(group.Endpoints, ProjectEndpoint(g.Tag, ep, endpoints))
			}
		}

		page.Groups = append(page.Groups, group)
	}

	return page
}

// ProjectEndpoint projects one endpoint occurrence of the group tag.
func ProjectEndpoint(tag string, ep domain.Endpoint, endpoints Registers) Endpoint {
	key := domain.EndpointKey(tag, ep.Path, ep.Method)

	endpoint := Endpoint{
		Key:        key,
		Tag:        tag,
		Method:     ep.Method,
		Badge:      BadgeVariant(ep.Method),
		Path:       ep.Path,
		Summary:    ep.Operation.Summary,
		Deprecated: ep.Operation.Deprecated,
		Expanded:   endpoints.IsExpanded(key),
	}

	if endpoint.Expanded {
		endpoint.Detail = projectDetail(ep.Operation)
	}

	return endpoint
}

func projectDetail(op *domain.Operation) *Detail {
	detail := &Detail{
		OperationID: op.OperationID,
		Description: op.Description,
		Parameters:  op.Parameters,
		RequestBody: op.RequestBody,
	}

	for _, resp := range op.Responses {
		detail.Responses = append(detail.Responses, Response{
			StatusCode:  resp.StatusCode,
			Description: resp.Description,
			Schema:      formatSchema(resp.Schema),
		})
	}

	return detail
}

func formatSchema(schema any) string {
	if schema == nil {
		return ""
	}

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", schema)
	}

	return string(b)
}

// TagLabel returns the human-cased label of a tag.
func TagLabel(tag, untaggedLabel string) string {
	if tag == domain.UntaggedTag {
		if untaggedLabel == "" {
			return DefaultUntaggedLabel
		}

		return untaggedLabel
	}

	label := strings.Join(strings.FieldsFunc(tag, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}), " ")
	if label == "" {
		return tag
	}

	return cases.Title(language.English, cases.NoLower).String(label)
}

// BadgeVariant returns the badge style for an HTTP method.
func BadgeVariant(method string) string {
	switch strings.ToLower(method) {
	case "get":
		return "success"
	case "post", "put", "patch":
		return "info"
	case "delete":
		return "danger"
	default:
		return "secondary"
	}
}
