package view

import (
	"testing"

	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *domain.SchemaDocument {
	return &domain.SchemaDocument{
		Info: domain.Info{
			Title:       "Users API",
			Description: "Manage users",
			Version:     "1.0.0",
			License:     &domain.License{Name: "Apache 2.0", URL: "javascript:alert(1)"},
		},
		Tags: []domain.Tag{{Name: "user-accounts", Description: "Accounts"}},
		Paths: []domain.PathItem{
			{
				Path: "/users",
				Operations: []domain.Operation{
					{
						Method:      "get",
						Summary:     "List users",
						Description: "Returns every user",
						Tags:        []string{"user-accounts"},
						Parameters:  []domain.Parameter{{Name: "limit", In: "query", Type: "integer"}},
						Responses: []domain.Response{
							{StatusCode: "200", Description: "OK", Schema: map[string]any{"type": "array"}},
						},
					},
					{Method: "post", Summary: "Create user"},
				},
			},
		},
	}
}

func TestProject_Collapsed(t *testing.T) {
	doc := testDocument()
	page := Project(doc, domain.Group(doc), domain.NewDisclosure(), domain.NewDisclosure(), Options{})

	assert.Equal(t, "Users API", page.Title)
	assert.False(t, page.Empty)
	require.NotNil(t, page.License)
	assert.False(t, page.License.Safe)
	assert.Equal(t, "Apache 2.0", page.License.Text)

	require.Len(t, page.Groups, 2)
	assert.Equal(t, "User Accounts", page.Groups[0].Label)
	assert.Equal(t, "Accounts", page.Groups[0].Description)
	assert.Equal(t, 1, page.Groups[0].Count)
	assert.False(t, page.Groups[0].Expanded)
	assert.Empty(t, page.Groups[0].Endpoints)

	assert.Equal(t, "Other", page.Groups[1].Label)
}

func TestProject_Expanded(t *testing.T) {
	doc := testDocument()
	groups := domain.NewDisclosure()
	endpoints := domain.NewDisclosure()

	groups.Toggle("user-accounts")
	groups.Toggle(domain.UntaggedTag)
	endpoints.Toggle(domain.EndpointKey("user-accounts", "/users", "get"))

	page := Project(doc, domain.Group(doc), groups, endpoints, Options{UntaggedLabel: "General"})

	require.Len(t, page.Groups, 2)
	tagged := page.Groups[0]
	require.Len(t, tagged.Endpoints, 1)

	ep := tagged.Endpoints[0]
	assert.Equal(t, "user-accounts|/users|get", ep.Key)
	assert.Equal(t, "success", ep.Badge)
	assert.True(t, ep.Expanded)
	require.NotNil(t, ep.Detail)
	assert.Equal(t, "Returns every user", ep.Detail.Description)
	require.Len(t, ep.Detail.Parameters, 1)
	require.Len(t, ep.Detail.Responses, 1)
	assert.JSONEq(t, `{"type":"array"}`, ep.Detail.Responses[0].Schema)

	untagged := page.Groups[1]
	assert.Equal(t, "General", untagged.Label)
	require.Len(t, untagged.Endpoints, 1)
	assert.False(t, untagged.Endpoints[0].Expanded)
	assert.Nil(t, untagged.Endpoints[0].Detail)
	assert.Equal(t, "info", untagged.Endpoints[0].Badge)
}

func TestProject_EndpointWithoutGroup(t *testing.T) {
	doc := testDocument()
	endpoints := domain.NewDisclosure()
	endpoints.Toggle(domain.EndpointKey("user-accounts", "/users", "get"))

	page := Project(doc, domain.Group(doc), domain.NewDisclosure(), endpoints, Options{})

	// An expanded endpoint does not open its group.
	assert.False(t, page.Groups[0].Expanded)
	assert.Empty(t, page.Groups[0].Endpoints)
}

func TestProject_Empty(t *testing.T) {
	doc := &domain.SchemaDocument{Info: domain.Info{Title: "Nothing"}}
	page := Project(doc, domain.Group(doc), domain.NewDisclosure(), domain.NewDisclosure(), Options{})

	assert.True(t, page.Empty)
	assert.Empty(t, page.Groups)
	assert.Nil(t, page.License)
}

func TestIsSafeLink(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "https://example.com/license", want: true},
		{raw: "http://example.com", want: true},
		{raw: "HTTPS://EXAMPLE.COM", want: true},
		{raw: "javascript:alert(1)", want: false},
		{raw: "data:text/html,<script>alert(1)</script>", want: false},
		{raw: "", want: false},
		{raw: "ht!tp://x", want: false},
		{raw: "ftp://example.com", want: false},
		{raw: "/relative/path", want: false},
		{raw: "https://", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeLink(tt.raw))
		})
	}
}

func TestTagLabel(t *testing.T) {
	assert.Equal(t, "Users", TagLabel("users", ""))
	assert.Equal(t, "API Keys", TagLabel("API keys", ""))
	assert.Equal(t, "User Accounts", TagLabel("user_accounts", ""))
	assert.Equal(t, "Other", TagLabel(domain.UntaggedTag, ""))
	assert.Equal(t, "General", TagLabel(domain.UntaggedTag, "General"))
	assert.Equal(t, "--", TagLabel("--", ""))
}

func TestBadgeVariant(t *testing.T) {
	assert.Equal(t, "success", BadgeVariant("GET"))
	assert.Equal(t, "info", BadgeVariant("patch"))
	assert.Equal(t, "danger", BadgeVariant("delete"))
	assert.Equal(t, "secondary", BadgeVariant("purge"))
}
