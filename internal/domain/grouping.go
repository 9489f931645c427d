package domain

// UntaggedTag collects every operation that declares no tags.
const UntaggedTag = "_untagged"

// Endpoint is one (path, method) occurrence in the document. Groups refer to
// endpoints by index so an operation listed under several tags is stored once.
type Endpoint struct {
	Path      string
	Method    string
	Operation *Operation
}

// EndpointGroup lists the endpoints carrying one tag, in document order.
type EndpointGroup struct {
	Tag     string
	Entries []int // indices into Grouping endpoints
}

// Len returns the number of endpoints in the group.
func (g *EndpointGroup) Len() int {
	return len(g.Entries)
}

// Grouping is the tag-indexed view of a schema document.
type Grouping struct {
	endpoints []Endpoint
	groups    []*EndpointGroup
	byTag     map[string]*EndpointGroup
}

// Group builds the tag grouping of doc. It has no side effects: paths are
// walked in document order, methods in document order within a path, and
// each tag of an operation receives a reference to it. Groups are ordered by
// the first time their tag is encountered.
func Group(doc *SchemaDocument) *Grouping {
	grouping := &Grouping{
		byTag: make(map[string]*EndpointGroup),
	}

	if doc == nil {
		return grouping
	}

	for pi := range doc.Paths {
		path := &doc.Paths[pi]

		for oi := range path.Operations {
			op := &path.Operations[oi]

			index := len(grouping.endpoints)
			grouping.endpoints = append(grouping.endpoints, Endpoint{
				Path:      path.Path,
				Method:    op.Method,
				Operation: op,
			})

			tags := op.Tags
			if len(tags) == 0 {
				tags = []string{UntaggedTag}
			}

			for _, tag := range tags {
				group, ok := grouping.byTag[tag]
				if !ok {
					group = &EndpointGroup{Tag: tag}
					grouping.byTag[tag] = group
					grouping.groups = append(grouping.groups, group)
				}

				group.Entries = append(group.Entries, index)
			}
		}
	}

	return grouping
}

// Groups returns the groups in first-encounter order.
func (g *Grouping) Groups() []*EndpointGroup {
	return g.groups
}

// Group looks up the group for a tag.
func (g *Grouping) Group(tag string) (*EndpointGroup, bool) {
	group, ok := g.byTag[tag]
	return group, ok
}

// Endpoint resolves an index held by an EndpointGroup.
func (g *Grouping) Endpoint(index int) Endpoint {
	return g.endpoints[index]
}

// Endpoints returns the endpoints of a group in order.
func (g *Grouping) Endpoints(group *EndpointGroup) []Endpoint {
	endpoints := make([]Endpoint, 0, len(group.Entries))
	for _, i := range group.Entries {
		endpoints = append(endpoints, g.endpoints[i])
	}

	return endpoints
}

// Len returns the number of endpoint occurrences across all groups.
func (g *Grouping) Len() int {
	n := 0
	for _, group := range g.groups {
		n += len(group.Entries)
	}

	return n
}

// Empty reports whether the document produced no endpoints.
func (g *Grouping) Empty() bool {
	return len(g.groups) == 0
}
