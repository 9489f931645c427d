package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisclosure_Toggle(t *testing.T) {
	d := NewDisclosure()

	assert.False(t, d.IsExpanded("never-seen"))

	assert.True(t, d.Toggle("Users"))
	assert.True(t, d.IsExpanded("Users"))

	assert.False(t, d.Toggle("Users"))
	assert.False(t, d.IsExpanded("Users"))
	assert.Equal(t, 1, d.Len())
}

func TestDisclosure_IndependentKeys(t *testing.T) {
	endpoints := NewDisclosure()
	groups := NewDisclosure()

	endpointKey := EndpointKey("Users", "/users", "get")
	endpoints.Toggle(endpointKey)
	endpoints.Toggle(endpointKey)
	groups.Toggle(GroupKey("Users"))

	assert.False(t, endpoints.IsExpanded(endpointKey))
	assert.True(t, groups.IsExpanded("Users"))

	// Same operation under another tag is a different key.
	endpoints.Toggle(EndpointKey("Admin", "/users", "get"))
	assert.True(t, endpoints.IsExpanded(EndpointKey("Admin", "/users", "get")))
	assert.False(t, endpoints.IsExpanded(endpointKey))
}

func TestDisclosure_Reset(t *testing.T) {
	d := NewDisclosure()
	d.Toggle("a")
	d.Expand("b")

	d.Reset()

	assert.False(t, d.IsExpanded("a"))
	assert.False(t, d.IsExpanded("b"))
	assert.Equal(t, 0, d.Len())
}

func TestEndpointKey_RoundTrip(t *testing.T) {
	key := EndpointKey("Users", "/users/{id}", "get")
	assert.Equal(t, "Users|/users/{id}|get", key)

	tag, path, method, ok := SplitEndpointKey(key)
	assert.True(t, ok)
	assert.Equal(t, "Users", tag)
	assert.Equal(t, "/users/{id}", path)
	assert.Equal(t, "get", method)

	_, _, _, ok = SplitEndpointKey("no-separator")
	assert.False(t, ok)
	_, _, _, ok = SplitEndpointKey("one|separator")
	assert.False(t, ok)
}

func TestEndpointKey_SeparatorInParts(t *testing.T) {
	a := EndpointKey("a|/x", "/y", "get")
	b := EndpointKey("a", "/x|/y", "get")
	assert.NotEqual(t, a, b)

	tag, path, method, ok := SplitEndpointKey(a)
	require.True(t, ok)
	assert.Equal(t, []string{"a|/x", "/y", "get"}, []string{tag, path, method})

	tag, path, _, ok = SplitEndpointKey(b)
	require.True(t, ok)
	assert.Equal(t, "a", tag)
	assert.Equal(t, "/x|/y", path)

	tag, _, _, ok = SplitEndpointKey(EndpointKey(`back\slash`, "/p", "get"))
	require.True(t, ok)
	assert.Equal(t, `back\slash`, tag)

	_, _, _, ok = SplitEndpointKey(GroupKey("a|/x|get"))
	assert.False(t, ok)
	assert.NotEqual(t, GroupKey("a|/x|get"), EndpointKey("a", "/x", "get"))

	d := NewDisclosure()
	d.Toggle(a)
	assert.False(t, d.IsExpanded(b))
}
