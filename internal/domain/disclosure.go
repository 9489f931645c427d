package domain

import "strings"

// KeySeparator joins the parts of an endpoint key. A separator or backslash
// inside a part is escaped with a backslash.
const KeySeparator = "|"

var keyEscaper = strings.NewReplacer(`\`, `\\`, KeySeparator, `\`+KeySeparator)

// GroupKey returns the disclosure key of a tag group. It never contains an
// unescaped separator, so it cannot collide with an endpoint key.
func GroupKey(tag string) string {
	return keyEscaper.Replace(tag)
}

// EndpointKey returns the disclosure key of one endpoint occurrence.
func EndpointKey(tag, path, method string) string {
	return keyEscaper.Replace(tag) + KeySeparator +
		keyEscaper.Replace(path) + KeySeparator +
		keyEscaper.Replace(method)
}

// SplitEndpointKey reverses EndpointKey.
func SplitEndpointKey(key string) (tag, path, method string, ok bool) {
	parts := make([]string, 0, 3)

	var part strings.Builder
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '\\':
			i++
			if i == len(key) {
				return "", "", "", false
			}
			part.WriteByte(key[i])
		case KeySeparator[0]:
			parts = append(parts, part.String())
			part.Reset()
		default:
			part.WriteByte(key[i])
		}
	}
	parts = append(parts, part.String())

	if len(parts) != 3 {
		return "", "", "", false
	}

	return parts[0], parts[1], parts[2], true
}

// Disclosure tracks which keys are expanded. An unknown key is collapsed.
// Each key is independent of every other key. Disclosure is not safe for
// concurrent use; the owner serialises access.
type Disclosure struct {
	expanded map[string]bool
}

// NewDisclosure creates an empty register.
func NewDisclosure() *Disclosure {
	return &Disclosure{expanded: make(map[string]bool)}
}

// Toggle flips the flag for key and returns the new value.
func (d *Disclosure) Toggle(key string) bool {
	d.expanded[key] = !d.expanded[key]
	return d.expanded[key]
}

// Expand sets key to expanded.
func (d *Disclosure) Expand(key string) {
	d.expanded[key] = true
}

// IsExpanded reports whether key is expanded.
func (d *Disclosure) IsExpanded(key string) bool {
	return d.expanded[key]
}

// Reset forgets every key.
func (d *Disclosure) Reset() {
	clear(d.expanded)
}

// Len returns the number of keys ever set since the last reset.
func (d *Disclosure) Len() int {
	return len(d.expanded)
}
