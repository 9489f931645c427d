package view

import "net/url"

// IsSafeLink reports whether raw may be rendered as a hyperlink. Only
// absolute http and https URLs with a host are accepted.
func IsSafeLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// NewLink builds a Link, falling back to the URL as text.
func NewLink(text, raw string) *Link {
	if text == "" {
		text = raw
	}

	return &Link{Text: text, URL: raw, Safe: IsSafeLink(raw)}
}
