// Package view projects a grouped schema document and its disclosure state
// into the display tree rendered by the output surfaces.
package view

import "github.com/GabrielNunesIT/api-explorer/internal/domain"

// Status is the phase of the document backing a view.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

// State is what a surface displays: a loading indicator, an error message or
// a page. Page is set only when Status is StatusReady.
type State struct {
	Status  Status
	Source  string
	Message string
	Page    *Page
}

// Loading returns the state shown while a fetch is pending.
func Loading(source string) State {
	return State{Status: StatusLoading, Source: source}
}

// Failed returns the state shown after a fetch failed.
func Failed(source, message string) State {
	return State{Status: StatusError, Source: source, Message: message}
}

// Ready returns the state shown once a document is loaded.
func Ready(source string, page *Page) State {
	return State{Status: StatusReady, Source: source, Page: page}
}

// Page is the projected document.
type Page struct {
	Title          string
	Description    string
	Version        string
	TermsOfService string
	Host           string
	BasePath       string
	Contact        *Contact
	License        *Link
	Groups         []Group
	Empty          bool
}

// Contact is the projected contact block.
type Contact struct {
	Name  string
	Email string
	URL   *Link
}

// Link is an externally supplied URL. Safe is false when the URL must be shown
// as text rather than as a hyperlink.
type Link struct {
	Text string
	URL  string
	Safe bool
}

// Group is one tag group. Endpoints is populated only when Expanded.
type Group struct {
	Key         string
	Tag         string
	Label       string
	Description string
	Count       int
	Expanded    bool
	Endpoints   []Endpoint
}

// Endpoint is one endpoint occurrence inside a group. Detail is set only when
// Expanded.
type Endpoint struct {
	Key        string
	Tag        string
	Method     string
	Badge      string
	Path       string
	Summary    string
	Deprecated bool
	Expanded   bool
	Detail     *Detail
}

// Detail is the expanded body of an endpoint.
type Detail struct {
	OperationID string
	Description string
	Parameters  []domain.Parameter
	RequestBody *domain.RequestBody
	Responses   []Response
}

// Response is a projected response; Schema is the payload rendered as JSON.
type Response struct {
	StatusCode  string
	Description string
	Schema      string
}

// IsLoading reports whether the state is waiting for a fetch.
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

// IsError reports whether the fetch failed.
func (s State) IsError() bool {
	return s.Status == StatusError
}
