// Package explorer owns one mounted API explorer: the fetch of its schema
// document, the tag grouping and the group and endpoint disclosure registers.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GabrielNunesIT/api-explorer/internal/adapters/loader"
	"github.com/GabrielNunesIT/api-explorer/internal/domain"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/GabrielNunesIT/go-libs/logger"
)

// Phase is the state of the current fetch.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrNotMounted is returned when an operation needs a source and none is mounted.
var ErrNotMounted = errors.New("no source mounted")

// Fetcher retrieves the raw bytes of a source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// LoadFunc decodes fetched bytes into a document.
type LoadFunc func(data []byte) (*domain.SchemaDocument, error)

// Option configures an Explorer.
type Option func(*Explorer)

// WithLoader overrides the document decoder.
func WithLoader(load LoadFunc) Option {
	return func(e *Explorer) {
		e.load = load
	}
}

// WithViewOptions sets the projection options.
func WithViewOptions(opts view.Options) Option {
	return func(e *Explorer) {
		e.viewOpts = opts
	}
}

// Explorer is safe for concurrent use. Every mutation happens under one lock,
// so toggles are applied one at a time in the order they acquire it.
type Explorer struct {
	log      logger.ILogger
	fetcher  Fetcher
	load     LoadFunc
	viewOpts view.Options

	mu         sync.Mutex
	source     string
	generation uint64
	phase      Phase
	doc        *domain.SchemaDocument
	grouping   *domain.Grouping
	message    string
	done       chan struct{}

	groups    *domain.Disclosure
	endpoints *domain.Disclosure
}

// New creates an Explorer with nothing mounted.
func New(log logger.ILogger, fetcher Fetcher, opts ...Option) *Explorer {
	e := &Explorer{
		log:       log,
		fetcher:   fetcher,
		load:      loader.New(log).Load,
		groups:    domain.NewDisclosure(),
		endpoints: domain.NewDisclosure(),
		done:      closedChan(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Mount starts fetching source. Mounting the source that is already mounted
// does nothing; a different source discards the current document and both
// disclosure registers.
func (e *Explorer) Mount(source string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if source == e.source && e.phase != PhaseIdle {
		return
	}

	e.start(source)
}

// Reload fetches the mounted source again, keeping the disclosure state.
func (e *Explorer) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseIdle {
		return ErrNotMounted
	}

	e.begin(e.source)

	return nil
}

// start must be called with mu held.
func (e *Explorer) start(source string) {
	e.groups.Reset()
	e.endpoints.Reset()
	e.begin(source)
}

// begin enters the pending phase for source and launches the fetch. It must
// be called with mu held.
func (e *Explorer) begin(source string) {
	e.generation++
	e.source = source
	e.phase = PhasePending
	e.doc = nil
	e.grouping = nil
	e.message = ""
	e.done = make(chan struct{})

	e.log.Infof("Fetching API docs from: %s", source)

	go e.fetch(e.generation, source, e.done)
}

func (e *Explorer) fetch(generation uint64, source string, done chan struct{}) {
	defer close(done)

	// The request is never cancelled; a superseded result is dropped below.
	doc, err := e.retrieve(context.Background(), source)

	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation {
		e.log.Infof("Discarding stale response for: %s", source)
		return
	}

	if err != nil {
		e.phase = PhaseFailed
		e.message = fmt.Sprintf("error fetching API docs from %s: %v", source, err)
		e.log.Errorf("%s", e.message)

		return
	}

	e.phase = PhaseResolved
	e.doc = doc
	e.grouping = domain.Group(doc)
	e.log.Infof("Loaded API: %s (v%s), %d endpoints", doc.Info.Title, doc.Info.Version, e.grouping.Len())
}

func (e *Explorer) retrieve(ctx context.Context, source string) (*domain.SchemaDocument, error) {
	data, err := e.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	return e.load(data)
}

// Wait blocks until the latest fetch settles or ctx is done. When a newer
// mount supersedes the awaited fetch, Wait keeps waiting for the newer one.
func (e *Explorer) Wait(ctx context.Context) error {
	for {
		e.mu.Lock()
		done := e.done
		e.mu.Unlock()

		select {
		case <-done:
			e.mu.Lock()
			current := done == e.done
			e.mu.Unlock()

			if current {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Source returns the mounted source.
func (e *Explorer) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.source
}

// Phase returns the phase of the current fetch.
func (e *Explorer) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.phase
}

// Err returns the failure message of the current fetch, or "".
func (e *Explorer) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.message
}

// Document returns the loaded document, or nil unless resolved.
func (e *Explorer) Document() *domain.SchemaDocument {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.doc
}

// ToggleGroup flips the group key of tag and returns the new value.
func (e *Explorer) ToggleGroup(tag string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.groups.Toggle(domain.GroupKey(tag))
}

// ToggleEndpoint flips the endpoint key of (tag, path, method) and returns
// the new value.
func (e *Explorer) ToggleEndpoint(tag, path, method string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.endpoints.Toggle(domain.EndpointKey(tag, path, method))
}

// IsGroupExpanded reports the group key of tag.
func (e *Explorer) IsGroupExpanded(tag string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.groups.IsExpanded(domain.GroupKey(tag))
}

// IsEndpointExpanded reports the endpoint key of (tag, path, method).
func (e *Explorer) IsEndpointExpanded(tag, path, method string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.endpoints.IsExpanded(domain.EndpointKey(tag, path, method))
}

// ExpandAll expands every group and endpoint of the loaded document.
func (e *Explorer) ExpandAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grouping == nil {
		return
	}

	for _, group := range e.grouping.Groups() {
		e.groups.Expand(domain.GroupKey(group.Tag))

		for _, ep := range e.grouping.Endpoints(group) {
			e.endpoints.Expand(domain.EndpointKey(group.Tag, ep.Path, ep.Method))
		}
	}
}

// Snapshot projects the current state for display.
func (e *Explorer) Snapshot() view.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseResolved:
		page := view.Project(e.doc, e.grouping, e.groups, e.endpoints, e.viewOpts)
		return view.Ready(e.source, page)
	case PhaseFailed:
		return view.Failed(e.source, e.message)
	default:
		return view.Loading(e.source)
	}
}

// GroupView projects a single group, for partial re-rendering.
func (e *Explorer) GroupView(tag string) (view.Group, bool) {
	state := e.Snapshot()
	if state.Page == nil {
		return view.Group{}, false
	}

	for _, g := range state.Page.Groups {
		if g.Tag == tag {
			return g, true
		}
	}

	return view.Group{}, false
}

// EndpointView projects a single endpoint occurrence, for partial re-rendering.
// The endpoint is found even when its group is collapsed.
func (e *Explorer) EndpointView(tag, path, method string) (view.Endpoint, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseResolved {
		return view.Endpoint{}, false
	}

	group, ok := e.grouping.Group(tag)
	if !ok {
		return view.Endpoint{}, false
	}

	for _, ep := range e.grouping.Endpoints(group) {
		if ep.Path == path && ep.Method == method {
			return view.ProjectEndpoint(tag, ep, e.endpoints), true
		}
	}

	return view.Endpoint{}, false
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)

	return ch
}
