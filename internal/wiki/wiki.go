// Package wiki fetches a markdown document and renders it to HTML.
package wiki

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Fetcher retrieves the raw bytes of a document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// State is what the wiki surface displays. HTML is set only when Status is
// view.StatusReady.
type State struct {
	Status  view.Status
	Source  string
	Message string
	HTML    template.HTML
}

// IsLoading reports whether the document is still being fetched.
func (s State) IsLoading() bool {
	return s.Status == view.StatusLoading
}

// Renderer converts markdown to HTML. Raw HTML in the source is passed
// through, and GitHub flavoured extensions are enabled.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a markdown renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts src to HTML.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return template.HTML(buf.String()), nil
}

// Page is one mounted wiki document. It is safe for concurrent use.
type Page struct {
	log      logger.ILogger
	fetcher  Fetcher
	renderer *Renderer

	mu         sync.Mutex
	source     string
	generation uint64
	state      State
	done       chan struct{}
}

// NewPage creates a Page with nothing mounted.
func NewPage(log logger.ILogger, fetcher Fetcher) *Page {
	done := make(chan struct{})
	close(done)

	return &Page{
		log:      log,
		fetcher:  fetcher,
		renderer: NewRenderer(),
		done:     done,
	}
}

// ErrNotMounted is returned by Reload before any document is mounted.
var ErrNotMounted = errors.New("no wiki mounted")

// Mount starts fetching url unless it is already mounted.
func (p *Page) Mount(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if url == p.source && p.generation > 0 {
		return
	}

	p.start(url)
}

// Reload fetches the mounted document again.
func (p *Page) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generation == 0 {
		return ErrNotMounted
	}

	p.start(p.source)

	return nil
}

// start must be called with p.mu held.
func (p *Page) start(url string) {
	p.generation++
	p.source = url
	p.state = State{Status: view.StatusLoading, Source: url}
	p.done = make(chan struct{})

	p.log.Infof("Fetching wiki from: %s", url)

	go p.fetch(p.generation, url, p.done)
}

func (p *Page) fetch(generation uint64, url string, done chan struct{}) {
	defer close(done)

	content, err := p.retrieve(context.Background(), url)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		return
	}

	if err != nil {
		p.state = State{
			Status:  view.StatusError,
			Source:  url,
			Message: fmt.Sprintf("error fetching wiki from %s: %v", url, err),
		}
		p.log.Errorf("%s", p.state.Message)

		return
	}

	p.state = State{Status: view.StatusReady, Source: url, HTML: content}
}

func (p *Page) retrieve(ctx context.Context, url string) (template.HTML, error) {
	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	return p.renderer.Render(data)
}

// Wait blocks until the latest fetch settles or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	for {
		p.mu.Lock()
		done := p.done
		p.mu.Unlock()

		select {
		case <-done:
			p.mu.Lock()
			current := done == p.done
			p.mu.Unlock()

			if current {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// State returns the current display state. Before any mount it reports loading.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

var pageTemplate = template.Must(template.New("wiki").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Wiki</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; }
main { max-width: 900px; margin: 0 auto; padding: 24px; }
.alert--danger { background: #ffebec; border-left: 4px solid #fa383e; padding: 12px; }
</style>
</head>
<body>
<main class="theme-doc-markdown">
{{- if .IsLoading}}
<div>Loading Wiki documentation...</div>
{{- else if .Message}}
<div class="alert alert--danger">Error: {{.Message}}</div>
{{- else}}
{{.HTML}}
{{- end}}
</main>
</body>
</html>
`))

// Write renders state as a full HTML document.
func Write(w io.Writer, state State) error {
	if err := pageTemplate.Execute(w, state); err != nil {
		return fmt.Errorf("failed to render wiki page: %w", err)
	}

	return nil
}
