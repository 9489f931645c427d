// Package server exposes the explorer as an HTML page whose toggles are
// handled server side through htmx requests.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GabrielNunesIT/api-explorer/internal/adapters/converters"
	"github.com/GabrielNunesIT/api-explorer/internal/explorer"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/GabrielNunesIT/api-explorer/internal/wiki"
	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/buildwithgo/amaro"
	"github.com/buildwithgo/amaro/addons/htmx"
	"github.com/buildwithgo/amaro/middlewares"
	"github.com/buildwithgo/amaro/routers"
)

const shutdownTimeout = 5 * time.Second

// Server routes requests to one explorer and, optionally, one wiki page.
type Server struct {
	log        logger.ILogger
	explorer   *explorer.Explorer
	allowMount bool
	wiki       *wiki.Page
	wikiURL    string
	html       *converters.HTMLConverter
	app        *amaro.App
}

// Option configures a Server.
type Option func(*Server)

// WithWiki serves the markdown document at url on /wiki.
func WithWiki(page *wiki.Page, url string) Option {
	return func(s *Server) {
		s.wiki = page
		s.wikiURL = url
	}
}

// WithMount enables /mount. Without it the mounted source can only be
// reloaded.
func WithMount() Option {
	return func(s *Server) {
		s.allowMount = true
	}
}

// New creates a Server and registers its routes.
func New(log logger.ILogger, exp *explorer.Explorer, opts ...Option) (*Server, error) {
	s := &Server{
		log:      log,
		explorer: exp,
		html:     converters.NewHTMLConverter(true),
		app:      amaro.New(amaro.WithRouter(routers.NewTrieRouter())),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.app.Use(amaro.Recovery())
	s.app.Use(middlewares.Secure())
	s.app.Use(requestLogger(log))

	routes := []struct {
		path    string
		handler amaro.Handler
	}{
		{"/", s.handleIndex},
		{converters.GroupTogglePath, s.handleToggleGroup},
		{converters.EndpointTogglePath, s.handleToggleEndpoint},
		{"/mount", s.handleMount},
		{"/reload", s.handleReload},
		{"/wiki", s.handleWiki},
		{"/wiki/reload", s.handleWikiReload},
		{"/healthz", s.handleHealth},
	}

	for _, r := range routes {
		if err := s.app.GET(r.path, r.handler); err != nil {
			return nil, fmt.Errorf("failed to register route %s: %w", r.path, err)
		}
	}

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.log.Infof("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}

		return nil
	}
}

func (s *Server) handleIndex(c *amaro.Context) error {
	state := s.explorer.Snapshot()

	var buf bytes.Buffer
	if htmx.Is(c) {
		if err := s.html.RenderContent(state, &buf); err != nil {
			return err
		}
	} else if err := s.html.Convert(state, &buf); err != nil {
		return err
	}

	return c.HTML(http.StatusOK, buf.String())
}

func (s *Server) handleToggleGroup(c *amaro.Context) error {
	tag, ok := query(c, "tag")
	if !ok {
		return c.String(http.StatusBadRequest, "missing tag")
	}

	s.explorer.ToggleGroup(tag)

	if !htmx.Is(c) {
		return redirectHome(c)
	}

	group, found := s.explorer.GroupView(tag)
	if !found {
		return c.String(http.StatusNotFound, "unknown group")
	}

	var buf bytes.Buffer
	if err := s.html.RenderGroup(group, &buf); err != nil {
		return err
	}

	return c.HTML(http.StatusOK, buf.String())
}

func (s *Server) handleToggleEndpoint(c *amaro.Context) error {
	tag, hasTag := query(c, "tag")
	path, hasPath := query(c, "path")
	method, hasMethod := query(c, "method")
	if !hasTag || !hasPath || !hasMethod {
		return c.String(http.StatusBadRequest, "tag, path and method are required")
	}

	s.explorer.ToggleEndpoint(tag, path, method)

	if !htmx.Is(c) {
		return redirectHome(c)
	}

	endpoint, found := s.explorer.EndpointView(tag, path, method)
	if !found {
		return c.String(http.StatusNotFound, "unknown endpoint")
	}

	var buf bytes.Buffer
	if err := s.html.RenderEndpoint(endpoint, &buf); err != nil {
		return err
	}

	return c.HTML(http.StatusOK, buf.String())
}

func (s *Server) handleMount(c *amaro.Context) error {
	if !s.allowMount {
		return c.String(http.StatusForbidden, "mounting is disabled")
	}

	source, ok := query(c, "source")
	if !ok {
		return c.String(http.StatusBadRequest, "missing source")
	}

	if !view.IsSafeLink(source) {
		return c.String(http.StatusBadRequest, "source must be an absolute http or https URL")
	}

	s.explorer.Mount(source)

	return redirectHome(c)
}

func (s *Server) handleReload(c *amaro.Context) error {
	if err := s.explorer.Reload(); err != nil {
		if errors.Is(err, explorer.ErrNotMounted) {
			return c.String(http.StatusConflict, err.Error())
		}

		return err
	}

	return redirectHome(c)
}

func (s *Server) handleWiki(c *amaro.Context) error {
	if s.wiki == nil || s.wikiURL == "" {
		return c.String(http.StatusNotFound, "wiki not configured")
	}

	s.wiki.Mount(s.wikiURL)

	var buf bytes.Buffer
	if err := wiki.Write(&buf, s.wiki.State()); err != nil {
		return err
	}

	return c.HTML(http.StatusOK, buf.String())
}

func (s *Server) handleWikiReload(c *amaro.Context) error {
	if s.wiki == nil || s.wikiURL == "" {
		return c.String(http.StatusNotFound, "wiki not configured")
	}

	if err := s.wiki.Reload(); err != nil {
		if !errors.Is(err, wiki.ErrNotMounted) {
			return err
		}

		s.wiki.Mount(s.wikiURL)
	}

	http.Redirect(c.Writer, c.Request, "/wiki", http.StatusSeeOther)

	return nil
}

func (s *Server) handleHealth(c *amaro.Context) error {
	return c.String(http.StatusOK, "ok")
}

// query returns a non-empty query parameter.
func query(c *amaro.Context, name string) (string, bool) {
	v := c.Request.URL.Query().Get(name)
	return v, v != ""
}

func redirectHome(c *amaro.Context) error {
	http.Redirect(c.Writer, c.Request, "/", http.StatusSeeOther)
	return nil
}

// requestLogger logs every request through the application logger.
func requestLogger(log logger.ILogger) amaro.Middleware {
	return func(next amaro.Handler) amaro.Handler {
		return func(c *amaro.Context) error {
			start := time.Now()
			err := next(c)

			if err != nil {
				log.Errorf("%s %s - %s: %v", c.Request.Method, c.Request.URL.Path, time.Since(start), err)
			} else {
				log.Infof("%s %s - %s", c.Request.Method, c.Request.URL.Path, time.Since(start))
			}

			return err
		}
	}
}
