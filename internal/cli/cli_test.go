package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsDoc = `swagger: "2.0"
info:
  title: Pets API
  version: 2.0.0
paths:
  /pets:
    get:
      summary: List pets
      tags: [pet_store]
      responses:
        "200":
          description: OK
  /health:
    get:
      summary: Health check
      responses:
        "200":
          description: OK
`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/swagger.yaml":
			_, _ = w.Write([]byte(petsDoc))
		case "/wiki.md":
			_, _ = w.Write([]byte("# Pets wiki"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := New(logger.NewConsoleLogger(io.Discard))
	c.out = &out
	c.rootCmd.SetArgs(args)
	c.rootCmd.SetOut(io.Discard)
	c.rootCmd.SetErr(io.Discard)

	err := c.Execute()

	return out.String(), err
}

func TestRender(t *testing.T) {
	upstream := newUpstream(t)

	out, err := run(t, "render", "--source", upstream.URL+"/swagger.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Pets API (v2.0.0)")
	assert.Contains(t, out, "▶ Pet Store (1)")
	assert.Contains(t, out, "▶ Other (1)")
	assert.NotContains(t, out, "List pets")
}

func TestRender_Expand(t *testing.T) {
	upstream := newUpstream(t)

	out, err := run(t, "render", "-s", upstream.URL+"/swagger.yaml", "--expand", "pet_store")
	require.NoError(t, err)
	assert.Contains(t, out, "▼ Pet Store (1)")
	assert.Contains(t, out, "    ▶ GET /pets  List pets")
	assert.NotContains(t, out, "Health check")

	out, err = run(t, "render", "-s", upstream.URL+"/swagger.yaml", "--expand-all")
	require.NoError(t, err)
	assert.Contains(t, out, "    ▼ GET /health  Health check")
	assert.Contains(t, out, "200: OK")
}

func TestRender_FetchFailure(t *testing.T) {
	upstream := newUpstream(t)

	out, err := run(t, "render", "-s", upstream.URL+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching API docs from")
	assert.Contains(t, out, "Error: ")
	assert.Contains(t, out, "404 Not Found")
}

func TestRender_NoSource(t *testing.T) {
	_, err := run(t, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source given")
}

func TestExport(t *testing.T) {
	upstream := newUpstream(t)
	output := filepath.Join(t.TempDir(), "api.html")

	_, err := run(t, "export", "-s", upstream.URL+"/swagger.yaml", "-f", "html", "-o", output, "--expand-all")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "List pets")
	assert.NotContains(t, string(data), "hx-get")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	upstream := newUpstream(t)
	output := filepath.Join(t.TempDir(), "api.rtf")

	_, err := run(t, "export", "-s", upstream.URL+"/swagger.yaml", "-f", "rtf", "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.NoFileExists(t, output)
}

func TestWiki(t *testing.T) {
	upstream := newUpstream(t)

	out, err := run(t, "wiki", "--url", upstream.URL+"/wiki.md")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Pets wiki</h1>")

	_, err = run(t, "wiki", "--url", upstream.URL+"/nope.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching wiki from")
}
