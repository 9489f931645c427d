package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"swagger":"2.0"}`))
	}))
	defer srv.Close()

	client := New(WithUserAgent("explorer-test"))
	body, err := client.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.JSONEq(t, `{"swagger":"2.0"}`, string(body))
	assert.Equal(t, "explorer-test", gotUA)
	assert.Contains(t, gotAccept, "application/json")
}

func TestClient_Fetch_Status(t *testing.T) {
	tests := []struct {
		name   string
		status int
		text   string
	}{
		{name: "not found", status: http.StatusNotFound, text: "Not Found"},
		{name: "server error", status: http.StatusInternalServerError, text: "Internal Server Error"},
		{name: "redirect without location", status: http.StatusNotModified, text: "Not Modified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New().Fetch(context.Background(), srv.URL)
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.text, te.Status)
			assert.Contains(t, err.Error(), tt.text)
		})
	}
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New().Fetch(context.Background(), url)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, te.Unwrap())
}

func TestClient_Fetch_InvalidURL(t *testing.T) {
	_, err := New().Fetch(context.Background(), "://bad")

	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestClient_Fetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	_, err := New(WithMaxBodyBytes(16)).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	body, err := New(WithMaxBodyBytes(64)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 64)
}
