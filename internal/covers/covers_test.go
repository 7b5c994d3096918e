package covers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/clierr"
)

func newTestClient(key string, handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(key)
	c.omdbURL = srv.URL
	c.openLibraryURL = srv.URL
	return c, srv
}

func TestMovieCover_Found(t *testing.T) {
	c, srv := newTestClient("k", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Dune", r.URL.Query().Get("t"))
		assert.Equal(t, "2021", r.URL.Query().Get("y"))
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{"Poster": "https://img.example/dune.jpg"}`))
	})
	defer srv.Close()

	url, err := c.MovieCover(context.Background(), "Dune", "2021")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/dune.jpg", url)
}

func TestMovieCover_NoPoster(t *testing.T) {
	c, srv := newTestClient("k", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Poster": "N/A"}`))
	})
	defer srv.Close()

	_, err := c.MovieCover(context.Background(), "Obscure Film", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieCover_NoAPIKeySkipsNetwork(t *testing.T) {
	called := false
	c, srv := newTestClient("", func(http.ResponseWriter, *http.Request) {
		called = true
	})
	defer srv.Close()

	_, err := c.MovieCover(context.Background(), "Dune", "2021")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestMovieCover_ServerErrorIsLookupFailed(t *testing.T) {
	c, srv := newTestClient("k", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := c.MovieCover(context.Background(), "Dune", "")
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.LookupFailed, cliErr.Code)
}

func TestBookCover_Found(t *testing.T) {
	c, srv := newTestClient("", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Dune", r.URL.Query().Get("title"))
		assert.Equal(t, "Herbert", r.URL.Query().Get("author"))
		_, _ = w.Write([]byte(`{"docs": [{"cover_i": 12345}]}`))
	})
	defer srv.Close()

	url, err := c.BookCover(context.Background(), "Dune", "Herbert")
	require.NoError(t, err)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-M.jpg", url)
}

func TestBookCover_NoDocs(t *testing.T) {
	c, srv := newTestClient("", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs": []}`))
	})
	defer srv.Close()

	_, err := c.BookCover(context.Background(), "Unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookCover_MalformedResponse(t *testing.T) {
	c, srv := newTestClient("", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	defer srv.Close()

	_, err := c.BookCover(context.Background(), "Dune", "")
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.LookupFailed, cliErr.Code)
}
