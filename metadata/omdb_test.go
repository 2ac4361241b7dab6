package metadata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedb/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OMDbClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOMDbClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "the matrix", r.URL.Query().Get("t"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Title":"The Matrix","Year":"1999","imdbRating":"8.7","Poster":"https://img/matrix.jpg","Response":"True"}`))
	})

	m, err := client.Fetch("the matrix")
	require.NoError(t, err)
	assert.Equal(t, storage.Movie{Title: "The Matrix", Year: 1999, Rating: 8.7, Poster: "https://img/matrix.jpg"}, m)
}

func TestFetchSendsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "moviedb-test/1.0", r.UserAgent())
		w.Write([]byte(`{"Title":"Heat","Year":"1995","imdbRating":"8.3","Poster":"N/A","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewOMDbClient(Config{
		APIKey:    "test-key",
		BaseURL:   server.URL + "/",
		UserAgent: "moviedb-test/1.0",
	}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Fetch("Heat")
	require.NoError(t, err)
}

func TestFetchEscapesTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tom & Jerry?", r.URL.Query().Get("t"))
		w.Write([]byte(`{"Title":"Tom & Jerry","Year":"2021","imdbRating":"5.2","Poster":"N/A","Response":"True"}`))
	})

	m, err := client.Fetch("Tom & Jerry?")
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", m.Title)
	assert.Empty(t, m.Poster, "N/A poster becomes empty")
}

func TestFetchSeriesYearRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Breaking Bad","Year":"2008–2013","imdbRating":"9.5","Poster":"p.jpg","Response":"True"}`))
	})

	m, err := client.Fetch("Breaking Bad")
	require.NoError(t, err)
	assert.Equal(t, 2008, m.Year)
}

func TestFetchNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	_, err := client.Fetch("Nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Movie not found!")
}

func TestFetchIncompleteRating(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Obscure","Year":"2023","imdbRating":"N/A","Poster":"N/A","Response":"True"}`))
	})

	_, err := client.Fetch("Obscure")
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestFetchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	})

	_, err := client.Fetch("The Matrix")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewOMDbClient(Config{APIKey: "k", BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Fetch("The Matrix")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestFetchMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.Fetch("The Matrix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestNewOMDbClientRequiresKey(t *testing.T) {
	_, err := NewOMDbClient(Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}
