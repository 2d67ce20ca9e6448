package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdfexplorer/pdffinder/internal/politeness"
)

func newTestEngine(baseURL string) *EngineAPI {
	return NewEngineAPI(baseURL, "", politeness.NewStatic(""), 5*time.Second, zap.NewNop())
}

func TestEngineAPIDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Contains(t, r.URL.Query().Get("q"), "filetype:pdf")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"A","url":"https://a.example/a.pdf"},
			{"title":"B","url":"https://b.example/page"},
			{"title":"C","url":"https://c.example/c.pdf"}
		]}`))
	}))
	defer srv.Close()

	got, err := newTestEngine(srv.URL).Discover(context.Background(), "compilers", 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://a.example/a.pdf", got[0].URL)
	assert.Equal(t, "engine", got[0].Backend)
}

func TestEngineAPIDiscoverNotConfigured(t *testing.T) {
	engine := newTestEngine("")

	// Every call degrades to empty results; none of them errors.
	for i := 0; i < 3; i++ {
		got, err := engine.Discover(context.Background(), "q", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestEngineAPIDiscoverBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	got, err := newTestEngine(srv.URL).Discover(context.Background(), "q", 5)

	require.Error(t, err)
	assert.Empty(t, got)
}

func TestEngineAPIDiscoverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestEngine(srv.URL).Discover(context.Background(), "q", 5)

	require.Error(t, err)
}

func TestEngineAPIDiscoverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[
			{"url":"https://a.example/1.pdf"},
			{"url":"https://a.example/2.pdf"},
			{"url":"https://a.example/3.pdf"}
		]}`))
	}))
	defer srv.Close()

	got, err := newTestEngine(srv.URL).Discover(context.Background(), "q", 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
