package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceirr/sample-dashboard/internal/config"
)

func newTestSheetFetcher(t *testing.T, server *httptest.Server) *SheetFetcher {
	t.Helper()
	f, err := NewSheetFetcher(context.Background(), config.SourceConfig{
		SheetID:        "sheet-123",
		URLPattern:     server.URL + "/spreadsheets/d/%s/gviz/tq?tqx=out:csv",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return f
}

func TestSheetFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/d/sheet-123/gviz/tq", r.URL.Path)
		assert.Equal(t, "out:csv", r.URL.Query().Get("tqx"))

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte("\"submissiondate\",\"sample_scan\"\n\"2026-10-19 08:00:00\",\"A1\"\n"))
	}))
	defer server.Close()

	f := newTestSheetFetcher(t, server)
	table, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"submissiondate", "sample_scan"}, table.Header)
	assert.Equal(t, [][]string{{"2026-10-19 08:00:00", "A1"}}, table.Rows)
}

func TestSheetFetcherStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestSheetFetcher(t, server)
	_, err := f.Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSheetFetcherRejectsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>sign in</html>"))
	}))
	defer server.Close()

	f := newTestSheetFetcher(t, server)
	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestSheetFetcherTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	f := newTestSheetFetcher(t, server)
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestSheetFetcherURL(t *testing.T) {
	f, err := NewSheetFetcher(context.Background(), config.SourceConfig{SheetID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:csv", f.URL())
}

func TestSheetFetcherBadCredentialsFile(t *testing.T) {
	_, err := NewSheetFetcher(context.Background(), config.SourceConfig{
		SheetID:               "abc",
		GoogleCredentialsFile: "/nonexistent/creds.json",
	})
	assert.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(context.Background(), config.SourceConfig{Type: "ftp"})
	assert.Error(t, err)
}
