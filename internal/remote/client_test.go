package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(handler http.Handler) (*APIClient, *httptest.Server) {
	ts := httptest.NewServer(handler)
	c := NewAPIClient(Config{BaseURL: ts.URL + "/", Timeout: 2 * time.Second}).WithHTTPClient(ts.Client())
	return c, ts
}

func TestAPIClient_ListDirectory(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Entry{
			{Name: "sub", Path: "docs/sub", IsFile: false},
			{Name: "a.txt", Path: "docs/a.txt", IsFile: true, Size: 12},
		})
	}))
	defer ts.Close()

	entries, err := c.ListDirectory(context.Background(), "abc", "docs")
	require.NoError(t, err)
	assert.Equal(t, "/public/files/abc/tree/docs", gotPath)
	require.Len(t, entries, 2)
	assert.Equal(t, "sub", entries[0].Name)
	assert.False(t, entries[0].IsFile)
	assert.True(t, entries[1].IsFile)
	assert.Equal(t, int64(12), entries[1].Size)
}

func TestAPIClient_ListDirectory_Root(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("null"))
	}))
	defer ts.Close()

	entries, err := c.ListDirectory(context.Background(), "abc", "")
	require.NoError(t, err)
	assert.Equal(t, "/public/files/abc/tree/", gotPath)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAPIClient_NotFound(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))
	}))
	defer ts.Close()

	_, err := c.ListDirectory(context.Background(), "missing", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not found", apiErr.Message)
}

func TestAPIClient_ServerErrorIsNotNotFound(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database down"}`))
	}))
	defer ts.Close()

	_, err := c.FileMetadata(context.Background(), "abc", "a.txt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "database down")
}

func TestAPIClient_FileMetadata(t *testing.T) {
	var gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"size": 2048}`))
	}))
	defer ts.Close()

	meta, err := c.FileMetadata(context.Background(), "abc", "reports/q1 final.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/public/files/abc/info/reports/q1%20final.pdf", gotPath)
	assert.Equal(t, int64(2048), meta.Size)
	assert.Equal(t, "q1 final.pdf", meta.Name)
	assert.Equal(t, "reports/q1 final.pdf", meta.Path)
}

func TestAPIClient_InvalidJSON(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer ts.Close()

	_, err := c.ListDirectory(context.Background(), "abc", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestAPIClient_Search(t *testing.T) {
	var gotQuery string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_path")
		assert.Equal(t, "/public/files/abc/search/docs", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"q1.pdf","path":"docs/reports/q1.pdf","is_file":true}]`))
	}))
	defer ts.Close()

	entries, err := c.Search(context.Background(), "abc", "docs", "q1 report")
	require.NoError(t, err)
	assert.Equal(t, "q1 report", gotQuery)
	require.Len(t, entries, 1)
	assert.Equal(t, "docs/reports/q1.pdf", entries[0].Path)
}

func TestAPIClient_DownloadURL(t *testing.T) {
	c := NewAPIClient(Config{BaseURL: "https://files.example.com/api/"})
	assert.Equal(t, "https://files.example.com/api", c.BaseURL())

	first := c.DownloadURL("abc123", "reports/q1.pdf")
	assert.Equal(t, "https://files.example.com/api/public/files/abc123/download/reports/q1.pdf", first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.DownloadURL("abc123", "reports/q1.pdf"))
	}
}

func TestAPIClient_TransportError(t *testing.T) {
	c := NewAPIClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.ListDirectory(context.Background(), "abc", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
