// Package remote defines the directory client used by the browser views and
// implements it on top of the public files HTTP API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Entry is one element of a directory listing.
type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	IsFile bool   `json:"is_file" yaml:"is_file"`
	Size   int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// FileMetadata describes a single file.
type FileMetadata struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Size int64  `json:"size" yaml:"size"`
}

// Client resolves storage ids and paths to listings, metadata and download links.
type Client interface {
	ListDirectory(ctx context.Context, storageID, path string) ([]Entry, error)
	FileMetadata(ctx context.Context, storageID, path string) (FileMetadata, error)
	// DownloadURL derives the download link without any network call.
	DownloadURL(storageID, path string) string
}

// Searcher is implemented by clients that can search below a path.
type Searcher interface {
	Search(ctx context.Context, storageID, path, query string) ([]Entry, error)
}

// ErrNotFound matches missing storages and paths.
var ErrNotFound = errors.New("not found")

// ErrSearchUnsupported is returned when a backend cannot search.
var ErrSearchUnsupported = errors.New("search is not supported by this backend")

// APIError is a non-2xx answer of the public files API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
