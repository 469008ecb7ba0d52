package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
)

const publicFilesPrefix = "/public/files"

// Config holds APIClient configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// APIClient talks to the public files API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ Client   = (*APIClient)(nil)
	_ Searcher = (*APIClient)(nil)
)

// NewAPIClient creates a client for the API rooted at cfg.BaseURL.
func NewAPIClient(cfg Config) *APIClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &APIClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *APIClient) WithHTTPClient(client *http.Client) *APIClient {
	return &APIClient{
		baseURL:    c.baseURL,
		httpClient: client,
	}
}

// BaseURL returns the configured API base.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// ListDirectory returns the entries of path under storageID in server order.
func (c *APIClient) ListDirectory(ctx context.Context, storageID, path string) ([]Entry, error) {
	var entries []Entry
	if err := c.get(ctx, c.endpoint(storageID, "tree", path), &entries); err != nil {
		return nil, fmt.Errorf("failed to list %s/%s: %w", storageID, path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// FileMetadata fetches the metadata of a single file.
func (c *APIClient) FileMetadata(ctx context.Context, storageID, path string) (FileMetadata, error) {
	var meta FileMetadata
	if err := c.get(ctx, c.endpoint(storageID, "info", path), &meta); err != nil {
		return FileMetadata{}, fmt.Errorf("failed to fetch info for %s/%s: %w", storageID, path, err)
	}
	if meta.Size < 0 {
		return FileMetadata{}, fmt.Errorf("invalid size %d for %s/%s", meta.Size, storageID, path)
	}
	if meta.Path == "" {
		meta.Path = navpath.Clean(path)
	}
	if meta.Name == "" {
		meta.Name = navpath.Base(meta.Path)
	}
	return meta, nil
}

// Search looks for entries matching query below path.
func (c *APIClient) Search(ctx context.Context, storageID, path, query string) ([]Entry, error) {
	endpoint := c.endpoint(storageID, "search", path) + "?search_path=" + url.QueryEscape(query)

	var entries []Entry
	if err := c.get(ctx, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("failed to search %s/%s: %w", storageID, path, err)
	}
	return entries, nil
}

// DownloadURL returns {base}/public/files/{storageID}/download/{path}.
func (c *APIClient) DownloadURL(storageID, path string) string {
	return c.endpoint(storageID, "download", path)
}

func (c *APIClient) endpoint(storageID, action, path string) string {
	return c.baseURL + publicFilesPrefix + "/" + url.PathEscape(storageID) + "/" + action + "/" + navpath.EscapePath(path)
}

// get performs a GET request and decodes the JSON answer into result.
func (c *APIClient) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("APIClient: GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
