// Package source fetches raw result text from a file or an HTTP endpoint.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second
	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 16 << 20
)

// Source yields the full text of a results table.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

// Option applies a configuration option to a source built by New.
type Option func(*options)

type options struct {
	timeout time.Duration
	client  *http.Client
}

// WithTimeout bounds a single HTTP fetch.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// New picks a source by location: http:// and https:// URLs are fetched
// over HTTP, anything else is a file path (a file:// prefix is stripped).
func New(location string, opts ...Option) Source {
	o := &options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(o)
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		client := o.client
		if client == nil {
			client = &http.Client{Timeout: o.timeout}
		}
		return &HTTPSource{URL: location, Client: client}
	}
	return &FileSource{Path: strings.TrimPrefix(location, "file://")}
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.Path }

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.Path, err)
	}
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %w: %s", ErrFetch, ErrNotFound, s.Path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.Path, err)
	}
	return string(b), nil
}

// HTTPSource issues a GET per fetch.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Name returns the URL.
func (s *HTTPSource) Name() string { return s.URL }

// Fetch downloads the body. Non-2xx statuses are failures; 404 also
// matches ErrNotFound.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.URL, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %w: %s", ErrFetch, ErrNotFound, s.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: status %d", ErrFetch, s.URL, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %s: read body: %w", ErrFetch, s.URL, err)
	}
	return string(b), nil
}

// Static serves fixed text. It backs tests and piped CLI input.
type Static struct {
	Label string
	Text  string
}

// Name returns the label.
func (s Static) Name() string { return s.Label }

// Fetch returns the text.
func (s Static) Fetch(context.Context) (string, error) { return s.Text, nil }
