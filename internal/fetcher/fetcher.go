// Package fetcher downloads JSON feed documents over HTTP with bounded
// timeouts, retry, and per-host rate limiting.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote feed data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
