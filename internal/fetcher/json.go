package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DecodeDocument decodes an entire JSON document into its generic form. The
// shape is resolved later by the schema normalizer, so no structure is
// assumed here beyond valid JSON.
func DecodeDocument(r io.Reader) (any, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "fetcher: decode json document")
	}
	return doc, nil
}

// ReadDocument loads and decodes a JSON document from a local file.
func ReadDocument(path string) (any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer file.Close() //nolint:errcheck

	return DecodeDocument(file)
}

// FetchDocument downloads and decodes a JSON document from a URL.
func FetchDocument(ctx context.Context, f Fetcher, url string) (any, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return DecodeDocument(body)
}

// FetchDocumentWithFallback tries the URL first and falls back to a local
// file when the fetch fails and a fallback path is configured. The network
// failure is reported either way; with no fallback it is fatal to the call.
func FetchDocumentWithFallback(ctx context.Context, f Fetcher, url, fallbackPath string) (any, error) {
	doc, err := FetchDocument(ctx, f, url)
	if err == nil {
		return doc, nil
	}
	if fallbackPath == "" {
		return nil, err
	}
	zap.L().Warn("fetcher: fetch failed, falling back to local file",
		zap.String("url", url),
		zap.String("path", fallbackPath),
		zap.Error(err),
	)
	return ReadDocument(fallbackPath)
}
