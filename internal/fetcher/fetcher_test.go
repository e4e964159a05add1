package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})
}

func TestDownload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bikesafety-cli/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestDownload_RetriesOn5xx(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	body.Close()
	assert.Equal(t, 3, attempts)
}

func TestDownload_ExhaustsRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 5 * time.Second, MaxRetries: 2})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
	assert.Equal(t, 2, attempts)
}

func TestDownload_NonRetryableStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, 1, attempts)
}

func TestDownload_RateLimiterHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	f := NewHTTPFetcher(HTTPOptions{
		Timeout: 5 * time.Second,
		// An exhausted zero-rate limiter can never admit the request.
		RateLimiters: map[string]*rate.Limiter{host: rate.NewLimiter(0, 0)},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := f.Download(ctx, srv.URL)
	require.Error(t, err)
}

func TestDownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"station_id":"100"}]`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "stations.json")
	n, err := newTestFetcher().DownloadToFile(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, int64(22), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"station_id":"100"}]`, string(data))
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{"data":{"stations":[]}}`))
	require.NoError(t, err)

	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m, "data")
}

func TestDecodeDocument_Invalid(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestReadDocument_MissingFile(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestFetchDocumentWithFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "crashes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"borough":"QUEENS"}]`), 0o644))

	doc, err := FetchDocumentWithFallback(context.Background(), newTestFetcher(), srv.URL, path)
	require.NoError(t, err)

	records, ok := doc.([]any)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestFetchDocumentWithFallback_NoFallbackPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchDocumentWithFallback(context.Background(), newTestFetcher(), srv.URL, "")
	assert.Error(t, err)
}
