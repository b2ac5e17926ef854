package blocklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 20 * time.Second
	defaultUserAgent   = "hostsblock"
)

// Fetcher retrieves the raw content of a source.
type Fetcher interface {
	Fetch(ctx context.Context, source Source) ([]byte, error)
}

// HTTPFetcher downloads http(s) sources and reads anything else from disk.
// When CacheDir is set, downloads are cached there and a failed download
// falls back to the cached copy.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	CacheDir  string
	Log       *slog.Logger
}

// FetcherOptions configures NewHTTPFetcher.
type FetcherOptions struct {
	Timeout   time.Duration
	UserAgent string
	CacheDir  string
	Log       *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher. An unusable cache directory disables
// caching.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		CacheDir:  EnsureCacheDir(opts.CacheDir, log),
		Log:       log,
	}
}

// EnsureCacheDir creates the cache directory if missing. Returns an empty string on failure.
func EnsureCacheDir(cacheDir string, log *slog.Logger) string {
	if cacheDir == "" {
		return ""
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		if log != nil {
			log.Error("failed to create cache dir, caching disabled", "dir", cacheDir, "error", err)
		}
		return ""
	}
	return cacheDir
}

// Fetch returns the content of source. Errors are *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, source Source) ([]byte, error) {
	data, err := f.read(ctx, source)
	if err != nil {
		return nil, &FetchError{SourceID: source.ID, Location: source.Location, Err: err}
	}
	return data, nil
}

func (f *HTTPFetcher) read(ctx context.Context, source Source) ([]byte, error) {
	if !isURL(source.Location) {
		data, err := os.ReadFile(source.Location)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	data, err := f.download(ctx, source)
	if err == nil {
		if f.CacheDir != "" {
			if err := writeCache(f.CacheDir, source, data); err != nil {
				f.Log.Warn("failed to write cache", "source", source.ID, "error", err)
			}
		}
		return data, nil
	}
	if f.CacheDir == "" || ctx.Err() != nil {
		return nil, err
	}

	cached, cacheErr := readCache(f.CacheDir, source)
	if cacheErr != nil {
		return nil, fmt.Errorf("download failed: %w; cache error: %s", err, cacheErr.Error())
	}
	f.Log.Warn("download failed, using cached list", "source", source.ID, "error", err)
	return cached, nil
}

func (f *HTTPFetcher) download(ctx context.Context, source Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.Location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	applyAuth(req, source.Auth)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.Log.Warn("failed to close hosts list response body", "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func applyAuth(req *http.Request, auth AuthConfig) {
	if auth.Username != "" || auth.Password != "" {
		req.SetBasicAuth(auth.Username, auth.Password)
	}
	if auth.Token != "" {
		header := auth.Header
		if header == "" {
			header = "Authorization"
		}
		scheme := auth.Scheme
		if scheme == "" {
			scheme = "Bearer"
		}
		req.Header.Set(header, strings.TrimSpace(scheme+" "+auth.Token))
	}
}

func writeCache(cacheDir string, source Source, data []byte) error {
	path := filepath.Join(cacheDir, cacheFileName(source))
	return os.WriteFile(path, data, 0o600)
}

func readCache(cacheDir string, source Source) ([]byte, error) {
	path := filepath.Join(cacheDir, cacheFileName(source))
	// #nosec G304 -- cache path is derived from configured cache directory.
	return os.ReadFile(path)
}

func cacheFileName(source Source) string {
	id := sanitizeID(source.ID)
	if id == "" {
		hash := sha256.Sum256([]byte(source.Location))
		id = "source-" + hex.EncodeToString(hash[:8])
	}
	return id + ".txt"
}

func sanitizeID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	builder := strings.Builder{}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	return builder.String()
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
