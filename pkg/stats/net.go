package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Fetcher reads a source by URL. Supported forms are http(s) URLs,
// s3://bucket/key (requires Store) and plain local paths.
type Fetcher struct {
	Client *http.Client
	Store  *ObjectStore
	Logger *slog.Logger
}

func NewFetcher(store *ObjectStore, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: 60 * time.Second},
		Store:  store,
		Logger: logger,
	}
}

func (fe *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	fe.Logger.Info("download", "source", source)

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fe.download(ctx, source)
	case strings.HasPrefix(source, "s3://"):
		if fe.Store == nil {
			return nil, fmt.Errorf("no object store configured for '%s'", source)
		}
		bucket, key, err := ParseObjectURL(source)
		if err != nil {
			return nil, err
		}
		return fe.Store.Get(ctx, bucket, key)
	default:
		return os.ReadFile(source)
	}
}

func (fe *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fe.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
