package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// fetcher loads GTFS archives from URLs or local files.
// This is CLI-specific logic and is not part of the core library.
type fetcher struct {
	httpClient *http.Client
}

// newFetcher creates a fetcher; a zero timeout means no client timeout
func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// fetch downloads an archive over HTTP and returns its raw bytes
func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// load satisfies sharedstops.Loader: URLs are downloaded, anything else is opened as a file
func (f *fetcher) load(ctx context.Context, source string) (*gtfs.Feed, error) {
	if !isURL(source) {
		return gtfs.LoadFromFile(source)
	}
	data, err := f.fetch(ctx, source)
	if err != nil {
		return nil, &gtfs.FeedLoadError{Source: source, Err: err}
	}
	feed, err := gtfs.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return feed, nil
}
