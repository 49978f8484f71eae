package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxDocumentBytes    = 4 * 1024 * 1024
)

// HTTPFetcher loads remote configuration documents over HTTP.
type HTTPFetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{Client: &http.Client{}, Timeout: timeout}
}

// FetchDocument GETs rawURL and decodes the JSON body.
func (f *HTTPFetcher) FetchDocument(ctx context.Context, rawURL string) (*model.Document, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var doc model.Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
