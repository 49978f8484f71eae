package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/autocruise/internal/hostdoc"
)

const (
	pageFetchTimeout = 15 * time.Second
	maxPageBytes     = 2 * 1024 * 1024
)

// TitleFunc loads a page and returns its title. It stands in for a frame
// load: success or failure both complete the slot.
type TitleFunc func(ctx context.Context, url string) (string, error)

// pageLoadedMsg reports completion of a page load.
type pageLoadedMsg struct {
	Index int
	Title string
	Err   error
}

// HTTPTitle returns a TitleFunc that GETs pages with client.
func HTTPTitle(client *http.Client) TitleFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, url string) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("tui: build request: %w", err)
		}
		req.Header.Set("Accept", "text/html")

		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("tui: fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", fmt.Errorf("tui: fetch %s: %s", url, resp.Status)
		}
		return hostdoc.Title(io.LimitReader(resp.Body, maxPageBytes))
	}
}

// fetchCmd loads one page off the update goroutine.
func fetchCmd(fn TitleFunc, req fetchRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pageFetchTimeout)
		defer cancel()
		title, err := fn(ctx, req.url)
		return pageLoadedMsg{Index: req.index, Title: title, Err: err}
	}
}
