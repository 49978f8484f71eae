package resolver

import (
	"errors"
	"fmt"
	"html"
)

var errNoFetcher = errors.New("no fetcher configured")

// FetchError reports a remote configuration document that could not be loaded.
// It is recoverable: resolution continues with defaults and no pages.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("config %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTML renders the diagnostic shown in place of the cruise. Every
// interpolated value is escaped.
func (e *FetchError) HTML() string {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf(
		"<h3>Autocruise Configuration Error</h3>\nURL: %s<br>\nError: %s\n",
		html.EscapeString(e.URL),
		html.EscapeString(msg),
	)
}

// StatusError is returned by HTTPFetcher for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return e.Status
}
