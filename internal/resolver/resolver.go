// Package resolver merges the cruise configuration sources into one model.Config.
//
// Sources, lowest to highest precedence:
//
//   - built-in defaults
//   - autocruise-NAME attributes of the host document body
//   - NAME=VALUE pairs of the URL query
//   - the remote JSON document named by the "config" option
//
// Pages come from the remote document when a "config" option is present and
// from the host document's anchors otherwise. A failed fetch leaves the page
// list empty; it never falls back to anchors.
package resolver

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

// Input is the raw bootstrap data of one page load.
type Input struct {
	BodyAttributes map[string]string // raw body attributes, prefixed names included
	Query          string            // raw query string, with or without the leading '?'
	Anchors        []string          // href of every body anchor, in document order
	Base           *url.URL          // resolves relative config URLs; nil keeps them as-is
}

// Fetcher retrieves a remote configuration document.
type Fetcher interface {
	FetchDocument(ctx context.Context, rawURL string) (*model.Document, error)
}

// Resolution is the outcome of Resolve.
// Config is always usable; Err reports a recoverable remote configuration failure.
type Resolution struct {
	Config    model.Config
	ConfigURL string // empty when no remote document was requested
	Err       *FetchError
}

// Resolve builds the configuration for one page load. The remote fetch, if any,
// completes before Resolve returns.
func Resolve(ctx context.Context, in Input, fetcher Fetcher) Resolution {
	opts := defaultOptions()
	opts.applyAttributes(in.BodyAttributes)
	opts.applyQuery(in.Query)

	res := Resolution{Config: model.DefaultConfig()}
	cfg := &res.Config

	if v, ok := parseSeconds(opts[model.OptionInterval]); ok {
		if d, ok := seconds(v); ok {
			cfg.Interval = d
		}
	}
	if v := opts[model.OptionView]; v != "" {
		cfg.View = model.View(v)
	}

	configRef, hasConfig := opts[model.OptionConfig]
	if !hasConfig || configRef == "" {
		cfg.Pages = append([]string{}, in.Anchors...)
		return res
	}

	res.ConfigURL = opts[model.OptionConfigBase] + configRef
	target := absolute(in.Base, res.ConfigURL)

	if fetcher == nil {
		res.Err = &FetchError{URL: res.ConfigURL, Err: errNoFetcher}
		return res
	}
	doc, err := fetcher.FetchDocument(ctx, target)
	if err != nil {
		res.Err = &FetchError{URL: res.ConfigURL, Err: err}
		return res
	}
	applyDocument(cfg, doc)
	return res
}

// applyDocument writes remote document fields over cfg. They win over every
// body attribute and query option.
func applyDocument(cfg *model.Config, doc *model.Document) {
	if doc == nil {
		return
	}
	if doc.Interval != nil {
		if d, ok := seconds(*doc.Interval); ok {
			cfg.Interval = d
		}
	}
	if doc.View != nil && *doc.View != "" {
		cfg.View = model.View(*doc.View)
	}
	switch {
	case doc.Title != nil:
		cfg.Title = *doc.Title
	case doc.Meta != nil && doc.Meta.Title != nil:
		cfg.Title = *doc.Meta.Title
	}
	cfg.Pages = append([]string{}, doc.Pages...)
}

// seconds converts a positive number of seconds to a Duration, saturating at
// the largest Duration. Values that are not positive, or that round to zero,
// are rejected.
func seconds(v float64) (time.Duration, bool) {
	if !(v > 0) {
		return 0, false
	}
	if v >= float64(math.MaxInt64)/float64(time.Second) {
		return math.MaxInt64, true
	}
	d := time.Duration(v * float64(time.Second))
	return d, d > 0
}

// absolute resolves ref against base. Unparseable references are returned unchanged.
func absolute(base *url.URL, ref string) string {
	if base == nil || strings.Contains(ref, "://") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
