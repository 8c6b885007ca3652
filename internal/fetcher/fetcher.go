// Package fetcher renders profile pages in a headless browser and hands them
// to the extraction engine as extraction.Page values.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// ErrFetch wraps every failure to obtain a rendered page.
var ErrFetch = errors.New("fetch failed")

// visibleTextJS reads what a user would see. Hidden nodes are excluded by the
// renderer, unlike goquery's Text().
const visibleTextJS = `() => document.body ? document.body.innerText : ""`

type Fetcher interface {
	Fetch(ctx context.Context, url string) (extraction.Page, error)
	Close() error
}

// NewFetcher picks the engine configured in fetcher.engine. The browser is
// started lazily on the first Fetch.
func NewFetcher(conf *structures.Config, logger providers.Logger) (Fetcher, error) {
	switch conf.Fetcher.Engine {
	case EngineRod, "":
		return NewRodFetcher(conf.Fetcher, logger), nil
	case EngineChromedp:
		return NewChromedpFetcher(conf.Fetcher, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", conf.Fetcher.Engine)
	}
}

func fetchError(url string, stage string, err error) error {
	return fmt.Errorf("%w: %s: %s: %v", ErrFetch, url, stage, err)
}

// buildPage turns a rendered snapshot into a queryable page.
func buildPage(url, text, html string) (extraction.Page, error) {
	if html == "" && text == "" {
		return nil, fetchError(url, "snapshot", errors.New("empty document"))
	}
	page, err := extraction.NewDocumentPage(text, html)
	if err != nil {
		return nil, fetchError(url, "snapshot", err)
	}
	return page, nil
}
