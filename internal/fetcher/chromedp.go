package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

type ChromedpFetcher struct {
	conf   structures.FetcherConfig
	logger providers.Logger

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpFetcher(conf structures.FetcherConfig, logger providers.Logger) *ChromedpFetcher {
	return &ChromedpFetcher{conf: conf, logger: logger}
}

func (f *ChromedpFetcher) allocator() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.allocCtx != nil {
		return f.allocCtx
	}

	if f.conf.RemoteURL != "" {
		f.allocCtx, f.allocCancel = chromedp.NewRemoteAllocator(context.Background(), f.conf.RemoteURL)
		f.logger.Infof(providers.TypeFetch, "Using remote browser at %s", f.conf.RemoteURL)
		return f.allocCtx
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.conf.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if f.conf.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.conf.UserAgent))
	}
	f.allocCtx, f.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return f.allocCtx
}

func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (extraction.Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.allocator(), chromedp.WithLogf(func(format string, args ...interface{}) {
		f.logger.Debugf(providers.TypeFetch, format, args...)
	}))
	defer cancelTab()

	timeoutCtx, cancel := context.WithTimeout(tabCtx, f.conf.Timeout)
	defer cancel()

	// The tab context descends from the allocator, not from ctx.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text, html string
	start := time.Now()
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.conf.Settle),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fetchError(url, "render", err)
	}
	f.logger.Debugf(providers.TypeFetch, "Rendered %s in %s (%d bytes)", url, time.Since(start), len(html))

	return buildPage(url, text, html)
}

func (f *ChromedpFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.allocCancel != nil {
		f.allocCancel()
		f.allocCtx, f.allocCancel = nil, nil
	}
	return nil
}
