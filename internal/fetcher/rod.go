package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

type RodFetcher struct {
	conf   structures.FetcherConfig
	logger providers.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func NewRodFetcher(conf structures.FetcherConfig, logger providers.Logger) *RodFetcher {
	return &RodFetcher{conf: conf, logger: logger}
}

func (f *RodFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	controlURL := f.conf.RemoteURL
	if controlURL == "" {
		l := launcher.New().
			Headless(f.conf.Headless).
			NoSandbox(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
		f.launcher = l
		f.logger.Infof(providers.TypeFetch, "Launched local browser at %s", controlURL)
	} else {
		f.logger.Infof(providers.TypeFetch, "Connecting to remote browser at %s", controlURL)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if f.launcher != nil {
			f.launcher.Kill()
			f.launcher = nil
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	f.browser = b
	return b, nil
}

func (f *RodFetcher) newPage(b *rod.Browser) (*rod.Page, error) {
	if f.conf.Stealth {
		return stealth.Page(b)
	}
	return b.Page(proto.TargetCreateTarget{})
}

func (f *RodFetcher) Fetch(ctx context.Context, url string) (extraction.Page, error) {
	b, err := f.connect()
	if err != nil {
		return nil, fetchError(url, "browser", err)
	}

	page, err := f.newPage(b)
	if err != nil {
		return nil, fetchError(url, "open tab", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			f.logger.Debugf(providers.TypeFetch, "Close tab for %s: %s", url, err)
		}
	}()

	if f.conf.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.conf.UserAgent}); err != nil {
			return nil, fetchError(url, "user agent", err)
		}
	}

	p := page.Context(ctx).Timeout(f.conf.Timeout)
	start := time.Now()
	if err := p.Navigate(url); err != nil {
		return nil, fetchError(url, "navigate", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fetchError(url, "wait load", err)
	}
	if err := settle(ctx, f.conf.Settle); err != nil {
		return nil, fetchError(url, "settle", err)
	}

	res, err := p.Eval(visibleTextJS)
	if err != nil {
		return nil, fetchError(url, "visible text", err)
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fetchError(url, "html", err)
	}
	f.logger.Debugf(providers.TypeFetch, "Rendered %s in %s (%d bytes)", url, time.Since(start), len(html))

	return buildPage(url, res.Value.Str(), html)
}

func (f *RodFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// settle waits for client-side rendering to finish after the load event.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
