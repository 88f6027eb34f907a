package scraper

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Browser owns the launched Chromium process.
type Browser struct {
	browser *rod.Browser
}

// Launch starts a local browser and connects to it.
func Launch(ctx context.Context, headless bool) (*Browser, error) {
	l := launcher.New().Headless(headless).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}
	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, err
	}
	return &Browser{browser: b}, nil
}

// NewPage opens the one tab used for the whole run.
func (b *Browser) NewPage(ctx context.Context) (*RodPage, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, err
	}
	return &RodPage{page: page.Context(ctx)}, nil
}

// Close shuts the browser down. It detaches from the run context so an
// interrupted run still closes Chromium.
func (b *Browser) Close() error {
	return b.browser.Context(context.Background()).Close()
}

// RodPage adapts a rod page to Page.
type RodPage struct {
	page *rod.Page
}

func (r *RodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p := r.page.Context(ctx)
	if timeout > 0 {
		p = p.Timeout(timeout)
		defer p.CancelTimeout()
	}
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitStable(time.Second)
}

// DismissCookies never fails: a missing control, a timeout or a failed
// click all report ConsentNotPresent.
func (r *RodPage) DismissCookies(selector string, wait time.Duration) ConsentOutcome {
	if selector == "" {
		return ConsentNotPresent
	}
	probe := r.page.Timeout(wait)
	err := rod.Try(func() {
		probe.MustElement(selector).MustClick()
	})
	probe.CancelTimeout()
	if err != nil {
		return ConsentNotPresent
	}

	// The click happened; a slow reload does not undo it.
	p := r.page.Timeout(wait)
	defer p.CancelTimeout()
	if err := p.WaitLoad(); err != nil {
		logger.Printf("Page did not settle after dismissing the cookie banner: %v", err)
	}
	return ConsentDismissed
}

func (r *RodPage) HTML() (string, error) {
	return r.page.HTML()
}
