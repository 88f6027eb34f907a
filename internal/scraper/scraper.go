package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/models"
)

var logger = log.New(os.Stdout, "SCRAPER: ", log.LstdFlags|log.Lshortfile)

// ConsentOutcome is the result of probing for the cookie-consent dialog.
type ConsentOutcome int

const (
	ConsentNotPresent ConsentOutcome = iota
	ConsentDismissed
)

func (o ConsentOutcome) String() string {
	if o == ConsentDismissed {
		return "dismissed"
	}
	return "not present"
}

// Page is the single browser tab a run drives, one navigation at a time.
type Page interface {
	// Navigate loads url and waits for it to settle, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// DismissCookies clicks the consent control if it shows up within wait.
	DismissCookies(selector string, wait time.Duration) ConsentOutcome
	// HTML returns the current document.
	HTML() (string, error)
}

// RunOptions parameterise one scrape run.
type RunOptions struct {
	BrandURL       string
	MaxPerfumes    int
	Selectors      config.Selectors
	ListingTimeout time.Duration
	DetailTimeout  time.Duration
	CookieTimeout  time.Duration
}

// OptionsFromConfig builds run options from the site config.
func OptionsFromConfig(cfg *config.SiteConfig) RunOptions {
	return RunOptions{
		BrandURL:       cfg.BrandURL,
		MaxPerfumes:    cfg.MaxPerfumes,
		Selectors:      cfg.Selectors,
		ListingTimeout: cfg.ListingTimeout,
		DetailTimeout:  cfg.DetailTimeout,
		CookieTimeout:  cfg.CookieTimeout,
	}
}

// Scrape launches a browser, runs the scrape and closes the browser again.
func Scrape(ctx context.Context, cfg *config.SiteConfig) ([]models.Perfume, error) {
	if cfg.MaxPerfumes <= 0 {
		return Run(ctx, nil, OptionsFromConfig(cfg))
	}

	logger.Println("Launching browser...")
	browser, err := Launch(ctx, cfg.IsHeadless())
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Printf("Failed to close browser: %v", err)
		}
	}()

	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return Run(ctx, page, OptionsFromConfig(cfg))
}

// Run collects the brand's detail links and extracts each one in turn. Any
// navigation failure aborts the run; nothing is returned for partial runs.
func Run(ctx context.Context, page Page, opts RunOptions) ([]models.Perfume, error) {
	perfumes := []models.Perfume{}
	if opts.MaxPerfumes <= 0 {
		logger.Println("max_perfumes is 0, nothing to scrape.")
		return perfumes, nil
	}
	if opts.BrandURL == "" {
		return nil, fmt.Errorf("brand URL is not set")
	}

	logger.Printf("Navigating to listing: %s", opts.BrandURL)
	if err := page.Navigate(ctx, opts.BrandURL, opts.ListingTimeout); err != nil {
		return nil, fmt.Errorf("failed to load listing %s: %w", opts.BrandURL, err)
	}
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read listing HTML: %w", err)
	}

	links, err := CollectLinks(html, opts.BrandURL, opts.Selectors, opts.MaxPerfumes)
	if err != nil {
		return nil, fmt.Errorf("failed to collect links: %w", err)
	}
	logger.Printf("Found %d perfume links.", len(links))

	dismissed := false
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Printf("[%d/%d] %s", i+1, len(links), link)

		if err := page.Navigate(ctx, link, opts.DetailTimeout); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", link, err)
		}

		// The banner does not come back once accepted.
		if !dismissed {
			dismissed = handleCookies(page, opts)
		}

		html, err := page.HTML()
		if err != nil {
			return nil, fmt.Errorf("failed to read HTML of %s: %w", link, err)
		}
		perfume, err := ExtractPerfume(html, link, opts.Selectors)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", link, err)
		}
		perfumes = append(perfumes, perfume)
	}

	return perfumes, nil
}

func handleCookies(page Page, opts RunOptions) bool {
	if page.DismissCookies(opts.Selectors.CookieButton, opts.CookieTimeout) == ConsentDismissed {
		logger.Println("Cookie banner dismissed.")
		return true
	}
	logger.Println("No cookie banner detected (continuing).")
	return false
}
