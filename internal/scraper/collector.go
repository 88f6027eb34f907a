package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mspro-labs/scent-scout/internal/config"
)

// CollectLinks reads the detail-page links off a brand listing page.
//
// Every href is resolved against pageURL, so the result only holds absolute
// URLs. Empty hrefs are dropped, duplicates keep their first position, and the
// list is cut at max entries. A listing with no matching anchors is not an
// error.
func CollectLinks(html, pageURL string, sel config.Selectors, max int) ([]string, error) {
	links := []string{}
	if max <= 0 {
		return links, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL %q: %w", pageURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("listing URL %q is not absolute", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	doc.Find(sel.ListingLink).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			logger.Printf("Skipping malformed link %q: %v", href, err)
			return true
		}

		link := base.ResolveReference(ref).String()
		if seen[link] {
			return true
		}
		seen[link] = true
		links = append(links, link)
		return len(links) < max
	})

	return links, nil
}
