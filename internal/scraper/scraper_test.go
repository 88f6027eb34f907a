package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/scent-scout/internal/config"
)

// fakePage serves canned HTML per URL and records every navigation.
type fakePage struct {
	pages   map[string]string
	consent ConsentOutcome
	failOn  string

	current  string
	visited  []string
	consents int
}

func (f *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	if url == f.failOn {
		return errors.New("navigation timeout")
	}
	if _, ok := f.pages[url]; !ok {
		return fmt.Errorf("no such page %s", url)
	}
	f.current = url
	f.visited = append(f.visited, url)
	return nil
}

func (f *fakePage) DismissCookies(string, time.Duration) ConsentOutcome {
	f.consents++
	return f.consent
}

func (f *fakePage) HTML() (string, error) {
	return f.pages[f.current], nil
}

const (
	brandURL = "https://www.parfumo.net/Perfumes/Dior"
	link1    = "https://www.parfumo.net/Perfumes/Dior/Sauvage"
	link2    = "https://www.parfumo.net/Perfumes/Dior/Dune"
	link3    = "https://www.parfumo.net/Perfumes/Dior/Poison"
)

func threePageSite() map[string]string {
	return map[string]string{
		brandURL: `
<div class="col col-normal"><a href="/Perfumes/Dior/Sauvage">1</a></div>
<div class="col col-normal"><a href="/Perfumes/Dior/Dune">2</a></div>
<div class="col col-normal"><a href="/Perfumes/Dior/Poison">3</a></div>`,
		link1: `
<h1 itemprop="name">Sauvage <span><span>Dior <span class="p_con">X</span></span></span></h1>
<div class="nb_t"><div class="right"><span class="nowrap pointer"><span>Bergamot</span></span></div></div>
<div class="nb_m"><div class="right"><span class="nowrap pointer"><span>Lavender</span></span></div></div>
<div class="nb_b"><div class="right"><span class="nowrap pointer"><span>Ambroxan</span></span></div></div>`,
		link2: `
<h1 itemprop="name">Dune <span><span>Dior</span></span></h1>
<div class="nb_t"><div class="right"><span class="nowrap pointer"><span>Peony</span></span></div></div>`,
		link3: `
<h1 itemprop="name">Poison <span><span>Dior <span class="p_con">Eau de Toilette</span></span></span></h1>
<div class="nb_t"><div class="right"><span class="nowrap pointer"><span>Plum</span></span></div></div>
<div class="nb_b"><div class="right"><span class="nowrap pointer"><span>Vanilla</span></span></div></div>`,
	}
}

func testOptions(max int) RunOptions {
	cfg := config.DefaultSiteConfig()
	cfg.BrandURL = brandURL
	cfg.MaxPerfumes = max
	return OptionsFromConfig(cfg)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	out := logger.Writer()
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(out) })
	return &buf
}

func TestRunEndToEnd(t *testing.T) {
	captureLogs(t)
	page := &fakePage{pages: threePageSite(), consent: ConsentDismissed}

	perfumes, err := Run(context.Background(), page, testOptions(5))
	require.NoError(t, err)
	require.Len(t, perfumes, 3)

	assert.Equal(t, "X", perfumes[0].Concentration)
	assert.Equal(t, "", perfumes[1].Concentration)
	assert.Equal(t, []string{}, perfumes[2].Notes.Middle)
	assert.Equal(t, []string{"Plum"}, perfumes[2].Notes.Top)

	assert.Equal(t, link1, perfumes[0].URL)
	assert.Equal(t, link2, perfumes[1].URL)
	assert.Equal(t, link3, perfumes[2].URL)
	for _, p := range perfumes {
		assert.NotEmpty(t, p.URL)
	}

	assert.Equal(t, []string{brandURL, link1, link2, link3}, page.visited)
	assert.Equal(t, 1, page.consents, "no further probes once the banner is dismissed")
}

func TestRunZeroMaxVisitsNothing(t *testing.T) {
	captureLogs(t)
	page := &fakePage{pages: threePageSite()}

	perfumes, err := Run(context.Background(), page, testOptions(0))
	require.NoError(t, err)
	assert.NotNil(t, perfumes)
	assert.Empty(t, perfumes)
	assert.Empty(t, page.visited)
}

func TestRunTruncatesToMax(t *testing.T) {
	captureLogs(t)
	page := &fakePage{pages: threePageSite()}

	perfumes, err := Run(context.Background(), page, testOptions(2))
	require.NoError(t, err)
	require.Len(t, perfumes, 2)
	assert.Equal(t, []string{brandURL, link1, link2}, page.visited)
}

func TestRunWithoutCookieBanner(t *testing.T) {
	logs := captureLogs(t)
	page := &fakePage{pages: threePageSite(), consent: ConsentNotPresent}

	perfumes, err := Run(context.Background(), page, testOptions(1))
	require.NoError(t, err)
	require.Len(t, perfumes, 1)
	require.NotNil(t, perfumes[0].Name)
	assert.Equal(t, "Sauvage", *perfumes[0].Name)
	assert.Contains(t, logs.String(), "No cookie banner detected")
}

func TestRunNavigationFailureAborts(t *testing.T) {
	captureLogs(t)
	page := &fakePage{pages: threePageSite(), failOn: link2}

	perfumes, err := Run(context.Background(), page, testOptions(5))
	require.Error(t, err)
	assert.Nil(t, perfumes)
	assert.Contains(t, err.Error(), link2)
}

func TestRunEmptyListing(t *testing.T) {
	captureLogs(t)
	page := &fakePage{pages: map[string]string{brandURL: `<p>no perfumes</p>`}}

	perfumes, err := Run(context.Background(), page, testOptions(5))
	require.NoError(t, err)
	assert.Empty(t, perfumes)
	assert.Equal(t, []string{brandURL}, page.visited)
}

func TestRunCancelled(t *testing.T) {
	captureLogs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := &fakePage{pages: threePageSite()}

	_, err := Run(ctx, page, testOptions(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsentOutcomeString(t *testing.T) {
	assert.Equal(t, "dismissed", ConsentDismissed.String())
	assert.Equal(t, "not present", ConsentNotPresent.String())
}
