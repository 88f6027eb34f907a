package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/scent-scout/internal/config"
)

const listingHTML = `
<html>
<body>
  <div class="pgrid mb-1 mt-1">
    <div class="col col-normal"><a href="/Perfumes/Dior/Sauvage_Eau_de_Toilette">Sauvage</a></div>
    <div class="col col-normal"><a href="">Empty</a></div>
    <div class="col col-normal"><a>No href</a></div>
    <div class="col col-normal"><a href="https://www.parfumo.net/Perfumes/Dior/Fahrenheit">Fahrenheit</a></div>
    <div class="col col-normal"><a href="/Perfumes/Dior/Sauvage_Eau_de_Toilette">Sauvage again</a></div>
    <div class="col col-normal"><a href="Miss_Dior">Miss Dior</a></div>
    <div class="col col-normal"><a href="/Perfumes/Dior/Hypnotic_Poison">Hypnotic Poison</a></div>
  </div>
  <div class="sidebar"><a href="/Perfumes/Chanel">Chanel</a></div>
</body>
</html>
`

func TestCollectLinks(t *testing.T) {
	sel := config.DefaultSelectors()
	const pageURL = "https://www.parfumo.net/Perfumes/Dior/"

	testCases := []struct {
		name     string
		max      int
		expected []string
	}{
		{
			name: "all distinct links in first-seen order",
			max:  10,
			expected: []string{
				"https://www.parfumo.net/Perfumes/Dior/Sauvage_Eau_de_Toilette",
				"https://www.parfumo.net/Perfumes/Dior/Fahrenheit",
				"https://www.parfumo.net/Perfumes/Dior/Miss_Dior",
				"https://www.parfumo.net/Perfumes/Dior/Hypnotic_Poison",
			},
		},
		{
			name: "truncated to max",
			max:  2,
			expected: []string{
				"https://www.parfumo.net/Perfumes/Dior/Sauvage_Eau_de_Toilette",
				"https://www.parfumo.net/Perfumes/Dior/Fahrenheit",
			},
		},
		{
			name:     "zero max yields nothing",
			max:      0,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			links, err := CollectLinks(listingHTML, pageURL, sel, tc.max)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, links)
		})
	}
}

func TestCollectLinksNoMatches(t *testing.T) {
	links, err := CollectLinks(`<html><body><p>nothing here</p></body></html>`,
		"https://www.parfumo.net/Perfumes/Dior", config.DefaultSelectors(), 5)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestCollectLinksRequiresAbsoluteListingURL(t *testing.T) {
	_, err := CollectLinks(listingHTML, "/Perfumes/Dior", config.DefaultSelectors(), 5)
	assert.Error(t, err)
}
