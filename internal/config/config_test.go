package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSiteConfigDefaults(t *testing.T) {
	cfg, err := ParseSiteConfig([]byte(`brand_url: "https://www.parfumo.net/Perfumes/Dior"`))
	require.NoError(t, err)

	assert.Equal(t, "https://www.parfumo.net/Perfumes/Dior", cfg.BrandURL)
	assert.Equal(t, DefaultMaxPerfumes, cfg.MaxPerfumes)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Equal(t, DefaultListingTimeout, cfg.ListingTimeout)
	assert.Equal(t, DefaultCookieTimeout, cfg.CookieTimeout)
	assert.Equal(t, DefaultSelectors(), cfg.Selectors)
	assert.True(t, cfg.IsHeadless())
}

func TestParseSiteConfigOverrides(t *testing.T) {
	const doc = `
brand_url: "https://example.com/brand"
max_perfumes: 0
output_file: out.json
headless: false
cookie_timeout: 2s
detail_timeout: 1m30s
selectors:
  name: "h1.title"
  note_blocks:
    middle: ".heart"
`
	cfg, err := ParseSiteConfig([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.MaxPerfumes, "explicit zero is kept")
	assert.Equal(t, "out.json", cfg.OutputFile)
	assert.False(t, cfg.IsHeadless())
	assert.Equal(t, 2*time.Second, cfg.CookieTimeout)
	assert.Equal(t, 90*time.Second, cfg.DetailTimeout)
	assert.Equal(t, "h1.title", cfg.Selectors.Name)
	assert.Equal(t, ".heart", cfg.Selectors.NoteBlocks.Middle)
	assert.Equal(t, ".nb_t", cfg.Selectors.NoteBlocks.Top)
	assert.Equal(t, "span.p_con", cfg.Selectors.Concentration)
}

func TestParseSiteConfigRejectsNegativeMax(t *testing.T) {
	_, err := ParseSiteConfig([]byte(`max_perfumes: -1`))
	assert.Error(t, err)
}

func TestLoadSiteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_perfumes: 3\n"), 0o644))

	cfg, err := LoadSiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxPerfumes)

	_, err = LoadSiteConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetAppConfig(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("CONFIG_PATH", "")
	cfg, err := GetAppConfig()
	require.NoError(t, err)
	assert.Equal(t, "./local-data/perfume.db", cfg.DBPath)
	assert.Equal(t, "config.yaml", cfg.ConfigPath)

	t.Setenv("DB_PATH", "/tmp/p.db")
	cfg, _ = GetAppConfig()
	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
}
