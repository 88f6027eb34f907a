package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	DBPath     string
	ConfigPath string // Path to the YAML config file
}

// SiteConfig holds all target-site specific settings (from YAML)
type SiteConfig struct {
	BrandURL       string        `yaml:"brand_url"`
	MaxPerfumes    int           `yaml:"max_perfumes"`
	OutputFile     string        `yaml:"output_file"`
	Headless       *bool         `yaml:"headless"`
	ListingTimeout time.Duration `yaml:"listing_timeout"`
	DetailTimeout  time.Duration `yaml:"detail_timeout"`
	CookieTimeout  time.Duration `yaml:"cookie_timeout"`
	Selectors      Selectors     `yaml:"selectors"`
}

type Selectors struct {
	CookieButton  string     `yaml:"cookie_button"`
	ListingLink   string     `yaml:"listing_link"`
	Name          string     `yaml:"name"`
	Brand         string     `yaml:"brand"`
	Concentration string     `yaml:"concentration"`
	NoteBlocks    NoteBlocks `yaml:"note_blocks"`
	NoteItem      string     `yaml:"note_item"`
}

// NoteBlocks locates the container of each note tier on a detail page.
type NoteBlocks struct {
	Top     string `yaml:"top"`
	Middle  string `yaml:"middle"`
	Base    string `yaml:"base"`
	General string `yaml:"general"`
}

const (
	DefaultMaxPerfumes    = 5
	DefaultOutputFile     = "perfumes.json"
	DefaultListingTimeout = 60 * time.Second
	DefaultDetailTimeout  = 60 * time.Second
	DefaultCookieTimeout  = 5 * time.Second
)

// DefaultSelectors match the parfumo.net markup.
func DefaultSelectors() Selectors {
	return Selectors{
		CookieButton:  "#notice button",
		ListingLink:   ".col.col-normal a",
		Name:          "h1[itemprop='name']",
		Brand:         "h1 span span",
		Concentration: "span.p_con",
		NoteBlocks: NoteBlocks{
			Top:     ".nb_t",
			Middle:  ".nb_m",
			Base:    ".nb_b",
			General: ".nb_n",
		},
		NoteItem: ".right .nowrap.pointer span:last-child",
	}
}

// GetAppConfig reads basic infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	dbPath := os.Getenv("DB_PATH")
	configPath := os.Getenv("CONFIG_PATH")

	if dbPath == "" {
		dbPath = "./local-data/perfume.db"
	}
	if configPath == "" {
		configPath = "config.yaml"
	}

	return AppConfig{
		DBPath:     dbPath,
		ConfigPath: configPath,
	}, nil
}

// LoadSiteConfig reads the YAML file to configure the scraper.
// Settings left out of the file take their defaults.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	return ParseSiteConfig(data)
}

// DefaultSiteConfig is the configuration used when no YAML file is present.
func DefaultSiteConfig() *SiteConfig {
	cfg := SiteConfig{MaxPerfumes: DefaultMaxPerfumes}
	cfg.applyDefaults()
	return &cfg
}

// ParseSiteConfig decodes YAML bytes into a SiteConfig with defaults applied.
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	// Keys absent from the file keep these values.
	cfg := SiteConfig{MaxPerfumes: DefaultMaxPerfumes}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	cfg.applyDefaults()
	if cfg.MaxPerfumes < 0 {
		return nil, fmt.Errorf("max_perfumes must not be negative, got %d", cfg.MaxPerfumes)
	}
	return &cfg, nil
}

// IsHeadless reports whether the browser should run without a window (default true).
func (c *SiteConfig) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

func (c *SiteConfig) applyDefaults() {
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.ListingTimeout <= 0 {
		c.ListingTimeout = DefaultListingTimeout
	}
	if c.DetailTimeout <= 0 {
		c.DetailTimeout = DefaultDetailTimeout
	}
	if c.CookieTimeout <= 0 {
		c.CookieTimeout = DefaultCookieTimeout
	}

	def := DefaultSelectors()
	s := &c.Selectors
	fill(&s.CookieButton, def.CookieButton)
	fill(&s.ListingLink, def.ListingLink)
	fill(&s.Name, def.Name)
	fill(&s.Brand, def.Brand)
	fill(&s.Concentration, def.Concentration)
	fill(&s.NoteBlocks.Top, def.NoteBlocks.Top)
	fill(&s.NoteBlocks.Middle, def.NoteBlocks.Middle)
	fill(&s.NoteBlocks.Base, def.NoteBlocks.Base)
	fill(&s.NoteBlocks.General, def.NoteBlocks.General)
	fill(&s.NoteItem, def.NoteItem)
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
