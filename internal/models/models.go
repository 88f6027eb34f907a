package models

import (
	"regexp"
	"strings"
)

// Perfume holds the scraped data for a single detail page.
//
// Name and Brand are nil when their element is missing from the page.
// Concentration is "" when the page carries no concentration tag.
// Note tiers are never nil; a missing tier is an empty list.
type Perfume struct {
	Name          *string `json:"name"`
	Brand         *string `json:"brand"`
	Concentration string  `json:"concentration"`
	Notes         Notes   `json:"notes"`
	URL           string  `json:"url"`
}

// Notes is the fragrance pyramid. General is used by perfumes listed without
// a top/middle/base split.
type Notes struct {
	Top     []string `json:"top"`
	Middle  []string `json:"middle"`
	Base    []string `json:"base"`
	General []string `json:"general"`
}

// NewNotes returns a Notes value with every tier initialised to an empty list.
func NewNotes() Notes {
	return Notes{
		Top:     []string{},
		Middle:  []string{},
		Base:    []string{},
		General: []string{},
	}
}

// OrEmpty replaces nil tiers with empty lists.
func (n Notes) OrEmpty() Notes {
	for _, tier := range []*[]string{&n.Top, &n.Middle, &n.Base, &n.General} {
		if *tier == nil {
			*tier = []string{}
		}
	}
	return n
}

// Text returns a pointer to s. Used to fill the optional text fields.
func Text(s string) *string {
	return &s
}

// Value dereferences an optional text field, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	reEdgeDashes = regexp.MustCompile(`(^-+|-+$)`)
)

// Slugify builds the catalog key for a perfume: lowercase, "&" spelled out,
// every other run of non-alphanumerics collapsed to a single dash.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", "and")
	s = reNonAlnum.ReplaceAllString(s, "-")
	return reEdgeDashes.ReplaceAllString(s, "")
}

// Slug is the catalog key of p, or "" when name or brand is absent.
func (p Perfume) Slug() string {
	if p.Name == nil || p.Brand == nil || *p.Name == "" || *p.Brand == "" {
		return ""
	}
	return Slugify(*p.Brand + "-" + *p.Name)
}
