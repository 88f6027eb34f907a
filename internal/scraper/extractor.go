package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/models"
)

// ExtractPerfume reads one detail page into a record. Each field is read on
// its own: a missing element only blanks that field (nil for name and brand,
// "" for concentration, an empty list for a note tier).
func ExtractPerfume(html, pageURL string, sel config.Selectors) (models.Perfume, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Perfume{}, err
	}

	p := models.Perfume{
		Name:  optionalText(doc.Find(sel.Name)),
		Brand: optionalText(doc.Find(sel.Brand)),
		Notes: models.NewNotes(),
		URL:   pageURL,
	}

	if conc := doc.Find(sel.Concentration); conc.Length() > 0 {
		p.Concentration = collapse(conc.First().Text())
	}

	p.Notes.Top = noteTier(doc, sel.NoteBlocks.Top, sel.NoteItem)
	p.Notes.Middle = noteTier(doc, sel.NoteBlocks.Middle, sel.NoteItem)
	p.Notes.Base = noteTier(doc, sel.NoteBlocks.Base, sel.NoteItem)
	p.Notes.General = noteTier(doc, sel.NoteBlocks.General, sel.NoteItem)

	return p, nil
}

// optionalText returns the own text of the first match, nil if nothing matched.
func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	return models.Text(ownText(s.First()))
}

// ownText is the element's direct text, leaving out nested elements such as
// the brand span inside the title heading. Falls back to the full text when
// the element only has nested content.
func ownText(s *goquery.Selection) string {
	direct := s.Contents().FilterFunction(func(_ int, c *goquery.Selection) bool {
		return goquery.NodeName(c) == "#text"
	}).Text()
	if text := collapse(direct); text != "" {
		return text
	}
	return collapse(s.Text())
}

func noteTier(doc *goquery.Document, block, item string) []string {
	notes := []string{}
	if block == "" || item == "" {
		return notes
	}
	doc.Find(block).Find(item).Each(func(_ int, s *goquery.Selection) {
		if note := collapse(s.Text()); note != "" {
			notes = append(notes, note)
		}
	})
	return notes
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
