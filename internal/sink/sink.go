package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"mspro-labs/scent-scout/internal/models"
)

// WriteJSON writes the whole run as one indented JSON array. Non-ASCII text
// is written as-is. The file is replaced atomically.
func WriteJSON(path string, perfumes []models.Perfume) error {
	if perfumes == nil {
		perfumes = []models.Perfume{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(perfumes); err != nil {
		return fmt.Errorf("failed to encode perfumes: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// ReadJSON loads a file produced by WriteJSON.
func ReadJSON(path string) ([]models.Perfume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var perfumes []models.Perfume
	if err := json.Unmarshal(data, &perfumes); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return perfumes, nil
}

// NewTable returns a rounded-style table writing to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderTable prints the records as a table. Absent fields show as "-".
func RenderTable(w io.Writer, perfumes []models.Perfume) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"#", "Name", "Brand", "Concentration", "Top", "Middle", "Base", "Notes", "URL"})
	for i, p := range perfumes {
		t.AppendRow(table.Row{
			i + 1,
			orDash(p.Name),
			orDash(p.Brand),
			p.Concentration,
			joinNotes(p.Notes.Top),
			joinNotes(p.Notes.Middle),
			joinNotes(p.Notes.Base),
			joinNotes(p.Notes.General),
			p.URL,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Total", len(perfumes)})
	t.Render()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func joinNotes(notes []string) string {
	return strings.Join(notes, ", ")
}
