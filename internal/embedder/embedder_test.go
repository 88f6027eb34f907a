package embedder

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/models"
)

type fakeEmbedder struct {
	failFor string
	texts   []string
}

func (f *fakeEmbedder) EmbedString(_ context.Context, text string) ([]byte, []float32, error) {
	f.texts = append(f.texts, text)
	if f.failFor != "" && strings.Contains(text, f.failFor) {
		return nil, nil, errors.New("quota exceeded")
	}
	vec := []float32{float32(len(text)), 1}
	blob, err := ai.FloatsToBytes(vec)
	return blob, vec, err
}

func init() {
	pause = 0
}

func TestRun(t *testing.T) {
	database, err := db.Connect(filepath.Join(t.TempDir(), "perfume.db"))
	require.NoError(t, err)
	defer database.Close()

	sauvage := models.Perfume{Name: models.Text("Sauvage"), Brand: models.Text("Dior"), Notes: models.NewNotes()}
	poison := models.Perfume{Name: models.Text("Poison"), Brand: models.Text("Dior"), Notes: models.NewNotes()}
	_, err = db.SavePerfumes(database, []models.Perfume{sauvage, poison})
	require.NoError(t, err)

	emb := &fakeEmbedder{failFor: "Poison"}
	count, err := Run(context.Background(), database, emb)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, emb.texts, 2)

	pending, err := db.GetUnembeddedPerfumes(database)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dior-poison", pending[0].Slug)

	// A second pass only retries the failure.
	emb = &fakeEmbedder{}
	count, err = Run(context.Background(), database, emb)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, emb.texts, 1)
}

func TestDocumentText(t *testing.T) {
	e := db.CatalogEntry{
		Slug: "dior-sauvage",
		Perfume: models.Perfume{
			Name:          models.Text("Sauvage"),
			Brand:         models.Text("Dior"),
			Concentration: "Eau de Toilette",
			Notes: models.Notes{
				Top:    []string{"Bergamot", "Pepper"},
				Middle: []string{},
				Base:   []string{"Ambroxan"},
			},
		},
	}

	expected := "Fragrance: Sauvage\nBrand: Dior\nConcentration: Eau de Toilette\nTop notes: Bergamot, Pepper\nBase notes: Ambroxan"
	assert.Equal(t, expected, DocumentText(e))
}
