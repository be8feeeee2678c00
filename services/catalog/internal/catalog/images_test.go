package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

func TestImagesForColor_NoColorReturnsDefaults(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()

	assert.Equal(t, p.Images, r.ImagesForColor(p, "", nil))
}

func TestImagesForColor_VariationImagesFirst(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	vino := domain.Image{ID: 77, Src: uploads + "bota-burdeos.jpg"}

	got := r.ImagesForColor(p, "Vino", map[string][]domain.Image{"vino": {vino}})

	assert.Equal(t, []domain.Image{vino}, got)
}

func TestImagesForColor_MetadataMatch(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Images = []domain.Image{
		{ID: 1, Src: uploads + "zapato-Negro-1.jpg", Alt: "Zapato negro"},
		{ID: 2, Src: uploads + "zapato_VINO_2.jpg"},
		{ID: 3, Src: uploads + "detalle.jpg", Alt: "Suela color vino"},
	}

	got := r.ImagesForColor(p, "vino", nil)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.False(t, got[0].Provisional)
}

func TestImagesForColor_MetadataIgnoresDirectories(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Images = []domain.Image{{ID: 1, Src: uploads + "coleccion-vino/zapato-Negro-1.jpg"}}

	got := r.ImagesForColor(p, "vino", nil)

	require.Len(t, got, 1)
	assert.Equal(t, uploads+"coleccion-vino/zapato-Vino-1.jpg", got[0].Src)
	assert.True(t, got[0].Provisional, "a directory name is not a metadata match")
}

func TestImagesForColor_MultiWordColorMetadata(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Attributes[0] = colorAttribute("Negro", "Café Claro")
	p.Images = []domain.Image{
		{ID: 1, Src: uploads + "mocasin-negro.jpg"},
		{ID: 2, Src: uploads + "mocasin_cafe_claro.jpg"},
	}

	got := r.ImagesForColor(p, "cafe-claro", nil)

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestImagesForColor_FilenameMutation(t *testing.T) {
	r := NewImageResolver("")

	got := r.ImagesForColor(zapato(), "vino", map[string][]domain.Image{})

	require.Len(t, got, 1)
	assert.Equal(t, uploads+"zapato-Vino-1.jpg", got[0].Src)
	assert.True(t, got[0].Provisional)
	assert.Equal(t, "Vino", got[0].Alt)
}

func TestImagesForColor_MutationKeepsCapitalization(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"lower", "zapato-negro-1.jpg", "zapato-vino-1.jpg"},
		{"upper", "ZAPATO-NEGRO-1.jpg", "ZAPATO-VINO-1.jpg"},
		{"capitalized", "Zapato-Negro.png", "Zapato-Vino.png"},
		{"edit suffix dropped", "zapato-Negro-e1712345678.jpg", "zapato-Vino.jpg"},
		{"query kept", "zapato-negro-1.jpg?ver=3", "zapato-vino-1.jpg?ver=3"},
	}

	r := NewImageResolver("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := zapato()
			p.Images = []domain.Image{{Src: uploads + tt.file}}

			got := r.ImagesForColor(p, "vino", nil)

			require.Len(t, got, 1)
			assert.Equal(t, uploads+tt.want, got[0].Src)
		})
	}
}

func TestImagesForColor_LongestColorTokenWins(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Attributes[0] = colorAttribute("Azul", "Azul Marino", "Rojo")
	p.Images = []domain.Image{{Src: uploads + "bota-azul-marino-1.jpg"}}

	got := r.ImagesForColor(p, "rojo", nil)

	require.Len(t, got, 1)
	assert.Equal(t, uploads+"bota-rojo-1.jpg", got[0].Src)
}

func TestImagesForColor_MultiWordReplacement(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Attributes[0] = colorAttribute("Negro", "Café Claro")

	got := r.ImagesForColor(p, "cafe-claro", nil)

	require.Len(t, got, 1)
	assert.Equal(t, uploads+"zapato-Cafe-Claro-1.jpg", got[0].Src)
}

func TestImagesForColor_FallsBackToDefaults(t *testing.T) {
	r := NewImageResolver("")
	p := zapato()
	p.Images = []domain.Image{{ID: 1, Src: uploads + "IMG_2041.jpg"}}

	got := r.ImagesForColor(p, "vino", nil)

	assert.Equal(t, p.Images, got)
}

func TestImagesForColor_PlaceholderWhenNoImages(t *testing.T) {
	r := NewImageResolver("https://cdn.example.com/placeholder.png")
	p := zapato()
	p.Images = nil

	got := r.ImagesForColor(p, "vino", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/placeholder.png", got[0].Src)
}

func TestImagesForColor_NeverEmpty(t *testing.T) {
	r := NewImageResolver("")
	colors := []string{"", "negro", "vino", "Vino", "verde", "Café Claro", "???", "  "}

	products := []*domain.RawProduct{zapato()}
	noColor := zapato()
	noColor.Attributes = noColor.Attributes[1:]
	products = append(products, noColor)
	odd := zapato()
	odd.Images = []domain.Image{{Src: "not a url"}, {Src: uploads}}
	products = append(products, odd)

	for _, p := range products {
		for _, color := range colors {
			assert.NotEmpty(t, r.ImagesForColor(p, color, nil), "product %d color %q", p.ID, color)
		}
	}
}

func TestGuessSecondaryImage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"numbered", uploads + "zapato-Negro-1.jpg", uploads + "zapato-Negro-2.jpg"},
		{"double digits", uploads + "bota-9.png", uploads + "bota-10.png"},
		{"no counter", uploads + "bota.png", uploads + "bota-2.png"},
		{"year is not a counter", uploads + "bota-2024-negro.jpg", uploads + "bota-2024-negro-2.jpg"},
		{"query kept", uploads + "bota-3.jpg?v=1", uploads + "bota-4.jpg?v=1"},
		{"edit marker dropped", uploads + "bota-1-e1712345.jpg", uploads + "bota-2.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GuessSecondaryImage(domain.Image{Src: tt.src, Alt: "Bota"})
			assert.Equal(t, tt.want, got.Src)
			assert.True(t, got.Provisional)
			assert.Equal(t, "Bota", got.Alt)
		})
	}
}

func TestGuessSecondaryImage_EmptySource(t *testing.T) {
	assert.Equal(t, domain.Image{}, GuessSecondaryImage(domain.Image{}))
}
