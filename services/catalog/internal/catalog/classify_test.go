package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want domain.AttributeKind
	}{
		{"Color", domain.AttributeColor},
		{"COLOUR", domain.AttributeColor},
		{"pa_color", domain.AttributeColor},
		{"Talla", domain.AttributeSize},
		{"Tamaño", domain.AttributeSize},
		{"Shoe size", domain.AttributeSize},
		{"Número", domain.AttributeSize},
		{"Color y talla", domain.AttributeColor},
		{"Material", domain.AttributeOther},
		{"", domain.AttributeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyName(tt.name))
		})
	}
}

func TestClassifyAttribute(t *testing.T) {
	terms := func(names ...string) []domain.RawTerm {
		out := make([]domain.RawTerm, 0, len(names))
		for _, n := range names {
			out = append(out, domain.RawTerm{Name: n})
		}
		return out
	}

	tests := []struct {
		name string
		attr domain.RawAttribute
		want domain.AttributeKind
	}{
		{"by name", domain.RawAttribute{Name: "Color", Terms: terms("Negro")}, domain.AttributeColor},
		{"by taxonomy", domain.RawAttribute{Name: "Horma", Taxonomy: "pa_talla"}, domain.AttributeSize},
		{"numeric terms", domain.RawAttribute{Name: "Medida", Terms: terms("38", "39.5", "40,5")}, domain.AttributeSize},
		{"textual terms", domain.RawAttribute{Name: "Medida", Terms: terms("S", "M")}, domain.AttributeOther},
		{"mixed terms", domain.RawAttribute{Name: "Medida", Terms: terms("40", "Única")}, domain.AttributeOther},
		{"no terms", domain.RawAttribute{Name: "Medida"}, domain.AttributeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAttribute(tt.attr))
		})
	}
}

func TestNormalizeAttribute_TermSlugs(t *testing.T) {
	na := normalizeAttribute(colorAttribute("Negro", "Café Claro", "Azul Marino"))

	slugs := make([]string, 0, len(na.terms))
	for _, term := range na.terms {
		slugs = append(slugs, term.Slug)
	}
	assert.Equal(t, []string{"negro", "cafe-claro", "azul-marino"}, slugs)

	assert.Equal(t, "cafe-claro", na.canonical("Café Claro"))
	assert.Equal(t, "azul-marino", na.canonical("azul-marino"))
	assert.Equal(t, "verde", na.canonical("Verde"), "unknown values are still normalized")
}

func TestNormalizeAttribute_UpstreamSlugWins(t *testing.T) {
	na := normalizeAttribute(domain.RawAttribute{
		Name:  "Color",
		Terms: []domain.RawTerm{{ID: 1, Name: "Vino Tinto", Slug: "Vino"}},
	})

	assert.Equal(t, "vino", na.terms[0].Slug)
	assert.Equal(t, "vino", na.canonical("Vino Tinto"))
}

func TestAttributeSet_MatchesTaxonomyNames(t *testing.T) {
	set := newAttributeSet(zapato().Attributes)

	for _, name := range []string{"Color", "pa_color", "color"} {
		kind, attr := set.classifyVariationAttribute(name)
		assert.Equal(t, domain.AttributeColor, kind, name)
		assert.NotNil(t, attr, name)
	}

	kind, attr := set.classifyVariationAttribute("Material")
	assert.Equal(t, domain.AttributeOther, kind)
	assert.Nil(t, attr)
}
