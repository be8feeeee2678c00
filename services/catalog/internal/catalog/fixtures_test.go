package catalog

import (
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

const uploads = "https://winston.example.com/wp-content/uploads/2024/05/"

func colorAttribute(names ...string) domain.RawAttribute {
	a := domain.RawAttribute{ID: 1, Name: "Color", Taxonomy: "pa_color"}
	for i, n := range names {
		a.Terms = append(a.Terms, domain.RawTerm{ID: int64(10 + i), Name: n})
	}
	return a
}

func sizeAttribute(names ...string) domain.RawAttribute {
	a := domain.RawAttribute{ID: 2, Name: "Talla", Taxonomy: "pa_talla"}
	for i, n := range names {
		a.Terms = append(a.Terms, domain.RawTerm{ID: int64(20 + i), Name: n, Slug: n})
	}
	return a
}

// zapato is a variable shoe sold in negro and vino, sizes 40 and 41, with a
// single image shot in negro.
func zapato() *domain.RawProduct {
	return &domain.RawProduct{
		ID:   501,
		Name: "Zapato Bogotá",
		Slug: "zapato-bogota",
		Type: domain.ProductTypeVariable,
		Prices: domain.RawPrices{
			Price:          "189900",
			RegularPrice:   "189900",
			CurrencyCode:   "COP",
			CurrencySymbol: "$",
			CurrencyPrefix: "$",
		},
		Images: []domain.Image{
			{ID: 900, Src: uploads + "zapato-Negro-1.jpg"},
		},
		Attributes: []domain.RawAttribute{
			colorAttribute("Negro", "Vino"),
			sizeAttribute("40", "41"),
		},
		Categories: []domain.Category{{ID: 63, Name: "Zapatos", Slug: "zapatos"}},
	}
}

func variation(id int64, color, size string) domain.Variation {
	return domain.Variation{
		ID: id,
		Attributes: []domain.VariationAttribute{
			{Name: "Color", Value: color},
			{Name: "Talla", Value: size},
		},
	}
}
