package catalog

import (
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// ColorImages collects the dedicated image of each color from a product's
// variations. The first variation with an image wins for its color.
func ColorImages(p *domain.RawProduct, variations []domain.Variation) map[string][]domain.Image {
	attrs := newAttributeSet(p.Attributes)
	out := make(map[string][]domain.Image)
	for _, v := range variations {
		if v.Image == nil || v.Image.Src == "" {
			continue
		}
		color := variationColor(attrs, v)
		if color == "" {
			continue
		}
		if _, ok := out[color]; !ok {
			out[color] = []domain.Image{*v.Image}
		}
	}
	return out
}

// MissingColorLookups returns, for every color term not yet present in
// have, the first variation of that color. Fetching that variation record
// usually yields the color's imagery.
func MissingColorLookups(p *domain.RawProduct, variations []domain.Variation, have map[string][]domain.Image) map[string]int64 {
	attrs := newAttributeSet(p.Attributes)
	if attrs.color == nil {
		return nil
	}
	out := make(map[string]int64)
	for _, t := range attrs.color.terms {
		if len(have[t.Slug]) > 0 {
			continue
		}
		for _, v := range variations {
			if v.ID != 0 && variationColor(attrs, v) == t.Slug {
				out[t.Slug] = v.ID
				break
			}
		}
	}
	return out
}

func variationColor(attrs attributeSet, v domain.Variation) string {
	for _, va := range v.Attributes {
		kind, attr := attrs.classifyVariationAttribute(va.Name)
		if kind != domain.AttributeColor || va.Value == "" {
			continue
		}
		if attr != nil {
			return attr.canonical(va.Value)
		}
		return colorKey(attrs, va.Value)
	}
	return ""
}
