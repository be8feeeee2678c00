package catalog

import (
	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// Resolution is the color/size availability of one product.
type Resolution struct {
	// Simple is set when the product has no variations; every combination
	// is then available.
	Simple bool

	// Availability lists the purchasable pairs in first-seen order.
	Availability []domain.Pair

	// VariationIndex groups the winning variation of each pair by color.
	VariationIndex map[string][]domain.Variation

	chosen map[domain.Pair]domain.Variation
}

// IsAvailable reports whether the pair can be bought.
func (r *Resolution) IsAvailable(color, size string) bool {
	if r.Simple {
		return true
	}
	_, ok := r.chosen[domain.Pair{Color: color, Size: size}]
	return ok
}

// Variation returns the variation that owns the pair. When upstream lists
// the same pair twice, the first one wins.
func (r *Resolution) Variation(color, size string) (domain.Variation, bool) {
	v, ok := r.chosen[domain.Pair{Color: color, Size: size}]
	return v, ok
}

// Resolve builds the availability index of a product from its variations.
func Resolve(p *domain.RawProduct, variations []domain.Variation) *Resolution {
	return resolveWith(newAttributeSet(p.Attributes), variations)
}

func resolveWith(attrs attributeSet, variations []domain.Variation) *Resolution {
	res := &Resolution{
		VariationIndex: make(map[string][]domain.Variation),
		chosen:         make(map[domain.Pair]domain.Variation),
	}

	if len(variations) == 0 {
		res.Simple = true
		res.Availability = cartesian(attrs)
		for _, pair := range res.Availability {
			res.chosen[pair] = domain.Variation{}
		}
		return res
	}

	for _, v := range variations {
		colors, sizes, relevant := variationValues(attrs, v)
		if !relevant {
			continue
		}
		for _, c := range colors {
			for _, s := range sizes {
				pair := domain.Pair{Color: c, Size: s}
				if _, seen := res.chosen[pair]; seen {
					continue
				}
				res.chosen[pair] = v
				res.Availability = append(res.Availability, pair)
				if c != "" {
					res.VariationIndex[c] = appendUnique(res.VariationIndex[c], v)
				}
			}
		}
	}
	return res
}

// variationValues extracts the color and size slugs of a variation. An
// empty value means "any term" and expands to every term of the attribute.
// Attributes that are neither color nor size are ignored.
func variationValues(attrs attributeSet, v domain.Variation) (colors, sizes []string, relevant bool) {
	colors, sizes = []string{""}, []string{""}
	for _, va := range v.Attributes {
		kind, attr := attrs.classifyVariationAttribute(va.Name)
		var values []string
		switch {
		case va.Value != "" && attr != nil:
			values = []string{attr.canonical(va.Value)}
		case va.Value != "":
			if n := slug.Normalize(va.Value); n != "" {
				values = []string{n}
			}
		case attr != nil:
			values = termSlugs(attr.terms)
		}
		if len(values) == 0 {
			continue
		}
		switch kind {
		case domain.AttributeColor:
			colors = values
			relevant = true
		case domain.AttributeSize:
			sizes = values
			relevant = true
		}
	}
	return colors, sizes, relevant
}

func cartesian(attrs attributeSet) []domain.Pair {
	colors, sizes := []string{""}, []string{""}
	if attrs.color != nil && len(attrs.color.terms) > 0 {
		colors = termSlugs(attrs.color.terms)
	}
	if attrs.size != nil && len(attrs.size.terms) > 0 {
		sizes = termSlugs(attrs.size.terms)
	}
	if len(colors) == 1 && colors[0] == "" && len(sizes) == 1 && sizes[0] == "" {
		return nil
	}
	out := make([]domain.Pair, 0, len(colors)*len(sizes))
	for _, c := range colors {
		for _, s := range sizes {
			out = append(out, domain.Pair{Color: c, Size: s})
		}
	}
	return out
}

func termSlugs(terms []domain.Term) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Slug)
	}
	return out
}

func appendUnique(vs []domain.Variation, v domain.Variation) []domain.Variation {
	for _, existing := range vs {
		if existing.ID == v.ID {
			return vs
		}
	}
	return append(vs, v)
}
