package catalog

import (
	"strconv"
	"strings"

	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

var (
	colorKeywords = []string{"color", "colour"}
	sizeKeywords  = []string{"talla", "size", "tamano", "numero"}
)

// ClassifyName classifies an attribute by its name (or taxonomy) alone.
// Color wins when both keyword sets match.
func ClassifyName(name string) domain.AttributeKind {
	n := slug.Normalize(name)
	if n == "" {
		return domain.AttributeOther
	}
	if containsAny(n, colorKeywords) {
		return domain.AttributeColor
	}
	if containsAny(n, sizeKeywords) {
		return domain.AttributeSize
	}
	return domain.AttributeOther
}

// ClassifyAttribute classifies a product attribute. Besides the name
// keywords, an attribute whose terms are all numbers is a size: shoe sizes
// are often published under a generic attribute name.
func ClassifyAttribute(a domain.RawAttribute) domain.AttributeKind {
	if kind := ClassifyName(a.Name); kind != domain.AttributeOther {
		return kind
	}
	if kind := ClassifyName(a.Taxonomy); kind != domain.AttributeOther {
		return kind
	}
	if allNumeric(a.Terms) {
		return domain.AttributeSize
	}
	return domain.AttributeOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func allNumeric(terms []domain.RawTerm) bool {
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		if !isNumber(t.Name) {
			return false
		}
	}
	return true
}

// isNumber accepts "40", "40.5" and "40,5".
func isNumber(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// normalizedAttribute is a product attribute with its terms slugged and
// indexed for matching variation values.
type normalizedAttribute struct {
	raw   domain.RawAttribute
	kind  domain.AttributeKind
	terms []domain.Term
	// lookup maps both the normalized upstream slug and the normalized
	// display name of each term to the term's canonical slug.
	lookup map[string]string
}

func normalizeAttribute(a domain.RawAttribute) normalizedAttribute {
	na := normalizedAttribute{
		raw:    a,
		kind:   ClassifyAttribute(a),
		terms:  make([]domain.Term, 0, len(a.Terms)),
		lookup: make(map[string]string, 2*len(a.Terms)),
	}
	for _, t := range a.Terms {
		s := slug.Normalize(t.Slug)
		if s == "" {
			s = slug.Normalize(t.Name)
		}
		if s == "" {
			continue
		}
		na.terms = append(na.terms, domain.Term{ID: t.ID, Name: t.Name, Slug: s})
		if _, ok := na.lookup[s]; !ok {
			na.lookup[s] = s
		}
		if byName := slug.Normalize(t.Name); byName != "" {
			if _, ok := na.lookup[byName]; !ok {
				na.lookup[byName] = s
			}
		}
	}
	return na
}

// canonical maps a raw variation value onto a term slug. Unknown values
// are still normalized so they never leak through raw.
func (na normalizedAttribute) canonical(value string) string {
	v := slug.Normalize(value)
	if s, ok := na.lookup[v]; ok {
		return s
	}
	return v
}

// matchesName reports whether a variation attribute name refers to this
// product attribute.
func (na normalizedAttribute) matchesName(name string) bool {
	n := slug.Normalize(name)
	if n == "" {
		return false
	}
	if n == slug.Normalize(na.raw.Name) {
		return true
	}
	if na.raw.Taxonomy != "" {
		tax := slug.Normalize(na.raw.Taxonomy)
		return n == tax || "pa"+n == tax
	}
	return false
}

func (na normalizedAttribute) public() domain.Attribute {
	return domain.Attribute{ID: na.raw.ID, Name: na.raw.Name, Kind: na.kind, Terms: na.terms}
}

// attributeSet is the classified attribute list of one product.
type attributeSet struct {
	all   []normalizedAttribute
	color *normalizedAttribute
	size  *normalizedAttribute
}

func newAttributeSet(attrs []domain.RawAttribute) attributeSet {
	set := attributeSet{all: make([]normalizedAttribute, 0, len(attrs))}
	for _, a := range attrs {
		set.all = append(set.all, normalizeAttribute(a))
	}
	for i := range set.all {
		switch set.all[i].kind {
		case domain.AttributeColor:
			if set.color == nil {
				set.color = &set.all[i]
			}
		case domain.AttributeSize:
			if set.size == nil {
				set.size = &set.all[i]
			}
		}
	}
	return set
}

// classifyVariationAttribute finds which product attribute a variation
// attribute belongs to. Names that match no product attribute fall back to
// keyword classification.
func (s attributeSet) classifyVariationAttribute(name string) (domain.AttributeKind, *normalizedAttribute) {
	for i := range s.all {
		if s.all[i].matchesName(name) {
			return s.all[i].kind, &s.all[i]
		}
	}
	kind := ClassifyName(name)
	switch kind {
	case domain.AttributeColor:
		return kind, s.color
	case domain.AttributeSize:
		return kind, s.size
	}
	return kind, nil
}

func (s attributeSet) public() []domain.Attribute {
	out := make([]domain.Attribute, 0, len(s.all))
	for _, a := range s.all {
		out = append(out, a.public())
	}
	return out
}

// colorTerm finds the color term for a slug, matching either the term slug
// or its normalized display name.
func (s attributeSet) colorTerm(color string) (domain.Term, bool) {
	if s.color == nil {
		return domain.Term{}, false
	}
	canonical := s.color.canonical(color)
	for _, t := range s.color.terms {
		if t.Slug == canonical {
			return t, true
		}
	}
	return domain.Term{}, false
}
