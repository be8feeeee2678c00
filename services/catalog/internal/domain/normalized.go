package domain

import "github.com/Germanldb/winston-onepage-headless/pkg/slug"

// AttributeKind classifies an attribute for availability purposes.
type AttributeKind string

const (
	AttributeOther AttributeKind = "other"
	AttributeColor AttributeKind = "color"
	AttributeSize  AttributeKind = "size"
)

// Pair is one (color, size) combination, both as normalized slugs. An
// empty side means the product has no attribute of that kind.
type Pair struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Currency describes how to display an amount.
type Currency struct {
	Code      string `json:"code"`
	Symbol    string `json:"symbol"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
	MinorUnit int    `json:"minor_unit"`
}

// Price holds display prices in major units.
type Price struct {
	Current            float64  `json:"current"`
	Regular            float64  `json:"regular"`
	Currency           Currency `json:"currency"`
	IsSale             bool     `json:"is_sale"`
	DiscountPercentage int      `json:"discount_percentage"`
	IsHot              bool     `json:"is_hot"`
}

// Attribute is an attribute with normalized term slugs.
type Attribute struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Kind  AttributeKind `json:"kind"`
	Terms []Term        `json:"terms"`
}

// Term is an attribute value. Slug is always slug-normalized; Name keeps
// the display text.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Warning records a non-fatal data problem that was papered over with a
// default.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ColorSelector resolves the gallery for a color slug.
type ColorSelector interface {
	ImagesForColor(color string) []Image
}

// NormalizedProduct is the stable product representation handed to the
// storefront.
type NormalizedProduct struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Type         string             `json:"type"`
	Permalink    string             `json:"permalink,omitempty"`
	Description  string             `json:"description,omitempty"`
	Price        Price              `json:"price"`
	Attributes   []Attribute        `json:"attributes"`
	Categories   []Category         `json:"categories"`
	Simple       bool               `json:"simple"`
	Availability []Pair             `json:"availability"`
	Images       []Image            `json:"images"`
	HoverImage   *Image             `json:"hover_image,omitempty"`
	ColorImages  map[string][]Image `json:"variation_images,omitempty"`
	Warnings     []Warning          `json:"warnings,omitempty"`

	gallery ColorSelector
}

// AttachGallery sets the selector used by SelectColor.
func (p *NormalizedProduct) AttachGallery(g ColorSelector) {
	p.gallery = g
}

// SelectColor returns the gallery for a color. An empty color, or a
// product without a gallery, yields the default images.
func (p *NormalizedProduct) SelectColor(color string) []Image {
	if color == "" || p.gallery == nil {
		return p.Images
	}
	return p.gallery.ImagesForColor(color)
}

// IsAvailable reports whether the (color, size) combination can be bought.
// Both values may be term slugs or display names. Simple products are
// always available.
func (p *NormalizedProduct) IsAvailable(color, size string) bool {
	if p.Simple {
		return true
	}
	return p.available(p.TermSlug(AttributeColor, color), p.TermSlug(AttributeSize, size))
}

func (p *NormalizedProduct) available(color, size string) bool {
	for _, pair := range p.Availability {
		if pair.Color == color && pair.Size == size {
			return true
		}
	}
	return false
}

// AttributeOfKind returns the first attribute of the given kind.
func (p *NormalizedProduct) AttributeOfKind(kind AttributeKind) (Attribute, bool) {
	for _, a := range p.Attributes {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}

// TermSlug maps a term slug or display name onto the slug of the matching
// term of the first attribute of kind. Values matching no term come back
// slug-normalized.
func (p *NormalizedProduct) TermSlug(kind AttributeKind, value string) string {
	n := slug.Normalize(value)
	a, ok := p.AttributeOfKind(kind)
	if !ok || n == "" {
		return n
	}
	for _, t := range a.Terms {
		if t.Slug == n {
			return t.Slug
		}
	}
	for _, t := range a.Terms {
		if slug.Normalize(t.Name) == n {
			return t.Slug
		}
	}
	return n
}

// AvailableSizes lists, in attribute order, the size terms available in
// the given color, which may be a term slug or a display name.
func (p *NormalizedProduct) AvailableSizes(color string) []Term {
	sizes, ok := p.AttributeOfKind(AttributeSize)
	if !ok {
		return []Term{}
	}
	color = p.TermSlug(AttributeColor, color)
	out := make([]Term, 0, len(sizes.Terms))
	for _, t := range sizes.Terms {
		if p.Simple || p.available(color, t.Slug) {
			out = append(out, t)
		}
	}
	return out
}
