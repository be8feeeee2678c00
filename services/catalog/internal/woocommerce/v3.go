package woocommerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// Admin API (wc/v3) wire types. Prices are tax-exclusive decimal strings
// in major units; attributes list their values as plain option strings.

type v3Product struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Type             string            `json:"type"`
	Permalink        string            `json:"permalink"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	Price            string            `json:"price"`
	RegularPrice     string            `json:"regular_price"`
	SalePrice        string            `json:"sale_price"`
	TaxStatus        string            `json:"tax_status"`
	StockStatus      string            `json:"stock_status"`
	Images           []v3Image         `json:"images"`
	Attributes       []v3Attribute     `json:"attributes"`
	Categories       []domain.Category `json:"categories"`
	Variations       []int64           `json:"variations"`
}

type v3Image struct {
	ID   int64  `json:"id"`
	Src  string `json:"src"`
	Name string `json:"name"`
	Alt  string `json:"alt"`
}

type v3Attribute struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type v3Variation struct {
	ID           int64                  `json:"id"`
	Price        string                 `json:"price"`
	RegularPrice string                 `json:"regular_price"`
	TaxStatus    string                 `json:"tax_status"`
	StockStatus  string                 `json:"stock_status"`
	Image        *v3Image               `json:"image"`
	Attributes   []v3VariationAttribute `json:"attributes"`
}

type v3VariationAttribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

const taxable = "taxable"

// mapper converts admin API records to the storefront shape.
type mapper struct {
	taxRate  float64
	currency domain.Currency
}

func (m mapper) product(p v3Product) domain.RawProduct {
	tax := p.TaxStatus == taxable
	out := domain.RawProduct{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Type:             p.Type,
		Permalink:        p.Permalink,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Prices: domain.RawPrices{
			Price:             m.minorString(p.Price, tax),
			RegularPrice:      m.minorString(p.RegularPrice, tax),
			SalePrice:         m.minorString(p.SalePrice, tax),
			CurrencyCode:      m.currency.Code,
			CurrencySymbol:    m.currency.Symbol,
			CurrencyMinorUnit: m.currency.MinorUnit,
			CurrencyPrefix:    m.currency.Prefix,
			CurrencySuffix:    m.currency.Suffix,
		},
		Images:     make([]domain.Image, 0, len(p.Images)),
		Attributes: make([]domain.RawAttribute, 0, len(p.Attributes)),
		Categories: p.Categories,
	}

	for _, img := range p.Images {
		out.Images = append(out.Images, mapImage(img))
	}

	for _, a := range p.Attributes {
		attr := domain.RawAttribute{ID: a.ID, Name: a.Name, Terms: make([]domain.RawTerm, 0, len(a.Options))}
		// Global attributes live in a "pa_" taxonomy; local ones have id 0.
		if a.ID > 0 {
			attr.Taxonomy = "pa_" + slug.Normalize(a.Name)
		}
		for i, opt := range a.Options {
			attr.Terms = append(attr.Terms, domain.RawTerm{ID: int64(i), Name: opt, Slug: slug.Normalize(opt)})
		}
		out.Attributes = append(out.Attributes, attr)
	}

	for _, id := range p.Variations {
		out.Variations = append(out.Variations, domain.VariationRef{ID: id})
	}

	if p.StockStatus != "" {
		inStock := p.StockStatus != "outofstock"
		out.IsInStock = &inStock
	}
	return out
}

func (m mapper) variation(v v3Variation) domain.Variation {
	tax := v.TaxStatus == taxable
	out := domain.Variation{
		ID:           v.ID,
		Attributes:   make([]domain.VariationAttribute, 0, len(v.Attributes)),
		StockStatus:  v.StockStatus,
		Price:        m.minor(v.Price, tax),
		RegularPrice: m.minor(v.RegularPrice, tax),
	}
	for _, a := range v.Attributes {
		out.Attributes = append(out.Attributes, domain.VariationAttribute{Name: a.Name, Value: a.Option})
	}
	if v.Image != nil && v.Image.Src != "" {
		img := mapImage(*v.Image)
		out.Image = &img
	}
	return out
}

// minor converts a major-unit decimal string to minor units, adding tax
// when the product is taxable. Unparseable or empty values yield 0.
func (m mapper) minor(major string, tax bool) int64 {
	v, _ := m.parseMinor(major, tax)
	return v
}

// minorString is minor rendered the way the storefront API sends prices.
// Empty or unparseable input stays empty so the normalizer can flag it.
func (m mapper) minorString(major string, tax bool) string {
	v, ok := m.parseMinor(major, tax)
	if !ok {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func (m mapper) parseMinor(major string, tax bool) (int64, bool) {
	major = strings.TrimSpace(major)
	if major == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(major, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if tax {
		v *= 1 + m.taxRate
	}
	return int64(math.Round(v * math.Pow10(m.currency.MinorUnit))), true
}

func mapImage(img v3Image) domain.Image {
	return domain.Image{ID: img.ID, Src: img.Src, Alt: img.Alt, Name: img.Name}
}
