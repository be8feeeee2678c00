package domain

// Product types reported by the commerce platform.
const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
)

// RawProduct is a catalog record as the storefront API returns it. Records
// decoded from the admin API are mapped onto the same shape.
type RawProduct struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Type             string         `json:"type"`
	Permalink        string         `json:"permalink,omitempty"`
	Description      string         `json:"description,omitempty"`
	ShortDescription string         `json:"short_description,omitempty"`
	Prices           RawPrices      `json:"prices"`
	Images           []Image        `json:"images"`
	Attributes       []RawAttribute `json:"attributes"`
	Categories       []Category     `json:"categories"`
	Variations       []VariationRef `json:"variations"`
	IsInStock        *bool          `json:"is_in_stock,omitempty"`
}

// IsVariable reports whether the product is sold through variations.
func (p *RawProduct) IsVariable() bool {
	return p.Type == ProductTypeVariable
}

// RawPrices carries prices as decimal strings in minor units, plus the
// currency metadata needed to display them.
type RawPrices struct {
	Price             string `json:"price"`
	RegularPrice      string `json:"regular_price"`
	SalePrice         string `json:"sale_price"`
	CurrencyCode      string `json:"currency_code"`
	CurrencySymbol    string `json:"currency_symbol"`
	CurrencyMinorUnit int    `json:"currency_minor_unit"`
	CurrencyPrefix    string `json:"currency_prefix"`
	CurrencySuffix    string `json:"currency_suffix"`
}

// RawAttribute is a product attribute such as color or size.
type RawAttribute struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Taxonomy string    `json:"taxonomy,omitempty"`
	Terms    []RawTerm `json:"terms"`
}

// RawTerm is one value of an attribute.
type RawTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Image is a product image. Provisional images were synthesized from
// filename conventions and have not been confirmed to exist.
type Image struct {
	ID          int64  `json:"id"`
	Src         string `json:"src"`
	Alt         string `json:"alt"`
	Name        string `json:"name,omitempty"`
	Provisional bool   `json:"provisional,omitempty"`
}

// Category is a product category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// VariationRef is the variation summary embedded in a product record.
type VariationRef struct {
	ID         int64                `json:"id"`
	Attributes []VariationAttribute `json:"attributes"`
}

// VariationAttribute pairs an attribute name with the variation's value.
type VariationAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variation is one purchasable SKU of a variable product. Prices are in
// minor units; zero means the platform did not report one.
type Variation struct {
	ID           int64                `json:"id"`
	Attributes   []VariationAttribute `json:"attributes"`
	Price        int64                `json:"price"`
	RegularPrice int64                `json:"regular_price"`
	StockStatus  string               `json:"stock_status,omitempty"`
	Image        *Image               `json:"image,omitempty"`
}

// InStock reports whether the variation can be bought. An unknown stock
// status counts as in stock.
func (v Variation) InStock() bool {
	return v.StockStatus == "" || v.StockStatus == "instock" || v.StockStatus == "onbackorder"
}

// VariationsFromRefs turns embedded summaries into variations without
// price or stock data.
func VariationsFromRefs(refs []VariationRef) []Variation {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Variation, 0, len(refs))
	for _, r := range refs {
		out = append(out, Variation{ID: r.ID, Attributes: r.Attributes})
	}
	return out
}
