package woocommerce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

const v3ProductJSON = `[{
	"id": 501,
	"name": "Zapato Bogotá",
	"slug": "zapato-bogota",
	"type": "variable",
	"price": "100000",
	"regular_price": "120000",
	"sale_price": "",
	"tax_status": "taxable",
	"stock_status": "instock",
	"images": [{"id": 9, "src": "https://cdn/zapato-Negro-1.jpg", "name": "zapato-Negro-1", "alt": ""}],
	"attributes": [
		{"id": 3, "name": "Color", "options": ["Negro", "Café Claro"]},
		{"id": 0, "name": "Talla", "options": ["40", "41"]}
	],
	"categories": [{"id": 63, "name": "Zapatos", "slug": "zapatos"}],
	"variations": [601, 602]
}]`

func TestAdminAPI_ProductMapping(t *testing.T) {
	srv := newUpstream(t, jsonHandler(v3ProductJSON))
	c := newTestClient(t, srv.URL, Config{ConsumerKey: "ck", ConsumerSecret: "cs", TaxRate: 0.19}, nil)

	got, err := c.FetchProductsBySlug(context.Background(), "zapato-bogota")
	require.NoError(t, err)
	require.Len(t, got, 1)
	p := got[0]

	assert.Equal(t, "/wp-json/wc/v3/products", srv.last().Path)
	assert.Equal(t, "ck", srv.last().Query().Get("consumer_key"))
	assert.Equal(t, "cs", srv.last().Query().Get("consumer_secret"))

	assert.Equal(t, "119000", p.Prices.Price)
	assert.Equal(t, "142800", p.Prices.RegularPrice)
	assert.Empty(t, p.Prices.SalePrice)
	assert.Equal(t, "COP", p.Prices.CurrencyCode)
	assert.Equal(t, 0, p.Prices.CurrencyMinorUnit)

	require.Len(t, p.Attributes, 2)
	assert.Equal(t, "pa_color", p.Attributes[0].Taxonomy)
	assert.Empty(t, p.Attributes[1].Taxonomy)
	assert.Equal(t, []domain.RawTerm{
		{ID: 0, Name: "Negro", Slug: "negro"},
		{ID: 1, Name: "Café Claro", Slug: "cafe-claro"},
	}, p.Attributes[0].Terms)

	assert.Equal(t, []domain.VariationRef{{ID: 601}, {ID: 602}}, p.Variations)
	require.NotNil(t, p.IsInStock)
	assert.True(t, *p.IsInStock)
	assert.Equal(t, "https://cdn/zapato-Negro-1.jpg", p.Images[0].Src)
}

func TestAdminAPI_Variations(t *testing.T) {
	srv := newUpstream(t, jsonHandler(`[
		{"id": 601, "price": "100000", "regular_price": "100000", "tax_status": "taxable", "stock_status": "instock",
		 "image": {"id": 1, "src": "https://cdn/negro.jpg"},
		 "attributes": [{"id": 3, "name": "Color", "option": "Negro"}, {"id": 0, "name": "Talla", "option": "40"}]},
		{"id": 602, "price": "90000", "regular_price": "", "tax_status": "none", "stock_status": "outofstock",
		 "image": {"id": 0, "src": ""},
		 "attributes": [{"id": 3, "name": "Color", "option": "Café Claro"}]}
	]`))
	c := newTestClient(t, srv.URL, Config{ConsumerKey: "ck", ConsumerSecret: "cs", TaxRate: 0.19}, nil)

	got, err := c.FetchVariations(context.Background(), 501)
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wc/v3/products/501/variations", srv.last().Path)
	assert.Equal(t, "100", srv.last().Query().Get("per_page"))

	require.Len(t, got, 2)
	assert.Equal(t, int64(119000), got[0].Price)
	assert.Equal(t, []domain.VariationAttribute{{Name: "Color", Value: "Negro"}, {Name: "Talla", Value: "40"}}, got[0].Attributes)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, "https://cdn/negro.jpg", got[0].Image.Src)

	assert.Equal(t, int64(90000), got[1].Price)
	assert.Zero(t, got[1].RegularPrice)
	assert.Nil(t, got[1].Image)
	assert.False(t, got[1].InStock())
}

func TestMapper_MinorUnits(t *testing.T) {
	m := mapper{taxRate: 0.19, currency: domain.Currency{Code: "USD", MinorUnit: 2}}

	assert.Equal(t, "1999", m.minorString("19.99", false))
	assert.Equal(t, "2379", m.minorString("19.99", true))
	assert.Empty(t, m.minorString("", true))
	assert.Empty(t, m.minorString("gratis", false))
	assert.Zero(t, m.minor("-5", false))
}
