package catalog

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Germanldb/winston-onepage-headless/pkg/logger"
	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// DefaultHotThreshold is the discount percentage from which a product is
// badged as hot.
const DefaultHotThreshold = 40

// NormalizerConfig tunes the product normalizer.
type NormalizerConfig struct {
	PlaceholderURL  string
	WebP            bool
	HotThreshold    int
	DefaultCurrency domain.Currency
}

// Normalizer turns raw catalog records into NormalizedProducts. Malformed
// records are repaired with defaults and reported as warnings; Normalize
// never fails.
type Normalizer struct {
	cfg    NormalizerConfig
	images *ImageResolver
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(cfg NormalizerConfig, log *slog.Logger) *Normalizer {
	if cfg.HotThreshold <= 0 {
		cfg.HotThreshold = DefaultHotThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{
		cfg:    cfg,
		images: NewImageResolver(cfg.PlaceholderURL),
		logger: log,
	}
}

// Normalize builds the storefront representation of raw. A nil variations
// slice falls back to the summaries embedded in the record. variationImages
// maps normalized color slugs to dedicated imagery and may be nil.
func (n *Normalizer) Normalize(ctx context.Context, raw *domain.RawProduct, variations []domain.Variation, variationImages map[string][]domain.Image) *domain.NormalizedProduct {
	if variations == nil {
		variations = domain.VariationsFromRefs(raw.Variations)
	}

	attrs := newAttributeSet(raw.Attributes)
	res := resolveWith(attrs, variations)

	out := &domain.NormalizedProduct{
		ID:           raw.ID,
		Name:         raw.Name,
		Slug:         raw.Slug,
		Type:         raw.Type,
		Permalink:    raw.Permalink,
		Description:  raw.Description,
		Attributes:   attrs.public(),
		Categories:   raw.Categories,
		Simple:       res.Simple,
		Availability: res.Availability,
	}
	if out.Categories == nil {
		out.Categories = []domain.Category{}
	}
	if out.Availability == nil {
		out.Availability = []domain.Pair{}
	}

	if raw.IsVariable() && len(raw.Attributes) == 0 {
		out.Warnings = append(out.Warnings, domain.Warning{Field: "attributes", Message: "variable product has no attributes"})
	}

	var priceWarnings []domain.Warning
	out.Price, priceWarnings = n.price(raw, variations)
	out.Warnings = append(out.Warnings, priceWarnings...)

	display := *raw
	display.Images = n.prepareImages(raw.Images, raw.Name)
	if len(display.Images) == 0 {
		out.Warnings = append(out.Warnings, domain.Warning{Field: "images", Message: "product has no images, using placeholder"})
	}
	out.Images = n.images.DefaultImages(&display)
	out.HoverImage = n.hoverImage(raw, display.Images)

	colorImages := n.prepareColorImages(attrs, variationImages, raw.Name)
	if len(colorImages) > 0 {
		out.ColorImages = colorImages
	}

	out.AttachGallery(&gallery{
		resolver:        n.images,
		product:         &display,
		attrs:           attrs,
		variationImages: colorImages,
		byColor:         make(map[string][]domain.Image),
	})

	if len(out.Warnings) > 0 {
		log := logger.FromContext(ctx, n.logger)
		for _, w := range out.Warnings {
			log.Warn("malformed product data",
				slog.Int64("product_id", raw.ID),
				slog.String("field", w.Field),
				slog.String("detail", w.Message),
			)
		}
	}

	return out
}

// NormalizeAll normalizes a listing. Each record is normalized on its own
// so one malformed product never drops the others.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []domain.RawProduct) []*domain.NormalizedProduct {
	out := make([]*domain.NormalizedProduct, 0, len(raws))
	for i := range raws {
		out = append(out, n.Normalize(ctx, &raws[i], nil, nil))
	}
	return out
}

func (n *Normalizer) price(raw *domain.RawProduct, variations []domain.Variation) (domain.Price, []domain.Warning) {
	var warnings []domain.Warning

	currency := domain.Currency{
		Code:      raw.Prices.CurrencyCode,
		Symbol:    raw.Prices.CurrencySymbol,
		Prefix:    raw.Prices.CurrencyPrefix,
		Suffix:    raw.Prices.CurrencySuffix,
		MinorUnit: raw.Prices.CurrencyMinorUnit,
	}
	if currency.Code == "" {
		currency = n.cfg.DefaultCurrency
		warnings = append(warnings, domain.Warning{Field: "currency", Message: "missing currency, using default"})
	}

	current, ok := parseMinor(raw.Prices.Price)
	regular, regularOK := parseMinor(raw.Prices.RegularPrice)
	if !ok {
		if c, r, found := lowestVariationPrice(variations); found {
			current, ok = float64(c), true
			if !regularOK && r > 0 {
				regular, regularOK = float64(r), true
			}
		}
	}
	if !ok {
		warnings = append(warnings, domain.Warning{Field: "price", Message: "missing or invalid price"})
	}
	if !regularOK {
		regular = current
	}

	scale := math.Pow10(currency.MinorUnit)
	p := domain.Price{
		Current:  current / scale,
		Regular:  regular / scale,
		Currency: currency,
	}
	p.IsSale, p.DiscountPercentage = Discount(p.Regular, p.Current)
	p.IsHot = p.IsSale && p.DiscountPercentage >= n.cfg.HotThreshold
	return p, warnings
}

// Discount reports whether current is a sale price against regular and the
// rounded discount percentage. A zero or negative regular price is never a
// sale.
func Discount(regular, current float64) (bool, int) {
	if regular <= 0 || regular <= current {
		return false, 0
	}
	return true, int(math.Round((regular - current) / regular * 100))
}

func parseMinor(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func lowestVariationPrice(variations []domain.Variation) (current, regular int64, found bool) {
	for _, v := range variations {
		if v.Price <= 0 {
			continue
		}
		if !found || v.Price < current {
			current, regular, found = v.Price, v.RegularPrice, true
		}
	}
	return current, regular, found
}

func (n *Normalizer) prepareImages(images []domain.Image, productName string) []domain.Image {
	out := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if strings.TrimSpace(img.Src) == "" {
			continue
		}
		if img.Alt == "" {
			img.Alt = productName
		}
		if n.cfg.WebP {
			img.Src = RewriteWebP(img.Src)
		}
		out = append(out, img)
	}
	return out
}

func (n *Normalizer) prepareColorImages(attrs attributeSet, variationImages map[string][]domain.Image, productName string) map[string][]domain.Image {
	if len(variationImages) == 0 {
		return nil
	}
	out := make(map[string][]domain.Image, len(variationImages))
	for color, imgs := range variationImages {
		key := colorKey(attrs, color)
		if key == "" {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		if prepared := n.prepareImages(imgs, productName); len(prepared) > 0 {
			out[key] = prepared
		}
	}
	return out
}

// hoverImage is the second gallery image, or a provisional guess derived
// from the first when the product has only one.
func (n *Normalizer) hoverImage(raw *domain.RawProduct, prepared []domain.Image) *domain.Image {
	if len(prepared) > 1 {
		img := prepared[1]
		return &img
	}
	if len(prepared) == 0 {
		return nil
	}
	var first domain.Image
	for _, img := range raw.Images {
		if strings.TrimSpace(img.Src) != "" {
			first = img
			break
		}
	}
	guess := GuessSecondaryImage(first)
	if guess.Src == "" {
		return nil
	}
	guess.Alt = prepared[0].Alt
	if n.cfg.WebP {
		guess.Src = RewriteWebP(guess.Src)
	}
	return &guess
}

// colorKey maps a color value onto the canonical term slug of the product's
// color attribute, or its plain normalized form for unknown colors.
func colorKey(attrs attributeSet, color string) string {
	if attrs.color != nil {
		return attrs.color.canonical(color)
	}
	return slug.Normalize(color)
}

// gallery memoizes the image set of each selected color. Colors are only
// resolved when first selected.
type gallery struct {
	resolver        *ImageResolver
	product         *domain.RawProduct
	attrs           attributeSet
	variationImages map[string][]domain.Image

	mu      sync.Mutex
	byColor map[string][]domain.Image
}

func (g *gallery) ImagesForColor(color string) []domain.Image {
	key := colorKey(g.attrs, color)

	g.mu.Lock()
	defer g.mu.Unlock()

	if imgs, ok := g.byColor[key]; ok {
		return slices.Clone(imgs)
	}
	imgs := g.resolver.imagesForColor(g.product, g.attrs, color, g.variationImages)
	g.byColor[key] = imgs
	return slices.Clone(imgs)
}
