package catalog

import (
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// DefaultPlaceholderURL is shown when a product has no images at all.
const DefaultPlaceholderURL = "https://via.placeholder.com/300x400?text=Zapato"

var (
	// editSuffix matches the "-e1712345678" marker the media library adds
	// to edited uploads.
	editSuffix = regexp.MustCompile(`(?i)-e\d+(\.[a-z0-9]+)$`)

	trailingNumber = regexp.MustCompile(`-(\d+)(\.[A-Za-z0-9]+)?$`)
)

// ImageResolver picks the gallery to show for a color.
type ImageResolver struct {
	placeholder domain.Image
}

// NewImageResolver creates a resolver that falls back to placeholderURL
// when a product has no images.
func NewImageResolver(placeholderURL string) *ImageResolver {
	if placeholderURL == "" {
		placeholderURL = DefaultPlaceholderURL
	}
	return &ImageResolver{placeholder: domain.Image{Src: placeholderURL, Alt: "placeholder"}}
}

// Placeholder returns the placeholder image.
func (r *ImageResolver) Placeholder() domain.Image {
	return r.placeholder
}

// DefaultImages returns the product images, or the placeholder when there
// are none.
func (r *ImageResolver) DefaultImages(p *domain.RawProduct) []domain.Image {
	if len(p.Images) == 0 {
		return []domain.Image{r.placeholder}
	}
	return slices.Clone(p.Images)
}

// ImagesForColor returns the gallery for color. Strategies are tried in
// order and the first non-empty answer wins:
//
//  1. the variation images recorded for the color;
//  2. default images whose file name, src or alt mention the color;
//  3. a provisional URL built by swapping the color token embedded in the
//     first image's file name;
//  4. the default images.
//
// An empty color returns the default images. The result is never empty.
func (r *ImageResolver) ImagesForColor(p *domain.RawProduct, color string, variationImages map[string][]domain.Image) []domain.Image {
	return r.imagesForColor(p, newAttributeSet(p.Attributes), color, variationImages)
}

func (r *ImageResolver) imagesForColor(p *domain.RawProduct, attrs attributeSet, color string, variationImages map[string][]domain.Image) []domain.Image {
	defaults := r.DefaultImages(p)
	target := slug.Normalize(color)
	if target == "" {
		return defaults
	}

	display := color
	if term, ok := attrs.colorTerm(target); ok {
		target = term.Slug
		display = term.Name
	}

	if imgs := variationImages[target]; len(imgs) > 0 {
		return slices.Clone(imgs)
	}

	if matched := matchByMetadata(p.Images, target, display); len(matched) > 0 {
		return matched
	}

	if img, ok := mutateFilename(p.Images, attrs, target, display); ok {
		return []domain.Image{img}
	}

	return defaults
}

// matchByMetadata keeps the images whose file name, alt text or name
// contain the color as a slug, with underscores, or as display text. Only
// the last path segment of src is searched: upload directories and hosts
// (a "/coleccion-vino/" folder, say) say nothing about the pictured color.
func matchByMetadata(images []domain.Image, target, display string) []domain.Image {
	needles := colorNeedles(target, display)
	var out []domain.Image
	for _, img := range images {
		hay := strings.ToLower(fileName(img.Src) + "\n" + img.Alt + "\n" + img.Name)
		hay = strings.ToLower(slug.StripDiacritics(hay))
		for _, n := range needles {
			if strings.Contains(hay, n) {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

func colorNeedles(target, display string) []string {
	d := strings.ToLower(slug.StripDiacritics(strings.TrimSpace(display)))
	candidates := []string{
		target,
		strings.ReplaceAll(target, "-", "_"),
		d,
		strings.ReplaceAll(d, " ", "-"),
		strings.ReplaceAll(d, " ", "_"),
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// mutateFilename finds the color term embedded in the first image's file
// name and swaps it for the target color, keeping the token's capitalization
// style. The longest matching token wins so "azul-marino" beats "azul".
func mutateFilename(images []domain.Image, attrs attributeSet, target, display string) (domain.Image, bool) {
	if len(images) == 0 || attrs.color == nil {
		return domain.Image{}, false
	}
	first := images[0]
	dir, base, suffix := splitURL(first.Src)
	if base == "" {
		return domain.Image{}, false
	}
	lowerBase := strings.ToLower(base)
	if len(lowerBase) != len(base) {
		return domain.Image{}, false
	}

	start, end := -1, -1
	for _, term := range attrs.color.terms {
		if term.Slug == target {
			continue
		}
		for _, token := range termTokens(term) {
			i := strings.Index(lowerBase, token)
			if i < 0 {
				continue
			}
			if len(token) > end-start || (len(token) == end-start && i < start) {
				start, end = i, i+len(token)
			}
		}
	}
	if start < 0 {
		return domain.Image{}, false
	}

	matched := base[start:end]
	replacement := styleLike(matched, replacementWords(display, target))
	newBase := base[:start] + replacement + base[end:]
	newBase = editSuffix.ReplaceAllString(newBase, "$1")

	return domain.Image{
		Src:         dir + newBase + suffix,
		Alt:         display,
		Name:        strings.TrimSuffix(newBase, path.Ext(newBase)),
		Provisional: true,
	}, true
}

// termTokens lists the spellings of a term that may appear in a file name.
func termTokens(t domain.Term) []string {
	name := strings.ToLower(slug.StripDiacritics(strings.TrimSpace(t.Name)))
	candidates := []string{
		t.Slug,
		strings.ReplaceAll(t.Slug, "-", "_"),
		name,
		strings.ReplaceAll(name, " ", "-"),
		strings.ReplaceAll(name, " ", "_"),
	}
	var out []string
	for _, c := range candidates {
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// replacementWords returns the words of the target color without accents.
func replacementWords(display, target string) []string {
	words := strings.Fields(slug.StripDiacritics(display))
	if len(words) == 0 {
		words = strings.Split(target, "-")
	}
	return words
}

// styleLike renders words the way matched is written: UPPER, Capitalized
// or lower, joined with the separator matched uses.
func styleLike(matched string, words []string) string {
	sep := "-"
	if strings.Contains(matched, "_") {
		sep = "_"
	} else if strings.Contains(matched, " ") {
		sep = " "
	}

	hasLetter := strings.IndexFunc(matched, unicode.IsLetter) >= 0
	allUpper := hasLetter && strings.ToUpper(matched) == matched
	firstUpper := false
	for _, r := range matched {
		if unicode.IsLetter(r) {
			firstUpper = unicode.IsUpper(r)
			break
		}
	}

	out := make([]string, len(words))
	for i, w := range words {
		lw := strings.ToLower(w)
		switch {
		case allUpper && len([]rune(matched)) > 1:
			out[i] = strings.ToUpper(lw)
		case firstUpper:
			out[i] = capitalize(lw)
		default:
			out[i] = lw
		}
	}
	return strings.Join(out, sep)
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// GuessSecondaryImage predicts the second gallery image from the first by
// bumping a trailing "-N" counter, or appending "-2" when there is none.
// Edit markers are dropped first. The result is provisional.
func GuessSecondaryImage(img domain.Image) domain.Image {
	dir, base, suffix := splitURL(img.Src)
	if base == "" {
		return domain.Image{}
	}
	base = editSuffix.ReplaceAllString(base, "$1")

	var next string
	if m := trailingNumber.FindStringSubmatchIndex(base); m != nil {
		n, err := strconv.Atoi(base[m[2]:m[3]])
		if err == nil {
			ext := ""
			if m[4] >= 0 {
				ext = base[m[4]:m[5]]
			}
			next = base[:m[0]] + "-" + strconv.Itoa(n+1) + ext
		}
	}
	if next == "" {
		ext := path.Ext(base)
		next = strings.TrimSuffix(base, ext) + "-2" + ext
	}

	return domain.Image{
		Src:         dir + next + suffix,
		Alt:         img.Alt,
		Name:        strings.TrimSuffix(next, path.Ext(next)),
		Provisional: true,
	}
}

// splitURL splits src into the directory prefix (with trailing slash), the
// file name, and any query or fragment suffix.
func splitURL(src string) (dir, base, suffix string) {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src, suffix = src[:i], src[i:]
	}
	i := strings.LastIndex(src, "/")
	return src[:i+1], src[i+1:], suffix
}

func fileName(src string) string {
	_, base, _ := splitURL(src)
	return base
}
