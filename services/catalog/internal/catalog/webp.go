package catalog

import (
	"regexp"
	"strings"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

const uploadsMarker = "wp-content/uploads"

var editedRaster = regexp.MustCompile(`(?i)-e\d+(\.(?:jpe?g|png))`)

// RewriteWebP points an uploads URL at the .webp sibling the image
// optimizer generates next to every original. The edit marker is dropped
// first because the optimizer only converts the unedited file. URLs
// outside the uploads directory, or already .webp, are returned unchanged.
func RewriteWebP(src string) string {
	if !strings.Contains(src, uploadsMarker) {
		return src
	}
	if strings.HasSuffix(strings.ToLower(src), ".webp") {
		return src
	}
	if loc := editedRaster.FindStringSubmatchIndex(src); loc != nil {
		src = src[:loc[0]] + src[loc[2]:loc[3]] + src[loc[1]:]
	}
	return src + ".webp"
}

// RewriteImages applies RewriteWebP to every image in place and returns
// the slice for chaining.
func RewriteImages(images []domain.Image) []domain.Image {
	for i := range images {
		images[i].Src = RewriteWebP(images[i].Src)
	}
	return images
}
