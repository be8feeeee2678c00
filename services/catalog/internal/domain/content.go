package domain

import "time"

// Look is the editorial "look of the week".
type Look struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Image       string               `json:"image"`
	Products    []*NormalizedProduct `json:"products"`
}

// RawLook is a look post as the CMS returns it.
type RawLook struct {
	ID           int64            `json:"id"`
	Title        Rendered         `json:"title"`
	Content      Rendered         `json:"content"`
	CustomFields LookCustomFields `json:"custom_fields"`
	Embedded     struct {
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
	} `json:"_embedded"`
}

// Rendered wraps the CMS's rendered HTML fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// LookCustomFields are the meta fields exposed for a look post. Product
// IDs arrive as strings.
type LookCustomFields struct {
	Title       string `json:"look_titulo"`
	Description string `json:"look_descripcion"`
	Image       string `json:"look_imagen"`
	Product1    string `json:"look_producto_1"`
	Product2    string `json:"look_producto_2"`
}

// FeaturedImage returns the embedded featured media URL, if any.
func (l *RawLook) FeaturedImage() string {
	if len(l.Embedded.FeaturedMedia) == 0 {
		return ""
	}
	return l.Embedded.FeaturedMedia[0].SourceURL
}

// Review is a product review.
type Review struct {
	ID           int64  `json:"id"`
	DateCreated  string `json:"date_created"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductSlug  string `json:"product_slug"`
	ProductImage *Image `json:"product_image,omitempty"`
	Reviewer     string `json:"reviewer"`
	Review       string `json:"review"`
	Rating       int    `json:"rating"`
	Verified     bool   `json:"verified"`
	Permalink    string `json:"product_permalink,omitempty"`
}

// WarmReport summarizes a cache warm-up run.
type WarmReport struct {
	Products  int           `json:"products"`
	Warmed    int           `json:"warmed"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}
