package catalog

import (
	"fmt"
	"strings"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// PickPolicy decides which record to use when a slug lookup returns more
// than one product.
type PickPolicy string

const (
	// PickFirstWithAttributes prefers the first record that has attributes;
	// duplicates without attributes are usually stale drafts.
	PickFirstWithAttributes PickPolicy = "first_with_attributes"
	// PickFirst always takes the first record.
	PickFirst PickPolicy = "first"
)

// ParsePickPolicy validates a configured policy name.
func ParsePickPolicy(s string) (PickPolicy, error) {
	switch PickPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PickFirstWithAttributes, "":
		return PickFirstWithAttributes, nil
	case PickFirst:
		return PickFirst, nil
	}
	return "", fmt.Errorf("unknown pick policy %q", s)
}

// PickBySlug selects one record out of a slug lookup result.
func PickBySlug(records []domain.RawProduct, policy PickPolicy) (*domain.RawProduct, bool) {
	if len(records) == 0 {
		return nil, false
	}
	if policy != PickFirst {
		for i := range records {
			if len(records[i].Attributes) > 0 {
				return &records[i], true
			}
		}
	}
	return &records[0], true
}
