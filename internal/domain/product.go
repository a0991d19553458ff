package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a recommended catalog item as projected into a message.
type Product struct {
	Image string
	Price string
}

// NormalizePrice canonicalizes a backend-provided price. Catalog rows carry
// prices as strings or bare numbers with inconsistent formatting; anything
// that does not parse as a decimal amount becomes PriceUnknown.
func NormalizePrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PriceUnknown
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return PriceUnknown
	}
	return d.String()
}

// ProjectProducts splits products into the positionally aligned image and
// price sequences stored on a message. Entries without an image reference
// are dropped; entries without a price keep their slot as PriceUnknown.
func ProjectProducts(products []Product) (images, prices []string) {
	for _, p := range products {
		if p.Image == "" {
			continue
		}
		images = append(images, p.Image)
		prices = append(prices, NormalizePrice(p.Price))
	}
	return images, prices
}
