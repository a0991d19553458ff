package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aristomax/shopbuddy/internal/domain"
)

// EnrichService backfills missing product prices. Some catalog sources hand
// the widget a product-page URL in the image slot instead of a raw image;
// for those entries the page's meta tags usually carry the price (and the
// real image) even when the recommendation payload does not.
type EnrichService struct {
	httpClient *http.Client
}

func NewEnrichService() *EnrichService {
	return &EnrichService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BackfillPrices resolves PriceUnknown entries whose image reference serves
// an HTML page. The slices are returned updated in place; any fetch or parse
// failure leaves the sentinel untouched.
func (s *EnrichService) BackfillPrices(ctx context.Context, images, prices []string) ([]string, []string) {
	for i := range images {
		if i >= len(prices) || prices[i] != domain.PriceUnknown {
			continue
		}
		if !strings.HasPrefix(images[i], "http://") && !strings.HasPrefix(images[i], "https://") {
			continue
		}
		image, price, err := s.resolveProductPage(ctx, images[i])
		if err != nil {
			slog.Debug("price backfill skipped", "url", images[i], "error", err)
			continue
		}
		if image != "" {
			images[i] = image
		}
		if price != "" {
			prices[i] = domain.NormalizePrice(price)
		}
	}
	return images, prices
}

func (s *EnrichService) resolveProductPage(ctx context.Context, url string) (image, price string, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", "", fmt.Errorf("not an html page")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse page: %w", err)
	}

	image, _ = doc.Find(`meta[property="og:image"]`).Attr("content")
	for _, sel := range []string{
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
	} {
		if v, ok := doc.Find(sel).Attr("content"); ok && v != "" {
			price = v
			break
		}
	}
	return image, price, nil
}
