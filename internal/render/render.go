// Package render projects stored messages into display structures. The
// projection is pure: it never mutates the message or the history snapshot.
package render

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aristomax/shopbuddy/internal/carousel"
	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/domain"
)

type Layout string

const (
	// LayoutNone renders text only.
	LayoutNone Layout = "none"
	// LayoutGallery renders user-attached images as a flat gallery.
	LayoutGallery Layout = "gallery"
	// LayoutCarousel renders assistant product images as paged groups with
	// price overlays.
	LayoutCarousel Layout = "carousel"
)

type Badge string

const (
	BadgeNone Badge = ""
	BadgePDF  Badge = "pdf"
	BadgeDoc  Badge = "doc"
)

// CallToAction is the per-product affordance label on assistant carousels.
const CallToAction = "Buy Product"

// ProductView is one carousel cell: an image with its aligned price overlay.
type ProductView struct {
	Image  string `json:"image"`
	Price  string `json:"price"`
	Action string `json:"action"`
}

// MessageView is the display form of a single message.
type MessageView struct {
	Sender   domain.Sender   `json:"sender"`
	Lines    []string        `json:"lines"`
	Layout   Layout          `json:"layout"`
	Gallery  []string        `json:"gallery,omitempty"`
	Pages    [][]ProductView `json:"pages,omitempty"`
	Badge    Badge           `json:"badge,omitempty"`
	Filename string          `json:"filename,omitempty"`
}

// priceFragmentRe matches leaked "price: <number>" fragments in assistant
// text. Scrubbing is cosmetic only; the Prices slice is untouched.
var priceFragmentRe = regexp.MustCompile(`(?i)price:\s*[\d.]+`)

const productBoilerplate = "Here is a recommended product:"

// Render maps a message to its display structure.
func Render(msg domain.Message) MessageView {
	msg = msg.Normalized()

	text := strings.TrimSpace(msg.Text)
	if msg.Sender == domain.SenderAssistant {
		text = scrub(text)
	}

	view := MessageView{
		Sender:   msg.Sender,
		Lines:    splitLines(text),
		Layout:   LayoutNone,
		Filename: msg.Filename,
	}

	switch {
	case len(msg.Images) == 0:
		if msg.Sender == domain.SenderUser && msg.Filename != "" {
			view.Badge = badgeFor(msg.Filename)
		}
	case msg.Sender == domain.SenderUser:
		view.Layout = LayoutGallery
		view.Gallery = msg.Images
	default:
		view.Layout = LayoutCarousel
		view.Pages = productPages(msg.Images, msg.Prices)
	}
	return view
}

func productPages(images, prices []string) [][]ProductView {
	pages := carousel.Paginate(images, config.CarouselPageSize)
	views := make([][]ProductView, len(pages))
	for pi, page := range pages {
		views[pi] = make([]ProductView, len(page))
		for i, img := range page {
			price := domain.PriceUnknown
			if idx := carousel.GlobalIndex(pages, pi, i); idx >= 0 && idx < len(prices) {
				price = prices[idx]
			}
			views[pi][i] = ProductView{Image: img, Price: price, Action: CallToAction}
		}
	}
	return views
}

func scrub(text string) string {
	text = strings.Replace(text, productBoilerplate, "", 1)
	text = priceFragmentRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func badgeFor(filename string) Badge {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return BadgePDF
	case ".doc", ".docx":
		return BadgeDoc
	default:
		return BadgeNone
	}
}
