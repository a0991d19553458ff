package telegram

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/render"
)

// carouselCallbackPrefix keys the page-turn callbacks.
const carouselCallbackPrefix = "car"

// productPageText lists one carousel page with aligned price overlays.
func productPageText(pages [][]render.ProductView, page int) string {
	if page < 0 || page >= len(pages) {
		return ""
	}
	var b strings.Builder
	for _, p := range pages[page] {
		price := p.Price
		if price != domain.PriceUnknown {
			price = "Price: " + price
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", p.Image, price)
	}
	return strings.TrimSpace(b.String())
}

// productPageKeyboard builds the per-page call-to-action buttons plus a
// pagination row. Paging controls are hidden when the carousel holds two or
// fewer products, matching the widget surface.
func productPageKeyboard(pages [][]render.ProductView, page, productCount int) *models.InlineKeyboardMarkup {
	if page < 0 || page >= len(pages) {
		return nil
	}

	var rows [][]models.InlineKeyboardButton

	var actions []models.InlineKeyboardButton
	for _, p := range pages[page] {
		actions = append(actions, models.InlineKeyboardButton{
			Text: p.Action,
			URL:  p.Image,
		})
	}
	if len(actions) > 0 {
		rows = append(rows, actions)
	}

	if productCount > 2 {
		var nav []models.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, models.InlineKeyboardButton{
				Text:         "<",
				CallbackData: fmt.Sprintf("%s_%d", carouselCallbackPrefix, page-1),
			})
		}
		nav = append(nav, models.InlineKeyboardButton{
			Text:         fmt.Sprintf("%d/%d", page+1, len(pages)),
			CallbackData: "cur",
		})
		if page < len(pages)-1 {
			nav = append(nav, models.InlineKeyboardButton{
				Text:         ">",
				CallbackData: fmt.Sprintf("%s_%d", carouselCallbackPrefix, page+1),
			})
		}
		rows = append(rows, nav)
	}

	if len(rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
