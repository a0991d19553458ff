// Package telegram exposes the widget conversation over a Telegram bot as
// an alternate surface. A chat maps to one browsing session; assistant
// product carousels render as paginated inline keyboards.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/render"
	"github.com/aristomax/shopbuddy/internal/service"
)

type Bridge struct {
	bot          *bot.Bot
	dropPending  bool
	identity     *service.IdentityService
	history      *service.HistoryService
	conversation *service.ConversationService
}

func NewBridge(token string, dropPending bool, identity *service.IdentityService, history *service.HistoryService, conversation *service.ConversationService) (*Bridge, error) {
	br := &Bridge{
		dropPending:  dropPending,
		identity:     identity,
		history:      history,
		conversation: conversation,
	}

	b, err := bot.New(token, bot.WithDefaultHandler(br.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	br.bot = b
	return br, nil
}

// Start runs the update loop until the context is cancelled.
func (br *Bridge) Start(ctx context.Context) {
	if br.dropPending {
		br.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true})
	}
	br.bot.Start(ctx)
}

func (br *Bridge) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		br.handleCarouselPage(ctx, b, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	token, err := br.identity.GetOrCreate(ctx, clientKey(chatID))
	if err != nil {
		slog.Error("resolve telegram session", "error", err, "chat_id", chatID)
		return
	}

	stopTyping := startTyping(ctx, b, chatID)
	defer stopTyping()

	var snapshot []domain.Message
	switch {
	case len(msg.Photo) > 0:
		// Highest resolution variant comes last.
		photo := msg.Photo[len(msg.Photo)-1]
		snapshot, err = br.fileTurn(ctx, b, token, photo.FileID, msg.Caption)
	case msg.Document != nil:
		snapshot, err = br.fileTurn(ctx, b, token, msg.Document.FileID, msg.Caption)
	default:
		if strings.HasPrefix(msg.Text, "/") {
			return
		}
		snapshot, err = br.conversation.TextTurn(ctx, token, msg.Text, "")
		if errors.Is(err, domain.ErrEmptyMessage) {
			return
		}
	}
	if err != nil {
		slog.Error("telegram turn failed", "error", err, "chat_id", chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Something went wrong. Please try again.",
		})
		return
	}

	br.sendReply(ctx, b, chatID, snapshot)
}

func (br *Bridge) fileTurn(ctx context.Context, b *bot.Bot, token, fileID, caption string) ([]domain.Message, error) {
	data, name, contentType, err := downloadFile(ctx, b, fileID)
	if err != nil {
		return nil, err
	}
	return br.conversation.FileTurn(ctx, token, service.Upload{
		Filename:    name,
		ContentType: contentType,
		Data:        data,
		Caption:     caption,
	})
}

// sendReply renders the turn's terminal assistant message: text first, then
// the first carousel page when products came back.
func (br *Bridge) sendReply(ctx context.Context, b *bot.Bot, chatID int64, snapshot []domain.Message) {
	if len(snapshot) == 0 {
		return
	}
	view := render.Render(snapshot[len(snapshot)-1])

	if len(view.Lines) > 0 {
		if err := sendText(ctx, b, chatID, strings.Join(view.Lines, "\n")); err != nil {
			slog.Error("send reply failed", "error", err, "chat_id", chatID)
		}
	}

	if view.Layout == render.LayoutCarousel && len(view.Pages) > 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        productPageText(view.Pages, 0),
			ReplyMarkup: productPageKeyboard(view.Pages, 0, productCount(view.Pages)),
		})
	}
}

// handleCarouselPage re-renders the product list on a page-turn callback.
// Pages are rebuilt from the current snapshot's last assistant carousel, so
// a trimmed history simply stops paging.
func (br *Bridge) handleCarouselPage(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery) {
	defer b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	parts := strings.SplitN(cq.Data, "_", 2)
	if len(parts) != 2 || parts[0] != carouselCallbackPrefix {
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	if cq.Message.Message == nil {
		return
	}
	chatID := cq.Message.Message.Chat.ID

	token, err := br.identity.GetOrCreate(ctx, clientKey(chatID))
	if err != nil {
		return
	}
	snapshot, err := br.history.Current(ctx, token)
	if err != nil {
		return
	}

	view := lastCarousel(snapshot)
	if view == nil || page < 0 || page >= len(view.Pages) {
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   cq.Message.Message.ID,
		Text:        productPageText(view.Pages, page),
		ReplyMarkup: productPageKeyboard(view.Pages, page, productCount(view.Pages)),
	})
}

func lastCarousel(snapshot []domain.Message) *render.MessageView {
	for i := len(snapshot) - 1; i >= 0; i-- {
		view := render.Render(snapshot[i])
		if view.Layout == render.LayoutCarousel && len(view.Pages) > 0 {
			return &view
		}
	}
	return nil
}

func productCount(pages [][]render.ProductView) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}

func clientKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}
