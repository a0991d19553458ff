package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const maxMessageLen = 4096

// sendText sends a plain-text message, splitting it into parts when it
// exceeds Telegram's length limit.
func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		})
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// splitMessage splits text into chunks of at most maxLen runes, preferring
// newline boundaries in the second half of a chunk.
func splitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for utf8.RuneCountInString(text) > maxLen {
		runes := []rune(text)
		splitAt := maxLen

		chunk := string(runes[:maxLen])
		if lastNewline := strings.LastIndex(chunk, "\n"); lastNewline > maxLen/2 {
			splitAt = lastNewline + 1
		}

		parts = append(parts, string(runes[:splitAt]))
		text = string(runes[splitAt:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// startTyping keeps the chat's typing indicator alive until the returned
// cancel function is called. It is the Telegram rendering of the transient
// placeholder the widget shows while a turn is in flight.
func startTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}
