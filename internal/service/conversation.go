package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/domain"
)

// ConversationService drives one turn from submission to its terminal
// resolution: the user message and a placeholder are appended optimistically,
// exactly one backend call runs, and its outcome replaces the placeholder.
// Remote failures resolve into an assistant error message rather than an
// error return; only storage failures propagate.
type ConversationService struct {
	backend  *BackendClient
	history  *HistoryService
	enricher *EnrichService // nil disables price backfill

	mu      sync.Mutex
	pending map[string]string // session token -> one-shot product context
}

func NewConversationService(backend *BackendClient, history *HistoryService, enricher *EnrichService) *ConversationService {
	return &ConversationService{
		backend:  backend,
		history:  history,
		enricher: enricher,
		pending:  make(map[string]string),
	}
}

// Upload is a user-attached file entering a file turn. PreviewURL is the
// client-side object URL shown in the user's bubble; it is only used when
// the file is an image.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Caption     string
	PreviewURL  string
}

func (u Upload) isImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

// TextTurn runs one text exchange and returns the resulting snapshot.
// Empty or whitespace-only input is a no-op: no history mutation, no
// backend call.
func (s *ConversationService) TextTurn(ctx context.Context, token, text, override string) ([]domain.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrEmptyMessage
	}

	prior, err := s.history.Current(ctx, token)
	if err != nil {
		return nil, err
	}

	userMsg := domain.NewMessage(domain.SenderUser, trimmed, token)
	placeholder := domain.NewMessage(domain.SenderAssistant, config.PlaceholderText, token)
	if _, err := s.history.Append(ctx, token, userMsg, placeholder); err != nil {
		return nil, err
	}

	// Prompt resolution: explicit override, else the one-shot pending
	// product context (consumed here), else the literal user text.
	prompt := override
	if prompt == "" {
		prompt = s.takePending(token)
	}
	if prompt == "" {
		prompt = trimmed
	}

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	resp, err := s.backend.GenerateResponse(reqCtx, GenerateRequest{
		Prompt:      prompt,
		ChatHistory: formatHistory(prior),
		SessionID:   token,
	})
	if err != nil {
		return s.resolveFailure(ctx, token, err, config.NetworkErrorText)
	}

	reply := domain.NewMessage(domain.SenderAssistant, resp.Response, token)
	reply.Images, reply.Prices = s.projectProducts(ctx, resp.Products)
	return s.resolve(ctx, token, reply)
}

// FileTurn runs one file exchange. The user message is appended before the
// upload regardless of outcome; an image preview is attached only for image
// media types.
func (s *ConversationService) FileTurn(ctx context.Context, token string, up Upload) ([]domain.Message, error) {
	userMsg := domain.NewMessage(domain.SenderUser, strings.TrimSpace(up.Caption), token)
	if up.isImage() {
		if up.PreviewURL != "" {
			userMsg.Images = []string{up.PreviewURL}
		}
	} else {
		userMsg.Filename = up.Filename
	}

	placeholder := domain.NewMessage(domain.SenderAssistant, config.PlaceholderText, token)
	if _, err := s.history.Append(ctx, token, userMsg, placeholder); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	resp, err := s.backend.UploadFile(reqCtx, up.Filename, up.Data)
	if err != nil {
		return s.resolveFailure(ctx, token, err, config.FileErrorText)
	}

	// A generated description arms the one-shot context for the next
	// text-only turn even when the classification was negative.
	if resp.GeneratedDescription != "" {
		s.setPending(token, resp.GeneratedDescription)
	}

	reply := domain.NewMessage(domain.SenderAssistant, "", token)
	if resp.Success {
		reply.Images, reply.Prices = s.projectProducts(ctx, resp.RecommendedProducts)
		reply.Text = composeUploadReply(resp.GeneratedDescription, len(reply.Images) > 0)
	} else {
		reply.Text = resp.Message
		if reply.Text == "" {
			reply.Text = config.NotClothingText
		}
	}
	return s.resolve(ctx, token, reply)
}

// Greeting is the fixed assistant bubble shown above the history.
func (s *ConversationService) Greeting() string {
	return config.GreetingText
}

func (s *ConversationService) resolve(ctx context.Context, token string, reply domain.Message) ([]domain.Message, error) {
	return s.history.ReplacePlaceholder(ctx, token, s.isPlaceholder, reply)
}

func (s *ConversationService) resolveFailure(ctx context.Context, token string, cause error, transportText string) ([]domain.Message, error) {
	text := transportText
	var svcErr *domain.ServiceError
	if errors.As(cause, &svcErr) {
		text = "Error: " + svcErr.Detail
	} else {
		slog.Error("backend call failed", "error", cause, "session", token)
	}
	errMsg := domain.NewMessage(domain.SenderAssistant, text, token)
	return s.history.ReplacePlaceholder(ctx, token, s.isPlaceholder, errMsg)
}

func (s *ConversationService) projectProducts(ctx context.Context, products []BackendProduct) ([]string, []string) {
	items := make([]domain.Product, len(products))
	for i, p := range products {
		items[i] = p.ToProduct()
	}
	images, prices := domain.ProjectProducts(items)
	if s.enricher != nil {
		images, prices = s.enricher.BackfillPrices(ctx, images, prices)
	}
	return images, prices
}

func (s *ConversationService) isPlaceholder(m domain.Message) bool {
	return m.IsPlaceholder(config.PlaceholderText)
}

func (s *ConversationService) setPending(token, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[token] = description
}

func (s *ConversationService) takePending(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	desc := s.pending[token]
	delete(s.pending, token)
	return desc
}

// formatHistory reformats the prior history as role/content pairs for the
// backend. Transient placeholders never leave the widget.
func formatHistory(history []domain.Message) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(history))
	for _, m := range history {
		if m.IsPlaceholder(config.PlaceholderText) {
			continue
		}
		role := "assistant"
		if m.Sender == domain.SenderUser {
			role = "user"
		}
		entries = append(entries, HistoryEntry{Role: role, Content: m.Text})
	}
	return entries
}

// composeUploadReply builds the assistant text for a positive upload
// classification.
func composeUploadReply(description string, hasProducts bool) string {
	if description == "" {
		if hasProducts {
			return config.MatchingProductsText
		}
		return config.NoMatchesWithoutDesc
	}
	if hasProducts {
		return config.DescriptionPrefix + description + "\n\n" + config.MatchingProductsText
	}
	return config.DescriptionPrefix + description + "\n\n" + config.NoMatchesWithDesc
}
