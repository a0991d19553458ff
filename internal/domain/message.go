package domain

// PriceUnknown is the sentinel carried in Message.Prices when no price is
// known for the image at the same index. Prices are never shortened to hide
// a missing value.
const PriceUnknown = "N/A"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single history entry. Messages are immutable once stored and
// replaced wholesale on update.
type Message struct {
	Sender    Sender   `json:"sender"`
	Text      string   `json:"text"`
	Images    []string `json:"images,omitempty"`
	Prices    []string `json:"prices,omitempty"`
	Filename  string   `json:"filename,omitempty"`
	SessionID string   `json:"session_id"`
}

// NewMessage builds a text-only message.
func NewMessage(sender Sender, text, sessionID string) Message {
	return Message{Sender: sender, Text: text, SessionID: sessionID}
}

// Normalized returns a copy whose Prices slice is positionally aligned with
// Images: missing entries are padded with PriceUnknown, surplus entries are
// dropped, and empty strings become the sentinel.
func (m Message) Normalized() Message {
	if len(m.Images) == 0 {
		m.Prices = nil
		return m
	}
	prices := make([]string, len(m.Images))
	for i := range prices {
		if i < len(m.Prices) && m.Prices[i] != "" {
			prices[i] = m.Prices[i]
		} else {
			prices[i] = PriceUnknown
		}
	}
	m.Prices = prices
	return m
}

// IsPlaceholder reports whether the message is a transient in-flight marker.
// Placeholders are matched by their fixed text, matching how the widget has
// always reconciled them.
func (m Message) IsPlaceholder(marker string) bool {
	return m.Sender == SenderAssistant && m.Text == marker
}
