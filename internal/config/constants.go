package config

import "time"

const (
	// Transient assistant entry shown while a turn is in flight.
	PlaceholderText = "Thinking..."

	// Fixed greeting shown above the history by every surface.
	GreetingText = "Hello,\nHow can I assist you?"

	// Assistant error texts
	NetworkErrorText = "Sorry, the chatbot is unavailable due to a network error."
	FileErrorText    = "Sorry, there was an error processing your file. Please try again."

	// Backend error detail fallback
	UnknownErrorDetail = "Unknown error occurred."

	// Upload turn composition
	DescriptionPrefix     = "Based on your image, I found: "
	MatchingProductsText  = "Here are some matching products:"
	NoMatchesWithDesc     = "I couldn't find matching products at the moment."
	NoMatchesWithoutDesc  = "I found that your image is related to clothing, but I couldn't find matching products at the moment."
	NotClothingText       = "This image is not related to women's clothing. Please upload a clothing-related image."
	NonImageRejectionText = "Please upload only image files"

	// Carousel
	CarouselPageSize = 3

	// Backend request timeout
	RequestTimeout = 90 * time.Second

	// How long widget state survives without activity. Sessions are scoped to
	// a browsing session; the TTL only bounds server-side cleanup.
	SessionTTL = 24 * time.Hour

	// Expired state cleanup interval
	SessionCleanupInterval = 1 * time.Hour

	// Upload size cap for the widget API (bytes)
	MaxUploadSize = 10 << 20

	// Mutating requests allowed per client per minute
	RateLimitPerMinute = 30
)
