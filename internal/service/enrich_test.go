package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristomax/shopbuddy/internal/domain"
)

const productPage = `<!doctype html>
<html><head>
<meta property="og:image" content="https://cdn.example.com/real-image.jpg">
<meta property="product:price:amount" content="499.00">
</head><body></body></html>`

func TestBackfillPricesFromProductPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	s := NewEnrichService()
	images, prices := s.BackfillPrices(context.Background(),
		[]string{srv.URL + "/product/1"},
		[]string{domain.PriceUnknown},
	)

	assert.Equal(t, []string{"https://cdn.example.com/real-image.jpg"}, images)
	assert.Equal(t, []string{"499"}, prices)
}

func TestBackfillSkipsKnownPrices(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewEnrichService()
	images, prices := s.BackfillPrices(context.Background(),
		[]string{srv.URL + "/product/1"},
		[]string{"500"},
	)

	assert.False(t, called)
	assert.Equal(t, []string{srv.URL + "/product/1"}, images)
	assert.Equal(t, []string{"500"}, prices)
}

func TestBackfillLeavesSentinelOnNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8})
	}))
	defer srv.Close()

	s := NewEnrichService()
	images, prices := s.BackfillPrices(context.Background(),
		[]string{srv.URL + "/a.jpg"},
		[]string{domain.PriceUnknown},
	)

	assert.Equal(t, []string{srv.URL + "/a.jpg"}, images)
	assert.Equal(t, []string{domain.PriceUnknown}, prices)
}

func TestBackfillSkipsNonURLReferences(t *testing.T) {
	s := NewEnrichService()
	images, prices := s.BackfillPrices(context.Background(),
		[]string{"blob:local-preview"},
		[]string{domain.PriceUnknown},
	)
	assert.Equal(t, []string{"blob:local-preview"}, images)
	assert.Equal(t, []string{domain.PriceUnknown}, prices)
}
