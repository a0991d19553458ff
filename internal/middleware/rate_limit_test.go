package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedEcho(limit int) *echo.Echo {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	g := e.Group("", RateLimit(limit))
	g.POST("/chat", ok)
	g.GET("/history", ok)
	return e
}

func doReq(e *echo.Echo, method, target, client string) int {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(ClientHeader, client)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitCapsMutatingRequests(t *testing.T) {
	e := rateLimitedEcho(2)

	assert.Equal(t, http.StatusOK, doReq(e, http.MethodPost, "/chat", "tab-1"))
	assert.Equal(t, http.StatusOK, doReq(e, http.MethodPost, "/chat", "tab-1"))
	assert.Equal(t, http.StatusTooManyRequests, doReq(e, http.MethodPost, "/chat", "tab-1"))

	// Other clients keep their own budget.
	assert.Equal(t, http.StatusOK, doReq(e, http.MethodPost, "/chat", "tab-2"))
}

func TestRateLimitIgnoresReads(t *testing.T) {
	e := rateLimitedEcho(1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doReq(e, http.MethodGet, "/history", "tab-1"))
	}
}
