package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimit returns middleware that caps mutating requests per client key
// per minute. Counters are in-memory with a fixed window; the gateway runs
// as a single process so no shared store is needed. Reads pass through
// unlimited.
func RateLimit(limit int) echo.MiddlewareFunc {
	w := &rateWindow{counts: make(map[string]int), now: time.Now}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				return next(c)
			}

			key := c.Request().Header.Get(ClientHeader)
			if key == "" {
				if cookie, err := c.Cookie(ClientCookie); err == nil {
					key = cookie.Value
				}
			}
			if key == "" {
				key = c.RealIP()
			}

			if w.increment(key) > limit {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Please wait a moment.")
			}
			return next(c)
		}
	}
}

type rateWindow struct {
	mu     sync.Mutex
	counts map[string]int
	start  time.Time
	now    func() time.Time
}

func (w *rateWindow) increment(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if now.Sub(w.start) >= time.Minute {
		w.counts = make(map[string]int)
		w.start = now
	}
	w.counts[key]++
	return w.counts[key]
}
