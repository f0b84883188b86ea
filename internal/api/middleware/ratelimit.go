package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
)

// RateLimitByIP allows requestsPerMinute requests per client IP and answers
// the rest with 429 and a JSON error body.
func RateLimitByIP(requestsPerMinute int) echo.MiddlewareFunc {
	limiter := httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}`))
		}),
	)
	return echo.WrapMiddleware(limiter)
}
