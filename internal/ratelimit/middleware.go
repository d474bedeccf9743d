package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fas-supply/backend-wholesale/internal/common"
	"github.com/fas-supply/backend-wholesale/internal/vendor"
)

// Config describes how to derive a rate limit key and the thresholds.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// Handler enforces rate limits before delegating to the next handler. Limiter
// failures fail open: a degraded Redis must not take the portal down.
type Handler struct {
	Limiter Limiter
	Config  Config
	OnError func(error)
}

// VendorKey derives a limit key from the bearer token subject when present,
// falling back to the client IP for anonymous traffic.
func VendorKey(r *http.Request) string {
	if claims, ok := vendor.ExtractClaims(r.Header.Get("Authorization")); ok {
		if id := vendor.CanonicalID(claims.Subject); id != "" {
			return "vendor:" + id
		}
		if email := vendor.NormalizeEmail(claims.Email); email != "" {
			return "vendor:" + email
		}
	}
	return "ip:" + common.ClientIP(r)
}

// Middleware implements the http.Handler middleware interface.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		decision, err := h.Limiter.Allow(r.Context(), h.Config.Key(r), h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		limit := h.Config.Max
		if limit < 0 {
			limit = 0
		}
		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.Reset).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			common.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
