// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/wellness-api/auth"
	"github.com/danielhkuo/wellness-api/ratelimit"
)

// RateLimitKey keys authenticated callers by subject and anonymous ones by a salted IP hash
func RateLimitKey(r *http.Request, salt string) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return "user:" + claims.Subject
	}
	return "ip:" + auth.HashIP(GetClientIP(r), salt)
}

// RateLimit rejects callers over their budget with 429. Limiter errors let the request through.
func RateLimit(limiter ratelimit.RateLimiter, salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, err := limiter.Allow(r.Context(), RateLimitKey(r, salt))
			if err != nil {
				zap.L().Warn("rate limiter unavailable, allowing request",
					zap.Error(err),
					zap.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !info.Allowed {
				retryAfter := int64(time.Until(info.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
