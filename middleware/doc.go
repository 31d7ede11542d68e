// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Pipeline

The router installs, outermost first:

	r.Use(middleware.RequestID, middleware.Recovery, middleware.WithLogging, middleware.CORS)

RequestID reuses an incoming X-Request-ID or generates a UUID and echoes it
on the response. Recovery turns panics into a 500 JSON error. WithLogging logs
every request through the global zap logger with method, path, status,
duration_ms and request_id.

# Authentication

	r.Use(middleware.RequireAuth(verifier))

Rejects requests without a valid "Authorization: Bearer <jwt>" header with 401.
Handlers read the caller with:

	claims, ok := middleware.ClaimsFromContext(r.Context())

# Rate Limiting

	r.With(middleware.RateLimit(limiter, salt)).Post("/sessions", h.Create)

Keys callers by JWT subject, or by a salted hash of the client IP when
unauthenticated. Sets X-RateLimit-Limit, X-RateLimit-Remaining and
X-RateLimit-Reset; over-budget callers get 429 with Retry-After. A failing
limiter backend lets the request through.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

ParseJSONBody rejects unknown fields and trailing data.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, X-Real-IP, then RemoteAddr.
*/
package middleware
