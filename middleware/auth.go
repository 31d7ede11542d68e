// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/wellness-api/auth"
)

// RequireAuth rejects requests without a valid bearer token and stores the claims in the context
func RequireAuth(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					ErrorResponse(w, http.StatusUnauthorized, "Authorization header required")
				} else {
					ErrorResponse(w, http.StatusUnauthorized, "Malformed authorization header")
				}
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				zap.L().Debug("token rejected",
					zap.Error(err),
					zap.String("request_id", GetRequestID(r.Context())),
				)
				ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a context carrying the caller's claims
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
