// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/wellness-api/auth"
)

const testSecret = "middleware-test-secret"

func TestRequireAuth(t *testing.T) {
	verifier := auth.NewVerifier(testSecret, "authenticated")

	var got *auth.Claims
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	valid, err := verifier.Issue("user-1", "one@example.com", auth.RoleHRAdmin, time.Hour)
	require.NoError(t, err)

	expired, err := verifier.Issue("user-1", "", "", -time.Minute)
	require.NoError(t, err)

	foreign, err := auth.NewVerifier("other-secret", "authenticated").Issue("user-1", "", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest("GET", "/me/summary", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				require.NotNil(t, got)
				assert.Equal(t, "user-1", got.Subject)
				assert.True(t, got.IsHRAdmin())
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}
