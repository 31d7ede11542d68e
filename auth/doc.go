// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth validates bearer tokens issued by the hosted auth provider.

# Access Tokens

The provider signs access tokens with HS256 and a project secret. The
Verifier checks the signature, algorithm, expiry, audience and subject:

	v := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
	claims, err := v.Verify(token)
	userID := claims.Subject

Application roles travel in the app_role claim. RoleHRAdmin may read any
team's aggregates; everyone else only the teams they manage.

# Header Parsing

	token, err := auth.ParseBearer(r.Header.Get("Authorization"))

Returns ErrMissingToken when the header is absent and ErrInvalidToken when
it is not "Bearer <token>".

# Development Tokens

Issue mints a token the Verifier accepts. The token command and the tests
use it; production never does.

# IP Hashing

HashIP keys rate-limit buckets for anonymous callers without storing raw
addresses.
*/
package auth
