// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response helpers.

# Middleware

  - WithLogging: structured request/completion logging via slog
  - RequireAdmin: X-Admin-Token gating for administrative routes
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse / ErrorResponse: consistent JSON bodies; errors are
    always {error, message}
  - ParseJSONBody: request body decoding
  - GetClientIP: client address from X-Forwarded-For (first entry),
    then X-Real-IP, then RemoteAddr, then the 0.0.0.0 sentinel

GetClientIP is the identity source for duplicate-vote prevention; the
fallback order matters: proxy header first, direct connection last.
*/
package middleware
