// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin token validation and voter identity hashing.

# Admin Tokens

The site admin token is an HMAC-SHA256 of a fixed subject keyed by the
configured salt, URL-safe base64 without padding:

	token := auth.GenerateAdminToken(cfg.AdminSalt)
	err := auth.ValidateAdminToken(header, cfg.AdminSalt)

Validation uses hmac.Equal for constant-time comparison. Token issuance
and rotation happen out of band; the server never mints tokens for
callers.

# Identity Hashing

Voter IPs are never stored raw. HashIP produces a salted 64-bit HMAC
prefix, which is enough for duplicate detection without keeping
addresses:

	ipHash := auth.HashIP(clientIP, cfg.IdentitySalt)

# Fingerprints

Device fingerprints arrive from a client-side fingerprinting step and
are opaque to the server. NormalizeFingerprint bounds their length and
lowercases them so lookups are case-stable.

Both identity signals are best-effort abuse resistance, not a
cryptographic guarantee: a client controlling its headers or clearing
browser storage can mint a fresh identity.
*/
package auth
