// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrInvalidAdminToken  = errors.New("invalid admin token")
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
)

// adminSubject is the fixed HMAC input for the site-wide admin token.
// Token issuance happens out of band; the server only verifies.
const adminSubject = "election-admin"

// GenerateAdminToken derives the site admin token from the configured salt.
// This is deterministic and verifiable
func GenerateAdminToken(salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(adminSubject))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminToken checks the provided token in constant time
func ValidateAdminToken(token, salt string) error {
	expected := GenerateAdminToken(salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidAdminToken
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

// NormalizeFingerprint validates and canonicalizes a client-supplied
// device fingerprint. Fingerprints are opaque tokens from the browser
// fingerprinting step; the server only bounds and lowercases them.
func NormalizeFingerprint(fp string) (string, error) {
	fp = strings.TrimSpace(fp)
	if len(fp) < 8 || len(fp) > 128 {
		return "", ErrInvalidFingerprint
	}
	return strings.ToLower(fp), nil
}
