// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rijeet/Election-sub001/auth"
	"github.com/rijeet/Election-sub001/models"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "203.0.113.9",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.9",
		},
		{
			name:       "x-forwarded-for chain takes first",
			xff:        "203.0.113.9, 70.41.3.18, 150.172.238.178",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.9",
		},
		{
			name:       "x-real-ip when no xff",
			xri:        "198.51.100.4",
			remoteAddr: "10.0.0.1:1234",
			expected:   "198.51.100.4",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "192.0.2.7:5678",
			expected:   "192.0.2.7",
		},
		{
			name:       "xff wins over x-real-ip",
			xff:        "203.0.113.9",
			xri:        "198.51.100.4",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.9",
		},
		{
			name:     "no signal falls back to sentinel",
			expected: SentinelIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			got := GetClientIP(req)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	salt := "test-admin-salt"
	called := false
	handler := RequireAdmin(salt, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	// Missing token
	req := httptest.NewRequest("POST", "/posts", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	if called {
		t.Error("handler should not run without a valid token")
	}

	// Wrong token
	req = httptest.NewRequest("POST", "/posts", nil)
	req.Header.Set("X-Admin-Token", "not-the-token")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", w.Code)
	}

	// Valid token
	req = httptest.NewRequest("POST", "/posts", nil)
	req.Header.Set("X-Admin-Token", auth.GenerateAdminToken(salt))
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", w.Code)
	}
	if !called {
		t.Error("handler should run with a valid token")
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "You have already voted")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Error != http.StatusText(http.StatusConflict) {
		t.Errorf("expected error %q, got %q", http.StatusText(http.StatusConflict), resp.Error)
	}
	if resp.Message != "You have already voted" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run for preflight")
	})
	handler := CORS(inner)

	req := httptest.NewRequest("OPTIONS", "/poll/vote", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("expected origin echo, got %q", got)
	}
}
