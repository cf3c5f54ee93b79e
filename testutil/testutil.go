// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rijeet/Election-sub001/cliparse"
	"github.com/rijeet/Election-sub001/db"
	"github.com/rijeet/Election-sub001/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// production schema. Each test gets its own database, so no cleanup
// between tests is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// A unique shared-cache name keeps the database alive across the
	// pool's connections for the duration of the test
	dsn := "file:testdb-" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// sqlite allows one writer; serialize the pool
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminSalt:    "test-admin-salt",
		IdentitySalt: "test-identity-salt",
	}
}

// CreateTestPoll inserts a two-option yes/no poll and returns its ID
func CreateTestPoll(t *testing.T, conn *sql.DB) string {
	t.Helper()

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll (id, title_en, title_bn, created_at)
		VALUES ($1, 'Election Poll', 'নির্বাচনী জরিপ', $2)
	`, pollID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO poll_question (poll_id, question_idx, text_en, text_bn)
		VALUES ($1, 0, 'Will you vote?', 'আপনি কি ভোট দেবেন?')
	`, pollID)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	for i, opt := range []struct{ key, en, bn string }{
		{"yes", "Yes", "হ্যাঁ"},
		{"no", "No", "না"},
	} {
		_, err = conn.Exec(`
			INSERT INTO poll_option (poll_id, question_idx, opt_key, label_en, label_bn, position, votes)
			VALUES ($1, 0, $2, $3, $4, $5, 0)
		`, pollID, opt.key, opt.en, opt.bn, i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return pollID
}

// CreateTestConstituency inserts a constituency and returns its ID
func CreateTestConstituency(t *testing.T, conn *sql.DB, id, name string) string {
	t.Helper()

	if id == "" {
		id = uuid.NewString()
	}
	_, err := conn.Exec(`
		INSERT INTO constituency (id, name, division)
		VALUES ($1, $2, 'Dhaka')
	`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test constituency: %v", err)
	}

	return id
}

// AddTestCandidate adds a candidate to a constituency and returns the candidate ID
func AddTestCandidate(t *testing.T, conn *sql.DB, constituencyID, name, party string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, constituency_id, name, party, popularity)
		VALUES ($1, $2, $3, $4, 0)
	`, candidateID, constituencyID, name, party)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// InsertTestResult seeds one election_result row with its candidates
// and returns the result ID
func InsertTestResult(t *testing.T, conn *sql.DB, constituencyID string, parliament int, winnerParty string, difference int, candidates []models.ResultCandidate) string {
	t.Helper()

	resultID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO election_result (id, constituency_id, constituency_name, parliament, winner_party, difference, difference_pct, election_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '2008-12-29')
	`, resultID, constituencyID, "Constituency "+constituencyID, parliament, winnerParty, difference, 5.0)
	if err != nil {
		t.Fatalf("Failed to create test result: %v", err)
	}

	for _, c := range candidates {
		_, err := conn.Exec(`
			INSERT INTO result_candidate (result_id, name, party, votes)
			VALUES ($1, $2, $3, $4)
		`, resultID, c.Name, c.Party, c.Votes)
		if err != nil {
			t.Fatalf("Failed to create test result candidate: %v", err)
		}
	}

	return resultID
}

// InsertTestPost seeds a post row and returns its ID
func InsertTestPost(t *testing.T, conn *sql.DB, title, category string) string {
	t.Helper()

	postID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO post (id, title, category, content, author, created_at, updated_at)
		VALUES ($1, $2, $3, 'Body text.', 'Reporter', $4, $5)
	`, postID, title, category, now, now)
	if err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return postID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
