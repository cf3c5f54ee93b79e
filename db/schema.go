// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a storage-level uniqueness
// constraint failure, for either backing driver. The unique constraints
// are the authoritative duplicate-vote arbiter; pre-checks in handler
// code are only a fast path.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// postgres (lib/pq): class 23, code 23505 unique_violation
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	// sqlite (modernc) reports constraint failures by message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Schema is kept portable across postgres and sqlite: no NOW()/JSONB,
// timestamps are written from Go.
const schema = `
-- Blog posts
CREATE TABLE IF NOT EXISTS post (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    content TEXT NOT NULL,
    image_url TEXT,
    author TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_post_category ON post(category);

-- Electoral districts
CREATE TABLE IF NOT EXISTS constituency (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    division TEXT NOT NULL
);

-- Candidates standing in a constituency; popularity is the
-- popularity-vote counter, mutated only by atomic increments
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    constituency_id TEXT NOT NULL REFERENCES constituency(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    symbol TEXT,
    popularity INTEGER NOT NULL DEFAULT 0,
    UNIQUE (constituency_id, name)
);

CREATE INDEX IF NOT EXISTS idx_candidate_constituency ON candidate(constituency_id);

-- Historical election outcomes, one row per (constituency, parliament).
-- Immutable once seeded.
CREATE TABLE IF NOT EXISTS election_result (
    id TEXT PRIMARY KEY,
    constituency_id TEXT NOT NULL,
    constituency_name TEXT NOT NULL,
    parliament INTEGER NOT NULL,
    winner_party TEXT NOT NULL,
    difference INTEGER NOT NULL,
    difference_pct REAL NOT NULL,
    election_date TEXT NOT NULL,
    UNIQUE (constituency_id, parliament)
);

CREATE INDEX IF NOT EXISTS idx_election_result_parliament ON election_result(parliament);
CREATE INDEX IF NOT EXISTS idx_election_result_constituency ON election_result(constituency_id);

-- Per-candidate vote counts for one result row
CREATE TABLE IF NOT EXISTS result_candidate (
    result_id TEXT NOT NULL REFERENCES election_result(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    votes INTEGER NOT NULL,
    PRIMARY KEY (result_id, name)
);

CREATE INDEX IF NOT EXISTS idx_result_candidate_party ON result_candidate(party);

-- Reader polls with localized titles
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title_en TEXT NOT NULL,
    title_bn TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS poll_question (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_idx INTEGER NOT NULL,
    text_en TEXT NOT NULL,
    text_bn TEXT NOT NULL,
    PRIMARY KEY (poll_id, question_idx)
);

CREATE TABLE IF NOT EXISTS poll_option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_idx INTEGER NOT NULL,
    opt_key TEXT NOT NULL,
    label_en TEXT NOT NULL,
    label_bn TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    votes INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (poll_id, question_idx, opt_key)
);

-- One row per accepted ballot. The two UNIQUE constraints arbitrate
-- the duplicate-vote race: the second writer's insert fails regardless
-- of interleaving.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_idx INTEGER NOT NULL,
    opt_key TEXT NOT NULL,
    ip_hash TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, question_idx, ip_hash),
    UNIQUE (poll_id, question_idx, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll ON vote(poll_id);

-- Fingerprint log for candidate popularity votes, one vote per device
-- per candidate, independent of poll identity
CREATE TABLE IF NOT EXISTS popularity_vote (
    fingerprint TEXT NOT NULL,
    constituency_id TEXT NOT NULL,
    candidate_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (fingerprint, candidate_name)
);

CREATE INDEX IF NOT EXISTS idx_popularity_vote_candidate ON popularity_vote(candidate_name);
`
