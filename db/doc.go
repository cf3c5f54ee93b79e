// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and constraint-error detection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL is kept portable across postgres and sqlite.

# Tables

The schema includes:

  - post: Blog/news articles
  - constituency: Electoral districts
  - candidate: Candidates per constituency, with popularity counter
  - election_result: Historical outcomes per (constituency, parliament)
  - result_candidate: Per-candidate vote counts for a result
  - poll / poll_question / poll_option: Reader polls with vote counters
  - vote: One row per accepted poll ballot
  - popularity_vote: Fingerprint log for candidate popularity votes

# Integrity Constraints

Duplicate-vote prevention is enforced at the storage layer, not in
handler code:

  - vote UNIQUE (poll_id, question_idx, ip_hash)
  - vote UNIQUE (poll_id, question_idx, fingerprint)
  - popularity_vote UNIQUE (fingerprint, candidate_name)
  - election_result UNIQUE (constituency_id, parliament)

IsUniqueViolation classifies a driver error as a uniqueness failure for
both supported drivers, so handlers can map races and pre-check hits to
the same response.

# Relationships

	constituency 1──* candidate
	election_result 1──* result_candidate
	poll 1──* poll_question 1──* poll_option
	poll 1──* vote

Foreign keys use ON DELETE CASCADE.
*/
package db
