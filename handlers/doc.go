// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VotingHandler: Poll ballots and candidate popularity votes
  - AnalyticsHandler: Swing-state, blunder, and parliament views
  - PollHandler: Poll retrieval and admin seeding
  - ContentHandler: Blog post CRUD
  - ElectionHandler: Constituency, candidate, and result CRUD

Handlers are created via constructor functions that accept *sql.DB and Config:

	votingHandler := handlers.NewVotingHandler(db, cfg)

# Vote Integrity

Duplicate-vote prevention follows one pattern everywhere: a fast-path
existence check, then an INSERT whose UNIQUE-constraint failure is the
authoritative duplicate signal, then an atomic counter UPDATE — all in
one transaction with the audit row written before the counter moves.
Races and pre-check hits produce the same 409 response.

	POST /poll/vote        → CastVote (one vote per identity per question)
	POST /popularity-vote  → CastPopularityVote (one per device per candidate)
	GET  /popularity-vote  → GetPopularityStatus

Identity is the salted hash of the client IP plus an opaque device
fingerprint. Both are best-effort signals, not cryptographic ones.

# Analytics

The classifier and blunder analysis are implemented as pure
computations over election_result rows in analytics.go:

	entries, err := ComputeSwingStates(db, models.SwingTerms)
	resp, err := ComputeBlunder(db, parliament)

ComputeSwingStates tallies per-party wins per constituency across the
fixed term set and labels each constituency solid, leaning, toss_up, or
competitive. ComputeBlunder ranks the runner-up party's nearest losing
margins and sums the votes needed to close the seat gap.

# Admin CRUD

Post, constituency, candidate, result, and poll mutation endpoints are
gated by middleware.RequireAdmin and stay thin: validate, write, 201.
*/
package handlers
