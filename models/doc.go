// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CastVoteRequest: poll_id, question_index, option_key, fingerprint
  - PopularityVoteRequest: fp, candidate_name, constituency_id
  - CreatePollRequest: poll with nested questions and options
  - CreatePostRequest, CreateConstituencyRequest, AddCandidateRequest,
    CreateResultRequest: admin seeding/CRUD payloads

# Response Types

Types for JSON responses:

  - CastVoteResponse: message plus the refreshed poll aggregate
  - PopularityVoteResponse: candidate_name, popularity, message
  - PopularityStatusResponse: voted
  - BlunderResponse, ParliamentResponse, SwingStateEntry: analytics output
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Post, Constituency, Candidate: content and election entities
  - Poll, Question, Option: reader polls with per-option counters
  - Vote: write-once ballot audit row (identity fields never serialized)
  - ElectionResult, ResultCandidate: immutable historical outcomes

# Constants

Classifier labels:

	LabelSolid       = "solid"
	LabelLeaning     = "leaning"
	LabelTossUp      = "toss_up"
	LabelCompetitive = "competitive"

Stability tiers:

	StabilityVeryHigh = "very_high"
	StabilityHigh     = "high"
	StabilityLow      = "low"
	StabilityModerate = "moderate"

SwingTerms fixes the parliamentary terms the classifier considers, and
PartyColor resolves display colors with a neutral fallback for unknown
parties.
*/
package models
