// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes using Go 1.22+ method patterns.

# Public Routes

	POST /poll/vote                  Cast a poll ballot
	POST /popularity-vote            Cast a candidate popularity vote
	GET  /popularity-vote            Check whether an identity voted
	GET  /swing-state                Constituency stability classification
	GET  /blunder                    Near-miss margin analysis for a term
	GET  /parliament                 Seat breakdown for a term
	GET  /polls/{id}                 Poll aggregate with counters
	GET  /posts, /posts/{id}         Blog content
	GET  /constituencies[...]        Districts and candidates
	GET  /results                    Historical results for a term
	GET  /health                     Liveness probe

# Admin Routes

Create/update/delete for posts, constituencies, candidates, results,
and polls require the X-Admin-Token header, enforced by
middleware.RequireAdmin.

All routes are wrapped in middleware.WithLogging.
*/
package router
