// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the election API server.

The server backs an election news site: blog posts, constituencies and
candidates, historical election results, reader polls with duplicate-vote
prevention, candidate popularity votes, and read-only analytics
(swing-state classification, blunder margin analysis, parliament seat
breakdown).

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3318 -d "postgres://..."

A .env file in the working directory is loaded before environment
variables are consulted.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string (or sqlite path)
  - ADMIN_TOKEN_SALT (--admin-salt): Secret for admin token HMAC
  - IDENTITY_SALT (--identity-salt): Secret for voter IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): "postgres" or "sqlite" (default: postgres)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voting, analytics, polls, content, elections)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, admin gating
  - models: Request/response types and party metadata
  - auth: Admin token validation and identity hashing
  - db: Schema creation and constraint-violation detection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
