// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and environment variables.

# Precedence

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded (via godotenv) before the environment is read.

	-p / PORT                          Server port (default 3318)
	-d / DATABASE_URL                  Database connection string (required)
	-t / DATABASE_TYPE                 postgres or sqlite (default postgres)
	--admin-salt / ADMIN_TOKEN_SALT    Admin token HMAC secret (required)
	--identity-salt / IDENTITY_SALT    Voter IP hash secret (required)

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

Secrets must be provided; ParseFlags fails fast when they are absent so a
misconfigured deployment never starts with guessable defaults.
*/
package cliparse
