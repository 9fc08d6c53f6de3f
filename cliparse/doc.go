// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - TokenSecret: Secret for identity token HMAC (required)
  - SweepInterval: How often election statuses are advanced (default: 30s, 0 disables)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-token-secret  Identity token secret
	-sweep         Status sweep interval
	-env-file      Environment file to load

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	TOKEN_SECRET          → -token-secret
	STATUS_SWEEP_INTERVAL → -sweep

CLI flags take precedence over environment variables. A .env file in the
working directory (or the one named by -env-file) is loaded first and
never overrides variables that are already set.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - TOKEN_SECRET must be provided
*/
package cliparse
