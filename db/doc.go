// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open connects to PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:elect.db")

SQLite connections are limited to one open connection and get
foreign_keys and busy_timeout pragmas unless the URL sets its own.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: Election definition, status and denormalized totals
  - candidate: Candidates per election with a denormalized vote count
  - vote: The vote ledger

# Relationships

	election 1──* candidate
	election 1──* vote
	candidate 1──* vote

Candidates cascade with their election. Votes do not cascade: an election
or candidate that has votes cannot be deleted.

# Constraints

  - vote.(user_id, election_id) unique: at most one vote per voter per election
  - candidate.(election_id, name) unique
  - election.start_time < election.end_time
  - all counters non-negative
*/
package db
