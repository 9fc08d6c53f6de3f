// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
	"github.com/danielhkuo/quickly-elect/voting"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "electionctl",
		Usage:   "administer quickly-elect elections",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "database URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "database type (sqlite or postgres)",
				Value:   db.TypeSQLite,
				EnvVars: []string{"DATABASE_TYPE"},
			},
		},
		Before: func(c *cli.Context) error {
			// Values already in the environment win over .env
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create the schema",
				Action: migrate,
			},
			{
				Name:  "token",
				Usage: "mint an identity token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "user id", Required: true},
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "voter or admin", Value: models.RoleVoter},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: 24 * time.Hour},
					&cli.StringFlag{Name: "token-secret", Usage: "signing secret", EnvVars: []string{"TOKEN_SECRET"}, Required: true},
				},
				Action: mintToken,
			},
			{
				Name:      "tally",
				Usage:     "print ranked results for an election",
				ArgsUsage: "ELECTION_ID",
				Action:    tally,
			},
			{
				Name:      "audit",
				Usage:     "compare counters with the vote ledger",
				ArgsUsage: "ELECTION_ID",
				Action:    audit,
			},
			{
				Name:      "reconcile",
				Usage:     "rebuild counters from the vote ledger",
				ArgsUsage: "ELECTION_ID",
				Action:    reconcile,
			},
			{
				Name:   "sweep",
				Usage:  "apply due status transitions once",
				Action: sweep,
			},
		},
	}
}

func connect(c *cli.Context) (*sql.DB, error) {
	url := c.String("db")
	if url == "" {
		return nil, cli.Exit("database URL required (use --db or DATABASE_URL env)", 1)
	}
	return db.Open(c.String("type"), url)
}

func electionArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit("specify exactly one election id", 1)
	}
	return c.Args().First(), nil
}

func migrate(c *cli.Context) error {
	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "schema ready")
	return nil
}

func mintToken(c *cli.Context) error {
	id := auth.Identity{UserID: c.String("user"), Role: c.String("role")}
	token, err := auth.IssueToken(id, c.String("token-secret"), c.Duration("ttl"), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func tally(c *cli.Context) error {
	electionID, err := electionArg(c)
	if err != nil {
		return err
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	view, err := voting.NewAggregator(store.New(conn)).Results(c.Context, electionID, true)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s (%s)\n", view.Election.Title, view.Election.Status)
	fmt.Fprintf(w, "%s votes cast\n", humanize.Comma(int64(view.Election.TotalVotesCast)))
	for _, r := range view.Candidates {
		party := r.Party
		if party == "" {
			party = models.PartyIndependent
		}
		fmt.Fprintf(w, "%-5s %-30s %-20s %10s %7s%%\n",
			humanize.Ordinal(r.Rank), r.Name, party, humanize.Comma(int64(r.VoteCount)), r.VotePercentage)
	}
	return nil
}

func printDrift(c *cli.Context, drift []models.CounterDrift) {
	w := c.App.Writer
	for _, d := range drift {
		target := "election total"
		if d.CandidateID != "" {
			target = "candidate " + d.CandidateID
		}
		fmt.Fprintf(w, "%s: stored %s, ledger %s\n", target, humanize.Comma(int64(d.Stored)), humanize.Comma(int64(d.Ledger)))
	}
}

func audit(c *cli.Context) error {
	electionID, err := electionArg(c)
	if err != nil {
		return err
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	drift, err := voting.NewService(store.New(conn)).AuditCounters(c.Context, electionID)
	if err != nil {
		return err
	}
	if len(drift) == 0 {
		fmt.Fprintln(c.App.Writer, "counters consistent")
		return nil
	}
	printDrift(c, drift)
	return cli.Exit(fmt.Sprintf("%d counters drifted", len(drift)), 2)
}

func reconcile(c *cli.Context) error {
	electionID, err := electionArg(c)
	if err != nil {
		return err
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	drift, err := voting.NewService(store.New(conn)).ReconcileCounters(c.Context, electionID)
	if err != nil {
		return err
	}
	printDrift(c, drift)
	fmt.Fprintf(c.App.Writer, "reconciled %d counters\n", len(drift))
	return nil
}

func sweep(c *cli.Context) error {
	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	n, err := voting.NewLifecycle(store.New(conn)).Sweep(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s advanced\n", english.Plural(n, "election", ""))
	return nil
}
