// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"codeberg.org/oliverandrich/cafe-directory/internal/config"
	"codeberg.org/oliverandrich/cafe-directory/internal/database"
	"codeberg.org/oliverandrich/cafe-directory/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "cafe-directory",
		Usage:   "Run the cafe directory web application",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			migrateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// migrateCommand inspects and rolls back the schema. Opening the database
// always applies pending migrations first.
func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage database migrations",
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(cmd, func(db *sql.DB) error {
						version, err := database.SchemaVersion(db)
						if err != nil {
							return err
						}
						fmt.Println(version)
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the last migration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(cmd, func(db *sql.DB) error {
						return database.MigrateDown(db)
					})
				},
			},
			{
				Name:  "reset",
				Usage: "Roll back all migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(cmd, func(db *sql.DB) error {
						return database.MigrateReset(db)
					})
				},
			},
		},
	}
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(cmd *cli.Command, fn func(db *sql.DB) error) error {
	cfg := config.NewFromCLI(cmd)
	conn, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()
	return fn(conn.DB)
}
