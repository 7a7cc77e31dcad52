// Copyright 2025 The ephios team
// Licensed under the MIT license

package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/olewun/ephios/internal/config"
	"github.com/olewun/ephios/internal/database"
	"github.com/olewun/ephios/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "ephios",
		Usage:  "Volunteer management for rescue services",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{
						Name:   "status",
						Usage:  "Show applied and pending migrations",
						Action: migrateAction(database.MigrateStatus),
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Action: migrateAction(database.MigrateDown),
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations",
						Action: migrateAction(database.MigrateReset),
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// migrateAction opens the configured database without auto-migrating and
// hands it to the migration helper.
func migrateAction(fn func(*sql.DB) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		db, err := database.OpenWithoutMigrations(cmd.String("database-dsn"))
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		return fn(db.DB)
	}
}
