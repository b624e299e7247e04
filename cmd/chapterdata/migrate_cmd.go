package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/greekops/chapterdata/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run database schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(args[0])
		},
	}
	return cmd
}

func runMigrate(direction string) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("failed to close migration connection")
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return withCode(exitDB, err)
	}

	switch direction {
	case "up":
		err = goose.Up(db, conf.MigrationsDir)
	case "down":
		err = goose.Down(db, conf.MigrationsDir)
	case "status":
		err = goose.Status(db, conf.MigrationsDir)
	default:
		return withCode(exitUsage, fmt.Errorf("unknown migrate direction %q", direction))
	}
	if err != nil {
		return withCode(exitDB, err)
	}
	logger.WithField("direction", direction).Info("migrations finished")
	return nil
}
