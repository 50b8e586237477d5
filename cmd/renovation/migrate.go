package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markremodeling/renovation/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  `The server migrates on start. These commands exist for inspection and rollback.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *db.DB) error {
			if err := d.MigrateUp(db.MigrationsFS()); err != nil {
				return err
			}
			return printVersion(cmd, d)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *db.DB) error {
			if err := d.MigrateDown(db.MigrationsFS()); err != nil {
				return err
			}
			return printVersion(cmd, d)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *db.DB) error {
			return printVersion(cmd, d)
		})
	},
}

func withDB(fn func(*db.DB) error) error {
	d, err := db.OpenDB(cfg.Storage.DBPath, logger)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

func printVersion(cmd *cobra.Command, d *db.DB) error {
	version, dirty, err := d.MigrateVersion(db.MigrationsFS())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
	return err
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
