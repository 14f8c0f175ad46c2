package main

import (
	"github.com/spf13/cobra"

	"github.com/workshopkit/wrench/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render("Database is up to date"))
			return nil
		},
	}
}
