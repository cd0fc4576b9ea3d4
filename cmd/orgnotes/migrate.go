package main

import (
	"github.com/orgnotes/orgnotes/db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newMigrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, database, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := db.MigrateDatabase(database); err != nil {
				return err
			}

			log.Info("Database migrated")
			return nil
		},
	}
}
