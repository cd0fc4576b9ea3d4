package main

import (
	"fmt"
	"os"

	"github.com/orgnotes/orgnotes/db"
	"github.com/orgnotes/orgnotes/internal/config"
	"github.com/orgnotes/orgnotes/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:           "orgnotes",
		Short:         "Multi-tenant notes API with organization scoped users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("database-driver", "", "database driver: postgres, mysql or sqlite")
	flags.String("database-url", "", "database connection string")
	_ = v.BindPFlag("database_driver", flags.Lookup("database-driver"))
	_ = v.BindPFlag("database_url", flags.Lookup("database-url"))

	cmd.AddCommand(newServeCommand(v), newMigrateCommand(v))

	return cmd
}

// bootstrap loads the configuration and opens the logger and database every command needs.
func bootstrap(v *viper.Viper) (config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	database, err := db.ConnectDatabase(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	return cfg, log, database, nil
}
