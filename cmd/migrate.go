package cmd

import (
	"os"

	"github.com/edushare/edushare/application/dependency"
	model "github.com/edushare/edushare/models"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables and exit",
	Run: func(cmd *cobra.Command, args []string) {
		dep := dependency.NewDependency(
			dependency.WithConfigPath(confPath),
		)
		logger := dep.Logger()

		db, err := model.Open(logger, dep.ConfigProvider())
		if err != nil {
			logger.Error("Failed to connect database: %s", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := model.Migrate(db, logger); err != nil {
			logger.Error("Failed to migrate: %s", err)
			os.Exit(1)
		}

		logger.Info("Database is ready.")
	},
}
