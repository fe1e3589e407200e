package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eslsoft/lessonmap/internal/adapter/db"
	"github.com/eslsoft/lessonmap/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the lessons and users tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		drv, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer drv.Close()

		if err := db.Migrate(cmd.Context(), drv); err != nil {
			return err
		}
		cmd.Println("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
