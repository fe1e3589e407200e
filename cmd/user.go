package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eslsoft/lessonmap/internal/adapter/db"
	"github.com/eslsoft/lessonmap/internal/config"
	"github.com/eslsoft/lessonmap/internal/core"
	"github.com/eslsoft/lessonmap/internal/usecase"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddFlags core.RegisterUserParams

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user and print its id",
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

		users := usecase.NewUserService(db.NewUserRepository(drv))
		user, err := users.RegisterUser(cmd.Context(), userAddFlags)
		if err != nil {
			return err
		}
		cmd.Println(user.ID.String())
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userAddFlags.Name, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userAddFlags.Email, "email", "", "email address")
	userAddCmd.Flags().StringVar(&userAddFlags.Image, "image", "", "avatar image reference")
	_ = userAddCmd.MarkFlagRequired("name")
	_ = userAddCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
