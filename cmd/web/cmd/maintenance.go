package cmd

import (
	"fmt"

	"archived_backend/database"
	"archived_backend/internal/app"
	"archived_backend/internal/logger"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services"

	"github.com/spf13/cobra"
)

var forceReset bool

var resetDBCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Удалить все таблицы и создать их заново (данные теряются)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !forceReset {
			return fmt.Errorf("reset-db удаляет все данные, подтвердите флагом --force")
		}

		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		if err := database.Reset(db.WithContext(cmd.Context())); err != nil {
			return err
		}

		logger.Info("Database reset completed")
		fmt.Fprintln(cmd.OutOrStdout(), "Database reset completed")
		return nil
	},
}

var cleanupTagsCmd = &cobra.Command{
	Use:   "cleanup-tags",
	Short: "Удалить теги, не привязанные ни к одному предмету",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}

		maintenance := services.NewMaintenanceService(
			repositories.NewTagRepository(),
			repositories.NewRefreshTokenRepository(),
			nil,
		)
		removed, err := maintenance.CleanupUnusedTags(db.WithContext(cmd.Context()))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d unused tags\n", removed)
		return nil
	},
}

func init() {
	resetDBCmd.Flags().BoolVar(&forceReset, "force", false, "подтвердить удаление всех данных")
}
