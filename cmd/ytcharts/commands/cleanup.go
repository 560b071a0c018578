package commands

import (
	"log/slog"
	"ytcharts-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Deletes expired backups and week databases.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service := createArchive(cfg)

		backups, err := service.CleanupBackups(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to clean up backups", err)
		}
		databases, err := service.CleanupDatabases(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to clean up databases", err)
		}

		slog.Info("cleanup finished", "backups_deleted", backups, "databases_deleted", databases)
	},
}
